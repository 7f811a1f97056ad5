package models

import "time"

// QuizUsage is the user's quiz-creation counter for the current period only.
// When the stored PeriodKey differs from the freshly computed one the
// effective count is 0; the reset is implicit, never written back on read.
type QuizUsage struct {
	PeriodKey   string    `bson:"period_key" json:"period_key"`
	Count       int       `bson:"count" json:"count"`
	LastUpdated time.Time `bson:"last_updated" json:"last_updated"`
}

// EffectiveCount returns the usage that counts against the quota for the
// given period key.
func (u QuizUsage) EffectiveCount(periodKey string) int {
	if u.PeriodKey != periodKey {
		return 0
	}
	return u.Count
}

type User struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	QuizUsage QuizUsage `bson:"quiz_usage" json:"quiz_usage"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
