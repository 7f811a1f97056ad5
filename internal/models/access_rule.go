package models

import "time"

type LimitFrequency string

const (
	FrequencyDaily    LimitFrequency = "daily"
	FrequencyWeekly   LimitFrequency = "weekly"
	FrequencyMonthly  LimitFrequency = "monthly"
	FrequencyLifetime LimitFrequency = "lifetime"
)

// AccessRule bounds how many mock quizzes a user enrolled in a test series
// may create per period. Rules are managed by administrators and are
// read-only to the quiz-creation workflow.
type AccessRule struct {
	ID             string         `bson:"_id,omitempty" json:"id"`
	SeriesID       string         `bson:"series_id" json:"series_id"`
	SeriesName     string         `bson:"series_name" json:"series_name"`
	LimitCount     int            `bson:"limit_count" json:"limit_count"`
	LimitFrequency LimitFrequency `bson:"limit_frequency" json:"limit_frequency"`
	IsActive       bool           `bson:"is_active" json:"is_active"`
	CreatedAt      time.Time      `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `bson:"updated_at" json:"updated_at"`
}
