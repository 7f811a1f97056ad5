package models

import "time"

// Quiz is the artifact produced by a successful mock-quiz creation. It
// carries a full snapshot of the chosen questions, not references, so a
// later edit or deletion of a pool question never changes a committed quiz.
type Quiz struct {
	ID               string     `bson:"_id" json:"id"`
	Title            string     `bson:"title" json:"title"`
	CreatedBy        string     `bson:"created_by" json:"created_by"`
	Subjects         []string   `bson:"subjects" json:"subjects"`
	Chapters         []string   `bson:"chapters" json:"chapters"`
	DurationMinutes  int        `bson:"duration_minutes" json:"duration_minutes"`
	QuestionCount    int        `bson:"question_count" json:"question_count"`
	QuestionsPerPage int        `bson:"questions_per_page" json:"questions_per_page"`
	Questions        []Question `bson:"questions" json:"questions"`
	CreatedAt        time.Time  `bson:"created_at" json:"created_at"`
}

// CreationReceipt records a quiz creation under an idempotency key. Written
// in the same transaction as the quiz so a client retry after a timeout
// returns the original quiz instead of consuming quota twice.
type CreationReceipt struct {
	ID        string    `bson:"_id" json:"id"` // userID:idempotencyKey
	UserID    string    `bson:"user_id" json:"user_id"`
	QuizID    string    `bson:"quiz_id" json:"quiz_id"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// ReceiptID builds the receipt document ID for a user-scoped idempotency key.
func ReceiptID(userID, key string) string {
	return userID + ":" + key
}
