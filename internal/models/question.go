package models

import "time"

type Option struct {
	ID   string `bson:"id" json:"id"`
	Text string `bson:"text" json:"text"`
}

const (
	QuestionTypeMCQ       = "mcq"
	QuestionTypeTrueFalse = "true_false"

	DefaultQuestionMarks = 4
)

// Question is one entry in the global question pool. UsedInQuizzes is a
// global popularity counter incremented once per question per committed
// quiz; it plays no part in selection.
type Question struct {
	ID            string    `bson:"_id,omitempty" json:"id"`
	Subject       string    `bson:"subject" json:"subject"`
	Chapter       string    `bson:"chapter" json:"chapter"`
	QuestionText  string    `bson:"question_text" json:"question_text"`
	Type          string    `bson:"type" json:"type"`
	Options       []Option  `bson:"options" json:"options"`
	CorrectAnswer string    `bson:"correct_answer" json:"correct_answer"`
	Explanation   string    `bson:"explanation,omitempty" json:"explanation,omitempty"`
	Marks         int       `bson:"marks" json:"marks"`
	UsedInQuizzes int       `bson:"used_in_quizzes" json:"used_in_quizzes"`
	CreatedBy     string    `bson:"created_by,omitempty" json:"created_by,omitempty"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updated_at"`
}

// ApplyDefaults fills optional fields. Pool documents come from several
// import paths, so defaults are resolved once at the selection boundary
// instead of at every use site.
func (q *Question) ApplyDefaults() {
	if q.Type == "" {
		q.Type = QuestionTypeMCQ
	}
	if q.Marks == 0 {
		q.Marks = DefaultQuestionMarks
	}
}
