package selection

import "mockquiz-service/internal/models"

// SubjectRequest asks for a number of questions from one subject,
// optionally narrowed to specific chapters.
type SubjectRequest struct {
	Subject  string   `json:"subject"`
	Chapters []string `json:"chapters,omitempty"`
	Count    int      `json:"count"`
}

// Result is the outcome of a selection run across all requested subjects.
type Result struct {
	// Selected holds the chosen questions in selection order, unseen
	// questions first within each subject.
	Selected []models.Question
	// SubjectsProcessed counts subjects that contributed at least one
	// question.
	SubjectsProcessed int
}

// IDs returns the question IDs of the selected set in order.
func (r *Result) IDs() []string {
	ids := make([]string, len(r.Selected))
	for i, q := range r.Selected {
		ids[i] = q.ID
	}
	return ids
}
