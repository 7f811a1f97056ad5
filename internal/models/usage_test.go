package models

import (
	"testing"
)

func TestMergeUsed(t *testing.T) {
	testCases := []struct {
		name       string
		existing   []string
		incoming   []string
		wantAdded  []string
		wantTotal  int
	}{
		{"all new", []string{}, []string{"q1", "q2"}, []string{"q1", "q2"}, 2},
		{"all duplicates", []string{"q1", "q2"}, []string{"q1", "q2"}, []string{}, 2},
		{"mixed", []string{"q1"}, []string{"q1", "q2", "q3"}, []string{"q2", "q3"}, 3},
		{"duplicate within incoming", []string{}, []string{"q1", "q1", "q2"}, []string{"q1", "q2"}, 2},
		{"empty incoming", []string{"q1"}, []string{}, []string{}, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			usage := NewSubjectUsage("u1", "Biology")
			usage.UsedQuestions = append(usage.UsedQuestions, tc.existing...)

			added := usage.MergeUsed(tc.incoming)

			if len(added) != len(tc.wantAdded) {
				t.Fatalf("expected %d added IDs, got %d (%v)", len(tc.wantAdded), len(added), added)
			}
			for i, id := range tc.wantAdded {
				if added[i] != id {
					t.Errorf("added[%d]: expected %s, got %s", i, id, added[i])
				}
			}
			if len(usage.UsedQuestions) != tc.wantTotal {
				t.Errorf("expected %d used questions, got %d", tc.wantTotal, len(usage.UsedQuestions))
			}

			// The set must never hold duplicates.
			seen := map[string]bool{}
			for _, id := range usage.UsedQuestions {
				if seen[id] {
					t.Errorf("duplicate question ID %s in used set", id)
				}
				seen[id] = true
			}
		})
	}
}

func TestMergeUsedNeverShrinks(t *testing.T) {
	usage := NewSubjectUsage("u1", "Physics")
	usage.MergeUsed([]string{"q1", "q2", "q3"})

	before := len(usage.UsedQuestions)
	usage.MergeUsed([]string{"q2"})
	usage.MergeUsed(nil)

	if len(usage.UsedQuestions) < before {
		t.Errorf("used set shrank from %d to %d", before, len(usage.UsedQuestions))
	}
}

func TestEffectiveCount(t *testing.T) {
	usage := QuizUsage{PeriodKey: "daily-2024-01-01", Count: 5}

	if got := usage.EffectiveCount("daily-2024-01-01"); got != 5 {
		t.Errorf("same period: expected 5, got %d", got)
	}
	if got := usage.EffectiveCount("daily-2024-01-02"); got != 0 {
		t.Errorf("new period: expected 0, got %d", got)
	}
}

func TestQuestionApplyDefaults(t *testing.T) {
	q := &Question{Subject: "Chemistry", Chapter: "Acids"}
	q.ApplyDefaults()

	if q.Type != QuestionTypeMCQ {
		t.Errorf("expected default type %s, got %s", QuestionTypeMCQ, q.Type)
	}
	if q.Marks != DefaultQuestionMarks {
		t.Errorf("expected default marks %d, got %d", DefaultQuestionMarks, q.Marks)
	}

	q2 := &Question{Type: QuestionTypeTrueFalse, Marks: 2}
	q2.ApplyDefaults()
	if q2.Type != QuestionTypeTrueFalse || q2.Marks != 2 {
		t.Errorf("defaults must not override explicit values, got type=%s marks=%d", q2.Type, q2.Marks)
	}
}
