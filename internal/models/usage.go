package models

import "time"

// SubjectUsage tracks, per user and subject, which pool questions the user
// has already been served and how many questions per chapter.
type SubjectUsage struct {
	ID            string         `bson:"_id,omitempty" json:"id"`
	UserID        string         `bson:"user_id" json:"user_id"`
	Subject       string         `bson:"subject" json:"subject"`
	UsedQuestions []string       `bson:"used_questions" json:"used_questions"`
	ChapterStats  map[string]int `bson:"chapter_stats" json:"chapter_stats"`
	UpdatedAt     time.Time      `bson:"updated_at" json:"updated_at"`
}

func NewSubjectUsage(userID, subject string) *SubjectUsage {
	return &SubjectUsage{
		UserID:        userID,
		Subject:       subject,
		UsedQuestions: []string{},
		ChapterStats:  map[string]int{},
	}
}

// UsedSet returns the used-question IDs as a set for O(1) membership checks.
// A nil receiver yields an empty set, matching a user with no history.
func (u *SubjectUsage) UsedSet() map[string]bool {
	if u == nil {
		return map[string]bool{}
	}
	set := make(map[string]bool, len(u.UsedQuestions))
	for _, id := range u.UsedQuestions {
		set[id] = true
	}
	return set
}

// MergeUsed adds question IDs to the used set and returns the IDs that were
// actually new. The set only ever grows and never holds duplicates.
func (u *SubjectUsage) MergeUsed(ids []string) []string {
	existing := u.UsedSet()
	added := []string{}
	for _, id := range ids {
		if existing[id] {
			continue
		}
		existing[id] = true
		u.UsedQuestions = append(u.UsedQuestions, id)
		added = append(added, id)
	}
	return added
}

// RecordChapter increments the served-question counter for a chapter.
func (u *SubjectUsage) RecordChapter(chapter string) {
	if u.ChapterStats == nil {
		u.ChapterStats = map[string]int{}
	}
	u.ChapterStats[chapter]++
}
