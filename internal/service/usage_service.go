package service

import (
	"context"
	"log/slog"
	"time"

	"mockquiz-service/internal/access"
	"mockquiz-service/internal/models"
	"mockquiz-service/internal/repository"
)

// UsageReport summarizes a user's current quota standing and per-subject
// question history.
type UsageReport struct {
	UserID    string                `json:"user_id"`
	PeriodKey string                `json:"period_key"`
	Used      int                   `json:"used"`
	Limit     int                   `json:"limit"`
	Frequency models.LimitFrequency `json:"frequency"`
	Remaining int                   `json:"remaining"`
	Subjects  []SubjectReport       `json:"subjects"`
}

type SubjectReport struct {
	Subject       string         `json:"subject"`
	UniqueServed  int            `json:"unique_served"`
	ChapterStats  map[string]int `json:"chapter_stats"`
	LastUpdatedAt time.Time      `json:"last_updated_at"`
}

// PoolInfo describes the available question inventory for one subject,
// split into what the user has and has not seen.
type PoolInfo struct {
	Subject  string         `json:"subject"`
	Total    int            `json:"total"`
	Unseen   int            `json:"unseen"`
	Seen     int            `json:"seen"`
	Chapters map[string]int `json:"chapters"`
}

// UsageService answers read-only questions about quota and pool state.
type UsageService struct {
	users     repository.UserStore
	usage     repository.UsageStore
	questions repository.QuestionStore
	resolver  *access.Resolver
	logger    *slog.Logger
	now       func() time.Time
}

func NewUsageService(users repository.UserStore, usage repository.UsageStore, questions repository.QuestionStore, resolver *access.Resolver, logger *slog.Logger) *UsageService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UsageService{
		users:     users,
		usage:     usage,
		questions: questions,
		resolver:  resolver,
		logger:    logger,
		now:       time.Now,
	}
}

// Report resolves the user's current limit and compares it with the stored
// counter. A counter from an older period reads as zero.
func (s *UsageService) Report(ctx context.Context, userID string) (*UsageReport, error) {
	limit, err := s.resolver.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	periodKey := access.PeriodKey(limit.Frequency, s.now())

	used := 0
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		used = user.QuizUsage.EffectiveCount(periodKey)
	}

	usages, err := s.usage.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	subjects := make([]SubjectReport, 0, len(usages))
	for _, u := range usages {
		subjects = append(subjects, SubjectReport{
			Subject:       u.Subject,
			UniqueServed:  len(u.UsedQuestions),
			ChapterStats:  u.ChapterStats,
			LastUpdatedAt: u.UpdatedAt,
		})
	}

	remaining := limit.Count - used
	if remaining < 0 {
		remaining = 0
	}
	return &UsageReport{
		UserID:    userID,
		PeriodKey: periodKey,
		Used:      used,
		Limit:     limit.Count,
		Frequency: limit.Frequency,
		Remaining: remaining,
		Subjects:  subjects,
	}, nil
}

// SubjectPool reports how much fresh material remains for a user in one
// subject, so clients can warn before a quiz starts repeating questions.
func (s *UsageService) SubjectPool(ctx context.Context, userID, subject string) (*PoolInfo, error) {
	if subject == "" {
		return nil, NewValidationError("subject is required")
	}
	pool, err := s.questions.FindBySubject(ctx, subject)
	if err != nil {
		return nil, err
	}
	usage, err := s.usage.FindByUserAndSubject(ctx, userID, subject)
	if err != nil {
		return nil, err
	}
	used := usage.UsedSet()

	info := &PoolInfo{
		Subject:  subject,
		Total:    len(pool),
		Chapters: map[string]int{},
	}
	for _, q := range pool {
		info.Chapters[q.Chapter]++
		if used[q.ID] {
			info.Seen++
		} else {
			info.Unseen++
		}
	}
	return info, nil
}
