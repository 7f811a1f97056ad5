package service

import (
	"context"
	"testing"
	"time"

	"mockquiz-service/internal/access"
	"mockquiz-service/internal/models"
)

func newTestUsageService(store *memStore) *UsageService {
	resolver := access.NewResolver(&memRules{s: store}, &memEnrollments{s: store}, nil, nil)
	svc := NewUsageService(&memUsers{s: store}, &memUsage{s: store}, &memQuestions{s: store}, resolver, nil)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestUsageReport(t *testing.T) {
	store := newMemStore()
	store.users["user-1"] = models.User{
		ID:        "user-1",
		QuizUsage: models.QuizUsage{PeriodKey: "weekly-2026-W11", Count: 3},
	}
	store.usages["user-1:math"] = models.SubjectUsage{
		UserID: "user-1", Subject: "math",
		UsedQuestions: []string{"q1", "q2"},
		ChapterStats:  map[string]int{"ch1": 2},
	}
	svc := newTestUsageService(store)

	report, err := svc.Report(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Report returned error: %v", err)
	}
	if report.Used != 3 || report.Limit != 7 || report.Remaining != 4 {
		t.Errorf("report = used %d limit %d remaining %d, want 3/7/4", report.Used, report.Limit, report.Remaining)
	}
	if report.PeriodKey != "weekly-2026-W11" {
		t.Errorf("period key = %q, want weekly-2026-W11", report.PeriodKey)
	}
	if len(report.Subjects) != 1 || report.Subjects[0].UniqueServed != 2 {
		t.Errorf("subject reports = %+v, want one math entry with 2 served", report.Subjects)
	}
}

func TestUsageReportStaleCounterReadsAsZero(t *testing.T) {
	store := newMemStore()
	store.users["user-1"] = models.User{
		ID:        "user-1",
		QuizUsage: models.QuizUsage{PeriodKey: "weekly-2026-W10", Count: 7},
	}
	svc := newTestUsageService(store)

	report, err := svc.Report(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Report returned error: %v", err)
	}
	if report.Used != 0 || report.Remaining != 7 {
		t.Errorf("stale counter: used %d remaining %d, want 0/7", report.Used, report.Remaining)
	}
}

func TestSubjectPool(t *testing.T) {
	store := newMemStore()
	store.addQuestions("math", 6)
	store.usages["user-1:math"] = models.SubjectUsage{
		UserID: "user-1", Subject: "math",
		UsedQuestions: []string{"math-q0", "math-q1"},
		ChapterStats:  map[string]int{"ch0": 1, "ch1": 1},
	}
	svc := newTestUsageService(store)

	info, err := svc.SubjectPool(context.Background(), "user-1", "math")
	if err != nil {
		t.Fatalf("SubjectPool returned error: %v", err)
	}
	if info.Total != 6 || info.Seen != 2 || info.Unseen != 4 {
		t.Errorf("pool = total %d seen %d unseen %d, want 6/2/4", info.Total, info.Seen, info.Unseen)
	}

	if _, err := svc.SubjectPool(context.Background(), "user-1", ""); !IsValidationError(err) {
		t.Errorf("empty subject err = %v, want validation error", err)
	}
}
