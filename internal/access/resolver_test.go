package access

import (
	"context"
	"errors"
	"testing"

	"mockquiz-service/internal/models"
	"mockquiz-service/internal/repository"
)

type fakeRuleStore struct {
	repository.AccessRuleStore
	rules []models.AccessRule
	err   error
}

func (f *fakeRuleStore) FindActive(ctx context.Context) ([]models.AccessRule, error) {
	return f.rules, f.err
}

type fakeEnrollmentStore struct {
	repository.EnrollmentStore
	enrollments []models.Enrollment
	err         error
}

func (f *fakeEnrollmentStore) FindEnrolledByStudent(ctx context.Context, studentID string) ([]models.Enrollment, error) {
	return f.enrollments, f.err
}

func rule(series string, count int, freq models.LimitFrequency) models.AccessRule {
	return models.AccessRule{SeriesID: series, LimitCount: count, LimitFrequency: freq, IsActive: true}
}

func enrolled(series, status string) models.Enrollment {
	return models.Enrollment{SeriesID: series, Status: status}
}

func TestResolveDefaultWhenNoRules(t *testing.T) {
	r := NewResolver(&fakeRuleStore{}, &fakeEnrollmentStore{}, nil, nil)

	limit, err := r.Resolve(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if limit != DefaultLimit {
		t.Errorf("limit = %+v, want default %+v", limit, DefaultLimit)
	}
}

func TestResolveEnrollmentRequired(t *testing.T) {
	rules := &fakeRuleStore{rules: []models.AccessRule{rule("series-a", 10, models.FrequencyWeekly)}}

	tests := []struct {
		name        string
		enrollments []models.Enrollment
	}{
		{name: "no enrollments at all", enrollments: nil},
		{name: "enrolled in uncovered series", enrollments: []models.Enrollment{enrolled("series-b", models.EnrollmentActive)}},
		{name: "inactive enrollment in covered series", enrollments: []models.Enrollment{enrolled("series-a", "cancelled")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(rules, &fakeEnrollmentStore{enrollments: tt.enrollments}, nil, nil)
			_, err := r.Resolve(context.Background(), "user-1")
			if !errors.Is(err, ErrEnrollmentRequired) {
				t.Errorf("err = %v, want ErrEnrollmentRequired", err)
			}
		})
	}
}

func TestResolveMostGenerousRuleWins(t *testing.T) {
	rules := &fakeRuleStore{rules: []models.AccessRule{
		rule("series-a", 5, models.FrequencyDaily),
		rule("series-b", 20, models.FrequencyMonthly),
		rule("series-c", 50, models.FrequencyLifetime),
	}}
	enrollments := &fakeEnrollmentStore{enrollments: []models.Enrollment{
		enrolled("series-a", models.EnrollmentActive),
		enrolled("series-b", models.EnrollmentPaid),
	}}

	r := NewResolver(rules, enrollments, nil, nil)
	limit, err := r.Resolve(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if limit.Count != 20 || limit.Frequency != models.FrequencyMonthly {
		t.Errorf("limit = %+v, want {20 monthly}", limit)
	}
}

func TestResolveAllEnrollmentStatuses(t *testing.T) {
	rules := &fakeRuleStore{rules: []models.AccessRule{rule("series-a", 10, models.FrequencyWeekly)}}

	for _, status := range []string{models.EnrollmentActive, models.EnrollmentPaid, models.EnrollmentEnrolled} {
		t.Run(status, func(t *testing.T) {
			enrollments := &fakeEnrollmentStore{enrollments: []models.Enrollment{enrolled("series-a", status)}}
			r := NewResolver(rules, enrollments, nil, nil)
			limit, err := r.Resolve(context.Background(), "user-1")
			if err != nil {
				t.Fatalf("Resolve returned error for status %q: %v", status, err)
			}
			if limit.Count != 10 {
				t.Errorf("limit.Count = %d, want 10", limit.Count)
			}
		})
	}
}

func TestResolveConfigurationError(t *testing.T) {
	storeErr := errors.New("connection reset")

	t.Run("rule store failure", func(t *testing.T) {
		r := NewResolver(&fakeRuleStore{err: storeErr}, &fakeEnrollmentStore{}, nil, nil)
		_, err := r.Resolve(context.Background(), "user-1")
		var cfgErr *ConfigurationError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("err = %v, want *ConfigurationError", err)
		}
		if !errors.Is(err, storeErr) {
			t.Errorf("ConfigurationError does not wrap the store error")
		}
	})

	t.Run("enrollment store failure", func(t *testing.T) {
		rules := &fakeRuleStore{rules: []models.AccessRule{rule("series-a", 10, models.FrequencyWeekly)}}
		r := NewResolver(rules, &fakeEnrollmentStore{err: storeErr}, nil, nil)
		_, err := r.Resolve(context.Background(), "user-1")
		var cfgErr *ConfigurationError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("err = %v, want *ConfigurationError", err)
		}
	})
}
