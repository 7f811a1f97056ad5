package access

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"mockquiz-service/internal/cache"
	"mockquiz-service/internal/models"
	"mockquiz-service/internal/repository"
)

// ErrEnrollmentRequired means access rules exist for the platform but the
// student is not enrolled in any series covered by an active rule.
var ErrEnrollmentRequired = errors.New("enrollment required: no active access rule matches your enrollments")

// ConfigurationError reports an access-rule lookup that failed for
// infrastructure reasons rather than a policy decision.
type ConfigurationError struct {
	Op  string
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("access configuration: %s: %v", e.Op, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// Limit is the quota a student is entitled to for the current period.
type Limit struct {
	Count     int                   `json:"count"`
	Frequency models.LimitFrequency `json:"frequency"`
}

// DefaultLimit applies when no access rules are configured at all, keeping
// a fresh deployment usable before any rules are seeded.
var DefaultLimit = Limit{Count: 7, Frequency: models.FrequencyWeekly}

// Resolver decides the quiz-creation limit for a student by intersecting
// their enrollments with the active access rules.
type Resolver struct {
	rules       repository.AccessRuleStore
	enrollments repository.EnrollmentStore
	cache       *cache.RuleCache
	logger      *slog.Logger
}

func NewResolver(rules repository.AccessRuleStore, enrollments repository.EnrollmentStore, ruleCache *cache.RuleCache, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{rules: rules, enrollments: enrollments, cache: ruleCache, logger: logger}
}

// Resolve returns the most generous limit among active rules matching the
// student's enrollments. No rules configured at all falls back to
// DefaultLimit; rules configured but none matching is ErrEnrollmentRequired.
func (r *Resolver) Resolve(ctx context.Context, userID string) (Limit, error) {
	rules, err := r.activeRules(ctx)
	if err != nil {
		return Limit{}, &ConfigurationError{Op: "load access rules", Err: err}
	}

	if len(rules) == 0 {
		r.logger.Info("no access rules configured, using default limit",
			"user_id", userID,
			"limit", DefaultLimit.Count,
			"frequency", DefaultLimit.Frequency)
		return DefaultLimit, nil
	}

	enrollments, err := r.enrollments.FindEnrolledByStudent(ctx, userID)
	if err != nil {
		return Limit{}, &ConfigurationError{Op: "load enrollments", Err: err}
	}

	enrolledSeries := make(map[string]bool, len(enrollments))
	for _, e := range enrollments {
		if e.CountsAsEnrolled() {
			enrolledSeries[e.SeriesID] = true
		}
	}

	var best *Limit
	for _, rule := range rules {
		if !enrolledSeries[rule.SeriesID] {
			continue
		}
		if best == nil || rule.LimitCount > best.Count {
			best = &Limit{Count: rule.LimitCount, Frequency: rule.LimitFrequency}
		}
	}
	if best == nil {
		return Limit{}, ErrEnrollmentRequired
	}

	r.logger.Info("resolved access limit",
		"user_id", userID,
		"limit", best.Count,
		"frequency", best.Frequency)
	return *best, nil
}

func (r *Resolver) activeRules(ctx context.Context) ([]models.AccessRule, error) {
	if rules, ok := r.cache.GetActiveRules(ctx); ok {
		return rules, nil
	}
	rules, err := r.rules.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	r.cache.SetActiveRules(ctx, rules)
	return rules, nil
}
