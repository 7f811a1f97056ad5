package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"mockquiz-service/internal/cache"
	"mockquiz-service/internal/event"
	"mockquiz-service/internal/models"
	"mockquiz-service/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// CreateAccessRuleRequest defines a quota rule for one test series.
type CreateAccessRuleRequest struct {
	SeriesID       string `json:"series_id" validate:"required,max=100"`
	SeriesName     string `json:"series_name" validate:"omitempty,max=200"`
	LimitCount     int    `json:"limit_count" validate:"required,min=1,max=10000"`
	LimitFrequency string `json:"limit_frequency" validate:"required,oneof=daily weekly monthly lifetime"`
}

// AccessRuleService administers the quota rules the resolver reads.
type AccessRuleService struct {
	rules       repository.AccessRuleStore
	enrollments repository.EnrollmentStore
	ruleCache   *cache.RuleCache
	publisher   *event.EventPublisher
	validate    *validator.Validate
	logger      *slog.Logger
}

func NewAccessRuleService(rules repository.AccessRuleStore, enrollments repository.EnrollmentStore, ruleCache *cache.RuleCache, publisher *event.EventPublisher, logger *slog.Logger) *AccessRuleService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccessRuleService{
		rules:       rules,
		enrollments: enrollments,
		ruleCache:   ruleCache,
		publisher:   publisher,
		validate:    validator.New(),
		logger:      logger,
	}
}

func (s *AccessRuleService) CreateRule(ctx context.Context, req *CreateAccessRuleRequest) (*models.AccessRule, error) {
	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			return nil, NewValidationError("invalid field %q: failed %q constraint", f.Field(), f.Tag())
		}
		return nil, NewValidationError("invalid rule: %v", err)
	}
	now := time.Now()
	rule := &models.AccessRule{
		ID:             uuid.NewString(),
		SeriesID:       req.SeriesID,
		SeriesName:     req.SeriesName,
		LimitCount:     req.LimitCount,
		LimitFrequency: models.LimitFrequency(req.LimitFrequency),
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.rules.Create(ctx, rule); err != nil {
		return nil, err
	}
	s.afterRuleChange(ctx, rule.ID)
	return rule, nil
}

func (s *AccessRuleService) ListRules(ctx context.Context) ([]models.AccessRule, error) {
	return s.rules.FindAll(ctx)
}

func (s *AccessRuleService) GetRule(ctx context.Context, id string) (*models.AccessRule, error) {
	rule, err := s.rules.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, ErrNotFound
	}
	return rule, nil
}

func (s *AccessRuleService) UpdateRule(ctx context.Context, id string, update map[string]any) error {
	existing, err := s.rules.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotFound
	}
	for field, value := range update {
		switch field {
		case "series_name", "is_active":
		case "limit_count":
			if n, ok := value.(float64); !ok || n < 1 {
				return NewValidationError("limit_count must be a positive number")
			}
		case "limit_frequency":
			freq, _ := value.(string)
			switch models.LimitFrequency(freq) {
			case models.FrequencyDaily, models.FrequencyWeekly, models.FrequencyMonthly, models.FrequencyLifetime:
			default:
				return NewValidationError("unknown limit_frequency %q", freq)
			}
		default:
			return NewValidationError("field %q cannot be updated", field)
		}
	}
	if err := s.rules.Update(ctx, id, update); err != nil {
		return err
	}
	s.afterRuleChange(ctx, id)
	return nil
}

// DeactivateRule soft-deletes a rule; it stops matching enrollments but
// stays readable for audits.
func (s *AccessRuleService) DeactivateRule(ctx context.Context, id string) error {
	existing, err := s.rules.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotFound
	}
	if err := s.rules.Delete(ctx, id); err != nil {
		return err
	}
	s.afterRuleChange(ctx, id)
	return nil
}

// ListEnrollments exposes a student's enrollments for support tooling.
func (s *AccessRuleService) ListEnrollments(ctx context.Context, studentID string) ([]models.Enrollment, error) {
	return s.enrollments.FindByStudent(ctx, studentID)
}

func (s *AccessRuleService) afterRuleChange(ctx context.Context, ruleID string) {
	s.ruleCache.Invalidate(ctx)
	if s.publisher != nil {
		_ = s.publisher.Publish(event.AccessRuleChanged, map[string]any{"rule_id": ruleID})
	}
	s.logger.Info("access rule changed", "rule_id", ruleID)
}
