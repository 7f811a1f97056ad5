package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"mockquiz-service/internal/access"
	"mockquiz-service/internal/event"
	"mockquiz-service/internal/metrics"
	"mockquiz-service/internal/models"
	"mockquiz-service/internal/repository"
	"mockquiz-service/internal/selection"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// maxTotalQuestions caps the questions in a single quiz across all subjects.
const maxTotalQuestions = 180

// CreateQuizRequest is the payload for creating a mock quiz. Chapters apply
// to every requested subject; QuestionsPerSubject maps subject name to how
// many questions to draw from it. IdempotencyKey is optional; retries
// carrying the same key get the original quiz back without consuming quota
// again.
type CreateQuizRequest struct {
	Title               string         `json:"title" validate:"omitempty,max=200"`
	Subjects            []string       `json:"subjects" validate:"required,min=1,max=10,dive,required,max=100"`
	Chapters            []string       `json:"chapters" validate:"required,min=1,dive,required,max=100"`
	QuestionsPerSubject map[string]int `json:"questions_per_subject" validate:"required,dive,min=0,max=180"`
	DurationMinutes     int            `json:"duration_minutes" validate:"required,min=1,max=180"`
	QuestionsPerPage    int            `json:"questions_per_page" validate:"omitempty,min=1,max=50"`
	IdempotencyKey      string         `json:"idempotency_key" validate:"omitempty,max=128"`
}

func (r *CreateQuizRequest) totalRequested() int {
	total := 0
	for _, subject := range r.Subjects {
		total += r.QuestionsPerSubject[subject]
	}
	return total
}

// QuizService owns the quiz creation workflow: resolve the user's limit,
// select questions, and commit quiz plus usage counters atomically.
type QuizService struct {
	quizzes   repository.QuizStore
	users     repository.UserStore
	usage     repository.UsageStore
	questions repository.QuestionStore
	receipts  repository.ReceiptStore
	tx        repository.TxRunner
	resolver  *access.Resolver
	selector  *selection.Selector
	publisher *event.EventPublisher
	validate  *validator.Validate
	logger    *slog.Logger
	now       func() time.Time
}

func NewQuizService(
	quizzes repository.QuizStore,
	users repository.UserStore,
	usage repository.UsageStore,
	questions repository.QuestionStore,
	receipts repository.ReceiptStore,
	tx repository.TxRunner,
	resolver *access.Resolver,
	selector *selection.Selector,
	publisher *event.EventPublisher,
	logger *slog.Logger,
) *QuizService {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuizService{
		quizzes:   quizzes,
		users:     users,
		usage:     usage,
		questions: questions,
		receipts:  receipts,
		tx:        tx,
		resolver:  resolver,
		selector:  selector,
		publisher: publisher,
		validate:  validator.New(),
		logger:    logger,
		now:       time.Now,
	}
}

// CreateMockQuiz runs the full creation workflow for one user request.
//
// The quota is checked twice: once up front to fail fast without touching
// the question pool, and again inside the commit transaction against a
// fresh read, so concurrent requests cannot both slip under the limit.
func (s *QuizService) CreateMockQuiz(ctx context.Context, userID string, req *CreateQuizRequest) (*models.Quiz, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	// The receipt lookup comes before any quota check: the original creation
	// may have consumed the last slot, and a retry with the same key must
	// still get that quiz back.
	if req.IdempotencyKey != "" {
		receipt, err := s.receipts.FindByKey(ctx, userID, req.IdempotencyKey)
		if err != nil {
			return nil, err
		}
		if receipt != nil {
			return s.replayReceipt(ctx, receipt)
		}
	}

	limit, err := s.resolver.Resolve(ctx, userID)
	if err != nil {
		if errors.Is(err, access.ErrEnrollmentRequired) {
			metrics.EnrollmentRejections.Inc()
		}
		return nil, err
	}
	periodKey := access.PeriodKey(limit.Frequency, s.now())

	// Fast-fail before the expensive selection work. The transaction below
	// re-checks against a fresh read, so this is only an optimization.
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user != nil && user.QuizUsage.EffectiveCount(periodKey) >= limit.Count {
		metrics.QuotaRejections.Inc()
		s.publishQuotaExceeded(userID, limit)
		return nil, &QuotaExceededError{Limit: limit.Count, Frequency: limit.Frequency}
	}

	result, err := s.selector.Select(ctx, userID, selectionRequests(req))
	if err != nil {
		return nil, err
	}

	quiz := s.buildQuiz(userID, req, result)
	replayed, err := s.commit(ctx, userID, req.IdempotencyKey, periodKey, limit, quiz, result)
	if err != nil {
		return nil, err
	}
	if replayed {
		// A racing request with the same key won the commit; the quiz now
		// holds its result and nothing new was created.
		return quiz, nil
	}

	metrics.QuizzesCreated.Inc()
	if len(result.Selected) < req.totalRequested() {
		metrics.SelectionShortfalls.Inc()
	}
	if s.publisher != nil {
		_ = s.publisher.Publish(event.QuizCreated, map[string]any{
			"quiz_id":        quiz.ID,
			"user_id":        userID,
			"question_count": quiz.QuestionCount,
			"subjects":       quiz.Subjects,
		})
	}

	s.logger.Info("mock quiz created",
		"quiz_id", quiz.ID,
		"user_id", userID,
		"questions", quiz.QuestionCount,
		"period_key", periodKey)
	return quiz, nil
}

// commit applies every write of a successful creation in one transaction:
// quota counter, quiz document, per-subject usage, question popularity, and
// the idempotency receipt.
func (s *QuizService) commit(ctx context.Context, userID, idemKey, periodKey string, limit access.Limit, quiz *models.Quiz, result *selection.Result) (bool, error) {
	var replayed *models.Quiz
	err := s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		replayed = nil

		if idemKey != "" {
			receipt, err := s.receipts.FindByKey(txCtx, userID, idemKey)
			if err != nil {
				return err
			}
			if receipt != nil {
				existing, err := s.quizzes.FindByID(txCtx, receipt.QuizID)
				if err != nil {
					return err
				}
				if existing == nil {
					existing = &models.Quiz{ID: receipt.QuizID}
				}
				replayed = existing
				return nil
			}
		}

		user, err := s.users.FindByID(txCtx, userID)
		if err != nil {
			return err
		}
		count := 0
		if user != nil {
			count = user.QuizUsage.EffectiveCount(periodKey)
		}
		if count >= limit.Count {
			return &QuotaExceededError{Limit: limit.Count, Frequency: limit.Frequency}
		}
		if err := s.users.UpsertQuizUsage(txCtx, userID, models.QuizUsage{
			PeriodKey:   periodKey,
			Count:       count + 1,
			LastUpdated: s.now(),
		}); err != nil {
			return err
		}

		if err := s.quizzes.Insert(txCtx, quiz); err != nil {
			return err
		}

		if err := s.recordUsage(txCtx, userID, result); err != nil {
			return err
		}
		if err := s.questions.IncrementUsedInQuizzes(txCtx, result.IDs()); err != nil {
			return err
		}

		if idemKey != "" {
			return s.receipts.Insert(txCtx, &models.CreationReceipt{
				ID:        models.ReceiptID(userID, idemKey),
				UserID:    userID,
				QuizID:    quiz.ID,
				CreatedAt: s.now(),
			})
		}
		return nil
	})
	if err != nil {
		if qe := new(QuotaExceededError); errors.As(err, &qe) {
			metrics.QuotaRejections.Inc()
			s.publishQuotaExceeded(userID, limit)
			return false, err
		}
		if isTransientTxError(err) {
			metrics.CommitConflicts.Inc()
			return false, &TransactionConflictError{Err: err}
		}
		return false, err
	}
	if replayed != nil {
		*quiz = *replayed
		return true, nil
	}
	return false, nil
}

// recordUsage merges the selected question IDs into each subject's usage
// document. Chapter counters only move for questions that are new to the
// user, so replays of previously seen questions do not inflate the stats.
func (s *QuizService) recordUsage(ctx context.Context, userID string, result *selection.Result) error {
	bySubject := make(map[string][]models.Question)
	for _, q := range result.Selected {
		bySubject[q.Subject] = append(bySubject[q.Subject], q)
	}
	for subject, qs := range bySubject {
		usage, err := s.usage.FindByUserAndSubject(ctx, userID, subject)
		if err != nil {
			return err
		}
		if usage == nil {
			usage = models.NewSubjectUsage(userID, subject)
		}
		ids := make([]string, len(qs))
		chapters := make(map[string]string, len(qs))
		for i, q := range qs {
			ids[i] = q.ID
			chapters[q.ID] = q.Chapter
		}
		for _, id := range usage.MergeUsed(ids) {
			usage.RecordChapter(chapters[id])
		}
		if err := s.usage.Upsert(ctx, usage); err != nil {
			return err
		}
	}
	return nil
}

func (s *QuizService) replayReceipt(ctx context.Context, receipt *models.CreationReceipt) (*models.Quiz, error) {
	quiz, err := s.quizzes.FindByID(ctx, receipt.QuizID)
	if err != nil {
		return nil, err
	}
	if quiz == nil {
		quiz = &models.Quiz{ID: receipt.QuizID}
	}
	s.logger.Info("idempotent replay, returning existing quiz",
		"quiz_id", receipt.QuizID,
		"user_id", receipt.UserID)
	return quiz, nil
}

func (s *QuizService) validateRequest(req *CreateQuizRequest) error {
	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			return NewValidationError("invalid field %q: failed %q constraint", f.Field(), f.Tag())
		}
		return NewValidationError("invalid request: %v", err)
	}
	total := req.totalRequested()
	if total == 0 {
		return NewValidationError("no questions requested for any subject")
	}
	if total > maxTotalQuestions {
		return NewValidationError("requested %d questions, at most %d allowed per quiz", total, maxTotalQuestions)
	}
	seen := make(map[string]bool, len(req.Subjects))
	for _, subject := range req.Subjects {
		if seen[subject] {
			return NewValidationError("subject %q appears more than once", subject)
		}
		seen[subject] = true
	}
	return nil
}

func (s *QuizService) buildQuiz(userID string, req *CreateQuizRequest, result *selection.Result) *models.Quiz {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = strings.Join(req.Subjects, ", ") + " Mock Test - " + s.now().Format("Jan 2, 2006")
	}
	perPage := req.QuestionsPerPage
	if perPage == 0 {
		perPage = 1
	}

	return &models.Quiz{
		ID:               uuid.NewString(),
		Title:            title,
		CreatedBy:        userID,
		Subjects:         req.Subjects,
		Chapters:         req.Chapters,
		DurationMinutes:  req.DurationMinutes,
		QuestionCount:    len(result.Selected),
		QuestionsPerPage: perPage,
		Questions:        result.Selected,
		CreatedAt:        s.now(),
	}
}

func (s *QuizService) publishQuotaExceeded(userID string, limit access.Limit) {
	if s.publisher == nil {
		return
	}
	_ = s.publisher.Publish(event.QuizQuotaExceeded, map[string]any{
		"user_id":   userID,
		"limit":     limit.Count,
		"frequency": limit.Frequency,
	})
}

func (s *QuizService) GetQuiz(ctx context.Context, id string) (*models.Quiz, error) {
	quiz, err := s.quizzes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if quiz == nil {
		return nil, ErrNotFound
	}
	return quiz, nil
}

func (s *QuizService) ListQuizzesByCreator(ctx context.Context, userID string) ([]models.Quiz, error) {
	return s.quizzes.FindByCreator(ctx, userID)
}

// selectionRequests expands the global chapter list to every requested
// subject. Subjects with a zero or missing count still produce a request;
// the selector skips them without querying the store.
func selectionRequests(req *CreateQuizRequest) []selection.SubjectRequest {
	out := make([]selection.SubjectRequest, len(req.Subjects))
	for i, subject := range req.Subjects {
		out[i] = selection.SubjectRequest{
			Subject:  subject,
			Chapters: req.Chapters,
			Count:    req.QuestionsPerSubject[subject],
		}
	}
	return out
}

// isTransientTxError reports whether the driver flagged the failure as a
// retryable transaction race that still exhausted its retries.
func isTransientTxError(err error) bool {
	var labeled interface{ HasErrorLabel(string) bool }
	if errors.As(err, &labeled) {
		return labeled.HasErrorLabel("TransientTransactionError") || labeled.HasErrorLabel("UnknownTransactionCommitResult")
	}
	return false
}
