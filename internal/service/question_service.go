package service

import (
	"context"
	"errors"
	"log/slog"

	"mockquiz-service/internal/event"
	"mockquiz-service/internal/models"
	"mockquiz-service/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// CreateQuestionRequest carries one question for the admin pool.
type CreateQuestionRequest struct {
	Subject       string          `json:"subject" validate:"required,max=100"`
	Chapter       string          `json:"chapter" validate:"required,max=100"`
	QuestionText  string          `json:"question_text" validate:"required"`
	Type          string          `json:"type" validate:"omitempty,oneof=mcq true_false"`
	Options       []models.Option `json:"options" validate:"omitempty,dive"`
	CorrectAnswer string          `json:"correct_answer" validate:"required"`
	Explanation   string          `json:"explanation"`
	Marks         int             `json:"marks" validate:"omitempty,min=1,max=100"`
}

// QuestionService manages the question pool used by quiz selection.
type QuestionService struct {
	questions repository.QuestionStore
	publisher *event.EventPublisher
	validate  *validator.Validate
	logger    *slog.Logger
}

func NewQuestionService(questions repository.QuestionStore, publisher *event.EventPublisher, logger *slog.Logger) *QuestionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuestionService{
		questions: questions,
		publisher: publisher,
		validate:  validator.New(),
		logger:    logger,
	}
}

func (s *QuestionService) CreateQuestion(ctx context.Context, createdBy string, req *CreateQuestionRequest) (*models.Question, error) {
	if err := s.validateCreate(req); err != nil {
		return nil, err
	}
	question := s.toQuestion(createdBy, req)
	if err := s.questions.Create(ctx, question); err != nil {
		return nil, err
	}
	if s.publisher != nil {
		_ = s.publisher.Publish(event.QuestionCreated, map[string]any{
			"question_id": question.ID,
			"subject":     question.Subject,
			"chapter":     question.Chapter,
		})
	}
	return question, nil
}

// CreateQuestions bulk-inserts a batch. The whole batch is validated before
// any insert, so a bad row rejects everything.
func (s *QuestionService) CreateQuestions(ctx context.Context, createdBy string, reqs []CreateQuestionRequest) ([]models.Question, error) {
	if len(reqs) == 0 {
		return nil, NewValidationError("empty question batch")
	}
	questions := make([]models.Question, len(reqs))
	for i := range reqs {
		if err := s.validateCreate(&reqs[i]); err != nil {
			return nil, NewValidationError("question %d: %v", i, err)
		}
		questions[i] = *s.toQuestion(createdBy, &reqs[i])
	}
	if err := s.questions.CreateMany(ctx, questions); err != nil {
		return nil, err
	}
	s.logger.Info("bulk question import", "count", len(questions), "created_by", createdBy)
	return questions, nil
}

func (s *QuestionService) GetQuestion(ctx context.Context, id string) (*models.Question, error) {
	question, err := s.questions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if question == nil {
		return nil, ErrNotFound
	}
	return question, nil
}

func (s *QuestionService) ListQuestions(ctx context.Context, subject string) ([]models.Question, error) {
	if subject == "" {
		return s.questions.FindAll(ctx)
	}
	return s.questions.FindBySubject(ctx, subject)
}

func (s *QuestionService) UpdateQuestion(ctx context.Context, id string, update map[string]any) error {
	existing, err := s.questions.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotFound
	}
	for field := range update {
		switch field {
		case "subject", "chapter", "question_text", "type", "options", "correct_answer", "explanation", "marks":
		default:
			return NewValidationError("field %q cannot be updated", field)
		}
	}
	if err := s.questions.Update(ctx, id, update); err != nil {
		return err
	}
	if s.publisher != nil {
		_ = s.publisher.Publish(event.QuestionUpdated, map[string]any{"question_id": id})
	}
	return nil
}

func (s *QuestionService) DeleteQuestion(ctx context.Context, id string) error {
	existing, err := s.questions.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotFound
	}
	if err := s.questions.Delete(ctx, id); err != nil {
		return err
	}
	if s.publisher != nil {
		_ = s.publisher.Publish(event.QuestionDeleted, map[string]any{"question_id": id})
	}
	return nil
}

func (s *QuestionService) validateCreate(req *CreateQuestionRequest) error {
	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			return NewValidationError("invalid field %q: failed %q constraint", f.Field(), f.Tag())
		}
		return NewValidationError("invalid question: %v", err)
	}
	qType := req.Type
	if qType == "" {
		qType = models.QuestionTypeMCQ
	}
	if qType == models.QuestionTypeMCQ && len(req.Options) < 2 {
		return NewValidationError("mcq questions need at least 2 options")
	}
	return nil
}

func (s *QuestionService) toQuestion(createdBy string, req *CreateQuestionRequest) *models.Question {
	question := &models.Question{
		ID:            uuid.NewString(),
		Subject:       req.Subject,
		Chapter:       req.Chapter,
		QuestionText:  req.QuestionText,
		Type:          req.Type,
		Options:       req.Options,
		CorrectAnswer: req.CorrectAnswer,
		Explanation:   req.Explanation,
		Marks:         req.Marks,
		CreatedBy:     createdBy,
	}
	question.ApplyDefaults()
	return question
}
