package repository

import (
	"context"

	"mockquiz-service/internal/models"
)

// Store interfaces are satisfied by the Mongo repositories in this package
// and by in-memory fakes in tests. Point lookups return (nil, nil) when no
// document exists; callers decide whether that is an error.
//
// Every method honors an in-flight transaction when ctx is the session
// context handed out by TxRunner.WithTransaction. The transaction handle is
// always threaded explicitly through ctx; there is no ambient transaction
// state.

type AccessRuleStore interface {
	FindActive(ctx context.Context) ([]models.AccessRule, error)
	FindAll(ctx context.Context) ([]models.AccessRule, error)
	FindByID(ctx context.Context, id string) (*models.AccessRule, error)
	Create(ctx context.Context, rule *models.AccessRule) error
	Update(ctx context.Context, id string, update map[string]any) error
	Delete(ctx context.Context, id string) error
}

type EnrollmentStore interface {
	FindEnrolledByStudent(ctx context.Context, studentID string) ([]models.Enrollment, error)
	FindByStudent(ctx context.Context, studentID string) ([]models.Enrollment, error)
}

type UserStore interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	// UpsertQuizUsage merges the quota counter into the user document,
	// creating the document if it does not exist yet.
	UpsertQuizUsage(ctx context.Context, userID string, usage models.QuizUsage) error
}

type QuestionStore interface {
	FindByID(ctx context.Context, id string) (*models.Question, error)
	FindAll(ctx context.Context) ([]models.Question, error)
	FindBySubject(ctx context.Context, subject string) ([]models.Question, error)
	// FindBySubjectAndChapters runs a single subject+chapter IN query.
	// Callers chunk the chapter list to the store's fan-out limit.
	FindBySubjectAndChapters(ctx context.Context, subject string, chapters []string) ([]models.Question, error)
	Create(ctx context.Context, question *models.Question) error
	CreateMany(ctx context.Context, questions []models.Question) error
	Update(ctx context.Context, id string, update map[string]any) error
	Delete(ctx context.Context, id string) error
	IncrementUsedInQuizzes(ctx context.Context, ids []string) error
}

type QuizStore interface {
	Insert(ctx context.Context, quiz *models.Quiz) error
	FindByID(ctx context.Context, id string) (*models.Quiz, error)
	FindByCreator(ctx context.Context, userID string) ([]models.Quiz, error)
}

type UsageStore interface {
	FindByUserAndSubject(ctx context.Context, userID, subject string) (*models.SubjectUsage, error)
	FindByUser(ctx context.Context, userID string) ([]models.SubjectUsage, error)
	Upsert(ctx context.Context, usage *models.SubjectUsage) error
}

type ReceiptStore interface {
	FindByKey(ctx context.Context, userID, key string) (*models.CreationReceipt, error)
	Insert(ctx context.Context, receipt *models.CreationReceipt) error
}

// TxRunner executes fn atomically. The ctx passed to fn carries the
// transaction; fn may be retried on write conflicts, so it must stage all
// its effects through the store methods and stay otherwise side-effect free.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
