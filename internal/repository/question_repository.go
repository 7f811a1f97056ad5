package repository

import (
	"context"
	"time"

	"mockquiz-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type QuestionRepository struct {
	Col *mongo.Collection
}

func NewQuestionRepository(db *mongo.Database) *QuestionRepository {
	return &QuestionRepository{Col: db.Collection("questions")}
}

func (r *QuestionRepository) FindByID(ctx context.Context, id string) (*models.Question, error) {
	var question models.Question
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&question)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &question, nil
}

func (r *QuestionRepository) FindAll(ctx context.Context) ([]models.Question, error) {
	return r.find(ctx, bson.M{})
}

func (r *QuestionRepository) FindBySubject(ctx context.Context, subject string) ([]models.Question, error) {
	return r.find(ctx, bson.M{"subject": subject})
}

// FindBySubjectAndChapters expects an already-chunked chapter list; the
// selector splits chapter filters to the store's IN fan-out limit before
// calling this.
func (r *QuestionRepository) FindBySubjectAndChapters(ctx context.Context, subject string, chapters []string) ([]models.Question, error) {
	filter := bson.M{
		"subject": subject,
		"chapter": bson.M{"$in": chapters},
	}
	return r.find(ctx, filter)
}

func (r *QuestionRepository) find(ctx context.Context, filter bson.M) ([]models.Question, error) {
	cur, err := r.Col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var questions []models.Question
	for cur.Next(ctx) {
		var q models.Question
		if err := cur.Decode(&q); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, cur.Err()
}

func (r *QuestionRepository) Create(ctx context.Context, question *models.Question) error {
	question.CreatedAt = time.Now()
	question.UpdatedAt = question.CreatedAt
	res, err := r.Col.InsertOne(ctx, question)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(string); ok {
		question.ID = id
	}
	return nil
}

func (r *QuestionRepository) CreateMany(ctx context.Context, questions []models.Question) error {
	if len(questions) == 0 {
		return nil
	}
	now := time.Now()
	docs := make([]any, len(questions))
	for i := range questions {
		questions[i].CreatedAt = now
		questions[i].UpdatedAt = now
		docs[i] = questions[i]
	}
	_, err := r.Col.InsertMany(ctx, docs)
	return err
}

func (r *QuestionRepository) Update(ctx context.Context, id string, update map[string]any) error {
	update["updated_at"] = time.Now()
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	return err
}

func (r *QuestionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.Col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// IncrementUsedInQuizzes bumps the global popularity counter for every
// given question by one.
func (r *QuestionRepository) IncrementUsedInQuizzes(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.Col.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		bson.M{"$inc": bson.M{"used_in_quizzes": 1}},
	)
	return err
}
