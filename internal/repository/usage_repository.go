package repository

import (
	"context"
	"time"

	"mockquiz-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UsageRepository struct {
	Col *mongo.Collection
}

func NewUsageRepository(db *mongo.Database) *UsageRepository {
	return &UsageRepository{Col: db.Collection("subject_usage")}
}

func (r *UsageRepository) FindByUserAndSubject(ctx context.Context, userID, subject string) (*models.SubjectUsage, error) {
	var usage models.SubjectUsage
	err := r.Col.FindOne(ctx, bson.M{"user_id": userID, "subject": subject}).Decode(&usage)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &usage, nil
}

func (r *UsageRepository) FindByUser(ctx context.Context, userID string) ([]models.SubjectUsage, error) {
	cur, err := r.Col.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var usages []models.SubjectUsage
	for cur.Next(ctx) {
		var u models.SubjectUsage
		if err := cur.Decode(&u); err != nil {
			return nil, err
		}
		usages = append(usages, u)
	}
	return usages, cur.Err()
}

func (r *UsageRepository) Upsert(ctx context.Context, usage *models.SubjectUsage) error {
	usage.UpdatedAt = time.Now()
	filter := bson.M{"user_id": usage.UserID, "subject": usage.Subject}
	update := bson.M{"$set": bson.M{
		"user_id":        usage.UserID,
		"subject":        usage.Subject,
		"used_questions": usage.UsedQuestions,
		"chapter_stats":  usage.ChapterStats,
		"updated_at":     usage.UpdatedAt,
	}}
	opts := options.Update().SetUpsert(true)
	_, err := r.Col.UpdateOne(ctx, filter, update, opts)
	return err
}
