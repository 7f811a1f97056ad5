package repository

import (
	"context"
	"time"

	"mockquiz-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type AccessRuleRepository struct {
	Col *mongo.Collection
}

func NewAccessRuleRepository(db *mongo.Database) *AccessRuleRepository {
	return &AccessRuleRepository{Col: db.Collection("access_rules")}
}

func (r *AccessRuleRepository) FindActive(ctx context.Context) ([]models.AccessRule, error) {
	return r.find(ctx, bson.M{"is_active": true})
}

func (r *AccessRuleRepository) FindAll(ctx context.Context) ([]models.AccessRule, error) {
	return r.find(ctx, bson.M{})
}

func (r *AccessRuleRepository) find(ctx context.Context, filter bson.M) ([]models.AccessRule, error) {
	cur, err := r.Col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var rules []models.AccessRule
	for cur.Next(ctx) {
		var rule models.AccessRule
		if err := cur.Decode(&rule); err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, cur.Err()
}

func (r *AccessRuleRepository) FindByID(ctx context.Context, id string) (*models.AccessRule, error) {
	var rule models.AccessRule
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&rule)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

func (r *AccessRuleRepository) Create(ctx context.Context, rule *models.AccessRule) error {
	rule.CreatedAt = time.Now()
	rule.UpdatedAt = rule.CreatedAt
	res, err := r.Col.InsertOne(ctx, rule)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(string); ok {
		rule.ID = id
	}
	return nil
}

func (r *AccessRuleRepository) Update(ctx context.Context, id string, update map[string]any) error {
	update["updated_at"] = time.Now()
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	return err
}

func (r *AccessRuleRepository) Delete(ctx context.Context, id string) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"is_active": false}})
	return err
}
