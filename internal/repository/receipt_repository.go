package repository

import (
	"context"

	"mockquiz-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type ReceiptRepository struct {
	Col *mongo.Collection
}

func NewReceiptRepository(db *mongo.Database) *ReceiptRepository {
	return &ReceiptRepository{Col: db.Collection("creation_receipts")}
}

func (r *ReceiptRepository) FindByKey(ctx context.Context, userID, key string) (*models.CreationReceipt, error) {
	var receipt models.CreationReceipt
	err := r.Col.FindOne(ctx, bson.M{"_id": models.ReceiptID(userID, key)}).Decode(&receipt)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &receipt, nil
}

func (r *ReceiptRepository) Insert(ctx context.Context, receipt *models.CreationReceipt) error {
	_, err := r.Col.InsertOne(ctx, receipt)
	return err
}
