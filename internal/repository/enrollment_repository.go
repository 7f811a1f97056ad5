package repository

import (
	"context"

	"mockquiz-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type EnrollmentRepository struct {
	Col *mongo.Collection
}

func NewEnrollmentRepository(db *mongo.Database) *EnrollmentRepository {
	return &EnrollmentRepository{Col: db.Collection("enrollments")}
}

// FindEnrolledByStudent returns enrollments whose status grants series
// access (active, paid or enrolled).
func (r *EnrollmentRepository) FindEnrolledByStudent(ctx context.Context, studentID string) ([]models.Enrollment, error) {
	filter := bson.M{
		"student_id": studentID,
		"status": bson.M{"$in": []string{
			models.EnrollmentActive,
			models.EnrollmentPaid,
			models.EnrollmentEnrolled,
		}},
	}
	return r.find(ctx, filter)
}

func (r *EnrollmentRepository) FindByStudent(ctx context.Context, studentID string) ([]models.Enrollment, error) {
	return r.find(ctx, bson.M{"student_id": studentID})
}

func (r *EnrollmentRepository) find(ctx context.Context, filter bson.M) ([]models.Enrollment, error) {
	cur, err := r.Col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var enrollments []models.Enrollment
	for cur.Next(ctx) {
		var e models.Enrollment
		if err := cur.Decode(&e); err != nil {
			return nil, err
		}
		enrollments = append(enrollments, e)
	}
	return enrollments, cur.Err()
}
