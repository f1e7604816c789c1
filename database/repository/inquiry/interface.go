package inquiryRepo

import (
	"context"

	"tradewinds/database"
	"tradewinds/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// SubmissionRepository stores delivered inquiry submissions.
type SubmissionRepository interface {
	Save(ctx context.Context, record models.SubmissionRecord) error
	GetByID(ctx context.Context, id string) (*models.SubmissionRecord, error)
}

type mongoSubmissionRepo struct {
	coll *mongo.Collection
}

// NewMongoSubmissionRepo returns a SubmissionRepository backed by the
// "inquiries" collection.
func NewMongoSubmissionRepo() SubmissionRepository {
	return &mongoSubmissionRepo{
		coll: database.Database().Collection("inquiries"),
	}
}
