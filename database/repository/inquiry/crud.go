package inquiryRepo

import (
	"context"
	"errors"
	"fmt"

	"tradewinds/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("submission not found")

// Save upserts by record id, so a redelivered task does not duplicate rows.
func (r *mongoSubmissionRepo) Save(ctx context.Context, record models.SubmissionRecord) error {
	opts := options.Replace().SetUpsert(true)
	if _, err := r.coll.ReplaceOne(ctx, bson.M{"id": record.ID}, record, opts); err != nil {
		return fmt.Errorf("failed to save submission %s: %w", record.ID, err)
	}
	return nil
}

func (r *mongoSubmissionRepo) GetByID(ctx context.Context, id string) (*models.SubmissionRecord, error) {
	var record models.SubmissionRecord
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}
