package catalogRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tradewinds/database"
	"tradewinds/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCatalogRepo implements CatalogRepository using MongoDB.
type MongoCatalogRepo struct {
	resorts *mongo.Collection
	options *mongo.Collection
}

// NewMongoCatalogRepo uses the "resorts" and "options" collections.
func NewMongoCatalogRepo() *MongoCatalogRepo {
	db := database.Database()
	return &MongoCatalogRepo{
		resorts: db.Collection("resorts"),
		options: db.Collection("options"),
	}
}

func (r *MongoCatalogRepo) GetResort(ctx context.Context, id string) (*models.Resort, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	var resort models.Resort
	if err := r.resorts.FindOne(ctx, bson.M{"id": id}).Decode(&resort); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("resort %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch resort with id %s: %w", id, err)
	}
	return &resort, nil
}

func (r *MongoCatalogRepo) ListResorts(ctx context.Context) ([]models.Resort, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	opts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}})
	cursor, err := r.resorts.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve resorts: %w", err)
	}
	defer cursor.Close(ctx)
	var resorts []models.Resort
	if err := cursor.All(ctx, &resorts); err != nil {
		return nil, fmt.Errorf("failed to decode resorts: %w", err)
	}
	return resorts, nil
}

func (r *MongoCatalogRepo) GetOption(ctx context.Context, kind models.OptionKind, id string) (*models.Option, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	var opt models.Option
	if err := r.options.FindOne(ctx, bson.M{"kind": kind, "id": id}).Decode(&opt); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s option %s: %w", kind, id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch %s option %s: %w", kind, id, err)
	}
	return &opt, nil
}

func (r *MongoCatalogRepo) ListOptions(ctx context.Context, kind models.OptionKind) ([]models.Option, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	cursor, err := r.options.Find(ctx, bson.M{"kind": kind})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve %s options: %w", kind, err)
	}
	defer cursor.Close(ctx)
	var opts []models.Option
	if err := cursor.All(ctx, &opts); err != nil {
		return nil, fmt.Errorf("failed to decode %s options: %w", kind, err)
	}
	return opts, nil
}

// Replace swaps the whole catalog for the given content. Resort positions are
// rewritten from slice order.
func (r *MongoCatalogRepo) Replace(ctx context.Context, resorts []models.Resort, opts []models.Option) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := r.resorts.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("failed to clear resorts: %w", err)
	}
	if _, err := r.options.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("failed to clear options: %w", err)
	}

	if len(resorts) > 0 {
		docs := make([]interface{}, 0, len(resorts))
		for i, res := range resorts {
			res.Position = i
			docs = append(docs, res)
		}
		if _, err := r.resorts.InsertMany(ctx, docs); err != nil {
			return fmt.Errorf("failed to insert resorts: %w", err)
		}
	}
	if len(opts) > 0 {
		docs := make([]interface{}, 0, len(opts))
		for _, o := range opts {
			docs = append(docs, o)
		}
		if _, err := r.options.InsertMany(ctx, docs); err != nil {
			return fmt.Errorf("failed to insert options: %w", err)
		}
	}
	return r.ensureIndexes(ctx)
}

// ensureIndexes creates the lookup indexes used by GetResort and GetOption.
func (r *MongoCatalogRepo) ensureIndexes(ctx context.Context) error {
	resortIdx := mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	optionIdx := mongo.IndexModel{
		Keys:    bson.D{{Key: "kind", Value: 1}, {Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := r.resorts.Indexes().CreateOne(ctx, resortIdx); err != nil {
		return fmt.Errorf("failed to create resort index: %w", err)
	}
	if _, err := r.options.Indexes().CreateOne(ctx, optionIdx); err != nil {
		return fmt.Errorf("failed to create option index: %w", err)
	}
	return nil
}
