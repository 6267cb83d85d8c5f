package repository

import (
	"context"
	"fmt"
	"time"

	"linkhub/internal/models"
	"linkhub/internal/pkg"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type platformStatRepository struct {
	collection *mongo.Collection
}

// NewPlatformStatRepository creates a new platform-wide daily stat repository
func NewPlatformStatRepository(mongodb *MongoDB) PlatformStatRepository {
	return &platformStatRepository{
		collection: mongodb.Collection("platform_stats"),
	}
}

// GetByDate retrieves the platform stat for one day bucket
func (r *platformStatRepository) GetByDate(ctx context.Context, date time.Time) (*models.PlatformDailyStat, error) {
	var stat models.PlatformDailyStat
	filter := bson.M{"date": date}

	err := r.collection.FindOne(ctx, filter).Decode(&stat)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, pkg.ErrStatNotFound
		}
		return nil, fmt.Errorf("failed to get platform stat: %w", err)
	}

	return &stat, nil
}

// RecordView is the single call site that creates or advances the
// bucket's platform stat. Creation initializes views to 1 and clicks
// to 0. An existing stat gains a view only when countView is true.
// Users advances by one exactly when newUser is true, on create and
// update alike.
func (r *platformStatRepository) RecordView(ctx context.Context, date time.Time, countView bool, newUser bool) error {
	incViews := int64(0)
	if countView {
		incViews = 1
	}
	incUsers := int64(0)
	if newUser {
		incUsers = 1
	}

	filter := bson.M{"date": date}
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"views":      bson.M{"$ifNull": bson.A{bson.M{"$add": bson.A{"$views", incViews}}, 1}},
			"users":      bson.M{"$add": bson.A{bson.M{"$ifNull": bson.A{"$users", 0}}, incUsers}},
			"clicks":     bson.M{"$ifNull": bson.A{"$clicks", 0}},
			"created_at": bson.M{"$ifNull": bson.A{"$created_at", "$$NOW"}},
			"updated_at": "$$NOW",
		}}},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to record platform view: %w", err)
	}

	return nil
}

// IncrementClicks advances the bucket's click counter, creating the
// stat with zeroed view counters if click traffic arrives before any
// profile view does.
func (r *platformStatRepository) IncrementClicks(ctx context.Context, date time.Time) error {
	filter := bson.M{"date": date}
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"clicks":     bson.M{"$ifNull": bson.A{bson.M{"$add": bson.A{"$clicks", 1}}, 1}},
			"views":      bson.M{"$ifNull": bson.A{"$views", 0}},
			"users":      bson.M{"$ifNull": bson.A{"$users", 0}},
			"created_at": bson.M{"$ifNull": bson.A{"$created_at", "$$NOW"}},
			"updated_at": "$$NOW",
		}}},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to increment platform clicks: %w", err)
	}

	return nil
}
