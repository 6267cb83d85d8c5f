package repository

import (
	"context"
	"fmt"
	"time"

	"linkhub/internal/models"
	"linkhub/internal/pkg"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type profileStatRepository struct {
	collection *mongo.Collection
}

// NewProfileStatRepository creates a new per-profile daily stat repository
func NewProfileStatRepository(mongodb *MongoDB) ProfileStatRepository {
	return &profileStatRepository{
		collection: mongodb.Collection("profile_stats"),
	}
}

// GetByDate retrieves the stat for one profile and one day bucket
func (r *profileStatRepository) GetByDate(ctx context.Context, username string, date time.Time) (*models.ProfileDailyStat, error) {
	var stat models.ProfileDailyStat
	filter := bson.M{"username": username, "date": date}

	err := r.collection.FindOne(ctx, filter).Decode(&stat)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, pkg.ErrStatNotFound
		}
		return nil, fmt.Errorf("failed to get profile stat: %w", err)
	}

	return &stat, nil
}

// RecordView upserts the (username, date) stat in one atomic call.
// First observation in a bucket creates it with views = 1 regardless
// of countView; later observations increment only when countView is
// true. The profile backref is written once and never overwritten.
func (r *profileStatRepository) RecordView(ctx context.Context, username string, date time.Time, profileID primitive.ObjectID, countView bool) error {
	inc := int64(0)
	if countView {
		inc = 1
	}

	set := bson.M{
		"views":      bson.M{"$ifNull": bson.A{bson.M{"$add": bson.A{"$views", inc}}, 1}},
		"created_at": bson.M{"$ifNull": bson.A{"$created_at", "$$NOW"}},
		"updated_at": "$$NOW",
	}
	if !profileID.IsZero() {
		set["profile"] = bson.M{"$ifNull": bson.A{"$profile", profileID}}
	}

	filter := bson.M{"username": username, "date": date}
	update := mongo.Pipeline{
		{{Key: "$set", Value: set}},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to record profile stat view: %w", err)
	}

	return nil
}

// SumViewsByDate totals per-profile views for one day bucket. Used by
// the reconciliation worker to cross-check the platform counter.
func (r *profileStatRepository) SumViewsByDate(ctx context.Context, date time.Time) (int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"date": date}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"views": bson.M{"$sum": "$views"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("failed to sum profile stat views: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Views int64 `bson:"views"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, fmt.Errorf("failed to decode profile stat sum: %w", err)
	}
	if len(results) == 0 {
		return 0, nil
	}

	return results[0].Views, nil
}
