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

type profileRepository struct {
	collection *mongo.Collection
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(mongodb *MongoDB) ProfileRepository {
	return &profileRepository{
		collection: mongodb.Collection("profiles"),
	}
}

// GetByUsername retrieves profile by username
func (r *profileRepository) GetByUsername(ctx context.Context, username string) (*models.Profile, error) {
	var profile models.Profile
	filter := bson.M{"username": username}

	err := r.collection.FindOne(ctx, filter).Decode(&profile)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, pkg.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile by username: %w", err)
	}

	return &profile, nil
}

// RecordView applies one view as a single atomic upsert. The pipeline
// update expresses "increment if the document exists, else initialize
// with views = 1": $add over a missing views field yields null, which
// $ifNull turns into the initial value. The unique username index
// guarantees concurrent first views collapse onto one document.
func (r *profileRepository) RecordView(ctx context.Context, username string, countView bool) (*models.Profile, bool, error) {
	inc := int64(0)
	if countView {
		inc = 1
	}

	filter := bson.M{"username": username}
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"views":      bson.M{"$ifNull": bson.A{bson.M{"$add": bson.A{"$views", inc}}, 1}},
			"created_at": bson.M{"$ifNull": bson.A{"$created_at", "$$NOW"}},
			"updated_at": "$$NOW",
		}}},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return nil, false, fmt.Errorf("failed to record profile view: %w", err)
	}
	created := result.UpsertedCount > 0

	profile, err := r.GetByUsername(ctx, username)
	if err != nil {
		return nil, created, err
	}

	return profile, created, nil
}

// UpdateLocation sets the resolved location on a profile
func (r *profileRepository) UpdateLocation(ctx context.Context, username string, location *models.Location) error {
	filter := bson.M{"username": username}
	update := bson.M{"$set": bson.M{
		"location":   location,
		"updated_at": time.Now(),
	}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update profile location: %w", err)
	}
	if result.MatchedCount == 0 {
		return pkg.ErrProfileNotFound
	}

	return nil
}
