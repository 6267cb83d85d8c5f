package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDB client wrapper
type MongoDB struct {
	client   *mongo.Client
	database *mongo.Database
}

// Connect establishes connection to MongoDB
func Connect(uri, dbName string) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	mongoDB := &MongoDB{
		client:   client,
		database: client.Database(dbName),
	}

	if err := mongoDB.createIndexes(); err != nil {
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}

	return mongoDB, nil
}

// Disconnect closes the MongoDB connection
func (m *MongoDB) Disconnect() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

// Database returns the database instance
func (m *MongoDB) Database() *mongo.Database {
	return m.database
}

// Collection returns a collection instance
func (m *MongoDB) Collection(name string) *mongo.Collection {
	return m.database.Collection(name)
}

// createIndexes creates all necessary indexes. The unique constraints
// are what make the upsert-based counters safe under concurrent
// first-view races: two racing upserts for the same key collapse onto
// one document instead of creating duplicates.
func (m *MongoDB) createIndexes() error {
	ctx := context.Background()

	profileIndexes := []mongo.IndexModel{
		{Keys: bson.M{"username": 1}, Options: options.Index().SetUnique(true)},
		{Keys: bson.M{"created_at": -1}},
	}
	if _, err := m.Collection("profiles").Indexes().CreateMany(ctx, profileIndexes); err != nil {
		return fmt.Errorf("failed to create profile indexes: %w", err)
	}

	profileStatIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}, {Key: "date", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.M{"date": 1}},
	}
	if _, err := m.Collection("profile_stats").Indexes().CreateMany(ctx, profileStatIndexes); err != nil {
		return fmt.Errorf("failed to create profile stat indexes: %w", err)
	}

	platformStatIndexes := []mongo.IndexModel{
		{Keys: bson.M{"date": 1}, Options: options.Index().SetUnique(true)},
	}
	if _, err := m.Collection("platform_stats").Indexes().CreateMany(ctx, platformStatIndexes); err != nil {
		return fmt.Errorf("failed to create platform stat indexes: %w", err)
	}

	return nil
}

// NewRepositories creates all repository instances
func NewRepositories(mongodb *MongoDB) *Repository {
	return &Repository{
		Profile:      NewProfileRepository(mongodb),
		ProfileStat:  NewProfileStatRepository(mongodb),
		PlatformStat: NewPlatformStatRepository(mongodb),
	}
}
