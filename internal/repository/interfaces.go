package repository

import (
	"context"
	"time"

	"linkhub/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProfileRepository defines profile accounting repository interface
type ProfileRepository interface {
	GetByUsername(ctx context.Context, username string) (*models.Profile, error)
	// RecordView applies one profile view atomically: it creates the
	// profile with views == 1 when the username has never been seen,
	// or increments views by one when countView is true. The returned
	// flag reports whether this call created the profile.
	RecordView(ctx context.Context, username string, countView bool) (*models.Profile, bool, error)
	UpdateLocation(ctx context.Context, username string, location *models.Location) error
}

// ProfileStatRepository defines per-profile daily stat repository interface
type ProfileStatRepository interface {
	GetByDate(ctx context.Context, username string, date time.Time) (*models.ProfileDailyStat, error)
	// RecordView upserts the (username, date) stat: first observation
	// in a bucket creates it with views == 1 regardless of countView,
	// later observations increment only when countView is true.
	RecordView(ctx context.Context, username string, date time.Time, profileID primitive.ObjectID, countView bool) error
	SumViewsByDate(ctx context.Context, date time.Time) (int64, error)
}

// PlatformStatRepository defines platform-wide daily stat repository interface
type PlatformStatRepository interface {
	GetByDate(ctx context.Context, date time.Time) (*models.PlatformDailyStat, error)
	// RecordView upserts the bucket's platform stat in one call:
	// creation initializes views to 1 and clicks to 0; an existing
	// stat gains a view only when countView is true. Users advances
	// by one exactly when newUser is true.
	RecordView(ctx context.Context, date time.Time, countView bool, newUser bool) error
	IncrementClicks(ctx context.Context, date time.Time) error
}

// Repository aggregates all repositories
type Repository struct {
	Profile      ProfileRepository
	ProfileStat  ProfileStatRepository
	PlatformStat PlatformStatRepository
}
