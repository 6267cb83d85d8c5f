package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProfileDailyStat counts views of one profile within one analytics day.
// Keyed by (username, date) where date is the day-bucket key.
type ProfileDailyStat struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username  string             `bson:"username" json:"username"`
	Date      time.Time          `bson:"date" json:"date"`
	Views     int64              `bson:"views" json:"views"`
	Profile   primitive.ObjectID `bson:"profile,omitempty" json:"profile,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}

// PlatformDailyStat aggregates platform-wide activity for one analytics
// day. Users counts profiles first seen that day, not total views.
// Clicks is maintained by link-click accounting only; view accounting
// must initialize it to zero and otherwise leave it alone.
type PlatformDailyStat struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Date      time.Time          `bson:"date" json:"date"`
	Views     int64              `bson:"views" json:"views"`
	Clicks    int64              `bson:"clicks" json:"clicks"`
	Users     int64              `bson:"users" json:"users"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}
