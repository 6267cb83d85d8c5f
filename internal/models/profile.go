package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Profile is the per-username accounting record. It is created the
// first time any visitor loads a username and only ever accumulates:
// views never decrement and the record is never deleted.
type Profile struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username  string             `bson:"username" json:"username"`
	Views     int64              `bson:"views" json:"views"`
	Location  *Location          `bson:"location,omitempty" json:"location,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}

// Location is the geocoded place attached to a profile. ProvidedLocation
// keeps the free-text input it was resolved from, so resolution can be
// skipped while the text is unchanged.
type Location struct {
	ProvidedLocation string  `bson:"provided_location" json:"providedLocation"`
	Name             string  `bson:"name" json:"name"`
	Lat              float64 `bson:"lat" json:"lat"`
	Lon              float64 `bson:"lon" json:"lon"`
}
