package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Tweet struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id"`
	UserID    primitive.ObjectID `json:"user_id" bson:"user_id"`
	Text      string             `json:"text" bson:"text"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// Timeline is the set of tweets authored by the accounts a user follows.
// Following is the size of the user's following set.
type Timeline struct {
	Tweets    []Tweet
	Following int
}

// Now returns the current UTC time at the precision BSON datetimes keep.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
