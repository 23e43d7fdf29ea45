// Package store persists users and tweets.
package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"twitter-api/model"
)

const (
	UsersCollection  = "users"
	TweetsCollection = "tweets"
)

// ErrNotFound is returned when no record matches an identifier.
var ErrNotFound = errors.New("store: record not found")

// Store is the persistence boundary used by the service layer. Every write
// is a single-document operation.
type Store interface {
	// CreateUser assigns an ID when u.ID is zero and inserts u.
	CreateUser(ctx context.Context, u *model.User) error
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUser(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	// AddFollowing adds targetID to the follower's following set. It reports
	// whether the document changed; false means targetID was already present.
	AddFollowing(ctx context.Context, followerID, targetID primitive.ObjectID) (bool, error)

	// CreateTweet assigns an ID when t.ID is zero and inserts t.
	CreateTweet(ctx context.Context, t *model.Tweet) error
	ListTweets(ctx context.Context) ([]model.Tweet, error)
	// TweetsByAuthors returns tweets whose author is in authors, newest first.
	TweetsByAuthors(ctx context.Context, authors []primitive.ObjectID) ([]model.Tweet, error)
}
