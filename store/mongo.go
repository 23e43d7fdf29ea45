package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"twitter-api/model"
)

// Mongo is a Store backed by the users and tweets collections of a MongoDB
// database.
type Mongo struct {
	users  *mongo.Collection
	tweets *mongo.Collection
}

func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{
		users:  db.Collection(UsersCollection),
		tweets: db.Collection(TweetsCollection),
	}
}

func (s *Mongo) CreateUser(ctx context.Context, u *model.User) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	u.Normalize()
	if _, err := s.users.InsertOne(ctx, u); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Mongo) ListUsers(ctx context.Context) ([]model.User, error) {
	cur, err := s.users.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	var users []model.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	if users == nil {
		users = []model.User{}
	}
	for i := range users {
		users[i].Normalize()
	}
	return users, nil
}

func (s *Mongo) GetUser(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	var u model.User
	err := s.users.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", id.Hex(), err)
	}
	u.Normalize()
	return &u, nil
}

func (s *Mongo) AddFollowing(ctx context.Context, followerID, targetID primitive.ObjectID) (bool, error) {
	res, err := s.users.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: followerID}},
		bson.D{{Key: "$addToSet", Value: bson.D{{Key: "following", Value: targetID}}}},
	)
	if err != nil {
		return false, fmt.Errorf("add following: %w", err)
	}
	if res.MatchedCount == 0 {
		return false, ErrNotFound
	}
	return res.ModifiedCount == 1, nil
}

func (s *Mongo) CreateTweet(ctx context.Context, t *model.Tweet) error {
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	if _, err := s.tweets.InsertOne(ctx, t); err != nil {
		return fmt.Errorf("insert tweet: %w", err)
	}
	return nil
}

func (s *Mongo) ListTweets(ctx context.Context) ([]model.Tweet, error) {
	return s.findTweets(ctx, bson.D{}, options.Find())
}

func (s *Mongo) TweetsByAuthors(ctx context.Context, authors []primitive.ObjectID) ([]model.Tweet, error) {
	if len(authors) == 0 {
		return []model.Tweet{}, nil
	}
	filter := bson.D{{Key: "user_id", Value: bson.D{{Key: "$in", Value: authors}}}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return s.findTweets(ctx, filter, opts)
}

func (s *Mongo) findTweets(ctx context.Context, filter bson.D, opts *options.FindOptions) ([]model.Tweet, error) {
	cur, err := s.tweets.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find tweets: %w", err)
	}
	var tweets []model.Tweet
	if err := cur.All(ctx, &tweets); err != nil {
		return nil, fmt.Errorf("decode tweets: %w", err)
	}
	if tweets == nil {
		tweets = []model.Tweet{}
	}
	return tweets, nil
}
