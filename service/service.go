// Package service implements the user, follow, tweet and timeline operations
// on top of a store.Store.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"twitter-api/apperror"
	"twitter-api/metrics"
	"twitter-api/model"
	"twitter-api/store"
)

const (
	MsgUserFieldsRequired    = "Username and email are required"
	MsgTweetFieldsRequired   = "User ID and tweet text are required"
	MsgFollowerRequired      = "current_user_id is required"
	MsgUserNotFound          = "User not found"
	MsgFollowUsersNotFound   = "User or current user not found"
	MsgFollowFailed          = "Failed to follow user"
	detailUserFieldsRequired = "Both 'username' and 'email' are required in the request"
	detailTweetFieldsReq     = "Both 'user_id' and 'text' are required in the request"
	detailFollowerRequired   = "'current_user_id' is required in the request"
)

type CreateUserInput struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required"`
}

type CreateTweetInput struct {
	UserID string `json:"user_id" validate:"required"`
	Text   string `json:"text" validate:"required"`
}

type FollowInput struct {
	CurrentUserID string `json:"current_user_id" validate:"required"`
}

type Options struct {
	// IdempotentFollow reports a repeated follow as success.
	IdempotentFollow bool
}

type Service struct {
	store    store.Store
	log      *slog.Logger
	validate *validator.Validate
	opts     Options
}

func New(st store.Store, log *slog.Logger, opts Options) *Service {
	return &Service{
		store:    st,
		log:      log.With(slog.String("module", "service")),
		validate: validator.New(),
		opts:     opts,
	}
}

func parseID(kind, id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid %s id %q: %w", kind, id, err)
	}
	return oid, nil
}

func userNotFound(id string) error {
	return apperror.NewNotFoundError(MsgUserNotFound, fmt.Sprintf("User with ID %s not found", id))
}

// --- Users ---

func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (*model.User, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, apperror.NewValidationError(MsgUserFieldsRequired, detailUserFieldsRequired)
	}

	u := &model.User{
		Username:  in.Username,
		Email:     in.Email,
		CreatedAt: model.Now(),
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		s.log.ErrorContext(ctx, "create user failed", slog.Any("error", err))
		return nil, err
	}

	metrics.UsersCreated.Inc()
	s.log.InfoContext(ctx, "user created", slog.String("username", u.Username), slog.String("user_id", u.ID.Hex()))
	return u, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "list users failed", slog.Any("error", err))
		return nil, err
	}
	return users, nil
}

func (s *Service) GetUser(ctx context.Context, id string) (*model.User, error) {
	oid, err := parseID("user", id)
	if err != nil {
		return nil, err
	}
	u, err := s.store.GetUser(ctx, oid)
	if errors.Is(err, store.ErrNotFound) {
		return nil, userNotFound(id)
	}
	if err != nil {
		s.log.ErrorContext(ctx, "get user failed", slog.String("user_id", id), slog.Any("error", err))
		return nil, err
	}
	return u, nil
}

// Follow makes in.CurrentUserID follow targetID. Both users must exist.
func (s *Service) Follow(ctx context.Context, targetID string, in FollowInput) error {
	if err := s.validate.Struct(in); err != nil {
		return apperror.NewValidationError(MsgFollowerRequired, detailFollowerRequired)
	}

	target, err := parseID("user", targetID)
	if err != nil {
		return err
	}
	follower, err := parseID("current user", in.CurrentUserID)
	if err != nil {
		return err
	}

	notFound := apperror.NewNotFoundError(MsgFollowUsersNotFound,
		fmt.Sprintf("User %s or current user %s not found", targetID, in.CurrentUserID))
	for _, id := range []primitive.ObjectID{target, follower} {
		if _, err := s.store.GetUser(ctx, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				metrics.Follows.WithLabelValues("not_found").Inc()
				return notFound
			}
			return err
		}
	}

	modified, err := s.store.AddFollowing(ctx, follower, target)
	if errors.Is(err, store.ErrNotFound) {
		metrics.Follows.WithLabelValues("not_found").Inc()
		return notFound
	}
	if err != nil {
		s.log.ErrorContext(ctx, "follow failed", slog.Any("error", err))
		return err
	}

	if !modified {
		metrics.Follows.WithLabelValues("repeated").Inc()
		if s.opts.IdempotentFollow {
			s.log.InfoContext(ctx, "user already followed",
				slog.String("follower_id", in.CurrentUserID), slog.String("user_id", targetID))
			return nil
		}
		return apperror.NewConflictError(MsgFollowFailed,
			fmt.Sprintf("User %s already follows user %s", in.CurrentUserID, targetID))
	}

	metrics.Follows.WithLabelValues("followed").Inc()
	s.log.InfoContext(ctx, "user followed",
		slog.String("follower_id", in.CurrentUserID), slog.String("user_id", targetID))
	return nil
}

// --- Tweets ---

// CreateTweet stores a tweet for an existing author.
func (s *Service) CreateTweet(ctx context.Context, in CreateTweetInput) (*model.Tweet, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, apperror.NewValidationError(MsgTweetFieldsRequired, detailTweetFieldsReq)
	}

	author, err := parseID("user", in.UserID)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetUser(ctx, author); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, userNotFound(in.UserID)
		}
		return nil, err
	}

	t := &model.Tweet{
		UserID:    author,
		Text:      in.Text,
		CreatedAt: model.Now(),
	}
	if err := s.store.CreateTweet(ctx, t); err != nil {
		s.log.ErrorContext(ctx, "create tweet failed", slog.Any("error", err))
		return nil, err
	}

	metrics.TweetsCreated.Inc()
	s.log.InfoContext(ctx, "tweet created", slog.String("tweet_id", t.ID.Hex()), slog.String("user_id", in.UserID))
	return t, nil
}

func (s *Service) ListTweets(ctx context.Context) ([]model.Tweet, error) {
	tweets, err := s.store.ListTweets(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "list tweets failed", slog.Any("error", err))
		return nil, err
	}
	return tweets, nil
}

// Timeline returns the tweets of everyone userID follows, newest first.
func (s *Service) Timeline(ctx context.Context, userID string) (*model.Timeline, error) {
	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(u.Following) == 0 {
		return &model.Timeline{Tweets: []model.Tweet{}}, nil
	}

	tweets, err := s.store.TweetsByAuthors(ctx, u.Following)
	if err != nil {
		s.log.ErrorContext(ctx, "timeline query failed", slog.String("user_id", userID), slog.Any("error", err))
		return nil, err
	}
	return &model.Timeline{Tweets: tweets, Following: len(u.Following)}, nil
}
