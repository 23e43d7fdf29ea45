package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"twitter-api/apperror"
	"twitter-api/logger"
	"twitter-api/model"
	"twitter-api/store"
)

// faultyStore wraps the in-memory store and fails the methods named in fail.
type faultyStore struct {
	*store.Memory
	fail map[string]error
}

func (f *faultyStore) CreateUser(ctx context.Context, u *model.User) error {
	if err := f.fail["CreateUser"]; err != nil {
		return err
	}
	return f.Memory.CreateUser(ctx, u)
}

func (f *faultyStore) ListUsers(ctx context.Context) ([]model.User, error) {
	if err := f.fail["ListUsers"]; err != nil {
		return nil, err
	}
	return f.Memory.ListUsers(ctx)
}

func (f *faultyStore) GetUser(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	if err := f.fail["GetUser"]; err != nil {
		return nil, err
	}
	return f.Memory.GetUser(ctx, id)
}

func (f *faultyStore) AddFollowing(ctx context.Context, follower, target primitive.ObjectID) (bool, error) {
	if err := f.fail["AddFollowing"]; err != nil {
		return false, err
	}
	return f.Memory.AddFollowing(ctx, follower, target)
}

func (f *faultyStore) TweetsByAuthors(ctx context.Context, authors []primitive.ObjectID) ([]model.Tweet, error) {
	if err := f.fail["TweetsByAuthors"]; err != nil {
		return nil, err
	}
	return f.Memory.TweetsByAuthors(ctx, authors)
}

func newService(t *testing.T, opts Options) (*Service, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	return New(mem, logger.Discard(), opts), mem
}

func mustCreateUser(t *testing.T, s *Service, name string) *model.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), CreateUserInput{Username: name, Email: name + "@example.com"})
	require.NoError(t, err)
	return u
}

func TestCreateThenGetUser(t *testing.T) {
	s, _ := newService(t, Options{})
	ctx := context.Background()

	created := mustCreateUser(t, s, "johndoe")
	assert.Equal(t, "UTC", created.CreatedAt.Location().String())

	got, err := s.GetUser(ctx, created.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "johndoe", got.Username)
	assert.Equal(t, "johndoe@example.com", got.Email)
	assert.Empty(t, got.Following)
}

func TestCreateUserRequiresFields(t *testing.T) {
	s, mem := newService(t, Options{})
	for _, in := range []CreateUserInput{
		{Username: "johndoe"},
		{Email: "john@example.com"},
		{},
	} {
		_, err := s.CreateUser(context.Background(), in)
		require.True(t, apperror.IsValidationError(err), "input %+v", in)
		appErr, _ := apperror.FromError(err)
		assert.Equal(t, MsgUserFieldsRequired, appErr.Message)
	}

	users, err := mem.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestGetUserErrors(t *testing.T) {
	s, _ := newService(t, Options{})
	ctx := context.Background()

	missing := primitive.NewObjectID().Hex()
	_, err := s.GetUser(ctx, missing)
	require.True(t, apperror.IsNotFound(err))
	appErr, _ := apperror.FromError(err)
	assert.Equal(t, MsgUserNotFound, appErr.Message)
	assert.Equal(t, "User with ID "+missing+" not found", appErr.Details)

	_, err = s.GetUser(ctx, "not-an-id")
	require.Error(t, err)
	_, isApp := apperror.FromError(err)
	assert.False(t, isApp, "malformed ids are internal failures")
	assert.ErrorIs(t, err, primitive.ErrInvalidHex)
}

func TestFollow(t *testing.T) {
	s, mem := newService(t, Options{})
	ctx := context.Background()
	alice := mustCreateUser(t, s, "alice")
	bob := mustCreateUser(t, s, "bob")

	require.NoError(t, s.Follow(ctx, bob.ID.Hex(), FollowInput{CurrentUserID: alice.ID.Hex()}))

	got, err := mem.GetUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{bob.ID}, got.Following)
}

func TestFollowTwiceKeepsOneEntry(t *testing.T) {
	ctx := context.Background()

	t.Run("literal policy fails the repeat", func(t *testing.T) {
		s, mem := newService(t, Options{})
		alice := mustCreateUser(t, s, "alice")
		bob := mustCreateUser(t, s, "bob")
		in := FollowInput{CurrentUserID: alice.ID.Hex()}

		require.NoError(t, s.Follow(ctx, bob.ID.Hex(), in))
		err := s.Follow(ctx, bob.ID.Hex(), in)
		require.True(t, apperror.IsConflictError(err))
		appErr, _ := apperror.FromError(err)
		assert.Equal(t, MsgFollowFailed, appErr.Message)
		assert.Equal(t, 500, appErr.StatusCode())

		got, err := mem.GetUser(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, []primitive.ObjectID{bob.ID}, got.Following)
	})

	t.Run("idempotent policy accepts the repeat", func(t *testing.T) {
		s, mem := newService(t, Options{IdempotentFollow: true})
		alice := mustCreateUser(t, s, "alice")
		bob := mustCreateUser(t, s, "bob")
		in := FollowInput{CurrentUserID: alice.ID.Hex()}

		require.NoError(t, s.Follow(ctx, bob.ID.Hex(), in))
		require.NoError(t, s.Follow(ctx, bob.ID.Hex(), in))

		got, err := mem.GetUser(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, []primitive.ObjectID{bob.ID}, got.Following)
	})
}

func TestFollowErrors(t *testing.T) {
	s, _ := newService(t, Options{})
	ctx := context.Background()
	alice := mustCreateUser(t, s, "alice")
	ghost := primitive.NewObjectID().Hex()

	err := s.Follow(ctx, alice.ID.Hex(), FollowInput{})
	require.True(t, apperror.IsValidationError(err))

	err = s.Follow(ctx, ghost, FollowInput{CurrentUserID: alice.ID.Hex()})
	require.True(t, apperror.IsNotFound(err))
	appErr, _ := apperror.FromError(err)
	assert.Equal(t, MsgFollowUsersNotFound, appErr.Message)

	err = s.Follow(ctx, alice.ID.Hex(), FollowInput{CurrentUserID: ghost})
	assert.True(t, apperror.IsNotFound(err))

	err = s.Follow(ctx, "zzz", FollowInput{CurrentUserID: alice.ID.Hex()})
	assert.ErrorIs(t, err, primitive.ErrInvalidHex)
}

func TestFollowStoreFailure(t *testing.T) {
	boom := errors.New("connection reset")
	mem := store.NewMemory()
	s := New(&faultyStore{Memory: mem, fail: map[string]error{"AddFollowing": boom}}, logger.Discard(), Options{})
	ctx := context.Background()
	alice := mustCreateUser(t, s, "alice")
	bob := mustCreateUser(t, s, "bob")

	err := s.Follow(ctx, bob.ID.Hex(), FollowInput{CurrentUserID: alice.ID.Hex()})
	assert.ErrorIs(t, err, boom)
}

func TestCreateTweet(t *testing.T) {
	s, mem := newService(t, Options{})
	ctx := context.Background()
	alice := mustCreateUser(t, s, "alice")

	tw, err := s.CreateTweet(ctx, CreateTweetInput{UserID: alice.ID.Hex(), Text: "This is my first tweet!"})
	require.NoError(t, err)
	assert.False(t, tw.ID.IsZero())
	assert.Equal(t, alice.ID, tw.UserID)

	all, err := mem.ListTweets(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Tweet{*tw}, all)
}

func TestCreateTweetErrors(t *testing.T) {
	s, _ := newService(t, Options{})
	ctx := context.Background()

	_, err := s.CreateTweet(ctx, CreateTweetInput{UserID: primitive.NewObjectID().Hex()})
	require.True(t, apperror.IsValidationError(err))
	appErr, _ := apperror.FromError(err)
	assert.Equal(t, MsgTweetFieldsRequired, appErr.Message)

	_, err = s.CreateTweet(ctx, CreateTweetInput{UserID: primitive.NewObjectID().Hex(), Text: "hi"})
	assert.True(t, apperror.IsNotFound(err))

	_, err = s.CreateTweet(ctx, CreateTweetInput{UserID: "valid_user_id", Text: "hi"})
	assert.ErrorIs(t, err, primitive.ErrInvalidHex)
}

func TestTimeline(t *testing.T) {
	s, mem := newService(t, Options{})
	ctx := context.Background()
	u := mustCreateUser(t, s, "reader")
	v := mustCreateUser(t, s, "writer")
	w := mustCreateUser(t, s, "stranger")

	empty, err := s.Timeline(ctx, u.ID.Hex())
	require.NoError(t, err)
	assert.Zero(t, empty.Following)
	assert.NotNil(t, empty.Tweets)
	assert.Empty(t, empty.Tweets)

	require.NoError(t, s.Follow(ctx, v.ID.Hex(), FollowInput{CurrentUserID: u.ID.Hex()}))

	base := model.Now()
	t1 := &model.Tweet{UserID: v.ID, Text: "T1", CreatedAt: base}
	t2 := &model.Tweet{UserID: v.ID, Text: "T2", CreatedAt: base.Add(time.Second)}
	noise := &model.Tweet{UserID: w.ID, Text: "noise", CreatedAt: base}
	for _, tw := range []*model.Tweet{t1, t2, noise} {
		require.NoError(t, mem.CreateTweet(ctx, tw))
	}

	tl, err := s.Timeline(ctx, u.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 1, tl.Following)
	assert.ElementsMatch(t, []model.Tweet{*t1, *t2}, tl.Tweets)

	_, err = s.Timeline(ctx, primitive.NewObjectID().Hex())
	assert.True(t, apperror.IsNotFound(err))
}

func TestTimelineStoreFailure(t *testing.T) {
	boom := errors.New("cursor killed")
	mem := store.NewMemory()
	s := New(&faultyStore{Memory: mem, fail: map[string]error{"TweetsByAuthors": boom}}, logger.Discard(), Options{})
	ctx := context.Background()
	u := mustCreateUser(t, s, "reader")
	v := mustCreateUser(t, s, "writer")
	require.NoError(t, s.Follow(ctx, v.ID.Hex(), FollowInput{CurrentUserID: u.ID.Hex()}))

	_, err := s.Timeline(ctx, u.ID.Hex())
	assert.ErrorIs(t, err, boom)
}

func TestListOperations(t *testing.T) {
	boom := errors.New("unreachable")
	s := New(&faultyStore{Memory: store.NewMemory(), fail: map[string]error{"ListUsers": boom}}, logger.Discard(), Options{})

	_, err := s.ListUsers(context.Background())
	assert.ErrorIs(t, err, boom)

	tweets, err := s.ListTweets(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tweets)
}
