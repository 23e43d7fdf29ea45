package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"twitter-api/model"
)

var (
	_ Store = (*Memory)(nil)
	_ Store = (*Mongo)(nil)
)

func TestMemoryUsers(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	users, err := m.ListUsers(ctx)
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)

	alice := &model.User{Username: "alice", Email: "alice@example.com", CreatedAt: model.Now()}
	bob := &model.User{Username: "bob", Email: "bob@example.com", CreatedAt: model.Now()}
	require.NoError(t, m.CreateUser(ctx, alice))
	require.NoError(t, m.CreateUser(ctx, bob))
	assert.False(t, alice.ID.IsZero())
	assert.NotEqual(t, alice.ID, bob.ID)

	got, err := m.GetUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, *alice, *got)

	users, err = m.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "bob", users[1].Username)

	_, err = m.GetUser(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryAddFollowingIsSetAdd(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	alice := &model.User{Username: "alice", Email: "a@example.com"}
	bob := &model.User{Username: "bob", Email: "b@example.com"}
	require.NoError(t, m.CreateUser(ctx, alice))
	require.NoError(t, m.CreateUser(ctx, bob))

	modified, err := m.AddFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, modified)

	modified, err = m.AddFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, modified)

	got, err := m.GetUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{bob.ID}, got.Following)

	_, err = m.AddFollowing(ctx, primitive.NewObjectID(), bob.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	alice := &model.User{Username: "alice", Email: "a@example.com"}
	require.NoError(t, m.CreateUser(ctx, alice))

	got, err := m.GetUser(ctx, alice.ID)
	require.NoError(t, err)
	got.Following = append(got.Following, primitive.NewObjectID())
	got.Username = "mallory"

	again, err := m.GetUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", again.Username)
	assert.Empty(t, again.Following)
}

func TestMemoryTweetsByAuthors(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	alice, bob, carol := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	base := model.Now()

	older := &model.Tweet{UserID: alice, Text: "first", CreatedAt: base}
	newer := &model.Tweet{UserID: bob, Text: "second", CreatedAt: base.Add(time.Second)}
	other := &model.Tweet{UserID: carol, Text: "elsewhere", CreatedAt: base.Add(2 * time.Second)}
	for _, tw := range []*model.Tweet{older, newer, other} {
		require.NoError(t, m.CreateTweet(ctx, tw))
	}

	all, err := m.ListTweets(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Tweet{*older, *newer, *other}, all)

	timeline, err := m.TweetsByAuthors(ctx, []primitive.ObjectID{alice, bob})
	require.NoError(t, err)
	assert.Equal(t, []model.Tweet{*newer, *older}, timeline)

	none, err := m.TweetsByAuthors(ctx, nil)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestMemoryConcurrentFollows(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	follower := &model.User{Username: "fan", Email: "fan@example.com"}
	require.NoError(t, m.CreateUser(ctx, follower))
	target := primitive.NewObjectID()

	var wg sync.WaitGroup
	results := make(chan bool, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			modified, err := m.AddFollowing(ctx, follower.ID, target)
			assert.NoError(t, err)
			results <- modified
		}()
	}
	wg.Wait()
	close(results)

	var changed int
	for modified := range results {
		if modified {
			changed++
		}
	}
	assert.Equal(t, 1, changed)

	got, err := m.GetUser(ctx, follower.ID)
	require.NoError(t, err)
	assert.Len(t, got.Following, 1)
}
