package store

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"twitter-api/model"
)

// Memory is a Store kept in process memory. Records are returned in
// insertion order, like a collection scan.
type Memory struct {
	mu     sync.RWMutex
	users  []*model.User
	byID   map[primitive.ObjectID]*model.User
	tweets []model.Tweet
}

func NewMemory() *Memory {
	return &Memory{byID: make(map[primitive.ObjectID]*model.User)}
}

func (m *Memory) CreateUser(_ context.Context, u *model.User) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	u.Normalize()

	stored := cloneUser(u)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = append(m.users, stored)
	m.byID[stored.ID] = stored
	return nil
}

func (m *Memory) ListUsers(_ context.Context) ([]model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	users := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, *cloneUser(u))
	}
	return users, nil
}

func (m *Memory) GetUser(_ context.Context, id primitive.ObjectID) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneUser(u), nil
}

func (m *Memory) AddFollowing(_ context.Context, followerID, targetID primitive.ObjectID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[followerID]
	if !ok {
		return false, ErrNotFound
	}
	if u.Follows(targetID) {
		return false, nil
	}
	u.Following = append(u.Following, targetID)
	return true, nil
}

func (m *Memory) CreateTweet(_ context.Context, t *model.Tweet) error {
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tweets = append(m.tweets, *t)
	return nil
}

func (m *Memory) ListTweets(_ context.Context) ([]model.Tweet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]model.Tweet{}, m.tweets...), nil
}

func (m *Memory) TweetsByAuthors(_ context.Context, authors []primitive.ObjectID) ([]model.Tweet, error) {
	in := make(map[primitive.ObjectID]struct{}, len(authors))
	for _, a := range authors {
		in[a] = struct{}{}
	}

	m.mu.RLock()
	tweets := []model.Tweet{}
	for _, t := range m.tweets {
		if _, ok := in[t.UserID]; ok {
			tweets = append(tweets, t)
		}
	}
	m.mu.RUnlock()

	sort.SliceStable(tweets, func(i, j int) bool {
		return tweets[i].CreatedAt.After(tweets[j].CreatedAt)
	})
	return tweets, nil
}

func cloneUser(u *model.User) *model.User {
	c := *u
	c.Following = append([]primitive.ObjectID{}, u.Following...)
	return &c
}
