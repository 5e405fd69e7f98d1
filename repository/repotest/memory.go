// Package repotest provides in-memory repositories for tests.
package repotest

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"tweeteroo/model"
	"tweeteroo/repository"
)

// Store backs both repositories. Set Err to make every call fail with it.
type Store struct {
	mu     sync.Mutex
	users  []model.User
	tweets []model.Tweet

	Err error
}

func NewStore() *Store { return &Store{} }

func (s *Store) Users() *Users   { return &Users{s} }
func (s *Store) Tweets() *Tweets { return &Tweets{s} }

func (s *Store) SetErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Err = err
}

// Failure returns the injected error, if any.
func (s *Store) Failure() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Err
}

// UserCount and TweetCount let tests assert that nothing was written.
func (s *Store) UserCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

func (s *Store) TweetCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tweets)
}

// RemoveUser deletes users by name, which the service itself never does.
func (s *Store) RemoveUser(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.users[:0]
	for _, u := range s.users {
		if u.Username != username {
			kept = append(kept, u)
		}
	}
	s.users = kept
}

type Users struct{ s *Store }

var _ repository.UserRepository = (*Users)(nil)

func (r *Users) Create(_ context.Context, u model.User) (model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return model.User{}, r.s.Err
	}
	u.ID = primitive.NewObjectID()
	r.s.users = append(r.s.users, u)
	return u, nil
}

func (r *Users) GetByUsername(_ context.Context, username string) (model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return model.User{}, r.s.Err
	}
	for _, u := range r.s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

type Tweets struct{ s *Store }

var _ repository.TweetRepository = (*Tweets)(nil)

func (r *Tweets) Create(_ context.Context, t model.Tweet) (model.Tweet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return model.Tweet{}, r.s.Err
	}
	t.ID = primitive.NewObjectID()
	r.s.tweets = append(r.s.tweets, t)
	return t, nil
}

// List returns tweets in insertion order; callers own the ordering.
func (r *Tweets) List(_ context.Context) ([]model.Tweet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	return append([]model.Tweet{}, r.s.tweets...), nil
}

func (r *Tweets) Exists(_ context.Context, id primitive.ObjectID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return false, r.s.Err
	}
	return r.index(id) >= 0, nil
}

func (r *Tweets) UpdateText(_ context.Context, id primitive.ObjectID, text string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	i := r.index(id)
	if i < 0 {
		return repository.ErrNotFound
	}
	r.s.tweets[i].Tweet = text
	return nil
}

func (r *Tweets) Delete(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	i := r.index(id)
	if i < 0 {
		return repository.ErrNotFound
	}
	r.s.tweets = append(r.s.tweets[:i], r.s.tweets[i+1:]...)
	return nil
}

func (r *Tweets) index(id primitive.ObjectID) int {
	for i, t := range r.s.tweets {
		if t.ID == id {
			return i
		}
	}
	return -1
}
