package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"tweeteroo/model"
)

// ErrNotFound is returned when no document matches.
var ErrNotFound = errors.New("document not found")

// UserRepository provides user persistence.
type UserRepository interface {
	Create(ctx context.Context, u model.User) (model.User, error)
	// GetByUsername returns the first user with the given username.
	GetByUsername(ctx context.Context, username string) (model.User, error)
}

// TweetRepository provides tweet persistence.
type TweetRepository interface {
	Create(ctx context.Context, t model.Tweet) (model.Tweet, error)
	// List returns every tweet, newest first.
	List(ctx context.Context) ([]model.Tweet, error)
	Exists(ctx context.Context, id primitive.ObjectID) (bool, error)
	UpdateText(ctx context.Context, id primitive.ObjectID, text string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
