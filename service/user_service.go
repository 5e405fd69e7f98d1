package service

import (
	"context"

	"tweeteroo/model"
	"tweeteroo/repository"
)

// UserService handles registration.
type UserService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// Register stores a new user. Input is validated by the caller; duplicate
// usernames are accepted.
func (s *UserService) Register(ctx context.Context, username, avatar string) (model.User, error) {
	return s.repo.Create(ctx, model.User{Username: username, Avatar: avatar})
}
