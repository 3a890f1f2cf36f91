package service

import (
	"context"
	"errors"
	"fmt"

	"notebook-server/internal/domain"
	"notebook-server/internal/repository"
)

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// UpdateProfile applies the allow-listed profile fields of update to the
// user identified by id.
func (s *UserService) UpdateProfile(ctx context.Context, id string, update domain.UserUpdate) (*domain.User, error) {
	if update.Empty() {
		return s.GetByID(ctx, id)
	}

	user, err := s.userRepo.Update(ctx, id, update)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, domain.ErrNotFound
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}
