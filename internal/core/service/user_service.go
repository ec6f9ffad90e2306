package service

import (
	"context"
	"errors"

	"github.com/Ghosted34/natours-nest/internal/core/domain"
	"github.com/Ghosted34/natours-nest/internal/core/ports"
)

// UserService exposes end-user profile operations. Thin persistence wrapper.
type UserService struct {
	users ports.UserRepository
}

func NewUserService(users ports.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) Profile(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

// UpdateProfile applies the patch after checking that a requested username is
// not held by another account.
func (s *UserService) UpdateProfile(ctx context.Context, id string, patch ports.UserProfilePatch) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Username != "" {
		holder, err := s.users.FindByUsername(ctx, patch.Username)
		if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		if holder != nil && holder.ID != user.ID {
			return nil, domain.ErrUsernameTaken
		}
	}

	return s.users.UpdateProfile(ctx, id, patch)
}
