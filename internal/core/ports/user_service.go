package ports

import (
	"context"

	"github.com/Ghosted34/natours-nest/internal/core/domain"
)

// UserService exposes end-user profile operations.
type UserService interface {
	Profile(ctx context.Context, id string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, patch UserProfilePatch) (*domain.User, error)
}
