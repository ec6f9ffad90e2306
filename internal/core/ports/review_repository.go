package ports

import (
	"context"

	"github.com/Ghosted34/natours-nest/internal/core/domain"
)

// ReviewPatch carries mutable review fields.
type ReviewPatch struct {
	Rating  int
	Comment string
}

// ReviewRepository defines persistence for reviews. Create surfaces
// domain.ErrReviewExists when the (tour, user) pair already has one.
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) (*domain.Review, error)
	FindByID(ctx context.Context, id string) (*domain.Review, error)
	ListByTour(ctx context.Context, tourID string) ([]*domain.Review, error)
	Update(ctx context.Context, id string, patch ReviewPatch) (*domain.Review, error)
	Delete(ctx context.Context, id string) error
}
