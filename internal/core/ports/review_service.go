package ports

import (
	"context"

	"github.com/Ghosted34/natours-nest/internal/core/domain"
)

// CreateReviewInput carries a new review for a tour.
type CreateReviewInput struct {
	TourID  string
	UserID  string
	Rating  int
	Comment string
}

// ReviewService exposes review CRUD. Update and Delete admit the review's
// author or an admin.
type ReviewService interface {
	Create(ctx context.Context, input CreateReviewInput) (*domain.Review, error)
	ListByTour(ctx context.Context, tourID string) ([]*domain.Review, error)
	Update(ctx context.Context, id string, caller domain.Principal, patch ReviewPatch) (*domain.Review, error)
	Delete(ctx context.Context, id string, caller domain.Principal) error
}
