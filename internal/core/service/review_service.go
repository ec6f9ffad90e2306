package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/Ghosted34/natours-nest/internal/core/domain"
	"github.com/Ghosted34/natours-nest/internal/core/ports"
)

// ReviewService manages tour reviews. The one-review-per-user-per-tour rule
// is enforced by the repository's unique index, not a read-then-write check.
type ReviewService struct {
	reviews ports.ReviewRepository
	tours   ports.TourRepository
	logger  zerolog.Logger
}

func NewReviewService(reviews ports.ReviewRepository, tours ports.TourRepository, logger zerolog.Logger) *ReviewService {
	return &ReviewService{reviews: reviews, tours: tours, logger: logger}
}

func (s *ReviewService) Create(ctx context.Context, input ports.CreateReviewInput) (*domain.Review, error) {
	if _, err := s.tours.FindByID(ctx, input.TourID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	review, err := s.reviews.Create(ctx, &domain.Review{
		TourID:    input.TourID,
		UserID:    input.UserID,
		Rating:    input.Rating,
		Comment:   input.Comment,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("review_id", review.ID).Str("tour_id", review.TourID).Msg("review created")
	return review, nil
}

func (s *ReviewService) ListByTour(ctx context.Context, tourID string) ([]*domain.Review, error) {
	if _, err := s.tours.FindByID(ctx, tourID); err != nil {
		return nil, err
	}
	return s.reviews.ListByTour(ctx, tourID)
}

// Update admits the review's author or an admin.
func (s *ReviewService) Update(ctx context.Context, id string, caller domain.Principal, patch ports.ReviewPatch) (*domain.Review, error) {
	if err := s.authorize(ctx, id, caller); err != nil {
		return nil, err
	}
	return s.reviews.Update(ctx, id, patch)
}

// Delete admits the review's author or an admin.
func (s *ReviewService) Delete(ctx context.Context, id string, caller domain.Principal) error {
	if err := s.authorize(ctx, id, caller); err != nil {
		return err
	}
	return s.reviews.Delete(ctx, id)
}

func (s *ReviewService) authorize(ctx context.Context, id string, caller domain.Principal) error {
	review, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if review.UserID != caller.ID && caller.Role != domain.RoleAdmin {
		return domain.ErrForbidden
	}
	return nil
}
