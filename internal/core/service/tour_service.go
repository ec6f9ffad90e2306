package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/Ghosted34/natours-nest/internal/core/domain"
	"github.com/Ghosted34/natours-nest/internal/core/ports"
)

// TourService is a thin wrapper over tour persistence.
type TourService struct {
	repo   ports.TourRepository
	logger zerolog.Logger
}

func NewTourService(repo ports.TourRepository, logger zerolog.Logger) *TourService {
	return &TourService{repo: repo, logger: logger}
}

func (s *TourService) Create(ctx context.Context, input ports.CreateTourInput) (*domain.Tour, error) {
	now := time.Now().UTC()
	tour, err := s.repo.Create(ctx, &domain.Tour{
		Name:         input.Name,
		Duration:     input.Duration,
		MaxGroupSize: input.MaxGroupSize,
		Difficulty:   input.Difficulty,
		Price:        input.Price,
		Summary:      input.Summary,
		Description:  input.Description,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("tour_id", tour.ID).Str("name", tour.Name).Msg("tour created")
	return tour, nil
}

func (s *TourService) Get(ctx context.Context, id string) (*domain.Tour, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *TourService) List(ctx context.Context) ([]*domain.Tour, error) {
	return s.repo.List(ctx)
}

func (s *TourService) Update(ctx context.Context, id string, patch ports.TourPatch) (*domain.Tour, error) {
	return s.repo.Update(ctx, id, patch)
}

func (s *TourService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
