package ports

import (
	"context"

	"github.com/Ghosted34/natours-nest/internal/core/domain"
)

// CreateTourInput carries the fields for a new tour.
type CreateTourInput struct {
	Name         string
	Duration     int
	MaxGroupSize int
	Difficulty   string
	Price        float64
	Summary      string
	Description  string
}

// TourService exposes tour CRUD. Thin persistence wrapper; access control is
// enforced at the route level.
type TourService interface {
	Create(ctx context.Context, input CreateTourInput) (*domain.Tour, error)
	Get(ctx context.Context, id string) (*domain.Tour, error)
	List(ctx context.Context) ([]*domain.Tour, error)
	Update(ctx context.Context, id string, patch TourPatch) (*domain.Tour, error)
	Delete(ctx context.Context, id string) error
}
