package ports

import (
	"context"

	"github.com/Ghosted34/natours-nest/internal/core/domain"
)

// TourPatch carries mutable tour fields; zero values are left untouched.
type TourPatch struct {
	Name         string
	Duration     int
	MaxGroupSize int
	Difficulty   string
	Price        float64
	Summary      string
	Description  string
}

// TourRepository defines persistence for tours.
type TourRepository interface {
	Create(ctx context.Context, tour *domain.Tour) (*domain.Tour, error)
	FindByID(ctx context.Context, id string) (*domain.Tour, error)
	List(ctx context.Context) ([]*domain.Tour, error)
	Update(ctx context.Context, id string, patch TourPatch) (*domain.Tour, error)
	Delete(ctx context.Context, id string) error
}
