package ports

import (
	"context"

	"github.com/Ghosted34/natours-nest/internal/core/domain"
)

// CreateAdminInput bootstraps an admin account; OTP must match the entry
// previously generated for Email.
type CreateAdminInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	OTP       string
}

// CreateStaffInput creates a staff member under an existing admin.
type CreateStaffInput struct {
	Email      string
	Password   string
	FirstName  string
	LastName   string
	Role       domain.Role
	Department string
}

// StaffResult is the created staff account plus a token pair.
type StaffResult struct {
	Staff        *domain.Staff `json:"staff"`
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
}

// StaffService manages staff accounts and the OTP elevation flow.
type StaffService interface {
	// GenerateOTP stores a single-use code for email and dispatches it.
	GenerateOTP(ctx context.Context, email string) error
	CreateAdmin(ctx context.Context, input CreateAdminInput) (*StaffResult, error)
	CreateStaff(ctx context.Context, input CreateStaffInput, creatorID string) (*StaffResult, error)
	List(ctx context.Context) ([]*domain.Staff, error)
	Get(ctx context.Context, id string) (*domain.Staff, error)
	Update(ctx context.Context, id string, patch StaffPatch) (*domain.Staff, error)
	Deactivate(ctx context.Context, id string) (*domain.Staff, error)
	DeleteStaff(ctx context.Context, id string) error
}
