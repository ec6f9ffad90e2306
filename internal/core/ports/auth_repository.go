package ports

import (
	"context"
	"time"

	"github.com/Ghosted34/natours-nest/internal/core/domain"
)

// UserProfilePatch carries the mutable profile fields; nil-ish (empty) fields
// are left untouched.
type UserProfilePatch struct {
	Username  string
	FirstName string
	LastName  string
	Avatar    string
}

// UserRepository defines persistence for end-user accounts. Lookups that
// return no account yield domain.ErrUserNotFound; any other error is a store
// failure and must surface as such.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByEmail matches the email case-insensitively.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByUsername matches the username case-insensitively.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// FindByEmailOrUsername matches either field case-insensitively.
	FindByEmailOrUsername(ctx context.Context, identifier string) (*domain.User, error)
	FindByVerificationToken(ctx context.Context, token string) (*domain.User, error)

	UpdateProfile(ctx context.Context, id string, patch UserProfilePatch) (*domain.User, error)
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
	SetVerificationToken(ctx context.Context, id string, token string) error
	SetResetToken(ctx context.Context, id string, tokenHash string, expiresAt time.Time) error

	// ConsumeVerificationToken atomically flips the account to verified and
	// clears the token, keyed on the token value itself. Two concurrent calls
	// with the same token: exactly one succeeds, the other gets
	// domain.ErrInvalidToken.
	ConsumeVerificationToken(ctx context.Context, token string) (*domain.User, error)

	// ConsumeResetToken atomically replaces the password and clears the reset
	// token, keyed on the token digest and its expiry. Same at-most-once
	// contract as ConsumeVerificationToken.
	ConsumeResetToken(ctx context.Context, tokenHash string, now time.Time, passwordHash string) (*domain.User, error)
}

// StaffPatch carries the mutable staff fields; empty fields are left
// untouched. Setting Role also refreshes the role-derived permission set.
type StaffPatch struct {
	FirstName  string
	LastName   string
	Department string
	Role       domain.Role
}

// StaffRepository defines persistence for staff accounts. Staff email lookup
// is case-sensitive by design.
type StaffRepository interface {
	Create(ctx context.Context, staff *domain.Staff) (*domain.Staff, error)
	FindByID(ctx context.Context, id string) (*domain.Staff, error)
	FindByEmail(ctx context.Context, email string) (*domain.Staff, error)
	List(ctx context.Context) ([]*domain.Staff, error)
	Update(ctx context.Context, id string, patch StaffPatch) (*domain.Staff, error)
	// Deactivate clears the active flag without removing the record.
	Deactivate(ctx context.Context, id string) (*domain.Staff, error)
	// UpdatePassword swaps the hash and marks the temporary password as
	// changed.
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
	Delete(ctx context.Context, id string) error
}
