package ports

import (
	"context"

	"github.com/Ghosted34/natours-nest/internal/core/domain"
)

// RegisterInput carries a registration request. Role defaults to
// domain.RoleUser; registration never creates staff accounts.
type RegisterInput struct {
	Email     string
	Password  string
	Username  string
	FirstName string
	LastName  string
	Avatar    string
	GoogleID  string
	Role      domain.Role
}

// SignInInput carries a sign-in attempt. Identifier is an email or username
// for end-users, an email only for staff; Kind selects which lookup is used
// and defaults to the end-user kind.
type SignInInput struct {
	Identifier string
	Password   string
	Kind       domain.Role
}

// AuthResult is the account plus a fresh token pair. Exactly one of User and
// Staff is set.
type AuthResult struct {
	User         *domain.User  `json:"user,omitempty"`
	Staff        *domain.Staff `json:"staff,omitempty"`
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
}

// AuthService is the authentication and session-revocation core.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	SignIn(ctx context.Context, input SignInInput) (*AuthResult, error)

	VerifyEmail(ctx context.Context, verificationToken string) (*AuthResult, error)
	ResendVerification(ctx context.Context, email string) error

	// Logout revokes the presented access token, and the refresh token too
	// when one is supplied. The two revocations are independent.
	Logout(ctx context.Context, accessToken, refreshToken string) error
	// LogoutAll revokes every token issued to the account so far.
	LogoutAll(ctx context.Context, userID string) error

	// Refresh mints a new access token from an unrevoked, valid refresh
	// token. The refresh token itself is not rotated.
	Refresh(ctx context.Context, refreshToken string) (accessToken string, err error)

	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, resetToken, newPassword string) error
	// ChangePassword verifies the current password, persists the new one and
	// then revokes every existing session for the account.
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
}
