package domain

import "time"

// User models an end-user account. Verification and password-reset tokens are
// opaque, single-use and persisted on the record: consuming one clears the
// field, so a consumed token can never act twice.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username,omitempty"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`

	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Avatar    string `json:"avatar,omitempty"`
	GoogleID  string `json:"google_id,omitempty"`

	IsVerified        bool   `json:"is_verified"`
	VerificationToken string `json:"-"`

	// ResetTokenHash holds the SHA-256 digest of the outstanding reset token;
	// the raw token only ever travels inside the reset email.
	ResetTokenHash      string    `json:"-"`
	ResetTokenExpiresAt time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Principal is the authenticated identity attached to a request by the auth
// middleware and consumed by the authorization guards.
type Principal struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	Verified bool   `json:"is_verified"`

	// PasswordChanged mirrors the staff temporary-password flag; always true
	// for end users.
	PasswordChanged bool `json:"password_changed"`
}
