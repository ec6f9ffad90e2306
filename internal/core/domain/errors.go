package domain

import "errors"

var (
	ErrEmailTaken    = errors.New("email is taken")
	ErrUsernameTaken = errors.New("username is taken")

	// ErrInvalidCredentials covers both "no such account" and "wrong password"
	// on sign-in so that responses cannot be used for user enumeration.
	ErrInvalidCredentials = errors.New("email/username or password incorrect")

	ErrUserNotFound = errors.New("user does not exist")

	// ErrInvalidToken is the single externally visible failure for every
	// token-validation problem (malformed, expired, revoked, consumed).
	ErrInvalidToken = errors.New("invalid or expired token")

	ErrAlreadyVerified = errors.New("user is already verified")
	ErrInvalidOTP      = errors.New("invalid or expired otp")
	ErrStaffExists     = errors.New("staff member already exists")
	ErrStaffNotFound   = errors.New("staff member does not exist")

	ErrForbidden = errors.New("access forbidden")

	ErrTourNotFound   = errors.New("tour not found")
	ErrReviewExists   = errors.New("tour already reviewed by this user")
	ErrReviewNotFound = errors.New("review not found")
)
