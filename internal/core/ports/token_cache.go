package ports

import (
	"context"
	"time"

	"github.com/Ghosted34/natours-nest/internal/core/domain"
)

// TokenCache is the shared revocation and ephemera store. Entries are
// additive and idempotent: a re-check can only turn an allowed request into a
// rejected one, never the reverse, so eventual consistency is safe.
type TokenCache interface {
	// BlacklistToken revokes a single token for ttl, which callers set to the
	// remaining lifetime ceiling of that token's purpose.
	BlacklistToken(ctx context.Context, token string, ttl time.Duration) error
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)

	// BlacklistAllUserTokens records a "logout all devices" marker. Tokens
	// issued before the marker's creation instant are revoked; tokens issued
	// after remain valid.
	BlacklistAllUserTokens(ctx context.Context, userID string, ttl time.Duration) error
	// UserTokensRevokedAt returns the marker's creation instant, or ok=false
	// when no marker is live.
	UserTokensRevokedAt(ctx context.Context, userID string) (revokedAt time.Time, ok bool, err error)

	StoreOTP(ctx context.Context, email string, entry domain.OTPEntry, ttl time.Duration) error
	// GetOTP returns nil when no entry exists or it has expired.
	GetOTP(ctx context.Context, email string) (*domain.OTPEntry, error)
	MarkOTPUsed(ctx context.Context, email string) error

	CreateSession(ctx context.Context, userID string, data map[string]any, ttl time.Duration) (sessionID string, err error)
	GetSession(ctx context.Context, sessionID string) (map[string]any, error)
	DestroySession(ctx context.Context, sessionID string) error
}
