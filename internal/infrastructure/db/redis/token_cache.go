package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Ghosted34/natours-nest/internal/core/domain"
)

// Key formats. Blacklist entries carry a TTL equal to the remaining lifetime
// ceiling of the token they block, so an entry never outlives its token.
const (
	blacklistPrefix     = "blacklist:"
	userBlacklistPrefix = "user_blacklist:"
	otpPrefix           = "admin_otp:"
	sessionPrefix       = "session:"
)

// TokenCache is the Redis-backed revocation and ephemera store. Entries are
// additive and never updated in place; staleness can only reject, never admit.
type TokenCache struct {
	client *redis.Client
}

func NewTokenCache(client *redis.Client) *TokenCache {
	return &TokenCache{client: client}
}

type revocationMarker struct {
	RevokedAt time.Time `json:"revoked_at"`
}

func (c *TokenCache) BlacklistToken(ctx context.Context, token string, ttl time.Duration) error {
	return c.setJSON(ctx, blacklistPrefix+token, revocationMarker{RevokedAt: time.Now().UTC()}, ttl)
}

func (c *TokenCache) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	n, err := c.client.Exists(ctx, blacklistPrefix+token).Result()
	if err != nil {
		return false, fmt.Errorf("blacklist check: %w", err)
	}
	return n > 0, nil
}

func (c *TokenCache) BlacklistAllUserTokens(ctx context.Context, userID string, ttl time.Duration) error {
	return c.setJSON(ctx, userBlacklistPrefix+userID, revocationMarker{RevokedAt: time.Now().UTC()}, ttl)
}

// UserTokensRevokedAt returns the instant of the account-wide revocation
// marker. The authenticator compares a token's issued-at against it, so
// tokens minted after a logout-all stay valid.
func (c *TokenCache) UserTokensRevokedAt(ctx context.Context, userID string) (time.Time, bool, error) {
	var marker revocationMarker
	found, err := c.getJSON(ctx, userBlacklistPrefix+userID, &marker)
	if err != nil || !found {
		return time.Time{}, false, err
	}
	return marker.RevokedAt, true, nil
}

func (c *TokenCache) StoreOTP(ctx context.Context, email string, entry domain.OTPEntry, ttl time.Duration) error {
	return c.setJSON(ctx, otpPrefix+email, entry, ttl)
}

func (c *TokenCache) GetOTP(ctx context.Context, email string) (*domain.OTPEntry, error) {
	var entry domain.OTPEntry
	found, err := c.getJSON(ctx, otpPrefix+email, &entry)
	if err != nil || !found {
		return nil, err
	}
	return &entry, nil
}

// MarkOTPUsed flips the used flag while preserving the entry's remaining TTL,
// so a consumed code stays visible as consumed until it expires naturally.
func (c *TokenCache) MarkOTPUsed(ctx context.Context, email string) error {
	key := otpPrefix + email

	var entry domain.OTPEntry
	found, err := c.getJSON(ctx, key, &entry)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}

	ttl, err := c.client.TTL(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("otp ttl: %w", err)
	}
	if ttl <= 0 {
		return nil
	}

	entry.Used = true
	return c.setJSON(ctx, key, entry, ttl)
}

func (c *TokenCache) CreateSession(ctx context.Context, userID string, data map[string]any, ttl time.Duration) (string, error) {
	sessionID := uuid.NewString()

	session := map[string]any{"user_id": userID, "created_at": time.Now().UTC().Format(time.RFC3339)}
	for k, v := range data {
		session[k] = v
	}

	if err := c.setJSON(ctx, sessionPrefix+sessionID, session, ttl); err != nil {
		return "", err
	}
	return sessionID, nil
}

func (c *TokenCache) GetSession(ctx context.Context, sessionID string) (map[string]any, error) {
	var session map[string]any
	found, err := c.getJSON(ctx, sessionPrefix+sessionID, &session)
	if err != nil || !found {
		return nil, err
	}
	return session, nil
}

func (c *TokenCache) DestroySession(ctx context.Context, sessionID string) error {
	if err := c.client.Del(ctx, sessionPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}

func (c *TokenCache) setJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

func (c *TokenCache) getJSON(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal %s: %w", key, err)
	}
	return true, nil
}
