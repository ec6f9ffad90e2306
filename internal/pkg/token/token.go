// Package token signs and verifies the claims tokens used for access and
// refresh. Each purpose has its own secret and lifetime, so a leaked refresh
// secret cannot forge an access token and vice versa. Email verification and
// password reset use opaque persisted tokens instead and never pass through
// this codec.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Ghosted34/natours-nest/internal/core/domain"
)

// Purpose selects which secret/lifetime pair signs a token.
type Purpose string

const (
	PurposeAccess  Purpose = "access"
	PurposeRefresh Purpose = "refresh"
)

// Claims is the signed assertion carried by access and refresh tokens.
type Claims struct {
	jwt.RegisteredClaims
	Email    string      `json:"email"`
	Role     domain.Role `json:"role"`
	Verified bool        `json:"verified"`
}

// Codec signs and verifies claims tokens with purpose-isolated secrets.
type Codec struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewCodec(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *Codec {
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	if refreshTTL <= 0 {
		refreshTTL = 24 * time.Hour
	}
	return &Codec{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// Sign mints a token for the given principal and purpose.
func (c *Codec) Sign(p domain.Principal, purpose Purpose) (string, error) {
	secret, ttl, err := c.keyFor(purpose)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email:    p.Email,
		Role:     p.Role,
		Verified: p.Verified,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// SignPair mints an access and a refresh token for the principal.
func (c *Codec) SignPair(p domain.Principal) (access, refresh string, err error) {
	if access, err = c.Sign(p, PurposeAccess); err != nil {
		return "", "", err
	}
	if refresh, err = c.Sign(p, PurposeRefresh); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// Verify checks signature and expiry against the purpose's secret and returns
// the claims. A token signed for another purpose fails verification.
func (c *Codec) Verify(tokenString string, purpose Purpose) (*Claims, error) {
	secret, _, err := c.keyFor(purpose)
	if err != nil {
		return nil, err
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return secret, nil
	})
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

// AccessTTL is the ceiling used for single-token blacklist entries.
func (c *Codec) AccessTTL() time.Duration { return c.accessTTL }

// RefreshTTL is the ceiling used for refresh-token and whole-account
// blacklist entries.
func (c *Codec) RefreshTTL() time.Duration { return c.refreshTTL }

func (c *Codec) keyFor(purpose Purpose) ([]byte, time.Duration, error) {
	switch purpose {
	case PurposeAccess:
		return c.accessSecret, c.accessTTL, nil
	case PurposeRefresh:
		return c.refreshSecret, c.refreshTTL, nil
	default:
		return nil, 0, fmt.Errorf("token: unknown purpose %q", purpose)
	}
}
