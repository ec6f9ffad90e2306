package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ghosted34/natours-nest/internal/core/domain"
)

var testPrincipal = domain.Principal{
	ID:       "user_1",
	Email:    "alice@example.com",
	Role:     domain.RoleUser,
	Verified: true,
}

func TestCodec_SignVerify(t *testing.T) {
	codec := NewCodec("access-secret", "refresh-secret", time.Hour, 24*time.Hour)

	signed, err := codec.Sign(testPrincipal, PurposeAccess)
	require.NoError(t, err)

	claims, err := codec.Verify(signed, PurposeAccess)
	require.NoError(t, err)
	assert.Equal(t, "user_1", claims.Subject)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, domain.RoleUser, claims.Role)
	assert.True(t, claims.Verified)
}

func TestCodec_PurposeIsolation(t *testing.T) {
	codec := NewCodec("access-secret", "refresh-secret", time.Hour, 24*time.Hour)

	access, err := codec.Sign(testPrincipal, PurposeAccess)
	require.NoError(t, err)
	refresh, err := codec.Sign(testPrincipal, PurposeRefresh)
	require.NoError(t, err)

	_, err = codec.Verify(access, PurposeRefresh)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
	_, err = codec.Verify(refresh, PurposeAccess)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestCodec_SignPair(t *testing.T) {
	codec := NewCodec("access-secret", "refresh-secret", time.Hour, 24*time.Hour)

	access, refresh, err := codec.SignPair(testPrincipal)
	require.NoError(t, err)
	assert.NotEqual(t, access, refresh)

	_, err = codec.Verify(access, PurposeAccess)
	assert.NoError(t, err)
	_, err = codec.Verify(refresh, PurposeRefresh)
	assert.NoError(t, err)
}

func TestCodec_Expiry(t *testing.T) {
	codec := NewCodec("access-secret", "refresh-secret", -time.Second, 24*time.Hour)
	// Negative TTL falls back to the default; force an expired token by hand.
	now := time.Now().UTC().Add(-2 * time.Hour)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user_1",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("access-secret"))
	require.NoError(t, err)

	_, err = codec.Verify(signed, PurposeAccess)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestCodec_RejectsMissingSubject(t *testing.T) {
	codec := NewCodec("access-secret", "refresh-secret", time.Hour, 24*time.Hour)

	signed, err := codec.Sign(domain.Principal{Email: "noid@example.com"}, PurposeAccess)
	require.NoError(t, err)

	_, err = codec.Verify(signed, PurposeAccess)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestCodec_RejectsTamperedToken(t *testing.T) {
	codec := NewCodec("access-secret", "refresh-secret", time.Hour, 24*time.Hour)

	signed, err := codec.Sign(testPrincipal, PurposeAccess)
	require.NoError(t, err)

	tampered := signed[:len(signed)-2] + "xx"
	_, err = codec.Verify(tampered, PurposeAccess)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	// An unsigned (alg=none) token must be rejected outright.
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "user_1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = codec.Verify(unsigned, PurposeAccess)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestCodec_TTLAccessors(t *testing.T) {
	codec := NewCodec("a", "r", 15*time.Minute, 48*time.Hour)
	assert.Equal(t, 15*time.Minute, codec.AccessTTL())
	assert.Equal(t, 48*time.Hour, codec.RefreshTTL())

	fallback := NewCodec("a", "r", 0, 0)
	assert.Equal(t, time.Hour, fallback.AccessTTL())
	assert.Equal(t, 24*time.Hour, fallback.RefreshTTL())
}
