package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Ghosted34/natours-nest/internal/api/metrics"
	"github.com/Ghosted34/natours-nest/internal/core/domain"
	"github.com/Ghosted34/natours-nest/internal/core/ports"
	"github.com/Ghosted34/natours-nest/internal/pkg/token"
)

// Context keys set by Auth for downstream guards and handlers.
const (
	CtxPrincipal = "principal"
	CtxRole      = "role"
)

// invalidTokenMsg is deliberately the same for every validation failure so a
// caller cannot tell a revoked token from an expired or forged one.
const invalidTokenMsg = "invalid or expired token"

// Auth authenticates a request: extract the bearer token, check single-token
// revocation, verify signature and expiry, check the account-wide revocation
// marker against the token's issue time, then load the account and attach a
// principal. The raw-token blacklist check runs before signature verification
// because it is a cheap string lookup; ordering affects latency only.
func Auth(codec *token.Codec, cache ports.TokenCache, users ports.UserRepository, staff ports.StaffRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := bearerToken(c)
			if err != nil {
				metrics.AuthRejectionsTotal.WithLabelValues("missing_token").Inc()
				return err
			}

			ctx := c.Request().Context()

			revoked, err := cache.IsTokenBlacklisted(ctx, raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
			}
			if revoked {
				metrics.AuthRejectionsTotal.WithLabelValues("revoked").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, invalidTokenMsg)
			}

			claims, err := codec.Verify(raw, token.PurposeAccess)
			if err != nil {
				metrics.AuthRejectionsTotal.WithLabelValues("invalid").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, invalidTokenMsg)
			}

			revokedAt, ok, err := cache.UserTokensRevokedAt(ctx, claims.Subject)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
			}
			// iat carries whole-second precision while the marker does not,
			// so the marker is truncated before comparing. A token minted
			// within the marker's own second is accepted; a re-login right
			// after logout-all must yield a usable token.
			if ok && claims.IssuedAt != nil && claims.IssuedAt.Time.Before(revokedAt.Truncate(time.Second)) {
				metrics.AuthRejectionsTotal.WithLabelValues("revoked").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, invalidTokenMsg)
			}

			principal, err := lookupAccount(c, claims, users, staff)
			if err != nil {
				return err
			}

			c.Set(CtxPrincipal, principal)
			c.Set(CtxRole, string(principal.Role))
			return next(c)
		}
	}
}

// BearerToken returns the raw bearer token from the Authorization header, or
// "" when none is present. Exported for handlers that consume the token
// itself (logout).
func BearerToken(c echo.Context) string {
	raw, err := bearerToken(c)
	if err != nil {
		return ""
	}
	return raw
}

func bearerToken(c echo.Context) (string, error) {
	header := c.Request().Header.Get("Authorization")
	if header == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}
	return parts[1], nil
}

func lookupAccount(c echo.Context, claims *token.Claims, users ports.UserRepository, staff ports.StaffRepository) (domain.Principal, error) {
	ctx := c.Request().Context()

	if claims.Role.IsStaff() {
		st, err := staff.FindByID(ctx, claims.Subject)
		if err != nil || !st.IsActive {
			metrics.AuthRejectionsTotal.WithLabelValues("unknown_account").Inc()
			return domain.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, invalidTokenMsg)
		}
		return domain.Principal{
			ID:              st.ID,
			Email:           st.Email,
			Role:            st.Role,
			Verified:        true,
			PasswordChanged: st.PasswordChanged,
		}, nil
	}

	u, err := users.FindByID(ctx, claims.Subject)
	if err != nil {
		metrics.AuthRejectionsTotal.WithLabelValues("unknown_account").Inc()
		return domain.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, invalidTokenMsg)
	}
	return domain.Principal{
		ID:              u.ID,
		Email:           u.Email,
		Role:            u.Role,
		Verified:        u.IsVerified,
		PasswordChanged: true,
	}, nil
}
