package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Ghosted34/natours-nest/internal/core/domain"
)

// RBAC enforces role-based access control over the principal attached by
// Auth. Pure predicate, no I/O.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if len(allowed) == 0 {
				return next(c)
			}

			principal, ok := c.Get(CtxPrincipal).(domain.Principal)
			if !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			if _, ok := allowed[principal.Role]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}

// RequirePasswordChange blocks guides that are still on the temporary
// password set by the admin who created their account. Admins and end users
// pass through.
func RequirePasswordChange() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := c.Get(CtxPrincipal).(domain.Principal)
			if !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			guide := principal.Role == domain.RoleGuide || principal.Role == domain.RoleLeadGuide
			if guide && !principal.PasswordChanged {
				return c.JSON(http.StatusForbidden, map[string]string{
					"error": "please change your temporary password to access this resource",
				})
			}
			return next(c)
		}
	}
}

// RequireVerified rejects principals that have not verified their email.
// Staff principals always pass; they have no verification state.
func RequireVerified() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := c.Get(CtxPrincipal).(domain.Principal)
			if !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			if !principal.Verified {
				return c.JSON(http.StatusForbidden, map[string]string{
					"error": "please verify your account to access this resource",
				})
			}
			return next(c)
		}
	}
}
