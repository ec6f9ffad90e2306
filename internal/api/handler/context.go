package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Ghosted34/natours-nest/internal/api/middleware"
	"github.com/Ghosted34/natours-nest/internal/core/domain"
)

// ctxPrincipal extracts the principal attached by the Auth middleware and
// performs a fast-fail check before any service call: a missing or empty
// principal means the middleware never ran on this route.
func ctxPrincipal(c echo.Context) (domain.Principal, error) {
	principal, ok := c.Get(middleware.CtxPrincipal).(domain.Principal)
	if !ok || principal.ID == "" {
		return domain.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return principal, nil
}
