package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Ghosted34/natours-nest/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors map to deterministic HTTP codes. Credential and
	// token failures all render as 403 with the same generic messages so
	// callers cannot distinguish which check rejected them.
	switch {
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusForbidden, "email already in use"
	case errors.Is(err, domain.ErrUsernameTaken):
		return http.StatusForbidden, "username already in use"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusForbidden, "invalid credentials"
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusForbidden, "invalid or expired token"
	case errors.Is(err, domain.ErrInvalidOTP):
		return http.StatusForbidden, "invalid or expired otp"
	case errors.Is(err, domain.ErrStaffExists):
		return http.StatusForbidden, "staff account already exists"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, domain.ErrAlreadyVerified):
		return http.StatusConflict, "account already verified"
	case errors.Is(err, domain.ErrReviewExists):
		return http.StatusConflict, "review already exists for this tour"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, domain.ErrStaffNotFound):
		return http.StatusNotFound, "staff not found"
	case errors.Is(err, domain.ErrTourNotFound):
		return http.StatusNotFound, "tour not found"
	case errors.Is(err, domain.ErrReviewNotFound):
		return http.StatusNotFound, "review not found"
	}

	// Unexpected error: log the real cause, return a generic message. Store
	// and cache failures land here; they must never read as "not found".
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
