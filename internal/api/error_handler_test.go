package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Ghosted34/natours-nest/internal/core/domain"
)

func renderError(t *testing.T, err error) (int, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return rec.Code, body.Error
}

func TestErrorHandler_DomainMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrEmailTaken, http.StatusForbidden},
		{domain.ErrUsernameTaken, http.StatusForbidden},
		{domain.ErrInvalidCredentials, http.StatusForbidden},
		{domain.ErrInvalidToken, http.StatusForbidden},
		{domain.ErrInvalidOTP, http.StatusForbidden},
		{domain.ErrStaffExists, http.StatusForbidden},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrAlreadyVerified, http.StatusConflict},
		{domain.ErrReviewExists, http.StatusConflict},
		{domain.ErrUserNotFound, http.StatusNotFound},
		{domain.ErrStaffNotFound, http.StatusNotFound},
		{domain.ErrTourNotFound, http.StatusNotFound},
		{domain.ErrReviewNotFound, http.StatusNotFound},
	}
	for _, tc := range cases {
		code, msg := renderError(t, tc.err)
		if code != tc.code {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.code, code)
		}
		if msg == "" {
			t.Fatalf("%v: empty message", tc.err)
		}
	}
}

func TestErrorHandler_TokenFailuresShareOneShape(t *testing.T) {
	// Revoked, expired and malformed tokens must be indistinguishable.
	codeA, msgA := renderError(t, domain.ErrInvalidToken)
	codeB, msgB := renderError(t, errors.Join(domain.ErrInvalidToken, errors.New("expired")))
	if codeA != codeB || msgA != msgB {
		t.Fatalf("token failures diverge: (%d %q) vs (%d %q)", codeA, msgA, codeB, msgB)
	}
}

func TestErrorHandler_EchoErrorsPassThrough(t *testing.T) {
	code, msg := renderError(t, echo.NewHTTPError(http.StatusBadRequest, "invalid payload"))
	if code != http.StatusBadRequest || msg != "invalid payload" {
		t.Fatalf("expected 400 invalid payload, got %d %q", code, msg)
	}
}

func TestErrorHandler_UnexpectedErrorIsGeneric(t *testing.T) {
	code, msg := renderError(t, errors.New("mongo: connection reset"))
	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	if msg != "internal server error" {
		t.Fatalf("internal detail leaked: %q", msg)
	}
}
