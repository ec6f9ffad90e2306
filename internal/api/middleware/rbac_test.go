package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/Ghosted34/natours-nest/internal/core/domain"
)

func runGuard(t *testing.T, mw echo.MiddlewareFunc, principal *domain.Principal) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if principal != nil {
		c.Set(CtxPrincipal, *principal)
	}

	called := false
	handler := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, called
}

func TestRBAC_AllowedRole(t *testing.T) {
	rec, called := runGuard(t, RBAC(domain.RoleAdmin, domain.RoleLeadGuide),
		&domain.Principal{ID: "staff_1", Role: domain.RoleLeadGuide})
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("allowed role rejected (called=%v code=%d)", called, rec.Code)
	}
}

func TestRBAC_DeniedRole(t *testing.T) {
	rec, called := runGuard(t, RBAC(domain.RoleAdmin),
		&domain.Principal{ID: "user_1", Role: domain.RoleUser})
	if called {
		t.Fatalf("disallowed role must not pass")
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRBAC_MissingPrincipal(t *testing.T) {
	rec, called := runGuard(t, RBAC(domain.RoleAdmin), nil)
	if called {
		t.Fatalf("request without principal must not pass")
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRBAC_NoRestriction(t *testing.T) {
	// An empty allow-list admits everyone, even without a principal.
	rec, called := runGuard(t, RBAC(), nil)
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("unrestricted guard must admit (called=%v code=%d)", called, rec.Code)
	}
}

func TestRequirePasswordChange(t *testing.T) {
	// A guide on the admin-set temporary password is blocked.
	rec, called := runGuard(t, RequirePasswordChange(),
		&domain.Principal{ID: "staff_1", Role: domain.RoleGuide, PasswordChanged: false})
	if called {
		t.Fatalf("guide with unchanged password must not pass")
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}

	rec, called = runGuard(t, RequirePasswordChange(),
		&domain.Principal{ID: "staff_1", Role: domain.RoleLeadGuide, PasswordChanged: true})
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("guide with changed password rejected (called=%v code=%d)", called, rec.Code)
	}

	// Admins and end users carry no temporary password.
	rec, called = runGuard(t, RequirePasswordChange(),
		&domain.Principal{ID: "staff_2", Role: domain.RoleAdmin})
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("admin rejected (called=%v code=%d)", called, rec.Code)
	}
}

func TestRequireVerified(t *testing.T) {
	rec, called := runGuard(t, RequireVerified(),
		&domain.Principal{ID: "user_1", Role: domain.RoleUser, Verified: true})
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("verified principal rejected (called=%v code=%d)", called, rec.Code)
	}

	rec, called = runGuard(t, RequireVerified(),
		&domain.Principal{ID: "user_2", Role: domain.RoleUser, Verified: false})
	if called {
		t.Fatalf("unverified principal must not pass")
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}
