package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/rbacblog/blog-api/internal/core/domain"
)

func identityContext(t *testing.T, role domain.Role) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	SetIdentity(c, domain.Identity{UserID: "u1", Name: "A", Email: "a@x.com", Role: role})
	return c
}

func TestRequireRoles_Allows(t *testing.T) {
	called := false
	handler := RequireRoles(domain.RoleAdmin)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(identityContext(t, domain.RoleAdmin)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
}

func TestRequireRoles_Forbids(t *testing.T) {
	handler := RequireRoles(domain.RoleAdmin)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	err := handler(identityContext(t, domain.RoleUser))
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected HTTP error, got %v", err)
	}
	if he.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", he.Code)
	}
	// The offending role is named for diagnostics.
	if msg, _ := he.Message.(string); !strings.Contains(msg, "user") {
		t.Fatalf("expected role in message, got %q", he.Message)
	}
}

func TestRequireRoles_MissingIdentity(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	handler := RequireRoles(domain.RoleAdmin)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrAuthRequired) {
		t.Fatalf("expected ErrAuthRequired, got %v", err)
	}
}

func TestRequireRoles_MultipleRoles(t *testing.T) {
	handler := RequireRoles(domain.RoleAdmin, domain.RoleUser)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleUser} {
		if err := handler(identityContext(t, role)); err != nil {
			t.Fatalf("role %s: %v", role, err)
		}
	}
}
