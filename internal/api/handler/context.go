package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/rbacblog/blog-api/internal/api/middleware"
	"github.com/rbacblog/blog-api/internal/core/domain"
)

// requireIdentity extracts the identity attached by the auth middleware.
// A missing identity means the route was registered without the middleware;
// reject rather than proceed unauthenticated.
func requireIdentity(c echo.Context) (domain.Identity, error) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		return domain.Identity{}, domain.ErrAuthRequired
	}
	return ident, nil
}
