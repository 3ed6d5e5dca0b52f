package middleware

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rbacblog/blog-api/internal/core/domain"
)

// RequireRoles enforces role-based access control. The allow-list is fixed at
// route-registration time. Must run after the auth middleware; a request with
// no attached identity is rejected as unauthenticated rather than forbidden.
func RequireRoles(allowed ...domain.Role) echo.MiddlewareFunc {
	set := make(map[domain.Role]struct{}, len(allowed))
	for _, r := range allowed {
		set[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ident, ok := IdentityFrom(c)
			if !ok {
				return domain.ErrAuthRequired
			}
			if _, ok := set[ident.Role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden,
					fmt.Sprintf("Role %s is not authorized to access this resource", ident.Role))
			}
			return next(c)
		}
	}
}
