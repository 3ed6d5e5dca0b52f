package ports

import (
	"context"

	"github.com/rbacblog/blog-api/internal/core/domain"
)

// AuthService implements registration, login and logout. Register always
// creates the account with the "user" role; elevation happens outside this
// service. Login returns the same error for unknown email and wrong password
// so callers cannot probe which addresses are registered.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Logout(ctx context.Context, token string) error
}
