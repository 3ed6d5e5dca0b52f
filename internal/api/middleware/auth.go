package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/rbacblog/blog-api/internal/api/metrics"
	"github.com/rbacblog/blog-api/internal/core/domain"
	"github.com/rbacblog/blog-api/internal/core/ports"
)

// identityKey is where the authenticated identity lives in the echo context.
const identityKey = "auth.identity"

// RevocationChecker reports whether a token has been revoked ahead of expiry.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// Authenticator turns a bearer token into a request identity: verify the
// token, check the revocation list, then re-read the user so the identity
// carries the stored role, not the one the token was minted with.
type Authenticator struct {
	tokens  ports.TokenService
	users   ports.UserRepository
	revoked RevocationChecker
	log     zerolog.Logger
}

// NewAuthenticator wires the authenticator. revoked may be nil, in which case
// the revocation check is skipped.
func NewAuthenticator(tokens ports.TokenService, users ports.UserRepository, revoked RevocationChecker, log zerolog.Logger) *Authenticator {
	return &Authenticator{tokens: tokens, users: users, revoked: revoked, log: log}
}

// Middleware authenticates the request and attaches the identity for
// downstream stages. Identity attachment is all-or-nothing: on any failure
// the handler never runs.
func (a *Authenticator) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ident, err := a.Identify(c.Request().Context(), c.Request().Header.Get("Authorization"))
			if err != nil {
				return err
			}
			SetIdentity(c, ident)
			return next(c)
		}
	}
}

// Identify resolves an Authorization header value to a live identity, or
// explains why it can't. The error is either domain.ErrAuthRequired, one of
// the domain.ErrAuthInvalid family, or a store failure.
func (a *Authenticator) Identify(ctx context.Context, header string) (domain.Identity, error) {
	token, err := BearerToken(header)
	if err != nil {
		return domain.Identity{}, err
	}

	claims, err := a.tokens.Verify(token)
	if err != nil {
		metrics.TokenVerificationsTotal.WithLabelValues(verifyResult(err)).Inc()
		a.log.Debug().Err(err).Msg("token verification failed")
		return domain.Identity{}, err
	}

	if a.revoked != nil {
		revoked, err := a.revoked.IsRevoked(ctx, token)
		if err != nil {
			// Revocation storage being down must not lock everyone out.
			a.log.Warn().Err(err).Msg("revocation check failed, accepting token")
		} else if revoked {
			metrics.TokenVerificationsTotal.WithLabelValues("revoked").Inc()
			return domain.Identity{}, domain.ErrTokenRevoked
		}
	}

	user, err := a.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.TokenVerificationsTotal.WithLabelValues("unknown_user").Inc()
			return domain.Identity{}, domain.ErrTokenUnknownUser
		}
		return domain.Identity{}, err
	}

	metrics.TokenVerificationsTotal.WithLabelValues("ok").Inc()
	return user.Identity(), nil
}

// BearerToken extracts the raw token from an Authorization header value.
// Returns domain.ErrAuthRequired when the header is absent or not of the form
// "Bearer <token>".
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", domain.ErrAuthRequired
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", domain.ErrAuthRequired
	}
	return parts[1], nil
}

// SetIdentity attaches the authenticated identity to the request context.
func SetIdentity(c echo.Context, ident domain.Identity) {
	c.Set(identityKey, ident)
}

// IdentityFrom returns the identity attached by the auth middleware, if any.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	ident, ok := c.Get(identityKey).(domain.Identity)
	return ident, ok
}

func verifyResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrTokenSignatureInvalid):
		return "bad_signature"
	case errors.Is(err, domain.ErrTokenRevoked):
		return "revoked"
	case errors.Is(err, domain.ErrTokenMalformed):
		return "malformed"
	default:
		return "error"
	}
}
