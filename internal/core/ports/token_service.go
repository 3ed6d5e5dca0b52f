package ports

import (
	"context"
	"time"
)

// TokenClaims is the decoded claim set of a verified bearer token.
type TokenClaims struct {
	UserID    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenService issues and verifies signed, time-limited bearer tokens.
// Verify failures are the domain.ErrToken* sentinels, all of which satisfy
// errors.Is(err, domain.ErrAuthInvalid).
type TokenService interface {
	Issue(userID string) (string, error)
	Verify(token string) (TokenClaims, error)
}

// TokenRevoker invalidates an issued token ahead of its natural expiry.
// ttl bounds how long the revocation record must be kept; the token is
// unusable anyway once it expires.
type TokenRevoker interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
}
