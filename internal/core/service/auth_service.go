package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/rbacblog/blog-api/internal/core/domain"
	"github.com/rbacblog/blog-api/internal/core/ports"
)

// AuthService implements registration, login and logout.
type AuthService struct {
	users   ports.UserRepository
	tokens  ports.TokenService
	revoker ports.TokenRevoker
	audit   ports.AuditRecorder
	log     zerolog.Logger
}

// NewAuthService wires the service. revoker and audit may be nil; logout then
// degrades to a no-op revocation and mutations go unaudited.
func NewAuthService(users ports.UserRepository, tokens ports.TokenService, revoker ports.TokenRevoker, audit ports.AuditRecorder, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, revoker: revoker, audit: audit, log: log}
}

// Register creates an account with the "user" role, hashes the password and
// issues a token so the caller is logged in immediately.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (string, *domain.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return "", nil, domain.ErrMissingFields
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return "", nil, err
	}

	token, err := s.tokens.Issue(created.ID)
	if err != nil {
		return "", nil, err
	}

	s.record(created.Identity(), "user.register", "")
	s.log.Info().Str("user_id", created.ID).Str("email", created.Email).Msg("user registered")

	return token, created, nil
}

// Login checks the credentials and issues a fresh token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, err
	}

	s.record(user.Identity(), "user.login", "")

	return token, user, nil
}

// Logout revokes the presented token until its natural expiry. The token must
// still verify; revoking garbage is pointless and reported as such.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return err
	}

	if s.revoker != nil {
		ttl := time.Until(claims.ExpiresAt)
		if ttl > 0 {
			if err := s.revoker.Revoke(ctx, token, ttl); err != nil {
				return err
			}
		}
	}

	s.record(domain.Identity{UserID: claims.UserID}, "user.logout", "")
	return nil
}

func (s *AuthService) record(actor domain.Identity, action, subject string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(ports.AuditEntry{
		ActorID:    actor.UserID,
		ActorEmail: actor.Email,
		Action:     action,
		Subject:    subject,
		Timestamp:  time.Now().UTC(),
	})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
