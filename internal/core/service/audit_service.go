package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/rbacblog/blog-api/internal/core/domain"
	"github.com/rbacblog/blog-api/internal/core/ports"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService that persists entries to the audit
// repository. Failures are the caller's to log; nothing here retries.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

func (s *auditService) Process(ctx context.Context, entry ports.AuditEntry) error {
	event := &domain.AuditEvent{
		ActorID:    entry.ActorID,
		ActorEmail: entry.ActorEmail,
		Action:     entry.Action,
		Subject:    entry.Subject,
		Timestamp:  entry.Timestamp,
		RecordedAt: time.Now().UTC(),
	}

	if err := s.repo.Insert(ctx, event); err != nil {
		return fmt.Errorf("record audit event: %w", err)
	}

	s.log.Debug().
		Str("actor_id", entry.ActorID).
		Str("action", entry.Action).
		Str("subject", entry.Subject).
		Msg("audit event recorded")

	return nil
}
