package ports

import (
	"context"
	"time"

	"github.com/rbacblog/blog-api/internal/core/domain"
)

// AuditEntry is a pending audit record produced by a service and consumed by
// a worker. Actor fields come from the request identity.
type AuditEntry struct {
	ActorID    string
	ActorEmail string
	Action     string
	Subject    string
	Timestamp  time.Time
}

// AuditRecorder accepts audit entries without blocking the request path.
// Implementations may drop entries under pressure; auditing never fails a
// request.
type AuditRecorder interface {
	Record(entry AuditEntry)
}

// AuditService persists a single audit entry.
type AuditService interface {
	Process(ctx context.Context, entry AuditEntry) error
}

// AuditRepository stores audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
}
