package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rbacblog/blog-api/internal/core/domain"
)

const auditCollection = "audit_events"

// AuditRepository appends audit events. The collection is write-only from the
// application's point of view; it is read with external tooling.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

func (r *AuditRepository) Insert(ctx context.Context, event *domain.AuditEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"actor_id":    event.ActorID,
		"actor_email": event.ActorEmail,
		"action":      event.Action,
		"timestamp":   event.Timestamp,
		"recorded_at": event.RecordedAt,
	}
	if event.Subject != "" {
		doc["subject"] = event.Subject
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}
