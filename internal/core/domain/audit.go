package domain

import "time"

// AuditEvent records a single mutation for the audit trail: who did what to
// which subject, and when. RecordedAt is stamped at persistence time.
type AuditEvent struct {
	ActorID    string    `json:"actor_id"`
	ActorEmail string    `json:"actor_email"`
	Action     string    `json:"action"`
	Subject    string    `json:"subject,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	RecordedAt time.Time `json:"recorded_at"`
}
