package domain

import "time"

type AuditAction string

const (
	AuditActionCreated   AuditAction = "created"
	AuditActionUpdated   AuditAction = "updated"
	AuditActionConfirmed AuditAction = "confirmed"
	AuditActionCancelled AuditAction = "cancelled"
	AuditActionCompleted AuditAction = "completed"
)

// AuditEntry records one committed mutation of a booking. Immutable once
// appended to a trail.
type AuditEntry struct {
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	Action    AuditAction `json:"action"`
	Details   string      `json:"details"`
}

// AppendAudit returns a new trail with entry added at the end. The input
// slice is never modified, so callers holding the old trail keep a stable
// view. Entry timestamps must not go backwards within a trail.
func AppendAudit(trail []AuditEntry, entry AuditEntry) ([]AuditEntry, error) {
	if len(trail) > 0 && entry.Timestamp.Before(trail[len(trail)-1].Timestamp) {
		return nil, ErrOutOfOrderAuditEntry
	}

	out := make([]AuditEntry, len(trail), len(trail)+1)
	copy(out, trail)
	return append(out, entry), nil
}
