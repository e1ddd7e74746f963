package models

import "time"

// Audit action tags. The detail payload schema is per-action and must stay
// stable for forensic replay.
const (
	ActionCreated        = "created"
	ActionUpdated        = "updated"
	ActionDeleted        = "deleted"
	ActionPaymentAdded   = "payment_added"
	ActionPaymentDeleted = "payment_deleted"
	ActionStatusChanged  = "status_changed"
)

// AuditEntry records one state-changing action. Append-only: entries are
// never updated or deleted.
type AuditEntry struct {
	ID         uint      `gorm:"primaryKey"`
	User       string    `gorm:"size:100;not null"`
	Action     string    `gorm:"size:100;not null"`
	EntityType string    `gorm:"size:50;not null;index:idx_audit_entity"`
	EntityID   uint      `gorm:"not null;index:idx_audit_entity"`
	Timestamp  time.Time `gorm:"not null"`
	Details    string    `gorm:"type:text"` // JSON, action-specific
}
