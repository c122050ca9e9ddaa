package models

import "time"

// Audit actors. User-initiated entries carry the user's email; entries
// driven by the signing gateway carry ActorSystem.
const ActorSystem = "System"

// AuditLog is one immutable record of an action taken against a document.
// Rows are append-only: nothing in the codebase updates or deletes them.
type AuditLog struct {
	ID         string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	DocumentID string    `gorm:"column:document_id;type:uuid;not null;index" json:"documentId"`
	Action     string    `gorm:"not null" json:"action"`
	Actor      string    `gorm:"not null" json:"actor"`
	Metadata   JSONB     `gorm:"type:jsonb" json:"metadata,omitempty"`
	Timestamp  time.Time `gorm:"column:timestamp;autoCreateTime" json:"timestamp"`
}

// TableName specifies the table name
func (AuditLog) TableName() string {
	return "audit_logs"
}
