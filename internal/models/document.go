package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Document status values. The intended flow is
// pending -> approved -> signed|declined, but transitions are not
// enforced: the external signing service may overwrite status freely.
const (
	DocumentStatusPending  = "pending"
	DocumentStatusApproved = "approved"
	DocumentStatusSigned   = "signed"
	DocumentStatusDeclined = "declined"
)

// ValidDocumentStatus reports whether s is one of the four document statuses.
func ValidDocumentStatus(s string) bool {
	switch s {
	case DocumentStatusPending, DocumentStatusApproved, DocumentStatusSigned, DocumentStatusDeclined:
		return true
	}
	return false
}

// Document is an instantiated contract: one template bound to one
// transaction-metadata payload. Metadata keeps the payload exactly as
// submitted; Fields holds the flat key map normalized once at creation,
// which is what the renderer and the signing gateway consume.
type Document struct {
	ID           string         `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	TemplateID   string         `gorm:"column:template_id;type:uuid;not null;index" json:"templateId"`
	Template     *Template      `gorm:"foreignKey:TemplateID" json:"template,omitempty"`
	Status       string         `gorm:"not null;default:'pending';index" json:"status"`
	Metadata     JSONB          `gorm:"type:jsonb;not null" json:"metadata"`
	Fields       datatypes.JSON `gorm:"type:jsonb" json:"fields,omitempty"`
	N8nSigningID *string        `gorm:"column:n8n_signing_id" json:"n8nSigningId,omitempty"`

	// Version is the optimistic concurrency token. Every status write goes
	// through a version-checked UPDATE so concurrent writers cannot silently
	// overwrite each other.
	Version int `gorm:"not null;default:1" json:"version"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name
func (Document) TableName() string {
	return "documents"
}

// FlatFields decodes the normalized field map stored at creation time.
// Returns an empty map if the column is null or unreadable.
func (d *Document) FlatFields() map[string]string {
	fields := make(map[string]string)
	if len(d.Fields) == 0 {
		return fields
	}
	if err := json.Unmarshal(d.Fields, &fields); err != nil {
		return map[string]string{}
	}
	return fields
}
