package models

import "time"

// Template is a reusable HTML document template. Content carries
// {{placeholder}} tokens substituted at render time.
type Template struct {
	ID           string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Name         string `gorm:"not null" json:"name"`
	DocumentType string `gorm:"column:document_type;not null" json:"documentType"`
	Content      string `gorm:"type:text;not null" json:"content"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name
func (Template) TableName() string {
	return "templates"
}
