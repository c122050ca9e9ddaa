package models

import "time"

// User represents an authenticated operator of the system
// Standardized: Go (PascalCase) -> DB (snake_case) -> JSON (camelCase)
type User struct {
	ID       string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Email    string `gorm:"unique;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Name     string `gorm:"not null" json:"name"`

	CreatedAt time.Time `json:"createdAt"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}
