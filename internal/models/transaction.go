package models

import "time"

// Transaction status values (distinct from document statuses).
const (
	TransactionStatusSuccess = "success"
	TransactionStatusFailed  = "failed"
	TransactionStatusPending = "pending"
)

// ValidTransactionStatus reports whether s is a known transaction status.
func ValidTransactionStatus(s string) bool {
	switch s {
	case TransactionStatusSuccess, TransactionStatusFailed, TransactionStatusPending:
		return true
	}
	return false
}

// Transaction records the outcome of one system operation, typically a
// call to the signing gateway. Append-only, like AuditLog.
type Transaction struct {
	ID         string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	DocumentID *string   `gorm:"column:document_id;type:uuid;index" json:"documentId,omitempty"`
	Status     string    `gorm:"not null" json:"status"`
	Timestamp  time.Time `gorm:"column:timestamp;autoCreateTime" json:"timestamp"`
}

// TableName specifies the table name
func (Transaction) TableName() string {
	return "transactions"
}
