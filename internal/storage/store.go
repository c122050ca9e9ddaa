// Package storage persists the workflow entities. The Store interface is
// the single seam between HTTP/services and the database; GormStore is
// the production implementation, MemoryStore backs the tests.
package storage

import (
	"context"
	"errors"

	"github.com/fortiva/propflow/internal/models"
)

var (
	// ErrNotFound is returned when the targeted row does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrVersionConflict is returned when a version-checked document
	// update lost the race against a concurrent writer.
	ErrVersionConflict = errors.New("document version conflict")
)

// Store is the persistence contract for the document workflow.
type Store interface {
	// Users
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// Templates
	CreateTemplate(ctx context.Context, tpl *models.Template) error
	GetTemplate(ctx context.Context, id string) (*models.Template, error)
	ListTemplates(ctx context.Context) ([]models.Template, error)

	// Documents. GetDocument and ListDocuments load the referenced
	// template alongside the document.
	CreateDocument(ctx context.Context, doc *models.Document) error
	GetDocument(ctx context.Context, id string) (*models.Document, error)
	ListDocuments(ctx context.Context) ([]models.Document, error)

	// UpdateDocumentStatus writes status only if the stored version still
	// equals expectedVersion, incrementing it. Returns ErrNotFound when
	// the document does not exist and ErrVersionConflict when the version
	// check failed.
	UpdateDocumentStatus(ctx context.Context, id, status string, expectedVersion int) (*models.Document, error)

	// SetDocumentSigningID stores the external signing reference.
	SetDocumentSigningID(ctx context.Context, id, signingID string) error

	// Audit logs: append-only, listed in ascending timestamp order.
	AppendAuditLog(ctx context.Context, entry *models.AuditLog) error
	ListAuditLogs(ctx context.Context, documentID string) ([]models.AuditLog, error)

	// Transactions: append-only operation outcome records.
	AppendTransaction(ctx context.Context, tx *models.Transaction) error
	ListTransactions(ctx context.Context) ([]models.Transaction, error)
}
