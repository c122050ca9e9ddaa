package storage

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fortiva/propflow/internal/models"
)

// MemoryStore is an in-memory Store with the same contract as GormStore,
// including the version-checked status update. Used by tests.
type MemoryStore struct {
	mu        sync.RWMutex
	users     map[string]*models.User
	templates map[string]*models.Template
	documents map[string]*models.Document
	audits    []models.AuditLog
	txs       []models.Transaction
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     make(map[string]*models.User),
		templates: make(map[string]*models.Template),
		documents: make(map[string]*models.Document),
	}
}

// Users

func (s *MemoryStore) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *MemoryStore) GetUser(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

// Templates

func (s *MemoryStore) CreateTemplate(_ context.Context, tpl *models.Template) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tpl.ID == "" {
		tpl.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if tpl.CreatedAt.IsZero() {
		tpl.CreatedAt = now
	}
	tpl.UpdatedAt = now
	cp := *tpl
	s.templates[tpl.ID] = &cp
	return nil
}

func (s *MemoryStore) GetTemplate(_ context.Context, id string) (*models.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tpl, ok := s.templates[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *tpl
	return &cp, nil
}

func (s *MemoryStore) ListTemplates(_ context.Context) ([]models.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tpls := make([]models.Template, 0, len(s.templates))
	for _, tpl := range s.templates {
		tpls = append(tpls, *tpl)
	}
	return tpls, nil
}

// Documents

func (s *MemoryStore) CreateDocument(_ context.Context, doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now
	if doc.Version == 0 {
		doc.Version = 1
	}
	cp := *doc
	cp.Template = nil
	s.documents[doc.ID] = &cp
	return nil
}

func (s *MemoryStore) getDocumentLocked(id string) (*models.Document, error) {
	doc, ok := s.documents[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *doc
	if tpl, ok := s.templates[doc.TemplateID]; ok {
		tplCp := *tpl
		cp.Template = &tplCp
	}
	return &cp, nil
}

func (s *MemoryStore) GetDocument(_ context.Context, id string) (*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getDocumentLocked(id)
}

func (s *MemoryStore) ListDocuments(_ context.Context) ([]models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]models.Document, 0, len(s.documents))
	for id := range s.documents {
		doc, _ := s.getDocumentLocked(id)
		docs = append(docs, *doc)
	}
	return docs, nil
}

func (s *MemoryStore) UpdateDocumentStatus(_ context.Context, id, status string, expectedVersion int) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, ErrNotFound
	}
	if doc.Version != expectedVersion {
		return nil, ErrVersionConflict
	}
	doc.Status = status
	doc.Version = expectedVersion + 1
	doc.UpdatedAt = time.Now().UTC()
	return s.getDocumentLocked(id)
}

func (s *MemoryStore) SetDocumentSigningID(_ context.Context, id, signingID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.documents[id]
	if !ok {
		return ErrNotFound
	}
	doc.N8nSigningID = &signingID
	doc.UpdatedAt = time.Now().UTC()
	return nil
}

// Audit logs

func (s *MemoryStore) AppendAuditLog(_ context.Context, entry *models.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	s.audits = append(s.audits, *entry)
	return nil
}

func (s *MemoryStore) ListAuditLogs(_ context.Context, documentID string) ([]models.AuditLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var logs []models.AuditLog
	for _, entry := range s.audits {
		if entry.DocumentID == documentID {
			logs = append(logs, entry)
		}
	}
	return logs, nil
}

// Transactions

func (s *MemoryStore) AppendTransaction(_ context.Context, tx *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if tx.Timestamp.IsZero() {
		tx.Timestamp = time.Now().UTC()
	}
	s.txs = append(s.txs, *tx)
	return nil
}

func (s *MemoryStore) ListTransactions(_ context.Context) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	txs := make([]models.Transaction, len(s.txs))
	copy(txs, s.txs)
	return txs, nil
}
