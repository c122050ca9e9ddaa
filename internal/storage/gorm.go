package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/fortiva/propflow/internal/models"
)

// GormStore implements Store on top of a GORM Postgres connection.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an open GORM connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// Users

func (s *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

func (s *GormStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// Templates

func (s *GormStore) CreateTemplate(ctx context.Context, tpl *models.Template) error {
	return s.db.WithContext(ctx).Create(tpl).Error
}

func (s *GormStore) GetTemplate(ctx context.Context, id string) (*models.Template, error) {
	var tpl models.Template
	if err := s.db.WithContext(ctx).First(&tpl, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &tpl, nil
}

func (s *GormStore) ListTemplates(ctx context.Context) ([]models.Template, error) {
	var tpls []models.Template
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&tpls).Error; err != nil {
		return nil, err
	}
	return tpls, nil
}

// Documents

func (s *GormStore) CreateDocument(ctx context.Context, doc *models.Document) error {
	return s.db.WithContext(ctx).Create(doc).Error
}

func (s *GormStore) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	var doc models.Document
	if err := s.db.WithContext(ctx).Preload("Template").First(&doc, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &doc, nil
}

func (s *GormStore) ListDocuments(ctx context.Context) ([]models.Document, error) {
	var docs []models.Document
	if err := s.db.WithContext(ctx).Preload("Template").Order("created_at DESC").Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *GormStore) UpdateDocumentStatus(ctx context.Context, id, status string, expectedVersion int) (*models.Document, error) {
	res := s.db.WithContext(ctx).Model(&models.Document{}).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(map[string]interface{}{
			"status":  status,
			"version": expectedVersion + 1,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("update document status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// Distinguish a missing row from a stale version.
		if _, err := s.GetDocument(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrVersionConflict
	}
	return s.GetDocument(ctx, id)
}

func (s *GormStore) SetDocumentSigningID(ctx context.Context, id, signingID string) error {
	res := s.db.WithContext(ctx).Model(&models.Document{}).
		Where("id = ?", id).
		Update("n8n_signing_id", signingID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Audit logs

func (s *GormStore) AppendAuditLog(ctx context.Context, entry *models.AuditLog) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

func (s *GormStore) ListAuditLogs(ctx context.Context, documentID string) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	if err := s.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("timestamp ASC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// Transactions

func (s *GormStore) AppendTransaction(ctx context.Context, tx *models.Transaction) error {
	return s.db.WithContext(ctx).Create(tx).Error
}

func (s *GormStore) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	var txs []models.Transaction
	if err := s.db.WithContext(ctx).Order("timestamp DESC").Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}
