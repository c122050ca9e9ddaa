// Package documents implements the document status lifecycle: creation,
// signing approval, status polling and the inbound callbacks from the
// signing automation. Every state change appends an audit row; every
// gateway notification leaves a transaction outcome record.
package documents

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"gorm.io/datatypes"

	"github.com/fortiva/propflow/internal/metadata"
	"github.com/fortiva/propflow/internal/models"
	"github.com/fortiva/propflow/internal/services/signing"
	"github.com/fortiva/propflow/internal/storage"
)

// statusWriteAttempts bounds the optimistic-lock retry loop. A conflict
// means another writer (poll or callback) landed first; re-reading and
// retrying converges on the latest state.
const statusWriteAttempts = 3

// StatusPublisher receives document status change events, e.g. the
// websocket hub feeding connected dashboards. May be nil.
type StatusPublisher interface {
	PublishStatus(documentID, status string)
}

// Service coordinates the document lifecycle across storage, the signing
// gateway and the audit/transaction logs.
type Service struct {
	store   storage.Store
	gateway signing.Gateway
	events  StatusPublisher
}

// NewService wires the lifecycle service. events may be nil.
func NewService(store storage.Store, gateway signing.Gateway, events StatusPublisher) *Service {
	return &Service{store: store, gateway: gateway, events: events}
}

// Create instantiates a document from a template and a metadata payload.
// Status is always pending regardless of input; the payload is
// normalized into the flat field map exactly once, here. The gateway is
// notified fire-and-forget after the local commit.
func (s *Service) Create(ctx context.Context, templateID string, meta models.JSONB, actor string, auditMeta models.JSONB) (*models.Document, error) {
	if _, err := s.store.GetTemplate(ctx, templateID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	fields, err := json.Marshal(metadata.Flatten(meta, now))
	if err != nil {
		return nil, err
	}

	doc := &models.Document{
		TemplateID: templateID,
		Status:     models.DocumentStatusPending,
		Metadata:   meta,
		Fields:     datatypes.JSON(fields),
		Version:    1,
	}
	if err := s.store.CreateDocument(ctx, doc); err != nil {
		return nil, err
	}

	if err := s.store.AppendAuditLog(ctx, &models.AuditLog{
		DocumentID: doc.ID,
		Action:     "created",
		Actor:      actor,
		Metadata:   auditMeta,
	}); err != nil {
		return nil, err
	}

	res := s.gateway.GenerateDocument(ctx, doc)
	s.recordOutcome(ctx, doc.ID, "document-generate", res)

	s.publish(doc.ID, doc.Status)
	return s.store.GetDocument(ctx, doc.ID)
}

// Approve marks a document approved for signing. The document must
// exist; its current status is deliberately not checked (re-approval is
// accepted). The local transition commits regardless of whether the
// gateway notification gets through.
func (s *Service) Approve(ctx context.Context, id, actor string, auditMeta models.JSONB) (*models.Document, error) {
	doc, err := s.setStatus(ctx, id, models.DocumentStatusApproved)
	if err != nil {
		return nil, err
	}

	if err := s.store.AppendAuditLog(ctx, &models.AuditLog{
		DocumentID: id,
		Action:     "approved",
		Actor:      actor,
		Metadata:   auditMeta,
	}); err != nil {
		return nil, err
	}

	res := s.gateway.ApproveSigning(ctx, id)
	s.recordOutcome(ctx, id, "approves-signing", res)

	s.publish(id, doc.Status)
	return doc, nil
}

// CheckStatus polls the gateway for the signing status. A gateway
// failure is not an error: the stored document is returned unchanged.
// When the gateway reports a different status, the store is updated
// before returning.
func (s *Service) CheckStatus(ctx context.Context, id string) (*models.Document, error) {
	doc, err := s.store.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	status, res := s.gateway.SignStatus(ctx, id)
	if !res.OK {
		log.Printf("sign-status check failed for document %s: %v", id, res.Err)
		return doc, nil
	}

	if status.Status != "" && status.Status != doc.Status {
		updated, err := s.setStatus(ctx, id, status.Status)
		if err != nil {
			return nil, err
		}
		s.publish(id, updated.Status)
		return updated, nil
	}
	return doc, nil
}

// ApplyStatusCallback handles the inbound document-status push from the
// signing automation. The posted status overwrites the stored one
// unchecked: the gateway is the source of truth for signing outcomes and
// no transition order is enforced.
func (s *Service) ApplyStatusCallback(ctx context.Context, documentID, status, signingID string) (*models.Document, error) {
	doc, err := s.setStatus(ctx, documentID, status)
	if err != nil {
		return nil, err
	}

	if signingID != "" {
		if err := s.store.SetDocumentSigningID(ctx, documentID, signingID); err != nil {
			return nil, err
		}
	}

	var auditMeta models.JSONB
	if signingID != "" {
		auditMeta = models.JSONB{"n8nId": signingID}
	}
	if err := s.store.AppendAuditLog(ctx, &models.AuditLog{
		DocumentID: documentID,
		Action:     "status_change_to_" + status,
		Actor:      models.ActorSystem,
		Metadata:   auditMeta,
	}); err != nil {
		return nil, err
	}

	s.publish(documentID, status)
	return doc, nil
}

// RecordAudit appends an audit row on behalf of the external automation
// (the audit-log callback endpoint). Storage errors propagate.
func (s *Service) RecordAudit(ctx context.Context, documentID, action, actor string, meta models.JSONB) error {
	return s.store.AppendAuditLog(ctx, &models.AuditLog{
		DocumentID: documentID,
		Action:     action,
		Actor:      actor,
		Metadata:   meta,
	})
}

// setStatus performs the version-checked status write, re-reading and
// retrying on conflict so concurrent poll/callback writers converge
// instead of silently losing updates.
func (s *Service) setStatus(ctx context.Context, id, status string) (*models.Document, error) {
	for attempt := 0; attempt < statusWriteAttempts; attempt++ {
		doc, err := s.store.GetDocument(ctx, id)
		if err != nil {
			return nil, err
		}
		updated, err := s.store.UpdateDocumentStatus(ctx, id, status, doc.Version)
		if errors.Is(err, storage.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}
	return nil, storage.ErrVersionConflict
}

// recordOutcome logs a gateway delivery result and appends the matching
// transaction row. Neither failure reaches the caller: gateway delivery
// is best effort by design, and the user-facing operation has already
// committed.
func (s *Service) recordOutcome(ctx context.Context, documentID, operation string, res signing.Result) {
	status := models.TransactionStatusSuccess
	if !res.OK {
		status = models.TransactionStatusFailed
		log.Printf("n8n %s notification failed for document %s: %v", operation, documentID, res.Err)
	}
	docID := documentID
	if err := s.store.AppendTransaction(ctx, &models.Transaction{
		DocumentID: &docID,
		Status:     status,
	}); err != nil {
		log.Printf("failed to record %s transaction for document %s: %v", operation, documentID, err)
	}
}

func (s *Service) publish(documentID, status string) {
	if s.events != nil {
		s.events.PublishStatus(documentID, status)
	}
}
