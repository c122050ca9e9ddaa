package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/fortiva/propflow/internal/models"
)

// DocumentStatusCallback is the inbound status push from the signing
// automation. Status is applied as posted; the automation is the source
// of truth for signing outcomes.
type DocumentStatusCallback struct {
	DocumentID string `json:"documentId"`
	Status     string `json:"status"`
	N8nID      string `json:"n8nId,omitempty"`
}

// AuditLogCallback lets the automation append audit rows directly.
type AuditLogCallback struct {
	DocumentID string       `json:"documentId"`
	Action     string       `json:"action"`
	Actor      string       `json:"actor"`
	Metadata   models.JSONB `json:"metadata,omitempty"`
}

// documentStatusWebhook applies a pushed status change
func (r *Router) documentStatusWebhook(w http.ResponseWriter, req *http.Request) {
	var input DocumentStatusCallback
	if err := json.NewDecoder(req.Body).Decode(&input); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]bool{"success": false})
		return
	}

	if input.DocumentID != "" && input.Status != "" {
		if _, err := r.docs.ApplyStatusCallback(req.Context(), input.DocumentID, input.Status, input.N8nID); err != nil {
			log.Printf("Webhook error: %v", err)
			respondJSON(w, http.StatusInternalServerError, map[string]bool{"success": false})
			return
		}
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// auditLogWebhook appends an audit row on behalf of the automation
func (r *Router) auditLogWebhook(w http.ResponseWriter, req *http.Request) {
	var input AuditLogCallback
	if err := json.NewDecoder(req.Body).Decode(&input); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]bool{"success": false})
		return
	}

	if err := r.docs.RecordAudit(req.Context(), input.DocumentID, input.Action, input.Actor, input.Metadata); err != nil {
		log.Printf("Webhook error: %v", err)
		respondJSON(w, http.StatusInternalServerError, map[string]bool{"success": false})
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
