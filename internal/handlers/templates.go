package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fortiva/propflow/internal/models"
	"github.com/fortiva/propflow/internal/storage"
)

// CreateTemplateRequest is the template creation payload
type CreateTemplateRequest struct {
	Name         string `json:"name"`
	DocumentType string `json:"documentType"`
	Content      string `json:"content"`
}

// listTemplates returns all templates, newest first
func (r *Router) listTemplates(w http.ResponseWriter, req *http.Request) {
	tpls, err := r.store.ListTemplates(req.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch templates")
		return
	}
	respondJSON(w, http.StatusOK, tpls)
}

// createTemplate stores a new template and notifies the signing
// automation. The notification is fire-and-forget: a delivery failure is
// logged and recorded, never surfaced.
func (r *Router) createTemplate(w http.ResponseWriter, req *http.Request) {
	var input CreateTemplateRequest
	if err := json.NewDecoder(req.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if input.Name == "" {
		respondError(w, http.StatusBadRequest, "Name is required")
		return
	}
	if input.DocumentType == "" {
		respondError(w, http.StatusBadRequest, "Document type is required")
		return
	}
	if input.Content == "" {
		respondError(w, http.StatusBadRequest, "Content is required")
		return
	}

	tpl := models.Template{
		Name:         input.Name,
		DocumentType: input.DocumentType,
		Content:      input.Content,
	}
	if err := r.store.CreateTemplate(req.Context(), &tpl); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create template")
		return
	}

	if res := r.gateway.CreateTemplate(req.Context(), &tpl); !res.OK {
		log.Printf("n8n create-template notification failed for template %s: %v", tpl.ID, res.Err)
		status := models.TransactionStatusFailed
		if err := r.store.AppendTransaction(req.Context(), &models.Transaction{Status: status}); err != nil {
			log.Printf("failed to record create-template transaction: %v", err)
		}
	} else {
		if err := r.store.AppendTransaction(req.Context(), &models.Transaction{Status: models.TransactionStatusSuccess}); err != nil {
			log.Printf("failed to record create-template transaction: %v", err)
		}
	}

	respondJSON(w, http.StatusCreated, tpl)
}

// getTemplate returns one template by id
func (r *Router) getTemplate(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	tpl, err := r.store.GetTemplate(req.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Template not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to fetch template")
		return
	}
	respondJSON(w, http.StatusOK, tpl)
}
