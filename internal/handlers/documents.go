package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fortiva/propflow/internal/models"
	"github.com/fortiva/propflow/internal/render"
	"github.com/fortiva/propflow/internal/services/printer"
	"github.com/fortiva/propflow/internal/storage"
)

// CreateDocumentRequest is the document creation payload. Status is not
// settable here: every document starts pending.
type CreateDocumentRequest struct {
	TemplateID string       `json:"templateId"`
	Metadata   models.JSONB `json:"metadata"`
}

// listDocuments returns all documents with their templates, newest first
func (r *Router) listDocuments(w http.ResponseWriter, req *http.Request) {
	docs, err := r.store.ListDocuments(req.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch documents")
		return
	}
	respondJSON(w, http.StatusOK, docs)
}

// getDocument returns one document by id
func (r *Router) getDocument(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	doc, err := r.store.GetDocument(req.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Document not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to fetch document")
		return
	}
	respondJSON(w, http.StatusOK, doc)
}

// createDocument instantiates a document from a template
func (r *Router) createDocument(w http.ResponseWriter, req *http.Request) {
	var input CreateDocumentRequest
	if err := json.NewDecoder(req.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if input.TemplateID == "" {
		respondError(w, http.StatusBadRequest, "Template id is required")
		return
	}
	if input.Metadata == nil {
		respondError(w, http.StatusBadRequest, "Metadata is required")
		return
	}

	auditMeta := models.JSONB{"ip": req.RemoteAddr}
	doc, err := r.docs.Create(req.Context(), input.TemplateID, input.Metadata, actor(req), auditMeta)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Template not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondJSON(w, http.StatusCreated, doc)
}

// approveSigning transitions a document to approved and notifies the
// signing automation
func (r *Router) approveSigning(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	auditMeta := models.JSONB{"ip": req.RemoteAddr}
	doc, err := r.docs.Approve(req.Context(), id, actor(req), auditMeta)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Document not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondJSON(w, http.StatusOK, doc)
}

// signStatus polls the signing automation and returns the (possibly
// updated) document
func (r *Router) signStatus(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	doc, err := r.docs.CheckStatus(req.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Document not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondJSON(w, http.StatusOK, doc)
}

// renderDocument substitutes the document's fields into the current
// template content and returns the markup
func (r *Router) renderDocument(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	doc, err := r.store.GetDocument(req.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Document not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to fetch document")
		return
	}
	if doc.Template == nil {
		respondError(w, http.StatusInternalServerError, "Document template missing")
		return
	}

	rendered := render.Render(doc.Template.Content, doc.FlatFields())
	respondJSON(w, http.StatusOK, map[string]string{
		"documentId": doc.ID,
		"rendered":   rendered,
	})
}

// documentPDF exports the rendered document as a PDF
func (r *Router) documentPDF(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	doc, err := r.store.GetDocument(req.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Document not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to fetch document")
		return
	}
	if doc.Template == nil {
		respondError(w, http.StatusInternalServerError, "Document template missing")
		return
	}

	rendered := render.Render(doc.Template.Content, doc.FlatFields())
	pdfBytes, err := printer.GenerateDocumentPDF(doc, rendered)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=document-%s.pdf", doc.ID))
	w.WriteHeader(http.StatusOK)
	w.Write(pdfBytes)
}
