package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// listAuditLogs returns the audit trail of one document in the order the
// entries were recorded
func (r *Router) listAuditLogs(w http.ResponseWriter, req *http.Request) {
	documentID := mux.Vars(req)["documentId"]
	logs, err := r.store.ListAuditLogs(req.Context(), documentID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch audit logs")
		return
	}
	respondJSON(w, http.StatusOK, logs)
}
