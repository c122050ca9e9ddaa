package handlers

import "net/http"

// listTransactions returns all operation outcome records, newest first
func (r *Router) listTransactions(w http.ResponseWriter, req *http.Request) {
	txs, err := r.store.ListTransactions(req.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch transactions")
		return
	}
	respondJSON(w, http.StatusOK, txs)
}
