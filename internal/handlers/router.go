package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"

	"github.com/fortiva/propflow/internal/buildinfo"
	"github.com/fortiva/propflow/internal/config"
	"github.com/fortiva/propflow/internal/middleware"
	"github.com/fortiva/propflow/internal/services/documents"
	"github.com/fortiva/propflow/internal/services/signing"
	"github.com/fortiva/propflow/internal/storage"
	"github.com/fortiva/propflow/internal/websocket"
)

// Router wraps the mux router and the service dependencies
type Router struct {
	*mux.Router
	cfg     *config.Config
	store   storage.Store
	docs    *documents.Service
	gateway signing.Gateway
	hub     *websocket.Hub
}

// NewRouter creates a new HTTP router with all routes. hub may be nil
// (the websocket feed is then disabled).
func NewRouter(cfg *config.Config, store storage.Store, docs *documents.Service, gateway signing.Gateway, hub *websocket.Hub) *Router {
	r := &Router{
		Router:  mux.NewRouter(),
		cfg:     cfg,
		store:   store,
		docs:    docs,
		gateway: gateway,
		hub:     hub,
	}

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	// Auth routes (public)
	auth := r.PathPrefix("/api/auth").Subrouter()
	auth.HandleFunc("/signup", r.signup).Methods("POST")
	auth.HandleFunc("/signin", r.signin).Methods("POST")

	// Webhook callbacks from the signing automation (signature-checked,
	// not bearer-authenticated)
	webhooks := r.PathPrefix("/api/webhook").Subrouter()
	webhooks.Use(middleware.WebhookSignature(cfg.N8N.WebhookSecret))
	webhooks.HandleFunc("/document-status", r.documentStatusWebhook).Methods("POST")
	webhooks.HandleFunc("/audit-log", r.auditLogWebhook).Methods("POST")

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Auth(cfg.JWTSecret))

	api.HandleFunc("/templates", r.listTemplates).Methods("GET")
	api.HandleFunc("/templates", r.createTemplate).Methods("POST")
	api.HandleFunc("/templates/{id}", r.getTemplate).Methods("GET")

	api.HandleFunc("/documents", r.listDocuments).Methods("GET")
	api.HandleFunc("/documents", r.createDocument).Methods("POST")
	api.HandleFunc("/documents/{id}", r.getDocument).Methods("GET")
	api.HandleFunc("/documents/{id}/approve-signing", r.approveSigning).Methods("POST")
	api.HandleFunc("/documents/{id}/sign-status", r.signStatus).Methods("GET")
	api.HandleFunc("/documents/{id}/render", r.renderDocument).Methods("GET")
	api.HandleFunc("/documents/{id}/pdf", r.documentPDF).Methods("GET")

	api.HandleFunc("/transactions", r.listTransactions).Methods("GET")
	api.HandleFunc("/audit-logs/{documentId}", r.listAuditLogs).Methods("GET")

	// Live status feed
	r.HandleFunc("/ws", r.serveWS)

	return r
}

// healthCheck returns the health status of the API together with the
// build identity stamped in at compile time.
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":     "ok",
		"commitHash": buildinfo.CommitHash,
		"buildTime":  buildinfo.BuildTime,
		"startTime":  buildinfo.StartTime,
	})
}

func (r *Router) serveWS(w http.ResponseWriter, req *http.Request) {
	if r.hub == nil {
		respondError(w, http.StatusServiceUnavailable, "Status feed disabled")
		return
	}
	websocket.ServeWS(r.hub, w, req)
}

// actor returns the authenticated user's email for audit attribution.
func actor(req *http.Request) string {
	claims, ok := req.Context().Value(middleware.UserContextKey).(jwt.MapClaims)
	if !ok {
		return "Unknown User"
	}
	if email, ok := claims["email"].(string); ok && email != "" {
		return email
	}
	return "Unknown User"
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"message": message,
	})
}
