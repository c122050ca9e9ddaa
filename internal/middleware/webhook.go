package middleware

import (
	"bytes"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fortiva/propflow/internal/signature"
)

// WebhookSignature verifies the HMAC signature on inbound automation
// callbacks. With an empty secret the check is disabled and callbacks
// are accepted as-is.
func WebhookSignature(secret string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		if secret == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(r.Body)
			if err != nil {
				http.Error(w, "Failed to read request body", http.StatusBadRequest)
				return
			}
			r.Body.Close()
			r.Body = io.NopCloser(bytes.NewReader(body))

			if !signature.Verify(secret, body, r.Header.Get(signature.Header)) {
				http.Error(w, "Invalid webhook signature", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
