package router

import (
	"net/http"
	"strings"
)

const callTokenHeader = "X-Call-Token"
const callTokenQuery = "call_token"

// requireCallToken enforces a shared secret for the telephony bridge
// endpoints. When expected is empty, the middleware is a no-op.
func requireCallToken(expected string) func(http.Handler) http.Handler {
	expected = strings.TrimSpace(expected)
	return func(next http.Handler) http.Handler {
		if expected == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimSpace(r.Header.Get(callTokenHeader))
			if token == "" {
				token = strings.TrimSpace(r.URL.Query().Get(callTokenQuery))
			}
			if token == "" || token != expected {
				http.Error(w, "invalid call token", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
