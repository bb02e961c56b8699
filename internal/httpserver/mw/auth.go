package mw

import (
	"net/http"

	"github.com/MrSnakeDoc/sniplink/internal/auth"
)

// RequireAuth rejects requests without a valid admin session cookie.
func RequireAuth(m *auth.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := m.Authenticated(r); err != nil {
				deny(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
