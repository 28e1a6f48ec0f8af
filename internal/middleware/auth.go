package middleware

import (
	"net/http"

	"go-scripts-app/internal/session"
)

// Session keys shared between the login handlers and the gate.
const (
	SessionKeyAuthenticated = "authenticated"
	SessionKeyAdminUser     = "admin_user"
)

// RequireAdmin creates the session gate for admin routes. Requests without
// an authenticated session are redirected to the login page before any
// store access happens.
func RequireAdmin(sm session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !sm.GetBool(r.Context(), SessionKeyAuthenticated) {
				http.Redirect(w, r, "/admin/login", http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
