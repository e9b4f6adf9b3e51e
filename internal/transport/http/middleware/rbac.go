package middleware

import (
	"net/http"

	"github.com/baechuer/job-portal/internal/domain"
)

// RequireRole admits only requests whose role equals role exactly.
// There is no hierarchy: an admin does not pass a user gate.
// Must run after Auth.
func RequireRole(role domain.Role, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := RoleFromContext(r.Context())
			if !ok {
				writeErr(w, r, domain.ErrForbidden())
				return
			}
			if got != string(role) {
				writeErr(w, r, domain.ErrInsufficientRole(string(role)))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
