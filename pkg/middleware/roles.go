package middleware

import (
	"net/http"

	"github.com/minicrm-io/minicrm/pkg/httputil"
	"github.com/minicrm-io/minicrm/pkg/users"
)

// Guard wraps a handler with authentication plus an allowed-role set.
// Routes declare their policy at registration time through this type.
type Guard func(next http.Handler, roles ...users.Role) http.Handler

// Guard returns a route guard backed by this middleware: the request must
// carry a valid token, and when roles are given the caller's role must be
// among them. An empty role set allows any authenticated caller.
func (a *Auth) Guard(next http.Handler, roles ...users.Role) http.Handler {
	return a.Handler(RequireRole(next, roles...))
}

// RequireRole rejects authenticated callers whose role is not in the
// allowed set. It must run after Auth.Handler.
func RequireRole(next http.Handler, roles ...users.Role) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := GetIdentity(r.Context())
		if !ok {
			httputil.WriteUnauthorized(w, "Authorization token missing")
			return
		}

		if len(roles) > 0 && !roleAllowed(identity.Role, roles) {
			httputil.WriteForbidden(w, "insufficient role permissions")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func roleAllowed(role users.Role, allowed []users.Role) bool {
	for _, candidate := range allowed {
		if role == candidate {
			return true
		}
	}
	return false
}
