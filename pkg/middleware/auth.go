// Package middleware provides the HTTP middleware chain: request IDs,
// logging, rate limiting, token authentication, and role guards.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/minicrm-io/minicrm/pkg/auth"
	"github.com/minicrm-io/minicrm/pkg/contextkeys"
	"github.com/minicrm-io/minicrm/pkg/httputil"
)

// TokenVerifier validates a bearer token and resolves the caller identity.
type TokenVerifier interface {
	Verify(token string) (auth.Identity, error)
}

// Auth authenticates requests from the Authorization header.
type Auth struct {
	verifier TokenVerifier
}

// NewAuth creates the authentication middleware.
func NewAuth(verifier TokenVerifier) *Auth {
	return &Auth{verifier: verifier}
}

// Handler rejects requests without a valid bearer token and attaches the
// resolved identity to the request context.
func (a *Auth) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			httputil.WriteUnauthorized(w, "Authorization token missing")
			return
		}

		identity, err := a.verifier.Verify(token)
		if err != nil {
			httputil.WriteUnauthorized(w, "Invalid or expired token")
			return
		}

		ctx := contextkeys.WithIdentity(r.Context(), identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return ""
	}
	return parts[1]
}

// GetIdentity retrieves the authenticated identity from the context.
func GetIdentity(ctx context.Context) (auth.Identity, bool) {
	identity, ok := ctx.Value(contextkeys.IdentityKey).(auth.Identity)
	return identity, ok
}
