package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minicrm-io/minicrm/pkg/auth"
	"github.com/minicrm-io/minicrm/pkg/users"
)

func newTestAuth(t *testing.T) (*Auth, *auth.TokenIssuer) {
	t.Helper()
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	return NewAuth(issuer), issuer
}

func echoIdentity(t *testing.T, captured *auth.Identity) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := GetIdentity(r.Context())
		require.True(t, ok)
		*captured = identity
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMissingToken(t *testing.T) {
	mw, _ := newTestAuth(t)
	handler := mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	tests := []struct {
		name   string
		header string
	}{
		{name: "no header", header: ""},
		{name: "wrong scheme", header: "Basic abc123"},
		{name: "empty bearer", header: "Bearer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/customers", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.JSONEq(t, `{"error": "Authorization token missing"}`, rr.Body.String())
		})
	}
}

func TestAuthInvalidToken(t *testing.T) {
	mw, _ := newTestAuth(t)
	handler := mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/customers", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.JSONEq(t, `{"error": "Invalid or expired token"}`, rr.Body.String())
}

func TestAuthAttachesIdentity(t *testing.T) {
	mw, issuer := newTestAuth(t)

	var captured auth.Identity
	handler := mw.Handler(echoIdentity(t, &captured))

	token, err := issuer.Issue(7, users.RoleEmployee)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/customers", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, int64(7), captured.UserID)
	assert.Equal(t, users.RoleEmployee, captured.Role)
}

func TestGuardRoleEnforcement(t *testing.T) {
	mw, issuer := newTestAuth(t)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	adminToken, err := issuer.Issue(1, users.RoleAdmin)
	require.NoError(t, err)
	employeeToken, err := issuer.Issue(2, users.RoleEmployee)
	require.NoError(t, err)

	tests := []struct {
		name     string
		token    string
		roles    []users.Role
		expected int
	}{
		{name: "admin on admin-only route", token: adminToken, roles: []users.Role{users.RoleAdmin}, expected: http.StatusOK},
		{name: "employee on admin-only route", token: employeeToken, roles: []users.Role{users.RoleAdmin}, expected: http.StatusForbidden},
		{name: "employee on shared route", token: employeeToken, roles: []users.Role{users.RoleAdmin, users.RoleEmployee}, expected: http.StatusOK},
		{name: "any authenticated caller", token: employeeToken, roles: nil, expected: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := mw.Guard(next, tt.roles...)

			req := httptest.NewRequest(http.MethodGet, "/users", nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expected, rr.Code)
			if tt.expected == http.StatusForbidden {
				assert.JSONEq(t, `{"error": "insufficient role permissions"}`, rr.Body.String())
			}
		})
	}
}

func TestRequireRoleWithoutIdentity(t *testing.T) {
	handler := RequireRole(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}), users.RoleAdmin)

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
