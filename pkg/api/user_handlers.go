package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/minicrm-io/minicrm/pkg/httputil"
	"github.com/minicrm-io/minicrm/pkg/middleware"
	"github.com/minicrm-io/minicrm/pkg/users"
)

// UserHandlers serves the admin-only user administration endpoints.
type UserHandlers struct {
	service *users.Service
}

// NewUserHandlers creates the user handler set.
func NewUserHandlers(service *users.Service) *UserHandlers {
	return &UserHandlers{service: service}
}

// RegisterRoutes mounts the user endpoints. All of them are admin-only.
func (h *UserHandlers) RegisterRoutes(r *mux.Router, guard middleware.Guard) {
	adminOnly := []users.Role{users.RoleAdmin}

	r.Handle("/users", guard(http.HandlerFunc(h.List), adminOnly...)).Methods(http.MethodGet)
	r.Handle("/users/{id}", guard(http.HandlerFunc(h.Get), adminOnly...)).Methods(http.MethodGet)
	r.Handle("/users/{id}", guard(http.HandlerFunc(h.UpdateRole), adminOnly...)).Methods(http.MethodPatch)
}

// List handles GET /users.
func (h *UserHandlers) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.service.List(r.Context())
	if err != nil {
		httputil.WriteAppError(w, err)
		return
	}
	httputil.WriteSuccess(w, profiles)
}

// Get handles GET /users/{id}.
func (h *UserHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	profile, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.WriteAppError(w, err)
		return
	}
	httputil.WriteSuccess(w, profile)
}

// UpdateRole handles PATCH /users/{id}.
func (h *UserHandlers) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	var req users.UpdateRoleRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	profile, err := h.service.UpdateRole(r.Context(), id, req)
	if err != nil {
		httputil.WriteAppError(w, err)
		return
	}
	httputil.WriteSuccess(w, profile)
}
