package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/minicrm-io/minicrm/pkg/httputil"
	"github.com/minicrm-io/minicrm/pkg/middleware"
	"github.com/minicrm-io/minicrm/pkg/tasks"
	"github.com/minicrm-io/minicrm/pkg/users"
)

// TaskHandlers serves the task endpoints.
type TaskHandlers struct {
	service *tasks.Service
}

// NewTaskHandlers creates the task handler set.
func NewTaskHandlers(service *tasks.Service) *TaskHandlers {
	return &TaskHandlers{service: service}
}

// RegisterRoutes mounts the task endpoints. Creation is admin-only; listing
// and status updates are open to both roles, with per-task ownership
// enforced in the service.
func (h *TaskHandlers) RegisterRoutes(r *mux.Router, guard middleware.Guard) {
	anyRole := []users.Role{users.RoleAdmin, users.RoleEmployee}
	adminOnly := []users.Role{users.RoleAdmin}

	r.Handle("/tasks", guard(http.HandlerFunc(h.Create), adminOnly...)).Methods(http.MethodPost)
	r.Handle("/tasks", guard(http.HandlerFunc(h.List), anyRole...)).Methods(http.MethodGet)
	r.Handle("/tasks/{id}/status", guard(http.HandlerFunc(h.UpdateStatus), anyRole...)).Methods(http.MethodPatch)
}

// Create handles POST /tasks.
func (h *TaskHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req tasks.CreateRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	d, err := h.service.Create(r.Context(), req)
	if err != nil {
		httputil.WriteAppError(w, err)
		return
	}
	httputil.WriteCreated(w, d)
}

// List handles GET /tasks, scoped by the caller's role.
func (h *TaskHandlers) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authorization token missing")
		return
	}

	result, err := h.service.List(r.Context(), identity)
	if err != nil {
		httputil.WriteAppError(w, err)
		return
	}
	httputil.WriteSuccess(w, result)
}

// UpdateStatus handles PATCH /tasks/{id}/status.
func (h *TaskHandlers) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authorization token missing")
		return
	}

	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	var req tasks.UpdateStatusRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	d, err := h.service.UpdateStatus(r.Context(), id, identity, req)
	if err != nil {
		httputil.WriteAppError(w, err)
		return
	}
	httputil.WriteSuccess(w, d)
}
