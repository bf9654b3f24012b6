package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/minicrm-io/minicrm/pkg/customers"
	"github.com/minicrm-io/minicrm/pkg/httputil"
	"github.com/minicrm-io/minicrm/pkg/middleware"
	"github.com/minicrm-io/minicrm/pkg/users"
)

// CustomerHandlers serves the customer CRUD endpoints.
type CustomerHandlers struct {
	service *customers.Service
}

// NewCustomerHandlers creates the customer handler set.
func NewCustomerHandlers(service *customers.Service) *CustomerHandlers {
	return &CustomerHandlers{service: service}
}

// RegisterRoutes mounts the customer endpoints with their role policies.
// Reads are open to both roles; writes are admin-only.
func (h *CustomerHandlers) RegisterRoutes(r *mux.Router, guard middleware.Guard) {
	anyRole := []users.Role{users.RoleAdmin, users.RoleEmployee}
	adminOnly := []users.Role{users.RoleAdmin}

	r.Handle("/customers", guard(http.HandlerFunc(h.Create), adminOnly...)).Methods(http.MethodPost)
	r.Handle("/customers", guard(http.HandlerFunc(h.List), anyRole...)).Methods(http.MethodGet)
	r.Handle("/customers/{id}", guard(http.HandlerFunc(h.Get), anyRole...)).Methods(http.MethodGet)
	r.Handle("/customers/{id}", guard(http.HandlerFunc(h.Update), adminOnly...)).Methods(http.MethodPatch)
	r.Handle("/customers/{id}", guard(http.HandlerFunc(h.Delete), adminOnly...)).Methods(http.MethodDelete)
}

// Create handles POST /customers.
func (h *CustomerHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req customers.CreateRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	c, err := h.service.Create(r.Context(), req)
	if err != nil {
		httputil.WriteAppError(w, err)
		return
	}
	httputil.WriteCreated(w, c)
}

// List handles GET /customers with page, limit, and search query params.
func (h *CustomerHandlers) List(w http.ResponseWriter, r *http.Request) {
	page, err := httputil.ParseQueryInt(r, "page", 1)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}
	limit, err := httputil.ParseQueryInt(r, "limit", 10)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	result, err := h.service.List(r.Context(), customers.ListParams{
		Page:   page,
		Limit:  limit,
		Search: httputil.ParseQueryString(r, "search", ""),
	})
	if err != nil {
		httputil.WriteAppError(w, err)
		return
	}
	httputil.WriteSuccess(w, result)
}

// Get handles GET /customers/{id}.
func (h *CustomerHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	c, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.WriteAppError(w, err)
		return
	}
	httputil.WriteSuccess(w, c)
}

// Update handles PATCH /customers/{id}.
func (h *CustomerHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	var req customers.UpdateRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	c, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		httputil.WriteAppError(w, err)
		return
	}
	httputil.WriteSuccess(w, c)
}

// Delete handles DELETE /customers/{id}.
func (h *CustomerHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		httputil.WriteAppError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}
