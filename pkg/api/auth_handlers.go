package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/minicrm-io/minicrm/pkg/auth"
	"github.com/minicrm-io/minicrm/pkg/httputil"
)

// AuthHandlers serves the public registration and login endpoints.
type AuthHandlers struct {
	service *auth.Service
}

// NewAuthHandlers creates the auth handler set.
func NewAuthHandlers(service *auth.Service) *AuthHandlers {
	return &AuthHandlers{service: service}
}

// RegisterRoutes mounts the auth endpoints. They are unauthenticated.
func (h *AuthHandlers) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/auth/register", h.Register).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)
}

// Register handles POST /auth/register.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	profile, err := h.service.Register(r.Context(), req)
	if err != nil {
		httputil.WriteAppError(w, err)
		return
	}
	httputil.WriteCreated(w, profile)
}

// Login handles POST /auth/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		httputil.WriteAppError(w, err)
		return
	}
	httputil.WriteSuccess(w, resp)
}
