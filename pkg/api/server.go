// Package api assembles the HTTP surface: route registration, middleware
// chain, and handler wiring over the domain services.
package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/minicrm-io/minicrm/pkg/auth"
	"github.com/minicrm-io/minicrm/pkg/config"
	"github.com/minicrm-io/minicrm/pkg/customers"
	"github.com/minicrm-io/minicrm/pkg/httputil"
	"github.com/minicrm-io/minicrm/pkg/middleware"
	"github.com/minicrm-io/minicrm/pkg/observability"
	"github.com/minicrm-io/minicrm/pkg/tasks"
	"github.com/minicrm-io/minicrm/pkg/users"
)

// Server owns the router and the wired application components.
type Server struct {
	router  *mux.Router
	logger  *logrus.Logger
	metrics *observability.Metrics

	userStore *users.Store
	custStore *customers.Store
	taskStore *tasks.Store
}

// NewServer wires stores, services, handlers, and the middleware chain.
// redisClient may be nil; the server then runs with the local rate limiter
// only and readiness skips the Redis check.
func NewServer(cfg config.Config, logger *logrus.Logger, db *sql.DB, redisClient *redis.Client) (*Server, error) {
	s := &Server{
		router:    mux.NewRouter(),
		logger:    logger,
		metrics:   observability.NewMetrics(),
		userStore: users.NewStore(db),
		custStore: customers.NewStore(db),
		taskStore: tasks.NewStore(db),
	}

	tokenIssuer := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenLifetime)
	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost)

	authService := auth.NewService(s.userStore, hasher, tokenIssuer)
	userService := users.NewService(s.userStore)
	custService := customers.NewService(s.custStore)
	taskService := tasks.NewService(s.taskStore, s.userStore, s.custStore)

	authMW := middleware.NewAuth(tokenIssuer)

	// Global chain: correlation id first so logging and everything after it
	// can tag the request.
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logging(logger))
	s.router.Use(s.metrics.Middleware)

	if cfg.RateLimit.Enabled {
		if redisClient != nil {
			limiter := middleware.NewRedisRateLimiter(redisClient, logger, int64(cfg.RateLimit.RatePerSecond*60), time.Minute)
			s.router.Use(limiter.Handler)
		} else {
			limiter, err := middleware.NewRateLimiter(cfg.RateLimit.RatePerSecond, cfg.RateLimit.Burst, cfg.RateLimit.MaxClients)
			if err != nil {
				return nil, err
			}
			s.router.Use(limiter.Handler)
		}
	}

	s.router.HandleFunc("/", s.banner).Methods(http.MethodGet)

	health := observability.NewHealth(db, redisClient)
	s.router.HandleFunc("/healthz", health.Liveness).Methods(http.MethodGet)
	s.router.HandleFunc("/readyz", health.Readiness).Methods(http.MethodGet)
	s.router.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)

	NewAuthHandlers(authService).RegisterRoutes(s.router)
	NewCustomerHandlers(custService).RegisterRoutes(s.router, authMW.Guard)
	NewTaskHandlers(taskService).RegisterRoutes(s.router, authMW.Guard)
	NewUserHandlers(userService).RegisterRoutes(s.router, authMW.Guard)

	return s, nil
}

func (s *Server) banner(w http.ResponseWriter, r *http.Request) {
	httputil.WriteSuccess(w, map[string]string{"message": "Mini CRM Backend is running!"})
}

// Router returns the fully wired HTTP handler.
func (s *Server) Router() http.Handler {
	return s.router
}

// Metrics exposes the server's metrics registry for the stats collector.
func (s *Server) Metrics() *observability.Metrics {
	return s.metrics
}

// Stores exposes the wired stores for the stats collector.
func (s *Server) Stores() (*users.Store, *customers.Store, *tasks.Store) {
	return s.userStore, s.custStore, s.taskStore
}
