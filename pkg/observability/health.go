package observability

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/minicrm-io/minicrm/pkg/httputil"
)

// Health serves liveness and readiness probes. The Redis client is
// optional; readiness skips the check when it is nil.
type Health struct {
	db    *sql.DB
	redis *redis.Client
}

// NewHealth creates the health probe handlers.
func NewHealth(db *sql.DB, redisClient *redis.Client) *Health {
	return &Health{db: db, redis: redisClient}
}

// Liveness reports the process is up. It never touches dependencies.
func (h *Health) Liveness(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness reports whether the service can reach its dependencies.
func (h *Health) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]string{"database": "ok"}
	healthy := true

	if err := h.db.PingContext(ctx); err != nil {
		checks["database"] = err.Error()
		healthy = false
	}

	if h.redis != nil {
		checks["redis"] = "ok"
		if err := h.redis.Ping(ctx).Err(); err != nil {
			checks["redis"] = err.Error()
			healthy = false
		}
	}

	status := http.StatusOK
	state := "ok"
	if !healthy {
		status = http.StatusServiceUnavailable
		state = "degraded"
	}
	httputil.WriteJSON(w, status, map[string]interface{}{"status": state, "checks": checks})
}
