package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/minicrm-io/minicrm/pkg/httputil"
)

// RedisRateLimiter is a fixed-window limiter shared across instances. It
// fails open: if Redis is unreachable the request proceeds, so a cache
// outage degrades protection rather than availability.
type RedisRateLimiter struct {
	client *redis.Client
	logger *logrus.Logger
	limit  int64
	window time.Duration
}

// NewRedisRateLimiter allows limit requests per client per window.
func NewRedisRateLimiter(client *redis.Client, logger *logrus.Logger, limit int64, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{client: client, logger: logger, limit: limit, window: window}
}

// Handler rejects clients exceeding the shared window budget with 429.
func (l *RedisRateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		key := fmt.Sprintf("ratelimit:%s:%d", clientIP(r), time.Now().Unix()/int64(l.window.Seconds()))

		count, err := l.client.Incr(ctx, key).Result()
		if err != nil {
			l.logger.WithError(err).Warn("rate limiter unavailable, allowing request")
			next.ServeHTTP(w, r)
			return
		}
		if count == 1 {
			l.client.Expire(ctx, key, l.window)
		}

		if count > l.limit {
			httputil.WriteErrorMessage(w, http.StatusTooManyRequests, "Too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}
