package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/minicrm-io/minicrm/pkg/httputil"
)

// RateLimiter is a per-client token bucket. Buckets live in a bounded LRU
// so an attacker rotating source addresses cannot grow memory without limit.
type RateLimiter struct {
	rate    float64
	burst   float64
	buckets *lru.Cache[string, *bucket]
	now     func() time.Time
}

type bucket struct {
	mu     sync.Mutex
	tokens float64
	last   time.Time
}

// NewRateLimiter creates a limiter allowing ratePerSecond sustained requests
// per client with the given burst capacity, tracking at most maxClients
// clients at once.
func NewRateLimiter(ratePerSecond float64, burst int, maxClients int) (*RateLimiter, error) {
	cache, err := lru.New[string, *bucket](maxClients)
	if err != nil {
		return nil, err
	}
	return &RateLimiter{
		rate:    ratePerSecond,
		burst:   float64(burst),
		buckets: cache,
		now:     time.Now,
	}, nil
}

// Allow reports whether the client identified by key may proceed.
func (l *RateLimiter) Allow(key string) bool {
	b, ok := l.buckets.Get(key)
	if !ok {
		b = &bucket{tokens: l.burst, last: l.now()}
		// Another goroutine may have added one concurrently; keep whichever
		// instance won the race.
		if prev, found, _ := l.buckets.PeekOrAdd(key, b); found {
			b = prev
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	now := l.now()
	b.tokens += now.Sub(b.last).Seconds() * l.rate
	if b.tokens > l.burst {
		b.tokens = l.burst
	}
	b.last = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// Handler rejects clients exceeding their budget with 429.
func (l *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(clientIP(r)) {
			httputil.WriteErrorMessage(w, http.StatusTooManyRequests, "Too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
