package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// ipLimiter tracks a token bucket per client IP. Buckets idle past the
// cleanup window are discarded.
type ipLimiter struct {
	mu       sync.Mutex
	clients  map[string]*clientBucket
	limit    rate.Limit
	burst    int
	lastSeen time.Duration
}

type clientBucket struct {
	limiter *rate.Limiter
	seen    time.Time
}

func newIPLimiter(limit rate.Limit, burst int) *ipLimiter {
	l := &ipLimiter{
		clients:  make(map[string]*clientBucket),
		limit:    limit,
		burst:    burst,
		lastSeen: 10 * time.Minute,
	}
	go l.cleanup()
	return l
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	bucket, ok := l.clients[ip]
	if !ok {
		bucket = &clientBucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[ip] = bucket
	}
	bucket.seen = time.Now()
	return bucket.limiter.Allow()
}

func (l *ipLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		l.mu.Lock()
		for ip, bucket := range l.clients {
			if time.Since(bucket.seen) > l.lastSeen {
				delete(l.clients, ip)
			}
		}
		l.mu.Unlock()
	}
}

// RateLimitMiddleware rejects clients exceeding rps sustained requests per
// second with 429. Recommendation generation fans out into model calls and
// chart rendering, so the budget is deliberately small.
func RateLimitMiddleware(rps float64, burst int) echo.MiddlewareFunc {
	limiter := newIPLimiter(rate.Limit(rps), burst)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !limiter.allow(c.RealIP()) {
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}
