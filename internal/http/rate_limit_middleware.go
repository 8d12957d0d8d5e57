package http

import (
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/allisson/inkleaf/internal/httputil"
)

const (
	limiterIdleTTL        = time.Hour
	limiterSweepInterval  = 5 * time.Minute
	rateLimitErrorCode    = "rate_limit_exceeded"
	rateLimitErrorMessage = "Too many requests. Please retry after the specified delay."
)

// rateLimiterStore holds per-IP limiters. Idle entries are swept on access.
type rateLimiterStore struct {
	mu        sync.Mutex
	limiters  map[string]*rateLimiterEntry
	rps       float64
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

type rateLimiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

func newRateLimiterStore(rps float64, burst int) *rateLimiterStore {
	return &rateLimiterStore{
		limiters:  make(map[string]*rateLimiterEntry),
		rps:       rps,
		burst:     burst,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

// RateLimitMiddleware enforces per-IP rate limiting using a token bucket per
// client address as resolved by c.ClientIP().
//
// Returns 429 with a Retry-After header when the bucket is empty.
func RateLimitMiddleware(rps float64, burst int, logger *slog.Logger) gin.HandlerFunc {
	store := newRateLimiterStore(rps, burst)

	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		limiter := store.getLimiter(clientIP)

		if !limiter.Allow() {
			reservation := limiter.Reserve()
			retryAfter := int(math.Ceil(reservation.Delay().Seconds()))
			reservation.Cancel()

			logger.Debug("rate limit exceeded",
				slog.String("client_ip", clientIP),
				slog.Int("retry_after", retryAfter))

			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, httputil.ErrorResponse{
				Error:   rateLimitErrorCode,
				Message: rateLimitErrorMessage,
			})
			return
		}

		c.Next()
	}
}

func (s *rateLimiterStore) getLimiter(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) >= limiterSweepInterval {
		s.sweep(now)
	}

	entry, ok := s.limiters[key]
	if !ok {
		entry = &rateLimiterEntry{limiter: rate.NewLimiter(rate.Limit(s.rps), s.burst)}
		s.limiters[key] = entry
	}
	entry.lastAccess = now
	return entry.limiter
}

// sweep drops limiters idle for longer than limiterIdleTTL. Callers hold s.mu.
func (s *rateLimiterStore) sweep(now time.Time) {
	threshold := now.Add(-limiterIdleTTL)
	for key, entry := range s.limiters {
		if entry.lastAccess.Before(threshold) {
			delete(s.limiters, key)
		}
	}
	s.lastSweep = now
}
