package middleware

import (
	"sync"
	"time"

	apperrors "womart-storefront/errors"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP. Buckets unused for ttl
// are dropped on a later lookup.
type RateLimiter struct {
	ips       map[string]*limiterEntry
	mu        sync.Mutex
	rate      rate.Limit
	burst     int
	ttl       time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(r rate.Limit, b int, ttl time.Duration) *RateLimiter {
	return &RateLimiter{
		ips:   make(map[string]*limiterEntry),
		rate:  r,
		burst: b,
		ttl:   ttl,
		now:   time.Now,
	}
}

// PerMinute builds a limiter allowing n requests per minute with burst b.
func PerMinute(n, b int) *RateLimiter {
	return NewRateLimiter(rate.Every(time.Minute/time.Duration(n)), b, 5*time.Minute)
}

// GetLimiter returns the rate limiter for the given IP
func (rl *RateLimiter) GetLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) > rl.ttl {
		for key, e := range rl.ips {
			if now.Sub(e.lastSeen) > rl.ttl {
				delete(rl.ips, key)
			}
		}
		rl.lastSweep = now
	}

	entry, exists := rl.ips[ip]
	if !exists {
		entry = &limiterEntry{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.ips[ip] = entry
	}
	entry.lastSeen = now
	return entry.limiter
}

// Len is the number of tracked IPs.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.ips)
}

// RateLimit rejects requests over the client's budget with 429.
func RateLimit(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.GetLimiter(c.ClientIP()).Allow() {
			apperrors.Respond(c, apperrors.ErrTooManyRequests)
			c.Abort()
			return
		}
		c.Next()
	}
}
