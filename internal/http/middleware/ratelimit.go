// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements a process-local token-bucket rate limiter with one
// bucket per professional (or client IP for anonymous calls). Idle buckets
// are evicted opportunistically. Replays marked by IdempotencyValidator do
// not consume tokens.
package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// KeyFunc selects the bucket a request is charged to.
type KeyFunc func(*gin.Context) string

// KeyByProfessionalOrIP charges "prof:<id>" when the caller is identified
// and "ip:<addr>" otherwise.
func KeyByProfessionalOrIP() KeyFunc {
	return func(c *gin.Context) string {
		if id := ProfessionalID(c); id != "" {
			return "prof:" + id
		}
		return "ip:" + c.ClientIP()
	}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is safe for concurrent use.
type RateLimiter struct {
	rps   rate.Limit
	burst int
	keyFn KeyFunc

	mu       sync.Mutex
	visitors map[string]*visitor
	ttl      time.Duration
	sweepN   uint64
	sweepAt  uint64
}

// NewRateLimiter returns a limiter granting rps tokens per second with the
// given burst (coerced to at least 1).
func NewRateLimiter(rps float64, burst int, keyFn KeyFunc) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		rps:      rate.Limit(rps),
		burst:    burst,
		keyFn:    keyFn,
		visitors: make(map[string]*visitor),
		ttl:      10 * time.Minute,
		sweepAt:  5000,
	}
}

// Len reports the number of live buckets.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.visitors)
}

// limiterFor returns the bucket for key, creating it when absent. Every
// sweepAt lookups idle buckets are evicted first, so a stale bucket is
// dropped even when it is the one being fetched.
func (rl *RateLimiter) limiterFor(key string, now time.Time) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.sweepN++
	if rl.sweepN >= rl.sweepAt {
		for k, v := range rl.visitors {
			if now.Sub(v.lastSeen) >= rl.ttl {
				delete(rl.visitors, k)
			}
		}
		rl.sweepN = 0
	}

	if v, ok := rl.visitors[key]; ok {
		v.lastSeen = now
		return v.limiter
	}
	lim := rate.NewLimiter(rl.rps, rl.burst)
	rl.visitors[key] = &visitor{limiter: lim, lastSeen: now}
	return lim
}

// IsRateBypass reports whether the request was marked as a replay.
func IsRateBypass(c *gin.Context) bool {
	v, ok := c.Get(ctxKeyRateBypass)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// Handler enforces the limit, answering 429 with Retry-After when a bucket
// is empty.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsRateBypass(c) {
			c.Next()
			return
		}
		lim := rl.limiterFor(rl.keyFn(c), time.Now())
		r := lim.Reserve()
		delay := r.Delay()
		if r.OK() && delay == 0 {
			c.Next()
			return
		}
		r.Cancel()
		c.Header("Retry-After", strconv.Itoa(retryAfter(delay)))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"request_id": c.Writer.Header().Get(requestIDHeader),
			"code":       "too_many_requests",
			"message":    "Muitas requisições, tente novamente em instantes",
		})
	}
}

// retryAfter rounds delay up to whole seconds in [1, 60].
func retryAfter(delay time.Duration) int {
	if delay >= time.Minute {
		return 60
	}
	secs := int((delay + time.Second - 1) / time.Second)
	if secs < 1 {
		return 1
	}
	return secs
}
