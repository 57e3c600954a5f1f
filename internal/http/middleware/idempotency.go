// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements Idempotency-Key support for the two unsafe operations
// that create resources: accepting a request and scheduling a session. It
// validates the header, resolves the operation scope for the matched route,
// and asks a lookup whether the same (professional, scope, key) already
// completed. Handlers then serve the recorded resource instead of running
// the workflow again.
package middleware

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
)

// HeaderIdempotencyKey is the request header carrying the client's key.
const HeaderIdempotencyKey = "Idempotency-Key"

// HeaderIdempotencyReplayed is set to "true" on responses served from a
// stored record.
const HeaderIdempotencyReplayed = "Idempotency-Replayed"

const (
	ctxKeyIdemKey    = "idem.key"
	ctxKeyIdemScope  = "idem.scope"
	ctxKeyIdemReplay = "idem.replay"
	ctxKeyRateBypass = "rate.bypass"
)

var defaultIdemPattern = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)

// GetIdempotencyKey returns the validated key stashed by IdempotencyValidator.
func GetIdempotencyKey(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxKeyIdemKey)
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}

// GetIdempotencyScope returns the operation scope resolved for this request,
// e.g. "accept:<request id>". It is empty for routes that do not record
// idempotency.
func GetIdempotencyScope(c *gin.Context) string {
	v, _ := c.Get(ctxKeyIdemScope)
	s, _ := v.(string)
	return s
}

// IsReplay reports whether the lookup found a completed operation for this
// request's professional, scope and key.
func IsReplay(c *gin.Context) bool {
	v, ok := c.Get(ctxKeyIdemReplay)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// ScopeFunc maps a request to its idempotency scope. It returns "" when the
// matched route does not support replay.
type ScopeFunc func(c *gin.Context) string

// IdempotencyOptions configures IdempotencyValidator.
type IdempotencyOptions struct {
	// MaxLen caps the key length. Values <= 0 default to 200.
	MaxLen int
	// Pattern restricts allowed characters; nil uses ^[A-Za-z0-9._~\-:]+$.
	Pattern *regexp.Regexp
	// Scope resolves the operation scope. Nil disables lookups.
	Scope ScopeFunc
}

// IdempotencyLookup reports whether a still-valid record exists. Lookup
// errors never block the request; they are treated as a miss.
type IdempotencyLookup func(ctx context.Context, professionalID, scope, key string, now time.Time) (exists bool, err error)

// IdempotencyValidator validates the Idempotency-Key header when present and
// marks replays. A replay also bypasses rate limiting, so it must be
// installed before the limiter. Invalid keys are rejected with 400.
func IdempotencyValidator(opts IdempotencyOptions, lookup IdempotencyLookup) gin.HandlerFunc {
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = 200
	}
	pat := opts.Pattern
	if pat == nil {
		pat = defaultIdemPattern
	}

	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxLen || !pat.MatchString(key) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"request_id": c.Writer.Header().Get(requestIDHeader),
				"code":       "bad_idempotency_key",
				"message":    "Idempotency-Key inválida",
			})
			return
		}
		c.Set(ctxKeyIdemKey, key)

		if opts.Scope == nil {
			c.Next()
			return
		}
		scope := opts.Scope(c)
		if scope == "" {
			c.Next()
			return
		}
		c.Set(ctxKeyIdemScope, scope)

		pid := ProfessionalID(c)
		if lookup != nil && pid != "" {
			if exists, _ := lookup(c.Request.Context(), pid, scope, key, time.Now().UTC()); exists {
				c.Set(ctxKeyIdemReplay, true)
				c.Set(ctxKeyRateBypass, true)
			}
		}
		c.Next()
	}
}

// RouteScopes builds a ScopeFunc from a table of "METHOD /full/route" to
// scope prefix. The scope is the prefix joined with the route's :id param.
func RouteScopes(routes map[string]string) ScopeFunc {
	return func(c *gin.Context) string {
		if c.Request == nil {
			return ""
		}
		prefix, ok := routes[c.Request.Method+" "+c.FullPath()]
		if !ok {
			return ""
		}
		id := c.Param("id")
		if id == "" {
			return ""
		}
		return prefix + ":" + id
	}
}
