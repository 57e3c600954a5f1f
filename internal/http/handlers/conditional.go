// Conditional responses and idempotent replay.
//
// Both features need direct store access and are skipped when the handlers
// were built without WithStore.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/care-scheduler/internal/http/middleware"
	"github.com/tbourn/care-scheduler/internal/repo"
)

// statsFunc returns (count, latest updated_at) for a collection.
type statsFunc func(ctx context.Context) (int64, *time.Time, error)

// notModified sets a weak ETag derived from the collection stats plus the
// view parameters and answers 304 when If-None-Match matches it. It reports
// whether the response was written. Stats errors only disable the ETag.
func (h *Handlers) notModified(c *gin.Context, prefix string, stats statsFunc, view ...any) bool {
	if h.db == nil {
		return false
	}
	count, maxTS, err := stats(c.Request.Context())
	if err != nil {
		return false
	}
	var ts int64
	if maxTS != nil {
		ts = maxTS.UnixNano()
	}
	etag := fmt.Sprintf(`W/"%s:%d:%d:%08x"`, prefix, count, ts, viewHash(view...))
	c.Header("ETag", etag)
	if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
		c.Status(http.StatusNotModified)
		return true
	}
	return false
}

// viewHash distinguishes pages and filters of the same collection.
func viewHash(view ...any) uint32 {
	f := fnv.New32a()
	for _, v := range view {
		fmt.Fprintf(f, "%v\x00", v)
	}
	return f.Sum32()
}

// loader fetches the resource an idempotency record points to.
type loader func(ctx context.Context, id string) (any, error)

// replay answers from a stored idempotency record when the middleware
// flagged the request as a replay. It reports whether it wrote a response.
func (h *Handlers) replay(c *gin.Context, professionalID string, load loader) bool {
	if h.db == nil || !middleware.IsReplay(c) {
		return false
	}
	key, _ := middleware.GetIdempotencyKey(c)
	scope := middleware.GetIdempotencyScope(c)
	ctx := c.Request.Context()

	rec, err := repo.GetIdempotency(ctx, h.db, professionalID, scope, key, h.now().UTC())
	if err != nil {
		return false
	}
	res, err := load(ctx, rec.ResourceID)
	if err != nil {
		middleware.LoggerFrom(c).Warn().Err(err).Str("scope", scope).Msg("idempotency record points to a missing resource")
		return false
	}
	c.Header(middleware.HeaderIdempotencyReplayed, "true")
	ok(c, rec.Status, res)
	return true
}

// remember records a completed operation for later replay. Failures are
// logged and never affect the response.
func (h *Handlers) remember(c *gin.Context, professionalID, resourceID string, status int) {
	if h.db == nil {
		return
	}
	key, hasKey := middleware.GetIdempotencyKey(c)
	scope := middleware.GetIdempotencyScope(c)
	if !hasKey || scope == "" {
		return
	}
	_, err := repo.CreateIdempotency(c.Request.Context(), h.db, professionalID, scope, key, resourceID, status, h.idemTTL)
	if err != nil && !errors.Is(err, repo.ErrDuplicate) {
		middleware.LoggerFrom(c).Warn().Err(err).Str("scope", scope).Msg("idempotency record not stored")
	}
}
