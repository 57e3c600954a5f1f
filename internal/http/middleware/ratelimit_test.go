package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func TestKeyByProfessionalOrIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.RemoteAddr = net.JoinHostPort("203.0.113.9", "12345")

	if got := KeyByProfessionalOrIP()(c); got != "ip:203.0.113.9" {
		t.Fatalf("anonymous key = %q", got)
	}
	c.Request.Header.Set(HeaderProfessionalID, "p-1")
	if got := KeyByProfessionalOrIP()(c); got != "prof:p-1" {
		t.Fatalf("professional key = %q", got)
	}
}

func TestNewRateLimiter_BurstCoercion_AndReuse(t *testing.T) {
	rl := NewRateLimiter(2, 0, KeyByProfessionalOrIP())
	if rl.burst != 1 {
		t.Fatalf("burst coercion failed, got %d", rl.burst)
	}
	now := time.Now()
	lim := rl.limiterFor("k1", now)
	if rl.limiterFor("k1", now) != lim {
		t.Fatalf("expected same limiter instance to be reused")
	}
	if rl.Len() != 1 {
		t.Fatalf("Len = %d", rl.Len())
	}
}

func TestRateLimiter_SweepEvictsIdle(t *testing.T) {
	rl := NewRateLimiter(1, 1, KeyByProfessionalOrIP())
	rl.sweepAt = 1
	now := time.Now()

	rl.mu.Lock()
	rl.visitors["old"] = &visitor{limiter: rate.NewLimiter(1, 1), lastSeen: now.Add(-time.Hour)}
	rl.mu.Unlock()

	_ = rl.limiterFor("new", now)

	rl.mu.Lock()
	_, old := rl.visitors["old"]
	_, fresh := rl.visitors["new"]
	rl.mu.Unlock()
	if old || !fresh {
		t.Fatalf("old=%v new=%v", old, fresh)
	}
}

func TestRetryAfter(t *testing.T) {
	cases := map[time.Duration]int{
		0:                       1,
		300 * time.Millisecond:  1,
		1500 * time.Millisecond: 2,
		time.Hour:               60,
		rate.InfDuration:        60,
	}
	for in, want := range cases {
		if got := retryAfter(in); got != want {
			t.Fatalf("retryAfter(%v) = %d; want %d", in, got, want)
		}
	}
}

func TestRateLimiter_Handler_AllowDenyBypass(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewRateLimiter(1, 1, KeyByProfessionalOrIP())

	r := gin.New()
	r.Use(func(c *gin.Context) { c.Header(requestIDHeader, "rid-1"); c.Next() })
	r.Use(rl.Handler())
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	get := func(prof string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ok", nil)
		req.Header.Set(HeaderProfessionalID, prof)
		r.ServeHTTP(w, req)
		return w
	}

	if w := get("A"); w.Code != http.StatusOK {
		t.Fatalf("first request should pass, got %d", w.Code)
	}
	w := get("A")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request should be limited, got %d", w.Code)
	}
	if got := w.Header().Get("Retry-After"); got != "1" {
		t.Fatalf("Retry-After = %q", got)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body["code"] != "too_many_requests" || body["request_id"] != "rid-1" {
		t.Fatalf("unexpected body: %v", body)
	}

	// Buckets are per professional.
	if w := get("B"); w.Code != http.StatusOK {
		t.Fatalf("other professional should pass, got %d", w.Code)
	}

	rBypass := gin.New()
	rBypass.Use(func(c *gin.Context) { c.Set(ctxKeyRateBypass, true); c.Next() })
	rBypass.Use(rl.Handler())
	rBypass.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(HeaderProfessionalID, "A")
	rBypass.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("replay should bypass limiting, got %d", w.Code)
	}
}

func TestRateLimiter_ZeroRate_DeniesAfterBurst(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewRateLimiter(0, 1, KeyByProfessionalOrIP())
	r := gin.New()
	r.Use(rl.Handler())
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := []int{}
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
		codes = append(codes, w.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("codes = %v", codes)
	}
}
