package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/care-scheduler/internal/domain"
	"github.com/tbourn/care-scheduler/internal/http/middleware"
	"github.com/tbourn/care-scheduler/internal/repo"
	"github.com/tbourn/care-scheduler/internal/services"
)

const prof = "prof-1"

// env is a full handler stack over an in-memory store. The session clock
// is pinned to 2025-06-10 (UTC).
type env struct {
	t  *testing.T
	db *gorm.DB
	r  *gin.Engine
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:h_%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	st := repo.NewStore(db)
	patients := services.NewPatientRegistry(st)
	requests := services.NewRequestLedger(st, patients)
	sessions := services.NewSessionLedger(st, patients)
	sessions.Now = func() time.Time { return time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC) }
	wf := services.NewWorkflow(requests, sessions)

	h := New(requests, patients, sessions, wf, WithStore(db), WithIdempotencyTTL(time.Hour))

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.IdempotencyValidator(middleware.IdempotencyOptions{
		Scope: middleware.RouteScopes(map[string]string{
			"POST /requests/:id/accept":   domain.IdemScopeAccept,
			"POST /patients/:id/sessions": domain.IdemScopeCreateSession,
		}),
	}, func(ctx context.Context, p, scope, key string, now time.Time) (bool, error) {
		_, err := repo.GetIdempotency(ctx, db, p, scope, key, now)
		return err == nil, nil
	}))
	r.GET("/requests", h.ListRequests)
	r.POST("/requests/:id/accept", h.AcceptRequest)
	r.POST("/requests/:id/reject", h.RejectRequest)
	r.GET("/patients", h.ListPatients)
	r.GET("/patients/:id", h.GetPatient)
	r.GET("/patients/:id/sessions", h.ListSessions)
	r.POST("/patients/:id/sessions", h.CreateSession)
	r.PATCH("/sessions/:id/status", h.UpdateSessionStatus)
	r.GET("/sessions/options", h.SessionOptions)
	r.GET("/operations/:kind/:id", h.GetOperation)

	return &env{t: t, db: db, r: r}
}

// do sends a request as prof unless the X-Professional-ID header is given
// explicitly (use "" for an anonymous call).
func (e *env) do(method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	e.t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			e.t.Fatalf("marshal: %v", err)
		}
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(middleware.HeaderProfessionalID, prof)
	for i := 0; i+1 < len(headers); i += 2 {
		if headers[i+1] == "" {
			req.Header.Del(headers[i])
			continue
		}
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

func (e *env) seedRequest(id, owner, name, email string) {
	e.t.Helper()
	err := repo.CreateRequest(context.Background(), e.db, &domain.Request{
		ID: id, ProfessionalID: owner, PatientName: name, PatientEmail: email,
		Description: "ansiedade", Urgency: domain.UrgencyMedium,
	})
	if err != nil {
		e.t.Fatalf("seed request: %v", err)
	}
}

func (e *env) seedPatient(id, owner, name, email string) {
	e.t.Helper()
	err := repo.CreatePatient(context.Background(), e.db, &domain.Patient{
		ID: id, ProfessionalID: owner, Name: name, Email: email, Status: domain.PatientActive,
	})
	if err != nil {
		e.t.Fatalf("seed patient: %v", err)
	}
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %T from %q: %v", v, w.Body.String(), err)
	}
	return v
}

func expectError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) ErrorResponse {
	t.Helper()
	if w.Code != status {
		t.Fatalf("status = %d; want %d (body %s)", w.Code, status, w.Body.String())
	}
	resp := decode[ErrorResponse](t, w)
	if resp.Code != code {
		t.Fatalf("code = %q; want %q", resp.Code, code)
	}
	if resp.RequestID == "" {
		t.Fatalf("missing request id in %+v", resp)
	}
	return resp
}
