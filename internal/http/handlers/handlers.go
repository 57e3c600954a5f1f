// Package handlers exposes the care-coordination use-cases over HTTP.
//
// Handlers are transport-thin: they resolve the calling professional, bind
// and normalize input, call the services, and translate results into the
// shared response envelope. Mutations always go through the Workflow so the
// per-entity in-flight guard applies.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tbourn/care-scheduler/internal/domain"
	"github.com/tbourn/care-scheduler/internal/http/middleware"
	"github.com/tbourn/care-scheduler/internal/services"
)

// RequestService lists incoming care requests.
type RequestService interface {
	ListPending(ctx context.Context, professionalID string) ([]domain.Request, error)
}

// PatientService reads a professional's patients.
type PatientService interface {
	ListPage(ctx context.Context, professionalID, q string, page, pageSize int) ([]domain.Patient, int64, error)
	Get(ctx context.Context, professionalID, patientID string) (*domain.Patient, error)
}

// SessionService reads a patient's session history.
type SessionService interface {
	History(ctx context.Context, p *domain.Patient, q string) ([]domain.Session, error)
	Today() string
}

// WorkflowService runs guarded mutations.
type WorkflowService interface {
	AcceptRequest(ctx context.Context, professionalID, requestID string, draft services.AcceptDraft) (*domain.Patient, error)
	RejectRequest(ctx context.Context, professionalID, requestID, note string) error
	CreateSession(ctx context.Context, professionalID, patientID string, d services.SessionDraft) (*domain.Session, error)
	UpdateSessionStatus(ctx context.Context, professionalID, sessionID string, status domain.SessionStatus) (*domain.Session, error)
	InFlight(kind, id string) bool
}

// Handlers groups the HTTP endpoints.
type Handlers struct {
	requests RequestService
	patients PatientService
	sessions SessionService
	workflow WorkflowService

	// Optional store access for ETags and idempotency replay.
	db      *gorm.DB
	idemTTL time.Duration
	now     func() time.Time
}

// Option configures Handlers.
type Option func(*Handlers)

// WithStore enables weak ETags on list endpoints and Idempotency-Key
// recording and replay for accept and create-session.
func WithStore(db *gorm.DB) Option {
	return func(h *Handlers) { h.db = db }
}

// WithIdempotencyTTL sets how long recorded keys replay. Default 24h.
func WithIdempotencyTTL(ttl time.Duration) Option {
	return func(h *Handlers) {
		if ttl > 0 {
			h.idemTTL = ttl
		}
	}
}

// New wires handlers to the services.
func New(requests RequestService, patients PatientService, sessions SessionService, workflow WorkflowService, opts ...Option) *Handlers {
	h := &Handlers{
		requests: requests,
		patients: patients,
		sessions: sessions,
		workflow: workflow,
		idemTTL:  24 * time.Hour,
		now:      time.Now,
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// professional returns the caller's id, failing the request with 401 when
// the request carries none.
func professional(c *gin.Context) (string, bool) {
	id := middleware.ProfessionalID(c)
	if id == "" {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, msgUnauthorized)
		return "", false
	}
	return id, true
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

func newPagination(page, pageSize int, total int64) Pagination {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}
