// Session HTTP handlers.
//
//   - GET   /patients/{id}/sessions  (history, optional q filter, weak ETag)
//   - POST  /patients/{id}/sessions  (schedule; Idempotency-Key aware)
//   - PATCH /sessions/{id}/status    (lifecycle transition)
//   - GET   /sessions/options        (form choices and the clinic's today)
package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/care-scheduler/internal/domain"
	"github.com/tbourn/care-scheduler/internal/repo"
	"github.com/tbourn/care-scheduler/internal/services"
)

// CreateSessionBody is the JSON payload for scheduling a session.
type CreateSessionBody struct {
	Date        string `json:"date" example:"2025-06-12"`
	Time        string `json:"time" example:"14:00"`
	Duration    int    `json:"duration" example:"50"`
	Description string `json:"description" example:"Sessão de acompanhamento"`
	Notes       string `json:"notes" example:"Trazer diário de humor"`
}

// UpdateSessionStatusBody is the JSON payload for a status transition.
type UpdateSessionStatusBody struct {
	Status domain.SessionStatus `json:"status" binding:"required" example:"concluido"`
}

// ListSessionsResponse wraps a patient's sessions.
type ListSessionsResponse struct {
	Sessions []domain.Session `json:"sessions"`
}

// SessionOptionsResponse lists the choices the session form offers.
type SessionOptionsResponse struct {
	Today     string                 `json:"today" example:"2025-06-10"`
	TimeSlots []string               `json:"time_slots"`
	Durations []int                  `json:"durations"`
	Statuses  []domain.SessionStatus `json:"statuses"`
}

// ListSessions godoc
// @ID          listSessions
// @Summary     List a patient's sessions
// @Description Returns the patient's sessions ordered by date and time. The optional q
// @Description filter matches description or notes ignoring case and accents.
// @Tags        Sessions
// @Produce     json
//
// @Param       X-Professional-ID  header  string  true   "Professional ID"  example(prof-123)
// @Param       If-None-Match      header  string  false  "Return 304 if ETag matches"
// @Param       id                 path    string  true   "Patient ID"
// @Param       q                  query   string  false  "Free-text filter"
//
// @Success     200  {object}  handlers.ListSessionsResponse
// @Success     304  {string}  string  "Not Modified"
// @Failure     401  {object}  handlers.ErrorResponse  "Missing professional"
// @Failure     404  {object}  handlers.ErrorResponse  "Patient not found"
// @Failure     502  {object}  handlers.ErrorResponse  "Store failure"
// @Router      /patients/{id}/sessions [get]
func (h *Handlers) ListSessions(c *gin.Context) {
	prof, okID := professional(c)
	if !okID {
		return
	}
	ctx := c.Request.Context()
	patientID := c.Param("id")
	q := strings.TrimSpace(c.Query("q"))

	// Ownership first so a 304 never confirms a foreign patient exists.
	patient, err := h.patients.Get(ctx, prof, patientID)
	if err != nil {
		failErr(c, err)
		return
	}
	if h.notModified(c, "sessions", func(ctx context.Context) (int64, *time.Time, error) {
		return repo.SessionsStats(ctx, h.db, patientID)
	}, patientID, q) {
		return
	}

	items, err := h.sessions.History(ctx, patient, q)
	if err != nil {
		failErr(c, err)
		return
	}
	if items == nil {
		items = []domain.Session{}
	}
	ok(c, http.StatusOK, ListSessionsResponse{Sessions: items})
}

// CreateSession godoc
// @ID          createSession
// @Summary     Schedule a session
// @Description Validates every field (date not before today in the clinic time zone,
// @Description an offered time slot, a duration of 30/40/50/60 minutes and a description)
// @Description and creates the session as "agendado". Supports Idempotency-Key replay.
// @Tags        Sessions
// @Accept      json
// @Produce     json
//
// @Param       X-Professional-ID  header  string  true   "Professional ID"  example(prof-123)
// @Param       Idempotency-Key    header  string  false  "Key for safe retries"
// @Param       id                 path    string  true   "Patient ID"
// @Param       body               body    handlers.CreateSessionBody  true  "Session payload"
//
// @Success     201  {object}  domain.Session
// @Header      201  {string}  Idempotency-Replayed  "true when served from a stored result"
// @Failure     400  {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     401  {object}  handlers.ErrorResponse  "Missing professional"
// @Failure     404  {object}  handlers.ErrorResponse  "Patient not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Operation in flight"
// @Failure     502  {object}  handlers.ErrorResponse  "Store failure"
// @Router      /patients/{id}/sessions [post]
func (h *Handlers) CreateSession(c *gin.Context) {
	prof, okID := professional(c)
	if !okID {
		return
	}
	if h.replay(c, prof, func(ctx context.Context, id string) (any, error) {
		return repo.GetSession(ctx, h.db, id)
	}) {
		return
	}

	var body CreateSessionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, msgBadJSON)
		return
	}
	draft := services.SessionDraft{
		Date:        strings.TrimSpace(body.Date),
		Time:        strings.TrimSpace(body.Time),
		Duration:    body.Duration,
		Description: body.Description,
		Notes:       body.Notes,
	}

	s, err := h.workflow.CreateSession(c.Request.Context(), prof, c.Param("id"), draft)
	if err != nil {
		failErr(c, err)
		return
	}
	h.remember(c, prof, s.ID, http.StatusCreated)
	ok(c, http.StatusCreated, s)
}

// UpdateSessionStatus godoc
// @ID          updateSessionStatus
// @Summary     Change a session's status
// @Description Moves the session to agendado, iniciado, concluido or cancelado, subject to
// @Description the configured transition policy. Setting the current status is a no-op.
// @Tags        Sessions
// @Accept      json
// @Produce     json
//
// @Param       X-Professional-ID  header  string  true  "Professional ID"  example(prof-123)
// @Param       id                 path    string  true  "Session ID"
// @Param       body               body    handlers.UpdateSessionStatusBody  true  "Target status"
//
// @Success     200  {object}  domain.Session
// @Failure     400  {object}  handlers.ErrorResponse  "Unknown status"
// @Failure     401  {object}  handlers.ErrorResponse  "Missing professional"
// @Failure     404  {object}  handlers.ErrorResponse  "Session not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Transition not allowed or in flight"
// @Failure     502  {object}  handlers.ErrorResponse  "Store failure"
// @Router      /sessions/{id}/status [patch]
func (h *Handlers) UpdateSessionStatus(c *gin.Context) {
	prof, okID := professional(c)
	if !okID {
		return
	}
	var body UpdateSessionStatusBody
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, msgBadJSON)
		return
	}
	if !body.Status.Valid() {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, msgBadStatus)
		return
	}
	s, err := h.workflow.UpdateSessionStatus(c.Request.Context(), prof, c.Param("id"), body.Status)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, s)
}

// SessionOptions godoc
// @ID          sessionOptions
// @Summary     Session form choices
// @Description Returns the offered time slots, durations, statuses and today's date in the clinic time zone.
// @Tags        Sessions
// @Produce     json
// @Success     200  {object}  handlers.SessionOptionsResponse
// @Router      /sessions/options [get]
func (h *Handlers) SessionOptions(c *gin.Context) {
	ok(c, http.StatusOK, SessionOptionsResponse{
		Today:     h.sessions.Today(),
		TimeSlots: services.TimeSlots,
		Durations: services.Durations,
		Statuses:  domain.SessionStatuses,
	})
}
