// Request HTTP handlers.
//
//   - GET  /requests              (pending requests, arrival order)
//   - POST /requests/{id}/accept  (convert into a patient; Idempotency-Key aware)
//   - POST /requests/{id}/reject  (resolve with a note)
package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/care-scheduler/internal/domain"
	"github.com/tbourn/care-scheduler/internal/repo"
	"github.com/tbourn/care-scheduler/internal/services"
)

// AcceptRequestBody carries the patient fields a request does not hold.
// The whole body is optional.
type AcceptRequestBody struct {
	BirthDate string `json:"birth_date" example:"1990-04-21"`
	Age       int    `json:"age" example:"35"`
	Status    string `json:"status" example:"Ativo"`
}

// RejectRequestBody optionally overrides the default rejection note.
type RejectRequestBody struct {
	Note string `json:"note" example:"Agenda completa no momento"`
}

// ListRequestsResponse wraps the pending requests.
type ListRequestsResponse struct {
	Requests []domain.Request `json:"requests"`
}

// bindOptionalJSON binds a JSON body when one was sent. An empty body is
// not an error.
func bindOptionalJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, msgBadJSON)
		return false
	}
	return true
}

// ListRequests godoc
// @ID          listRequests
// @Summary     List pending care requests
// @Description Returns the professional's requests still in "pendente", oldest first.
// @Tags        Requests
// @Produce     json
//
// @Param       X-Professional-ID  header  string  true  "Professional ID"  example(prof-123)
//
// @Success     200  {object}  handlers.ListRequestsResponse
// @Failure     401  {object}  handlers.ErrorResponse  "Missing professional"
// @Failure     502  {object}  handlers.ErrorResponse  "Store failure"
// @Router      /requests [get]
func (h *Handlers) ListRequests(c *gin.Context) {
	prof, okID := professional(c)
	if !okID {
		return
	}
	items, err := h.requests.ListPending(c.Request.Context(), prof)
	if err != nil {
		failErr(c, err)
		return
	}
	if items == nil {
		items = []domain.Request{}
	}
	ok(c, http.StatusOK, ListRequestsResponse{Requests: items})
}

// AcceptRequest godoc
// @ID          acceptRequest
// @Summary     Accept a care request
// @Description Creates a patient from the request and marks it "aceito". Fails with
// @Description duplicate_identity when the email is already among the professional's
// @Description patients, leaving the request pending. Supports Idempotency-Key replay.
// @Tags        Requests
// @Accept      json
// @Produce     json
//
// @Param       X-Professional-ID  header  string  true   "Professional ID"  example(prof-123)
// @Param       Idempotency-Key    header  string  false  "Key for safe retries"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       id                 path    string  true   "Request ID"
// @Param       body               body    handlers.AcceptRequestBody  false  "Patient fields not present on the request"
//
// @Success     201  {object}  domain.Patient
// @Header      201  {string}  Idempotency-Replayed  "true when served from a stored result"
// @Failure     400  {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     401  {object}  handlers.ErrorResponse  "Missing professional"
// @Failure     404  {object}  handlers.ErrorResponse  "Request not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Duplicate patient, already resolved or in flight"
// @Failure     502  {object}  handlers.ErrorResponse  "Store failure"
// @Router      /requests/{id}/accept [post]
func (h *Handlers) AcceptRequest(c *gin.Context) {
	prof, okID := professional(c)
	if !okID {
		return
	}
	if h.replay(c, prof, func(ctx context.Context, id string) (any, error) {
		return repo.GetPatient(ctx, h.db, id)
	}) {
		return
	}

	var body AcceptRequestBody
	if !bindOptionalJSON(c, &body) {
		return
	}
	draft := services.AcceptDraft{
		BirthDate: strings.TrimSpace(body.BirthDate),
		Age:       body.Age,
		Status:    strings.TrimSpace(body.Status),
	}

	p, err := h.workflow.AcceptRequest(c.Request.Context(), prof, c.Param("id"), draft)
	if err != nil {
		failErr(c, err)
		return
	}
	h.remember(c, prof, p.ID, http.StatusCreated)
	ok(c, http.StatusCreated, p)
}

// RejectRequest godoc
// @ID          rejectRequest
// @Summary     Reject a care request
// @Description Marks the request "rejeitado" with the given note, or a default note.
// @Tags        Requests
// @Accept      json
// @Produce     json
//
// @Param       X-Professional-ID  header  string  true   "Professional ID"  example(prof-123)
// @Param       id                 path    string  true   "Request ID"
// @Param       body               body    handlers.RejectRequestBody  false  "Rejection note"
//
// @Success     204  {string}  string  "No Content"
// @Failure     401  {object}  handlers.ErrorResponse  "Missing professional"
// @Failure     404  {object}  handlers.ErrorResponse  "Request not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Already resolved or in flight"
// @Failure     502  {object}  handlers.ErrorResponse  "Store failure"
// @Router      /requests/{id}/reject [post]
func (h *Handlers) RejectRequest(c *gin.Context) {
	prof, okID := professional(c)
	if !okID {
		return
	}
	var body RejectRequestBody
	if !bindOptionalJSON(c, &body) {
		return
	}
	if err := h.workflow.RejectRequest(c.Request.Context(), prof, c.Param("id"), body.Note); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}
