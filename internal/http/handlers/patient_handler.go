// Patient HTTP handlers.
//
//   - GET /patients       (paginated, free-text q, weak ETag)
//   - GET /patients/{id}  (one patient, owner-scoped)
package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/care-scheduler/internal/domain"
	"github.com/tbourn/care-scheduler/internal/repo"
	"github.com/tbourn/care-scheduler/internal/utils"
)

// ListPatientsResponse wraps a page of patients and pagination information.
type ListPatientsResponse struct {
	Patients   []domain.Patient `json:"patients"`
	Pagination Pagination       `json:"pagination"`
}

// ListPatients godoc
// @ID          listPatients
// @Summary     List patients (paginated)
// @Description Returns a page of the professional's patients ordered by name. The optional
// @Description q filter matches name or email ignoring case and accents. Supports weak
// @Description ETag via If-None-Match and may return 304.
// @Tags        Patients
// @Produce     json
//
// @Param       X-Professional-ID  header  string  true   "Professional ID"  example(prof-123)
// @Param       If-None-Match      header  string  false  "Return 304 if ETag matches"
// @Param       q                  query   string  false  "Free-text filter"  example(conceicao)
// @Param       page               query   int     false  "Page number"     minimum(1) default(1)
// @Param       page_size          query   int     false  "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  handlers.ListPatientsResponse
// @Header      200  {string}  ETag  "Weak ETag for current result"
// @Success     304  {string}  string  "Not Modified"
// @Failure     401  {object}  handlers.ErrorResponse  "Missing professional"
// @Failure     502  {object}  handlers.ErrorResponse  "Store failure"
// @Router      /patients [get]
func (h *Handlers) ListPatients(c *gin.Context) {
	prof, okID := professional(c)
	if !okID {
		return
	}
	ctx := c.Request.Context()
	q := strings.TrimSpace(c.Query("q"))
	page, pageSize := utils.ParsePage(c.Query("page"), c.Query("page_size"))

	if h.notModified(c, "patients", func(ctx context.Context) (int64, *time.Time, error) {
		return repo.PatientsStats(ctx, h.db, prof)
	}, prof, q, page, pageSize) {
		return
	}

	items, total, err := h.patients.ListPage(ctx, prof, q, page, pageSize)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, ListPatientsResponse{
		Patients:   items,
		Pagination: newPagination(page, pageSize, total),
	})
}

// GetPatient godoc
// @ID          getPatient
// @Summary     Get a patient
// @Tags        Patients
// @Produce     json
//
// @Param       X-Professional-ID  header  string  true  "Professional ID"  example(prof-123)
// @Param       id                 path    string  true  "Patient ID"
//
// @Success     200  {object}  domain.Patient
// @Failure     401  {object}  handlers.ErrorResponse  "Missing professional"
// @Failure     404  {object}  handlers.ErrorResponse  "Patient not found"
// @Failure     502  {object}  handlers.ErrorResponse  "Store failure"
// @Router      /patients/{id} [get]
func (h *Handlers) GetPatient(c *gin.Context) {
	prof, okID := professional(c)
	if !okID {
		return
	}
	p, err := h.patients.Get(c.Request.Context(), prof, c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, p)
}
