// Operation status handler.
//
//   - GET /operations/{kind}/{id}  (is a guarded mutation running?)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/care-scheduler/internal/services"
)

// OperationStatusResponse reports whether a mutation on the entity is in
// flight in this process. Clients use it to keep the matching control
// disabled.
type OperationStatusResponse struct {
	Kind     string `json:"kind" example:"request"`
	ID       string `json:"id" example:"0b7c2f7e-8d5e-4c55-9a8b-1f2e3d4c5b6a"`
	InFlight bool   `json:"in_flight" example:"false"`
}

// GetOperation godoc
// @ID          getOperation
// @Summary     Check whether an operation is in flight
// @Tags        Operations
// @Produce     json
//
// @Param       X-Professional-ID  header  string  true  "Professional ID"  example(prof-123)
// @Param       kind               path    string  true  "Entity kind"  Enums(request, patient, session)
// @Param       id                 path    string  true  "Entity ID"
//
// @Success     200  {object}  handlers.OperationStatusResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Unknown kind"
// @Failure     401  {object}  handlers.ErrorResponse  "Missing professional"
// @Router      /operations/{kind}/{id} [get]
func (h *Handlers) GetOperation(c *gin.Context) {
	if _, okID := professional(c); !okID {
		return
	}
	kind, id := c.Param("kind"), c.Param("id")
	if !services.ValidKind(kind) {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, msgBadKind)
		return
	}
	ok(c, http.StatusOK, OperationStatusResponse{Kind: kind, ID: id, InFlight: h.workflow.InFlight(kind, id)})
}
