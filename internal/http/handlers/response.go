// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the response helpers shared by every endpoint. All
// failures leave through fail (or failErr for service errors) so the error
// envelope and the logging of server-side errors stay uniform.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/care-scheduler/internal/http/middleware"
	"github.com/tbourn/care-scheduler/internal/services"
)

// ErrorResponse is the error envelope returned by all endpoints.
type ErrorResponse struct {
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code
	Code string `json:"code" example:"duplicate_identity"`
	// Human-readable message (safe to show to users)
	Message string `json:"message" example:"Este paciente já está cadastrado em sua lista!"`
	// Fields lists every invalid input on validation_failed
	Fields []services.FieldError `json:"fields,omitempty"`
}

// fail aborts with the envelope. 5xx responses are logged with the
// request-scoped logger.
func fail(c *gin.Context, status int, code, msg string) {
	failWith(c, status, ErrorResponse{Code: code, Message: msg})
}

func failWith(c *gin.Context, status int, resp ErrorResponse) {
	resp.RequestID = c.Writer.Header().Get("X-Request-ID")
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", resp.Code).
			Str("message", resp.Message).
			Msg("api error")
	}
	c.AbortWithStatusJSON(status, resp)
}

// failErr renders a service error.
func failErr(c *gin.Context, err error) {
	code := services.Code(err)
	status, msg := statusFor(code)
	resp := ErrorResponse{Code: code, Message: msg}

	var ve *services.ValidationError
	if errors.As(err, &ve) {
		resp.Fields = ve.Fields
	}
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	failWith(c, status, resp)
}

// Fail is the exported variant of fail for router-level fallbacks.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
