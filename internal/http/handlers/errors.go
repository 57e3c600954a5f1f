// Package handlers defines the HTTP error codes used across all endpoints.
//
// Service-level failures are classified by services.Code and mapped here to
// an HTTP status and a Portuguese message safe to show to professionals.
// Transport-level failures (bad JSON, missing identity, unknown route) use
// the generic codes below. Clients branch on the code, never on the message.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "duplicate_identity",
//	  "message": "Este paciente já está cadastrado em sua lista!"
//	}
package handlers

import (
	"net/http"

	"github.com/tbourn/care-scheduler/internal/services"
)

// Transport-level codes.
const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeUnauthorized     = "unauthorized"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeInternal         = "internal_error"
)

type failure struct {
	status  int
	message string
}

// failures maps each services code to its HTTP rendering.
var failures = map[string]failure{
	services.CodeValidation:        {http.StatusBadRequest, "Dados inválidos, verifique os campos informados"},
	services.CodeDuplicateIdentity: {http.StatusConflict, "Este paciente já está cadastrado em sua lista!"},
	services.CodeInvalidState:      {http.StatusConflict, "Esta operação não é permitida no estado atual"},
	services.CodeNotFound:          {http.StatusNotFound, "Registro não encontrado"},
	services.CodeInFlight:          {http.StatusConflict, "Operação já em andamento, aguarde a conclusão"},
	services.CodeRemoteFailure:     {http.StatusBadGateway, "Erro ao processar solicitação, tente novamente"},
	services.CodeInternal:          {http.StatusInternalServerError, "Erro interno do servidor"},
}

// Messages for transport-level failures.
const (
	msgUnauthorized = "Profissional não identificado"
	msgBadJSON      = "Corpo da requisição inválido"
	msgBadStatus    = "Status de sessão inválido"
	msgBadKind      = "Tipo de operação inválido"
)

// statusFor returns the HTTP status and message for a services code.
func statusFor(code string) (int, string) {
	if f, ok := failures[code]; ok {
		return f.status, f.message
	}
	f := failures[services.CodeInternal]
	return f.status, f.message
}
