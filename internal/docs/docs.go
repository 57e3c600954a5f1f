// Package docs registers the OpenAPI description served by the Swagger UI.
//
// Regenerate with:
//
//	swag init -g internal/http/router.go -o internal/docs --parseInternal
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/requests": {
            "get": {
                "description": "Returns the professional's requests still in \"pendente\", oldest first.",
                "produces": ["application/json"],
                "tags": ["Requests"],
                "summary": "List pending care requests",
                "operationId": "listRequests",
                "parameters": [
                    {"$ref": "#/parameters/ProfessionalID"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.ListRequestsResponse"}},
                    "401": {"description": "Missing professional", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "502": {"description": "Store failure", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/requests/{id}/accept": {
            "post": {
                "description": "Creates a patient from the request and marks it \"aceito\". Supports Idempotency-Key replay.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Requests"],
                "summary": "Accept a care request",
                "operationId": "acceptRequest",
                "parameters": [
                    {"$ref": "#/parameters/ProfessionalID"},
                    {"$ref": "#/parameters/IdempotencyKey"},
                    {"type": "string", "description": "Request ID", "name": "id", "in": "path", "required": true},
                    {"description": "Patient fields not present on the request", "name": "body", "in": "body", "schema": {"$ref": "#/definitions/handlers.AcceptRequestBody"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Patient"}, "headers": {"Idempotency-Replayed": {"type": "string", "description": "true when served from a stored result"}}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "401": {"description": "Missing professional", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Request not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "409": {"description": "Duplicate patient, already resolved or in flight", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "502": {"description": "Store failure", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/requests/{id}/reject": {
            "post": {
                "description": "Marks the request \"rejeitado\" with the given note, or a default note.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Requests"],
                "summary": "Reject a care request",
                "operationId": "rejectRequest",
                "parameters": [
                    {"$ref": "#/parameters/ProfessionalID"},
                    {"type": "string", "description": "Request ID", "name": "id", "in": "path", "required": true},
                    {"description": "Rejection note", "name": "body", "in": "body", "schema": {"$ref": "#/definitions/handlers.RejectRequestBody"}}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "401": {"description": "Missing professional", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Request not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "409": {"description": "Already resolved or in flight", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "502": {"description": "Store failure", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/patients": {
            "get": {
                "description": "Returns a page of the professional's patients ordered by name. Supports weak ETag via If-None-Match.",
                "produces": ["application/json"],
                "tags": ["Patients"],
                "summary": "List patients (paginated)",
                "operationId": "listPatients",
                "parameters": [
                    {"$ref": "#/parameters/ProfessionalID"},
                    {"$ref": "#/parameters/IfNoneMatch"},
                    {"type": "string", "description": "Free-text filter", "name": "q", "in": "query"},
                    {"minimum": 1, "type": "integer", "default": 1, "description": "Page number", "name": "page", "in": "query"},
                    {"maximum": 100, "minimum": 1, "type": "integer", "default": 20, "description": "Items per page", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.ListPatientsResponse"}, "headers": {"ETag": {"type": "string", "description": "Weak ETag for current result"}}},
                    "304": {"description": "Not Modified"},
                    "401": {"description": "Missing professional", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "502": {"description": "Store failure", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/patients/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Patients"],
                "summary": "Get a patient",
                "operationId": "getPatient",
                "parameters": [
                    {"$ref": "#/parameters/ProfessionalID"},
                    {"type": "string", "description": "Patient ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Patient"}},
                    "401": {"description": "Missing professional", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Patient not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "502": {"description": "Store failure", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/patients/{id}/sessions": {
            "get": {
                "description": "Returns the patient's sessions ordered by date and time.",
                "produces": ["application/json"],
                "tags": ["Sessions"],
                "summary": "List a patient's sessions",
                "operationId": "listSessions",
                "parameters": [
                    {"$ref": "#/parameters/ProfessionalID"},
                    {"$ref": "#/parameters/IfNoneMatch"},
                    {"type": "string", "description": "Patient ID", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Free-text filter", "name": "q", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.ListSessionsResponse"}},
                    "304": {"description": "Not Modified"},
                    "401": {"description": "Missing professional", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Patient not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "502": {"description": "Store failure", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "post": {
                "description": "Validates every field and creates the session as \"agendado\". Supports Idempotency-Key replay.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Sessions"],
                "summary": "Schedule a session",
                "operationId": "createSession",
                "parameters": [
                    {"$ref": "#/parameters/ProfessionalID"},
                    {"$ref": "#/parameters/IdempotencyKey"},
                    {"type": "string", "description": "Patient ID", "name": "id", "in": "path", "required": true},
                    {"description": "Session payload", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.CreateSessionBody"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Session"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "401": {"description": "Missing professional", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Patient not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "409": {"description": "Operation in flight", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "502": {"description": "Store failure", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/sessions/{id}/status": {
            "patch": {
                "description": "Moves the session to agendado, iniciado, concluido or cancelado, subject to the configured transition policy.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Sessions"],
                "summary": "Change a session's status",
                "operationId": "updateSessionStatus",
                "parameters": [
                    {"$ref": "#/parameters/ProfessionalID"},
                    {"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true},
                    {"description": "Target status", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.UpdateSessionStatusBody"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Session"}},
                    "400": {"description": "Unknown status", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "401": {"description": "Missing professional", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Session not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "409": {"description": "Transition not allowed or in flight", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "502": {"description": "Store failure", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/sessions/options": {
            "get": {
                "description": "Returns the offered time slots, durations, statuses and today's date in the clinic time zone.",
                "produces": ["application/json"],
                "tags": ["Sessions"],
                "summary": "Session form choices",
                "operationId": "sessionOptions",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.SessionOptionsResponse"}}
                }
            }
        },
        "/operations/{kind}/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Operations"],
                "summary": "Check whether an operation is in flight",
                "operationId": "getOperation",
                "parameters": [
                    {"$ref": "#/parameters/ProfessionalID"},
                    {"enum": ["request", "patient", "session"], "type": "string", "description": "Entity kind", "name": "kind", "in": "path", "required": true},
                    {"type": "string", "description": "Entity ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.OperationStatusResponse"}},
                    "400": {"description": "Unknown kind", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "401": {"description": "Missing professional", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        }
    },
    "parameters": {
        "ProfessionalID": {"type": "string", "example": "prof-123", "description": "Professional ID", "name": "X-Professional-ID", "in": "header", "required": true},
        "IdempotencyKey": {"type": "string", "description": "Key for safe retries", "name": "Idempotency-Key", "in": "header"},
        "IfNoneMatch": {"type": "string", "description": "Return 304 if ETag matches", "name": "If-None-Match", "in": "header"}
    },
    "definitions": {
        "domain.Patient": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "professional_id": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "birth_date": {"type": "string"},
                "age": {"type": "integer"},
                "status": {"type": "string", "example": "Ativo"},
                "sessions_count": {"type": "integer"},
                "source_request_id": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "domain.Request": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "professional_id": {"type": "string"},
                "patient_name": {"type": "string"},
                "patient_email": {"type": "string"},
                "patient_phone": {"type": "string"},
                "description": {"type": "string"},
                "urgency": {"type": "string", "enum": ["baixa", "media", "alta"]},
                "notes": {"type": "string"},
                "status": {"type": "string", "enum": ["pendente", "aceito", "rejeitado"]},
                "resolution_note": {"type": "string"},
                "resolved_at": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "domain.Session": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "patient_id": {"type": "string"},
                "professional_id": {"type": "string"},
                "date": {"type": "string", "example": "2025-06-12"},
                "time": {"type": "string", "example": "14:00"},
                "description": {"type": "string"},
                "duration": {"type": "integer", "enum": [30, 40, 50, 60]},
                "status": {"type": "string", "enum": ["agendado", "iniciado", "concluido", "cancelado"]},
                "notes": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "handlers.AcceptRequestBody": {
            "type": "object",
            "properties": {
                "birth_date": {"type": "string", "example": "1990-04-21"},
                "age": {"type": "integer", "example": 35},
                "status": {"type": "string", "example": "Ativo"}
            }
        },
        "handlers.RejectRequestBody": {
            "type": "object",
            "properties": {
                "note": {"type": "string", "example": "Agenda completa no momento"}
            }
        },
        "handlers.CreateSessionBody": {
            "type": "object",
            "properties": {
                "date": {"type": "string", "example": "2025-06-12"},
                "time": {"type": "string", "example": "14:00"},
                "duration": {"type": "integer", "example": 50},
                "description": {"type": "string"},
                "notes": {"type": "string"}
            }
        },
        "handlers.UpdateSessionStatusBody": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string", "example": "concluido"}
            }
        },
        "handlers.ListRequestsResponse": {
            "type": "object",
            "properties": {
                "requests": {"type": "array", "items": {"$ref": "#/definitions/domain.Request"}}
            }
        },
        "handlers.ListPatientsResponse": {
            "type": "object",
            "properties": {
                "patients": {"type": "array", "items": {"$ref": "#/definitions/domain.Patient"}},
                "pagination": {"$ref": "#/definitions/handlers.Pagination"}
            }
        },
        "handlers.ListSessionsResponse": {
            "type": "object",
            "properties": {
                "sessions": {"type": "array", "items": {"$ref": "#/definitions/domain.Session"}}
            }
        },
        "handlers.SessionOptionsResponse": {
            "type": "object",
            "properties": {
                "today": {"type": "string", "example": "2025-06-10"},
                "time_slots": {"type": "array", "items": {"type": "string"}},
                "durations": {"type": "array", "items": {"type": "integer"}},
                "statuses": {"type": "array", "items": {"type": "string"}}
            }
        },
        "handlers.OperationStatusResponse": {
            "type": "object",
            "properties": {
                "kind": {"type": "string", "example": "request"},
                "id": {"type": "string"},
                "in_flight": {"type": "boolean"}
            }
        },
        "handlers.Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total": {"type": "integer"},
                "total_pages": {"type": "integer"},
                "has_next": {"type": "boolean"}
            }
        },
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {
                "request_id": {"type": "string"},
                "code": {"type": "string", "example": "duplicate_identity"},
                "message": {"type": "string", "example": "Este paciente já está cadastrado em sua lista!"},
                "fields": {"type": "array", "items": {"$ref": "#/definitions/services.FieldError"}}
            }
        },
        "services.FieldError": {
            "type": "object",
            "properties": {
                "field": {"type": "string"},
                "message": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Care Scheduler API",
	Description:      "Care request triage, patient registry and session scheduling for psychologists.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
