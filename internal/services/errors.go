// Package services defines the business logic for care requests, patients,
// and therapy sessions. This file centralizes the service-level error
// taxonomy so that every operation fails in one of a small set of ways that
// handlers can translate to HTTP results consistently.
//
// All errors are matchable with errors.Is / errors.As.
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tbourn/care-scheduler/internal/guard"
	"github.com/tbourn/care-scheduler/internal/repo"
)

var (
	// ErrDuplicateIdentity is returned when a patient with the same email
	// already exists for the professional.
	ErrDuplicateIdentity = errors.New("patient already registered for this professional")

	// ErrInvalidState is returned when an operation targets a request or
	// session whose current state does not allow it.
	ErrInvalidState = errors.New("invalid state for this operation")

	// ErrNotFound is returned for unknown ids and for entities owned by
	// another professional.
	ErrNotFound = errors.New("not found")
)

// FieldError describes one invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every field that failed validation. It is always
// raised before any collaborator call.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether field is among the violations.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// validation accumulates field errors.
type validation struct {
	fields []FieldError
}

func (v *validation) add(field, msg string) {
	v.fields = append(v.fields, FieldError{Field: field, Message: msg})
}

func (v *validation) err() error {
	if len(v.fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: v.fields}
}

// RemoteFailure wraps a collaborator (store or network) failure. The cause
// is preserved and reachable through Unwrap.
type RemoteFailure struct {
	Op  string
	Err error
}

func (e *RemoteFailure) Error() string { return fmt.Sprintf("remote failure in %s: %v", e.Op, e.Err) }

func (e *RemoteFailure) Unwrap() error { return e.Err }

// remote maps a collaborator error onto the taxonomy. Repository sentinels
// keep their meaning; anything else becomes a RemoteFailure for op.
func remote(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repo.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repo.ErrDuplicate):
		return ErrDuplicateIdentity
	case errors.Is(err, repo.ErrStaleState):
		return ErrInvalidState
	}
	return &RemoteFailure{Op: op, Err: err}
}

// Stable machine-readable codes, one per error class.
const (
	CodeOK                = "ok"
	CodeValidation        = "validation_failed"
	CodeDuplicateIdentity = "duplicate_identity"
	CodeInvalidState      = "invalid_state"
	CodeNotFound          = "not_found"
	CodeRemoteFailure     = "remote_failure"
	CodeInFlight          = "operation_in_flight"
	CodeInternal          = "internal_error"
)

// Code classifies err into one of the stable codes.
func Code(err error) string {
	var (
		ve *ValidationError
		rf *RemoteFailure
	)
	switch {
	case err == nil:
		return CodeOK
	case errors.As(err, &ve):
		return CodeValidation
	case errors.Is(err, ErrDuplicateIdentity):
		return CodeDuplicateIdentity
	case errors.Is(err, ErrInvalidState):
		return CodeInvalidState
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, guard.ErrInFlight):
		return CodeInFlight
	case errors.As(err, &rf):
		return CodeRemoteFailure
	}
	return CodeInternal
}
