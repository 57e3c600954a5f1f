// Package services – RequestLedger
//
// This file implements RequestLedger, which lists pending care requests and
// resolves them. Accepting a request converts it into a Patient through the
// PatientRegistry and only then marks the request aceito; the sequence is
// check, create, mark and is not atomic. The store settles both races: the
// patient unique index rejects a second patient, and the status update is
// conditional on the request still being pendente.
package services

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/care-scheduler/internal/domain"
)

// Notes recorded on resolved requests.
const (
	NoteAccepted         = "Paciente aceito e cadastrado no sistema"
	DefaultRejectionNote = "Solicitação rejeitada pelo psicólogo"
)

// AcceptDraft carries the patient fields a request does not hold. Empty
// BirthDate and zero Age mean "not informed"; empty Status uses the
// registry default.
type AcceptDraft struct {
	BirthDate string
	Age       int
	Status    string
}

// RequestLedger implements the request use-cases.
type RequestLedger struct {
	API      CareAPI
	Patients *PatientRegistry
}

// NewRequestLedger wires a ledger to its collaborators.
func NewRequestLedger(api CareAPI, patients *PatientRegistry) *RequestLedger {
	return &RequestLedger{API: api, Patients: patients}
}

func (l *RequestLedger) tracer() trace.Tracer { return otel.Tracer("services/RequestLedger") }

// ListPending returns the professional's pendente requests in arrival order.
func (l *RequestLedger) ListPending(ctx context.Context, professionalID string) ([]domain.Request, error) {
	ctx, span := l.tracer().Start(ctx, "ListPending",
		trace.WithAttributes(attribute.String("professional.id", professionalID)),
	)
	defer span.End()

	all, err := l.API.GetRequests(ctx, professionalID)
	if err = remote("GetRequests", err); err != nil {
		span.RecordError(err)
		return nil, err
	}
	out := make([]domain.Request, 0, len(all))
	for _, r := range all {
		if r.ProfessionalID == professionalID && r.IsPending() {
			out = append(out, r)
		}
	}
	return out, nil
}

// Accept converts a pendente request into a Patient and marks it aceito. If
// the patient converted from this request already exists, only the mark is
// retried.
//
// Errors:
//   - ErrNotFound if the request is unknown or addressed to someone else.
//   - ErrInvalidState if the request is already resolved, or if another
//     caller resolved it between the patient creation and the mark.
//   - ErrDuplicateIdentity if the professional already has a patient with
//     this email; the request stays pendente and nothing is created.
//   - *ValidationError for a malformed draft or request contact data.
//   - *RemoteFailure for collaborator failures.
func (l *RequestLedger) Accept(ctx context.Context, professionalID, requestID string, draft AcceptDraft) (*domain.Patient, error) {
	ctx, span := l.tracer().Start(ctx, "Accept",
		trace.WithAttributes(
			attribute.String("professional.id", professionalID),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	// Surface draft problems before any remote call.
	var v validation
	validateProfile(&v, draft.BirthDate, draft.Age)
	if err := v.err(); err != nil {
		return nil, err
	}

	req, err := l.pending(ctx, professionalID, requestID)
	if err != nil {
		return nil, err
	}

	// A patient already converted from this very request means an earlier
	// accept created it but failed to mark the request; finish that one.
	p, err := l.Patients.FindByEmail(ctx, professionalID, req.PatientEmail)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if p != nil && p.SourceRequestID != nil && *p.SourceRequestID == req.ID {
		logFor(ctx).Info().
			Str("request_id", requestID).
			Str("patient_id", p.ID).
			Msg("resuming accept for patient created earlier")
		return l.markAccepted(ctx, span, requestID, p)
	}

	p, err = l.Patients.Create(ctx, PatientDraft{
		ProfessionalID:  professionalID,
		Name:            req.PatientName,
		Email:           req.PatientEmail,
		Phone:           req.PatientPhone,
		BirthDate:       draft.BirthDate,
		Age:             draft.Age,
		Status:          draft.Status,
		SourceRequestID: req.ID,
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return l.markAccepted(ctx, span, requestID, p)
}

// markAccepted records the aceito resolution of requestID once p exists.
func (l *RequestLedger) markAccepted(ctx context.Context, span trace.Span, requestID string, p *domain.Patient) (*domain.Patient, error) {
	if _, err := l.API.UpdateRequestStatus(ctx, requestID, domain.RequestAccepted, NoteAccepted); err != nil {
		err = remote("UpdateRequestStatus", err)
		// The patient exists; the request was not marked. A later Accept of
		// the same request picks the patient up and retries the mark.
		logFor(ctx).Warn().
			Str("request_id", requestID).
			Str("patient_id", p.ID).
			Str("code", Code(err)).
			Msg("patient created but request not marked accepted")
		span.RecordError(err)
		return nil, err
	}

	logFor(ctx).Info().
		Str("request_id", requestID).
		Str("patient_id", p.ID).
		Msg("request accepted")
	return p, nil
}

// Reject marks a pendente request rejeitado with note, or with
// DefaultRejectionNote when note is blank.
func (l *RequestLedger) Reject(ctx context.Context, professionalID, requestID, note string) error {
	ctx, span := l.tracer().Start(ctx, "Reject",
		trace.WithAttributes(
			attribute.String("professional.id", professionalID),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	if _, err := l.pending(ctx, professionalID, requestID); err != nil {
		return err
	}
	if note = strings.TrimSpace(note); note == "" {
		note = DefaultRejectionNote
	}
	if _, err := l.API.UpdateRequestStatus(ctx, requestID, domain.RequestRejected, note); err != nil {
		err = remote("UpdateRequestStatus", err)
		span.RecordError(err)
		return err
	}
	logFor(ctx).Info().Str("request_id", requestID).Msg("request rejected")
	return nil
}

// pending loads a request owned by professionalID that is still pendente.
func (l *RequestLedger) pending(ctx context.Context, professionalID, requestID string) (*domain.Request, error) {
	req, err := l.API.GetRequest(ctx, requestID)
	if err = remote("GetRequest", err); err != nil {
		return nil, err
	}
	if req.ProfessionalID != professionalID {
		return nil, ErrNotFound
	}
	if !req.IsPending() {
		return nil, ErrInvalidState
	}
	return req, nil
}
