// Package services – Workflow
//
// Workflow is the layer the HTTP handlers call for mutating operations. It
// owns one guard.Set and holds the entity key for the whole duration of the
// wrapped ledger call, releasing it on every exit path. A second call for a
// key that is still held fails fast with guard.ErrInFlight; it is never
// queued.
package services

import (
	"context"

	"github.com/tbourn/care-scheduler/internal/domain"
	"github.com/tbourn/care-scheduler/internal/guard"
)

// Guard key kinds.
const (
	KindRequest = "request"
	KindPatient = "patient"
	KindSession = "session"
)

// Workflow serializes same-entity mutations from this process.
type Workflow struct {
	Requests *RequestLedger
	Sessions *SessionLedger
	Guard    *guard.Set
}

// NewWorkflow returns a Workflow with a fresh guard set.
func NewWorkflow(requests *RequestLedger, sessions *SessionLedger) *Workflow {
	return &Workflow{Requests: requests, Sessions: sessions, Guard: guard.New()}
}

// run holds key while fn executes and records the outcome.
func (w *Workflow) run(ctx context.Context, op, kind, id string, fn func() error) error {
	key := guard.Key(kind, id)
	tok, err := w.Guard.Begin(key)
	if err != nil {
		logFor(ctx).Warn().Str("op", op).Str("key", key).Msg("operation rejected: already in flight")
		observe(op, err)
		return err
	}
	operationsInFlight.Set(float64(w.Guard.Len()))
	defer func() {
		tok.End()
		operationsInFlight.Set(float64(w.Guard.Len()))
	}()

	err = fn()
	observe(op, err)
	return err
}

// AcceptRequest guards RequestLedger.Accept under request:<id>.
func (w *Workflow) AcceptRequest(ctx context.Context, professionalID, requestID string, draft AcceptDraft) (*domain.Patient, error) {
	var p *domain.Patient
	err := w.run(ctx, "accept_request", KindRequest, requestID, func() error {
		var err error
		p, err = w.Requests.Accept(ctx, professionalID, requestID, draft)
		return err
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// RejectRequest guards RequestLedger.Reject under request:<id>.
func (w *Workflow) RejectRequest(ctx context.Context, professionalID, requestID, note string) error {
	return w.run(ctx, "reject_request", KindRequest, requestID, func() error {
		return w.Requests.Reject(ctx, professionalID, requestID, note)
	})
}

// CreateSession guards SessionLedger.Create under patient:<id>.
func (w *Workflow) CreateSession(ctx context.Context, professionalID, patientID string, d SessionDraft) (*domain.Session, error) {
	var s *domain.Session
	err := w.run(ctx, "create_session", KindPatient, patientID, func() error {
		var err error
		s, err = w.Sessions.Create(ctx, professionalID, patientID, d)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// UpdateSessionStatus guards SessionLedger.UpdateStatus under session:<id>.
func (w *Workflow) UpdateSessionStatus(ctx context.Context, professionalID, sessionID string, status domain.SessionStatus) (*domain.Session, error) {
	var s *domain.Session
	err := w.run(ctx, "update_session_status", KindSession, sessionID, func() error {
		var err error
		s, err = w.Sessions.UpdateStatus(ctx, professionalID, sessionID, status)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// InFlight reports whether kind:id is currently held, so a client can
// disable the matching control.
func (w *Workflow) InFlight(kind, id string) bool {
	return w.Guard.IsInFlight(guard.Key(kind, id))
}

// ValidKind reports whether kind names a guarded entity.
func ValidKind(kind string) bool {
	switch kind {
	case KindRequest, KindPatient, KindSession:
		return true
	}
	return false
}
