// Package services – SessionLedger
//
// This file implements SessionLedger, which schedules therapy sessions for a
// patient and moves them through their status lifecycle under a
// TransitionPolicy. Drafts are validated in full before any collaborator
// call so a rejected draft never leaves partial state.
package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/care-scheduler/internal/domain"
	"github.com/tbourn/care-scheduler/internal/search"
)

const dateLayout = "2006-01-02"

// TimeSlots are the bookable start times, in clinic wall-clock time.
var TimeSlots = []string{"08:00", "09:00", "10:00", "11:00", "14:00", "15:00", "16:00", "17:00", "18:00"}

// Durations are the allowed session lengths in minutes.
var Durations = []int{30, 40, 50, 60}

// SessionDraft is the input for SessionLedger.Create.
type SessionDraft struct {
	Date        string // YYYY-MM-DD
	Time        string // HH:MM, one of TimeSlots
	Duration    int    // minutes, one of Durations
	Description string
	Notes       string
}

// SessionLedger implements the session use-cases.
type SessionLedger struct {
	API      CareAPI
	Patients *PatientRegistry
	Policy   TransitionPolicy

	// Location is the clinic time zone used to decide "today".
	Location *time.Location
	Now      func() time.Time

	Matcher *search.Matcher
}

// NewSessionLedger returns a ledger using FreeTransitions and UTC; callers
// override Policy and Location from configuration.
func NewSessionLedger(api CareAPI, patients *PatientRegistry) *SessionLedger {
	return &SessionLedger{
		API:      api,
		Patients: patients,
		Policy:   FreeTransitions,
		Location: time.UTC,
		Now:      time.Now,
		Matcher:  search.NewMatcher(),
	}
}

func (l *SessionLedger) tracer() trace.Tracer { return otel.Tracer("services/SessionLedger") }

// Today returns the current date in the clinic time zone.
func (l *SessionLedger) Today() string {
	now := time.Now
	if l.Now != nil {
		now = l.Now
	}
	loc := l.Location
	if loc == nil {
		loc = time.UTC
	}
	return now().In(loc).Format(dateLayout)
}

func (l *SessionLedger) policy() TransitionPolicy {
	if l.Policy == nil {
		return FreeTransitions
	}
	return l.Policy
}

// Validate reports every violated field of d as one ValidationError.
func (l *SessionLedger) Validate(d SessionDraft) error {
	var v validation

	date := strings.TrimSpace(d.Date)
	if date == "" {
		v.add("date", "obrigatória")
	} else if _, err := time.Parse(dateLayout, date); err != nil {
		v.add("date", "use o formato AAAA-MM-DD")
	} else if date < l.Today() {
		// Fixed-width layout: lexical order is chronological.
		v.add("date", "não pode ser anterior a hoje")
	}

	if !containsString(TimeSlots, strings.TrimSpace(d.Time)) {
		v.add("time", "horário indisponível")
	}
	if !containsInt(Durations, d.Duration) {
		v.add("duration", "duração deve ser 30, 40, 50 ou 60 minutos")
	}
	if strings.TrimSpace(d.Description) == "" {
		v.add("description", "obrigatória")
	}
	return v.err()
}

// Create schedules a new agendado session for a patient of the professional.
//
// Errors:
//   - *ValidationError listing every invalid draft field (no remote call made).
//   - ErrNotFound if the patient is unknown or owned by someone else.
//   - *RemoteFailure for collaborator failures.
func (l *SessionLedger) Create(ctx context.Context, professionalID, patientID string, d SessionDraft) (*domain.Session, error) {
	ctx, span := l.tracer().Start(ctx, "Create",
		trace.WithAttributes(
			attribute.String("professional.id", professionalID),
			attribute.String("patient.id", patientID),
		),
	)
	defer span.End()

	if err := l.Validate(d); err != nil {
		return nil, err
	}
	if _, err := l.Patients.Get(ctx, professionalID, patientID); err != nil {
		return nil, err
	}

	s := &domain.Session{
		PatientID:      patientID,
		ProfessionalID: professionalID,
		Date:           strings.TrimSpace(d.Date),
		Time:           strings.TrimSpace(d.Time),
		Duration:       d.Duration,
		Description:    strings.TrimSpace(d.Description),
		Status:         domain.SessionScheduled,
	}
	if n := strings.TrimSpace(d.Notes); n != "" {
		s.Notes = &n
	}

	created, err := l.API.CreateSession(ctx, s)
	if err = remote("CreateSession", err); err != nil {
		span.RecordError(err)
		return nil, err
	}
	logFor(ctx).Info().
		Str("patient_id", patientID).
		Str("session_id", created.ID).
		Msg("session scheduled")
	return created, nil
}

// UpdateStatus moves a session to status if the policy allows it. Setting
// the current status again succeeds without a write.
//
// Errors:
//   - *ValidationError for an unknown status value.
//   - ErrNotFound if the session is unknown or owned by someone else.
//   - ErrInvalidState if the policy rejects the transition.
//   - *RemoteFailure for collaborator failures.
func (l *SessionLedger) UpdateStatus(ctx context.Context, professionalID, sessionID string, status domain.SessionStatus) (*domain.Session, error) {
	ctx, span := l.tracer().Start(ctx, "UpdateStatus",
		trace.WithAttributes(
			attribute.String("professional.id", professionalID),
			attribute.String("session.id", sessionID),
			attribute.String("status", string(status)),
		),
	)
	defer span.End()

	if !status.Valid() {
		var v validation
		v.add("status", "valor desconhecido")
		return nil, v.err()
	}

	cur, err := l.API.GetSession(ctx, sessionID)
	if err = remote("GetSession", err); err != nil {
		return nil, err
	}
	if cur.ProfessionalID != professionalID {
		return nil, ErrNotFound
	}
	if cur.Status == status {
		return cur, nil
	}
	if !l.policy().Allow(cur.Status, status) {
		return nil, ErrInvalidState
	}

	updated, err := l.API.UpdateSessionStatus(ctx, sessionID, status)
	if err = remote("UpdateSessionStatus", err); err != nil {
		span.RecordError(err)
		return nil, err
	}
	logFor(ctx).Info().
		Str("session_id", sessionID).
		Str("from", string(cur.Status)).
		Str("to", string(status)).
		Msg("session status updated")
	return updated, nil
}

// History returns p's sessions ordered by date then time, keeping only
// those whose description or notes match q (accent and case insensitive)
// when q is not empty. p must already be resolved through Patients.Get, so
// ownership is not checked again here.
func (l *SessionLedger) History(ctx context.Context, p *domain.Patient, q string) ([]domain.Session, error) {
	ctx, span := l.tracer().Start(ctx, "History",
		trace.WithAttributes(
			attribute.String("professional.id", p.ProfessionalID),
			attribute.String("patient.id", p.ID),
		),
	)
	defer span.End()

	items, err := l.API.GetSessionsByPatient(ctx, p.ID)
	if err = remote("GetSessionsByPatient", err); err != nil {
		span.RecordError(err)
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Date != items[j].Date {
			return items[i].Date < items[j].Date
		}
		return items[i].Time < items[j].Time
	})
	if q == "" {
		return items, nil
	}

	m := l.Matcher
	if m == nil {
		m = search.NewMatcher()
	}
	return search.Filter(m, q, items, func(s domain.Session) []string {
		f := []string{s.Description}
		if s.Notes != nil {
			f = append(f, *s.Notes)
		}
		return f
	}), nil
}

func containsString(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}

func containsInt(xs []int, n int) bool {
	for _, x := range xs {
		if x == n {
			return true
		}
	}
	return false
}
