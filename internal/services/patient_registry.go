// Package services – PatientRegistry
//
// This file implements PatientRegistry, which owns a professional's patient
// records and the duplicate-identity check used when converting requests.
//
// The application-level duplicate check is best effort: two concurrent
// creations can both pass it. The (professional_id, email) unique index in
// the store is the authority and its violation is reported as the same
// ErrDuplicateIdentity.
package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/care-scheduler/internal/domain"
	"github.com/tbourn/care-scheduler/internal/search"
	"github.com/tbourn/care-scheduler/internal/utils"
)

// PatientDraft is the input for PatientRegistry.Create. BirthDate (YYYY-MM-DD)
// and Age are optional; empty/zero mean "not informed".
type PatientDraft struct {
	ProfessionalID  string
	Name            string
	Email           string
	Phone           string
	BirthDate       string
	Age             int
	Status          string
	SourceRequestID string
}

// PatientRegistry implements patient lookups and creation.
type PatientRegistry struct {
	API CareAPI

	// DefaultStatus is applied when a draft carries no status.
	DefaultStatus string

	Matcher *search.Matcher
}

// NewPatientRegistry returns a registry over api with the Ativo default.
func NewPatientRegistry(api CareAPI) *PatientRegistry {
	return &PatientRegistry{API: api, DefaultStatus: domain.PatientActive, Matcher: search.NewMatcher()}
}

func (r *PatientRegistry) tracer() trace.Tracer { return otel.Tracer("services/PatientRegistry") }

// FindByEmail returns the professional's patient with the given email, or
// (nil, nil) when there is none. The email is normalized before lookup.
func (r *PatientRegistry) FindByEmail(ctx context.Context, professionalID, email string) (*domain.Patient, error) {
	ctx, span := r.tracer().Start(ctx, "FindByEmail",
		trace.WithAttributes(attribute.String("professional.id", professionalID)),
	)
	defer span.End()

	p, err := r.API.FindPatientByEmail(ctx, professionalID, domain.NormalizeEmail(email))
	if err = remote("FindPatientByEmail", err); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, err
	}
	return p, nil
}

// Create validates draft and registers a new patient.
//
// Errors:
//   - *ValidationError for a missing professional, name or email, a malformed
//     email, a bad birth date or a negative age.
//   - ErrDuplicateIdentity when the email is already registered for the
//     professional (found by lookup or rejected by the store).
//   - *RemoteFailure for collaborator failures.
func (r *PatientRegistry) Create(ctx context.Context, draft PatientDraft) (*domain.Patient, error) {
	ctx, span := r.tracer().Start(ctx, "Create",
		trace.WithAttributes(attribute.String("professional.id", draft.ProfessionalID)),
	)
	defer span.End()

	p, err := r.build(draft)
	if err != nil {
		return nil, err
	}

	existing, err := r.FindByEmail(ctx, p.ProfessionalID, p.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateIdentity
	}

	created, err := r.API.CreatePatient(ctx, p)
	if err = remote("CreatePatient", err); err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("patient.id", created.ID))
	return created, nil
}

func (r *PatientRegistry) build(d PatientDraft) (*domain.Patient, error) {
	var v validation
	prof := strings.TrimSpace(d.ProfessionalID)
	name := strings.TrimSpace(d.Name)
	email := domain.NormalizeEmail(d.Email)

	if prof == "" {
		v.add("professional_id", "obrigatório")
	}
	if name == "" {
		v.add("name", "obrigatório")
	}
	switch {
	case email == "":
		v.add("email", "obrigatório")
	case !validEmail(email):
		v.add("email", "formato inválido")
	}
	birth := strings.TrimSpace(d.BirthDate)
	validateProfile(&v, birth, d.Age)
	if err := v.err(); err != nil {
		return nil, err
	}

	status := strings.TrimSpace(d.Status)
	if status == "" {
		status = r.DefaultStatus
	}
	if status == "" {
		status = domain.PatientActive
	}
	p := &domain.Patient{
		ProfessionalID: prof,
		Name:           name,
		Email:          email,
		Phone:          strings.TrimSpace(d.Phone),
		BirthDate:      birth,
		Age:            d.Age,
		Status:         status,
	}
	if src := strings.TrimSpace(d.SourceRequestID); src != "" {
		p.SourceRequestID = &src
	}
	return p, nil
}

// validateProfile checks the optional demographic fields.
func validateProfile(v *validation, birthDate string, age int) {
	if birthDate = strings.TrimSpace(birthDate); birthDate != "" {
		if _, err := time.Parse(dateLayout, birthDate); err != nil {
			v.add("birth_date", "use o formato AAAA-MM-DD")
		}
	}
	if age < 0 || age > 150 {
		v.add("age", "fora do intervalo permitido")
	}
}

// validEmail accepts a bare address (no display name).
func validEmail(s string) bool {
	a, err := mail.ParseAddress(s)
	return err == nil && a.Address == s && strings.Contains(s[strings.LastIndexByte(s, '@')+1:], ".")
}

// List returns every patient owned by the professional.
func (r *PatientRegistry) List(ctx context.Context, professionalID string) ([]domain.Patient, error) {
	ctx, span := r.tracer().Start(ctx, "List",
		trace.WithAttributes(attribute.String("professional.id", professionalID)),
	)
	defer span.End()

	items, err := r.API.GetPatients(ctx, professionalID)
	if err = remote("GetPatients", err); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return items, nil
}

// ListPage returns one page of the professional's patients whose name or
// email matches q (accent and case insensitive), plus the filtered total.
func (r *PatientRegistry) ListPage(ctx context.Context, professionalID, q string, page, pageSize int) ([]domain.Patient, int64, error) {
	ctx, span := r.tracer().Start(ctx, "ListPage",
		trace.WithAttributes(
			attribute.String("professional.id", professionalID),
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	all, err := r.List(ctx, professionalID)
	if err != nil {
		return nil, 0, err
	}
	m := r.Matcher
	if m == nil {
		m = search.NewMatcher()
	}
	matched := search.Filter(m, q, all, func(p domain.Patient) []string { return []string{p.Name, p.Email} })
	return utils.Paginate(matched, page, pageSize), int64(len(matched)), nil
}

// Get returns the patient if it exists and is owned by the professional.
func (r *PatientRegistry) Get(ctx context.Context, professionalID, patientID string) (*domain.Patient, error) {
	ctx, span := r.tracer().Start(ctx, "Get",
		trace.WithAttributes(
			attribute.String("professional.id", professionalID),
			attribute.String("patient.id", patientID),
		),
	)
	defer span.End()

	p, err := r.API.GetPatient(ctx, patientID)
	if err = remote("GetPatient", err); err != nil {
		return nil, err
	}
	if p.ProfessionalID != professionalID {
		return nil, ErrNotFound
	}
	return p, nil
}
