package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/care-scheduler/internal/domain"
)

// Store is the GORM-backed care data API. Its method set is the collaborator
// surface the services layer consumes; every call is a single remote step
// that may fail independently.
type Store struct {
	DB  *gorm.DB
	Now func() time.Time
}

// NewStore returns a Store over db using the wall clock.
func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db, Now: func() time.Time { return time.Now().UTC() }}
}

func (s *Store) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// GetRequests lists every request addressed to a professional, oldest first.
func (s *Store) GetRequests(ctx context.Context, professionalID string) ([]domain.Request, error) {
	return ListRequests(ctx, s.DB, professionalID, "")
}

func (s *Store) GetRequest(ctx context.Context, id string) (*domain.Request, error) {
	return GetRequest(ctx, s.DB, id)
}

// UpdateRequestStatus resolves a pendente request. See ResolveRequest.
func (s *Store) UpdateRequestStatus(ctx context.Context, id string, status domain.RequestStatus, note string) (*domain.Request, error) {
	return ResolveRequest(ctx, s.DB, id, status, note, s.now())
}

func (s *Store) GetPatients(ctx context.Context, professionalID string) ([]domain.Patient, error) {
	return ListPatients(ctx, s.DB, professionalID)
}

func (s *Store) FindPatientByEmail(ctx context.Context, professionalID, email string) (*domain.Patient, error) {
	return FindPatientByEmail(ctx, s.DB, professionalID, email)
}

func (s *Store) CreatePatient(ctx context.Context, p *domain.Patient) (*domain.Patient, error) {
	if err := CreatePatient(ctx, s.DB, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Store) GetPatient(ctx context.Context, id string) (*domain.Patient, error) {
	return GetPatient(ctx, s.DB, id)
}

func (s *Store) GetSessionsByPatient(ctx context.Context, patientID string) ([]domain.Session, error) {
	return ListSessionsByPatient(ctx, s.DB, patientID)
}

func (s *Store) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	return GetSession(ctx, s.DB, id)
}

// CreateSession persists a session and bumps the patient's session count.
func (s *Store) CreateSession(ctx context.Context, sess *domain.Session) (*domain.Session, error) {
	if err := CreateSession(ctx, s.DB, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *Store) UpdateSessionStatus(ctx context.Context, id string, status domain.SessionStatus) (*domain.Session, error) {
	return UpdateSessionStatus(ctx, s.DB, id, status, s.now())
}
