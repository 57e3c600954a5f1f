package services

import (
	"context"

	"github.com/tbourn/care-scheduler/internal/domain"
)

// CareAPI is the data-access collaborator the ledgers and registry consume.
// Every method is one remote step that may block and may fail on its own;
// repo.Store is the production implementation.
//
// Lookups by id are not owner-scoped; callers compare ProfessionalID.
type CareAPI interface {
	GetRequests(ctx context.Context, professionalID string) ([]domain.Request, error)
	GetRequest(ctx context.Context, requestID string) (*domain.Request, error)
	UpdateRequestStatus(ctx context.Context, requestID string, status domain.RequestStatus, note string) (*domain.Request, error)

	GetPatients(ctx context.Context, professionalID string) ([]domain.Patient, error)
	FindPatientByEmail(ctx context.Context, professionalID, email string) (*domain.Patient, error)
	CreatePatient(ctx context.Context, p *domain.Patient) (*domain.Patient, error)
	GetPatient(ctx context.Context, patientID string) (*domain.Patient, error)

	GetSessionsByPatient(ctx context.Context, patientID string) ([]domain.Session, error)
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)
	CreateSession(ctx context.Context, s *domain.Session) (*domain.Session, error)
	UpdateSessionStatus(ctx context.Context, sessionID string, status domain.SessionStatus) (*domain.Session, error)
}
