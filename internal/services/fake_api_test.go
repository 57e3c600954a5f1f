package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tbourn/care-scheduler/internal/domain"
	"github.com/tbourn/care-scheduler/internal/repo"
)

// ----- Fake CareAPI -----
//
// fakeAPI keeps everything in maps and mimics the store's guarantees: a
// unique (professional, email) pair for patients and a conditional request
// status update.
type fakeAPI struct {
	mu       sync.Mutex
	requests map[string]*domain.Request
	order    []string
	patients map[string]*domain.Patient
	sessions map[string]*domain.Session
	seq      int

	calls  map[string]int
	failOn map[string]error

	// hook runs at the start of every call, outside the lock.
	hook func(method string)
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		requests: map[string]*domain.Request{},
		patients: map[string]*domain.Patient{},
		sessions: map[string]*domain.Session{},
		calls:    map[string]int{},
		failOn:   map[string]error{},
	}
}

func (f *fakeAPI) enter(method string) error {
	if f.hook != nil {
		f.hook(method)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[method]++
	return f.failOn[method]
}

func (f *fakeAPI) count(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeAPI) fail(method string, err error) {
	f.mu.Lock()
	f.failOn[method] = err
	f.mu.Unlock()
}

func (f *fakeAPI) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s%d", prefix, f.seq)
}

func (f *fakeAPI) addRequest(id, prof, email string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests[id] = &domain.Request{
		ID: id, ProfessionalID: prof, PatientName: "Paciente " + id, PatientEmail: email,
		PatientPhone: "(11) 90000-0000", Description: "ansiedade", Urgency: domain.UrgencyMedium,
		Status: domain.RequestPending, CreatedAt: time.Now(),
	}
	f.order = append(f.order, id)
}

func (f *fakeAPI) addPatient(id, prof, email string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patients[id] = &domain.Patient{ID: id, ProfessionalID: prof, Name: "P " + id, Email: email, Status: domain.PatientActive}
}

func (f *fakeAPI) request(id string) domain.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.requests[id]
}

func (f *fakeAPI) patientsOf(prof string) []domain.Patient {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Patient
	for _, p := range f.patients {
		if p.ProfessionalID == prof {
			out = append(out, *p)
		}
	}
	return out
}

func (f *fakeAPI) sessionCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sessions)
}

func (f *fakeAPI) GetRequests(ctx context.Context, professionalID string) ([]domain.Request, error) {
	if err := f.enter("GetRequests"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Request
	for _, id := range f.order {
		if r := f.requests[id]; r.ProfessionalID == professionalID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeAPI) GetRequest(ctx context.Context, id string) (*domain.Request, error) {
	if err := f.enter("GetRequest"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.requests[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeAPI) UpdateRequestStatus(ctx context.Context, id string, status domain.RequestStatus, note string) (*domain.Request, error) {
	if err := f.enter("UpdateRequestStatus"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.requests[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	if r.Status != domain.RequestPending {
		return nil, repo.ErrStaleState
	}
	r.Status, r.ResolutionNote = status, note
	cp := *r
	return &cp, nil
}

func (f *fakeAPI) GetPatients(ctx context.Context, professionalID string) ([]domain.Patient, error) {
	if err := f.enter("GetPatients"); err != nil {
		return nil, err
	}
	out := f.patientsOf(professionalID)
	// Deterministic order like the store (by name).
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Name < out[j-1].Name; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out, nil
}

func (f *fakeAPI) FindPatientByEmail(ctx context.Context, professionalID, email string) (*domain.Patient, error) {
	if err := f.enter("FindPatientByEmail"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.patients {
		if p.ProfessionalID == professionalID && p.Email == email {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeAPI) CreatePatient(ctx context.Context, p *domain.Patient) (*domain.Patient, error) {
	if err := f.enter("CreatePatient"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, q := range f.patients {
		if q.ProfessionalID == p.ProfessionalID && q.Email == p.Email {
			return nil, repo.ErrDuplicate
		}
	}
	cp := *p
	cp.ID = f.nextID("p")
	f.patients[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeAPI) GetPatient(ctx context.Context, id string) (*domain.Patient, error) {
	if err := f.enter("GetPatient"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.patients[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeAPI) GetSessionsByPatient(ctx context.Context, patientID string) ([]domain.Session, error) {
	if err := f.enter("GetSessionsByPatient"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Session
	for _, s := range f.sessions {
		if s.PatientID == patientID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeAPI) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	if err := f.enter("GetSession"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeAPI) CreateSession(ctx context.Context, s *domain.Session) (*domain.Session, error) {
	if err := f.enter("CreateSession"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.patients[s.PatientID]
	if !ok {
		return nil, repo.ErrNotFound
	}
	p.SessionsCount++
	cp := *s
	cp.ID = f.nextID("s")
	f.sessions[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeAPI) UpdateSessionStatus(ctx context.Context, id string, status domain.SessionStatus) (*domain.Session, error) {
	if err := f.enter("UpdateSessionStatus"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	s.Status = status
	cp := *s
	return &cp, nil
}

var _ CareAPI = (*fakeAPI)(nil)
var _ CareAPI = (*repo.Store)(nil)

// fixture wires the full service graph over a fakeAPI. The clock is pinned
// to 2025-06-10 12:00 in São Paulo.
type fixture struct {
	api      *fakeAPI
	patients *PatientRegistry
	requests *RequestLedger
	sessions *SessionLedger
	workflow *Workflow
}

const today = "2025-06-10"

func newFixture() *fixture {
	api := newFakeAPI()
	patients := NewPatientRegistry(api)
	requests := NewRequestLedger(api, patients)
	sessions := NewSessionLedger(api, patients)
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		loc = time.FixedZone("BRT", -3*3600)
	}
	sessions.Location = loc
	sessions.Now = func() time.Time { return time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC) }
	return &fixture{
		api: api, patients: patients, requests: requests, sessions: sessions,
		workflow: NewWorkflow(requests, sessions),
	}
}
