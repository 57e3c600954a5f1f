package handlers

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/tbourn/care-scheduler/internal/domain"
	"github.com/tbourn/care-scheduler/internal/guard"
	"github.com/tbourn/care-scheduler/internal/http/middleware"
	"github.com/tbourn/care-scheduler/internal/services"
)

func TestMissingProfessional_Is401(t *testing.T) {
	e := newEnv(t)
	for _, path := range []string{"/requests", "/patients", "/operations/request/x"} {
		w := e.do(http.MethodGet, path, nil, middleware.HeaderProfessionalID, "")
		expectError(t, w, http.StatusUnauthorized, ErrCodeUnauthorized)
	}
}

func TestListRequests_OnlyOwnPending(t *testing.T) {
	e := newEnv(t)
	e.seedRequest("r1", prof, "Ana", "ana@x.com")
	e.seedRequest("r2", "other", "Bia", "bia@x.com")

	w := e.do(http.MethodGet, "/requests", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body %s", w.Code, w.Body.String())
	}
	resp := decode[ListRequestsResponse](t, w)
	if len(resp.Requests) != 1 || resp.Requests[0].ID != "r1" {
		t.Fatalf("requests = %+v; want only r1", resp.Requests)
	}
}

func TestListRequests_EmptyIsArray(t *testing.T) {
	e := newEnv(t)
	w := e.do(http.MethodGet, "/requests", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"requests":[]`) {
		t.Fatalf("got %d %s; want empty array", w.Code, w.Body.String())
	}
}

func TestAcceptRequest_CreatesPatientThenRejectsRepeat(t *testing.T) {
	e := newEnv(t)
	e.seedRequest("r1", prof, "Ana", "Ana@X.com")

	w := e.do(http.MethodPost, "/requests/r1/accept", AcceptRequestBody{BirthDate: "1990-04-21", Age: 35})
	if w.Code != http.StatusCreated {
		t.Fatalf("accept status = %d; body %s", w.Code, w.Body.String())
	}
	p := decode[domain.Patient](t, w)
	if p.Email != "ana@x.com" || p.Status != domain.PatientActive || p.Age != 35 {
		t.Fatalf("patient = %+v", p)
	}
	if p.SourceRequestID == nil || *p.SourceRequestID != "r1" {
		t.Fatalf("source request = %v; want r1", p.SourceRequestID)
	}

	// The request is resolved now.
	w = e.do(http.MethodPost, "/requests/r1/accept", nil)
	expectError(t, w, http.StatusConflict, services.CodeInvalidState)

	if got := decode[ListRequestsResponse](t, e.do(http.MethodGet, "/requests", nil)); len(got.Requests) != 0 {
		t.Fatalf("pending after accept = %+v", got.Requests)
	}
}

func TestAcceptRequest_DuplicateEmailKeepsRequestPending(t *testing.T) {
	e := newEnv(t)
	e.seedPatient("p1", prof, "Ana", "ana@x.com")
	e.seedRequest("r1", prof, "Ana Souza", " ANA@x.com ")

	w := e.do(http.MethodPost, "/requests/r1/accept", nil)
	resp := expectError(t, w, http.StatusConflict, services.CodeDuplicateIdentity)
	if resp.Message != "Este paciente já está cadastrado em sua lista!" {
		t.Fatalf("message = %q", resp.Message)
	}

	got := decode[ListRequestsResponse](t, e.do(http.MethodGet, "/requests", nil))
	if len(got.Requests) != 1 || got.Requests[0].Status != domain.RequestPending {
		t.Fatalf("request should stay pending, got %+v", got.Requests)
	}
}

func TestAcceptRequest_UnknownAndForeign(t *testing.T) {
	e := newEnv(t)
	e.seedRequest("r2", "other", "Bia", "bia@x.com")

	expectError(t, e.do(http.MethodPost, "/requests/nope/accept", nil), http.StatusNotFound, services.CodeNotFound)
	expectError(t, e.do(http.MethodPost, "/requests/r2/accept", nil), http.StatusNotFound, services.CodeNotFound)
}

func TestAcceptRequest_BadJSON(t *testing.T) {
	e := newEnv(t)
	e.seedRequest("r1", prof, "Ana", "ana@x.com")
	w := e.do(http.MethodPost, "/requests/r1/accept", "not-an-object")
	expectError(t, w, http.StatusBadRequest, ErrCodeBadRequest)
}

func TestAcceptRequest_IdempotentReplay(t *testing.T) {
	e := newEnv(t)
	e.seedRequest("r1", prof, "Ana", "ana@x.com")
	const key = "7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab"

	first := e.do(http.MethodPost, "/requests/r1/accept", nil, middleware.HeaderIdempotencyKey, key)
	if first.Code != http.StatusCreated {
		t.Fatalf("first status = %d; body %s", first.Code, first.Body.String())
	}
	if first.Header().Get(middleware.HeaderIdempotencyReplayed) != "" {
		t.Fatalf("first call must not be marked as replay")
	}

	second := e.do(http.MethodPost, "/requests/r1/accept", nil, middleware.HeaderIdempotencyKey, key)
	if second.Code != http.StatusCreated {
		t.Fatalf("replay status = %d; body %s", second.Code, second.Body.String())
	}
	if second.Header().Get(middleware.HeaderIdempotencyReplayed) != "true" {
		t.Fatalf("replay header missing")
	}
	if a, b := decode[domain.Patient](t, first), decode[domain.Patient](t, second); a.ID != b.ID {
		t.Fatalf("replay returned patient %q; want %q", b.ID, a.ID)
	}

	// Without the key the resolved request is refused.
	expectError(t, e.do(http.MethodPost, "/requests/r1/accept", nil), http.StatusConflict, services.CodeInvalidState)
}

func TestRejectRequest_DefaultNote(t *testing.T) {
	e := newEnv(t)
	e.seedRequest("r1", prof, "Ana", "ana@x.com")

	w := e.do(http.MethodPost, "/requests/r1/reject", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("reject status = %d; body %s", w.Code, w.Body.String())
	}
	var stored domain.Request
	if err := e.db.First(&stored, "id = ?", "r1").Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if stored.Status != domain.RequestRejected || stored.ResolutionNote != services.DefaultRejectionNote {
		t.Fatalf("stored = %+v", stored)
	}

	expectError(t, e.do(http.MethodPost, "/requests/r1/reject", RejectRequestBody{Note: "x"}), http.StatusConflict, services.CodeInvalidState)
}

func TestRejectRequest_CustomNote(t *testing.T) {
	e := newEnv(t)
	e.seedRequest("r1", prof, "Ana", "ana@x.com")

	w := e.do(http.MethodPost, "/requests/r1/reject", RejectRequestBody{Note: "Agenda completa"})
	if w.Code != http.StatusNoContent {
		t.Fatalf("reject status = %d", w.Code)
	}
	var stored domain.Request
	if err := e.db.First(&stored, "id = ?", "r1").Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if stored.ResolutionNote != "Agenda completa" {
		t.Fatalf("note = %q", stored.ResolutionNote)
	}
}

func TestListPatients_PaginationFilterAndETag(t *testing.T) {
	e := newEnv(t)
	e.seedPatient("p1", prof, "Ana", "ana@x.com")
	e.seedPatient("p2", prof, "Conceição", "c@x.com")
	e.seedPatient("p3", prof, "Bia", "bia@x.com")
	e.seedPatient("p4", "other", "Davi", "d@x.com")

	w := e.do(http.MethodGet, "/patients?page=1&page_size=2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body %s", w.Code, w.Body.String())
	}
	resp := decode[ListPatientsResponse](t, w)
	if len(resp.Patients) != 2 || resp.Pagination.Total != 3 || !resp.Pagination.HasNext || resp.Pagination.TotalPages != 2 {
		t.Fatalf("page 1 = %+v", resp)
	}

	etag := w.Header().Get("ETag")
	if !strings.HasPrefix(etag, `W/"patients:`) {
		t.Fatalf("etag = %q", etag)
	}
	w = e.do(http.MethodGet, "/patients?page=1&page_size=2", nil, "If-None-Match", etag)
	if w.Code != http.StatusNotModified {
		t.Fatalf("conditional status = %d; want 304", w.Code)
	}
	// Another page never matches the first page's tag.
	w = e.do(http.MethodGet, "/patients?page=2&page_size=2", nil, "If-None-Match", etag)
	if w.Code != http.StatusOK {
		t.Fatalf("page 2 status = %d; want 200", w.Code)
	}
	if got := decode[ListPatientsResponse](t, w); len(got.Patients) != 1 || got.Pagination.HasNext {
		t.Fatalf("page 2 = %+v", got)
	}

	// Accent-insensitive filter.
	got := decode[ListPatientsResponse](t, e.do(http.MethodGet, "/patients?q=conceicao", nil))
	if len(got.Patients) != 1 || got.Patients[0].ID != "p2" {
		t.Fatalf("filtered = %+v", got.Patients)
	}
}

func TestListPatients_ETagChangesOnWrite(t *testing.T) {
	e := newEnv(t)
	e.seedPatient("p1", prof, "Ana", "ana@x.com")

	etag := e.do(http.MethodGet, "/patients", nil).Header().Get("ETag")
	e.seedPatient("p2", prof, "Bia", "bia@x.com")

	w := e.do(http.MethodGet, "/patients", nil, "If-None-Match", etag)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200 after a new patient", w.Code)
	}
}

func TestGetPatient_OwnerScoped(t *testing.T) {
	e := newEnv(t)
	e.seedPatient("p1", prof, "Ana", "ana@x.com")
	e.seedPatient("p2", "other", "Bia", "bia@x.com")

	if w := e.do(http.MethodGet, "/patients/p1", nil); w.Code != http.StatusOK {
		t.Fatalf("own patient status = %d", w.Code)
	}
	expectError(t, e.do(http.MethodGet, "/patients/p2", nil), http.StatusNotFound, services.CodeNotFound)
}

func validSession() CreateSessionBody {
	return CreateSessionBody{Date: "2025-06-12", Time: "14:00", Duration: 50, Description: "Acompanhamento", Notes: "trazer diário"}
}

func TestCreateSession_ValidationListsEveryField(t *testing.T) {
	e := newEnv(t)
	e.seedPatient("p1", prof, "Ana", "ana@x.com")

	w := e.do(http.MethodPost, "/patients/p1/sessions", CreateSessionBody{Date: "2025-06-09", Time: "12:00", Duration: 45})
	resp := expectError(t, w, http.StatusBadRequest, services.CodeValidation)
	fields := map[string]bool{}
	for _, f := range resp.Fields {
		fields[f.Field] = true
	}
	for _, want := range []string{"date", "time", "duration", "description"} {
		if !fields[want] {
			t.Fatalf("missing field %q in %+v", want, resp.Fields)
		}
	}
}

func TestSessions_CreateListAndUpdate(t *testing.T) {
	e := newEnv(t)
	e.seedPatient("p1", prof, "Ana", "ana@x.com")

	later := validSession()
	later.Date, later.Description, later.Notes = "2025-06-20", "Retorno", ""
	if w := e.do(http.MethodPost, "/patients/p1/sessions", later); w.Code != http.StatusCreated {
		t.Fatalf("create later status = %d; body %s", w.Code, w.Body.String())
	}
	w := e.do(http.MethodPost, "/patients/p1/sessions", validSession())
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d; body %s", w.Code, w.Body.String())
	}
	s := decode[domain.Session](t, w)
	if s.Status != domain.SessionScheduled || s.Notes == nil || *s.Notes != "trazer diário" {
		t.Fatalf("session = %+v", s)
	}

	// Today's date is accepted.
	today := validSession()
	today.Date = "2025-06-10"
	if w := e.do(http.MethodPost, "/patients/p1/sessions", today); w.Code != http.StatusCreated {
		t.Fatalf("today status = %d; body %s", w.Code, w.Body.String())
	}

	list := decode[ListSessionsResponse](t, e.do(http.MethodGet, "/patients/p1/sessions", nil))
	if len(list.Sessions) != 3 {
		t.Fatalf("sessions = %d; want 3", len(list.Sessions))
	}
	if list.Sessions[0].Date != "2025-06-10" || list.Sessions[2].Date != "2025-06-20" {
		t.Fatalf("sessions not in date order: %+v", list.Sessions)
	}

	filtered := decode[ListSessionsResponse](t, e.do(http.MethodGet, "/patients/p1/sessions?q=DIARIO", nil))
	if len(filtered.Sessions) != 2 {
		t.Fatalf("filtered = %d; want 2 (notes match ignoring case and accents)", len(filtered.Sessions))
	}

	w = e.do(http.MethodPatch, "/sessions/"+s.ID+"/status", UpdateSessionStatusBody{Status: domain.SessionCompleted})
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d; body %s", w.Code, w.Body.String())
	}
	if got := decode[domain.Session](t, w); got.Status != domain.SessionCompleted {
		t.Fatalf("status = %q", got.Status)
	}

	expectError(t, e.do(http.MethodPatch, "/sessions/"+s.ID+"/status", UpdateSessionStatusBody{Status: "pausado"}),
		http.StatusBadRequest, ErrCodeBadRequest)
	expectError(t, e.do(http.MethodPatch, "/sessions/nope/status", UpdateSessionStatusBody{Status: domain.SessionStarted}),
		http.StatusNotFound, services.CodeNotFound)
	expectError(t, e.do(http.MethodPatch, "/sessions/"+s.ID+"/status", map[string]string{}),
		http.StatusBadRequest, ErrCodeBadRequest)
}

func TestSessions_ListETag(t *testing.T) {
	e := newEnv(t)
	e.seedPatient("p1", prof, "Ana", "ana@x.com")
	e.do(http.MethodPost, "/patients/p1/sessions", validSession())

	w := e.do(http.MethodGet, "/patients/p1/sessions", nil)
	etag := w.Header().Get("ETag")
	if etag == "" {
		t.Fatalf("missing ETag")
	}
	if w := e.do(http.MethodGet, "/patients/p1/sessions", nil, "If-None-Match", etag); w.Code != http.StatusNotModified {
		t.Fatalf("status = %d; want 304", w.Code)
	}
}

func TestSessions_ForeignPatientIs404(t *testing.T) {
	e := newEnv(t)
	e.seedPatient("p2", "other", "Bia", "bia@x.com")

	expectError(t, e.do(http.MethodGet, "/patients/p2/sessions", nil), http.StatusNotFound, services.CodeNotFound)
	expectError(t, e.do(http.MethodPost, "/patients/p2/sessions", validSession()), http.StatusNotFound, services.CodeNotFound)
}

func TestCreateSession_IdempotentReplay(t *testing.T) {
	e := newEnv(t)
	e.seedPatient("p1", prof, "Ana", "ana@x.com")
	const key = "session-key-0001"

	first := e.do(http.MethodPost, "/patients/p1/sessions", validSession(), middleware.HeaderIdempotencyKey, key)
	second := e.do(http.MethodPost, "/patients/p1/sessions", validSession(), middleware.HeaderIdempotencyKey, key)
	if first.Code != http.StatusCreated || second.Code != http.StatusCreated {
		t.Fatalf("statuses = %d, %d", first.Code, second.Code)
	}
	if decode[domain.Session](t, first).ID != decode[domain.Session](t, second).ID {
		t.Fatalf("replay created a second session")
	}
	if n := len(decode[ListSessionsResponse](t, e.do(http.MethodGet, "/patients/p1/sessions", nil)).Sessions); n != 1 {
		t.Fatalf("sessions = %d; want 1", n)
	}
}

func TestSessionOptions(t *testing.T) {
	e := newEnv(t)
	resp := decode[SessionOptionsResponse](t, e.do(http.MethodGet, "/sessions/options", nil))
	if resp.Today != "2025-06-10" {
		t.Fatalf("today = %q", resp.Today)
	}
	if len(resp.TimeSlots) != len(services.TimeSlots) || len(resp.Durations) != 4 || len(resp.Statuses) != 4 {
		t.Fatalf("options = %+v", resp)
	}
}

func TestGetOperation(t *testing.T) {
	e := newEnv(t)

	expectError(t, e.do(http.MethodGet, "/operations/invoice/x", nil), http.StatusBadRequest, ErrCodeBadRequest)

	resp := decode[OperationStatusResponse](t, e.do(http.MethodGet, "/operations/request/r1", nil))
	if resp.InFlight || resp.Kind != "request" || resp.ID != "r1" {
		t.Fatalf("resp = %+v", resp)
	}
}

// busyWorkflow reports every entity as in flight.
type busyWorkflow struct{ WorkflowService }

func (busyWorkflow) InFlight(kind, id string) bool { return true }

func (busyWorkflow) AcceptRequest(context.Context, string, string, services.AcceptDraft) (*domain.Patient, error) {
	return nil, guard.ErrInFlight
}

func TestInFlight_ReportedAndRefused(t *testing.T) {
	e := newEnv(t)
	h := New(nil, nil, nil, busyWorkflow{})
	e.r.GET("/busy/operations/:kind/:id", h.GetOperation)
	e.r.POST("/busy/requests/:id/accept", h.AcceptRequest)

	resp := decode[OperationStatusResponse](t, e.do(http.MethodGet, "/busy/operations/session/s1", nil))
	if !resp.InFlight {
		t.Fatalf("in_flight = false; want true")
	}
	expectError(t, e.do(http.MethodPost, "/busy/requests/r1/accept", nil), http.StatusConflict, services.CodeInFlight)
}
