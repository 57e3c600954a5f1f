// Package domain defines the persistence models for care requests, patients,
// and therapy sessions. These types are mapped with GORM and form the core
// data layer of the scheduler.
//
// Every aggregate is owned by exactly one professional through an explicit
// ProfessionalID column; sessions are additionally scoped under one patient.
package domain

import (
	"strings"
	"time"
)

// Urgency is the triage classification a patient attaches to a Request.
// It is used for display and sorting only; it never gates a transition.
type Urgency string

const (
	UrgencyLow    Urgency = "baixa"
	UrgencyMedium Urgency = "media"
	UrgencyHigh   Urgency = "alta"
)

// Valid reports whether u is one of the known urgency levels.
func (u Urgency) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh:
		return true
	}
	return false
}

// RequestStatus is the resolution state of a Request.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pendente"
	RequestAccepted RequestStatus = "aceito"
	RequestRejected RequestStatus = "rejeitado"
)

// Terminal reports whether s is a final state (aceito or rejeitado).
func (s RequestStatus) Terminal() bool {
	return s == RequestAccepted || s == RequestRejected
}

// SessionStatus is the lifecycle state of a Session.
type SessionStatus string

const (
	SessionScheduled SessionStatus = "agendado"
	SessionStarted   SessionStatus = "iniciado"
	SessionCompleted SessionStatus = "concluido"
	SessionCancelled SessionStatus = "cancelado"
)

// SessionStatuses lists every session state in display order.
var SessionStatuses = []SessionStatus{
	SessionScheduled, SessionStarted, SessionCompleted, SessionCancelled,
}

// Valid reports whether s is one of the four session states.
func (s SessionStatus) Valid() bool {
	for _, v := range SessionStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Patient status values used by the conversion workflow. The column is free
// text so externally registered patients may carry other labels.
const (
	PatientActive   = "Ativo"
	PatientInactive = "Inativo"
)

// Request is a patient's pending ask for care addressed to a professional.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - ProfessionalID: the target professional; indexed with CreatedAt for
//     arrival-order listing.
//   - PatientEmail: identity key used for duplicate detection on accept.
//   - Status: pendente until accepted or rejected; one-way.
//   - ResolutionNote / ResolvedAt: set once when the request leaves pendente.
type Request struct {
	ID             string        `json:"id"              gorm:"type:char(36);primaryKey"`
	ProfessionalID string        `json:"professional_id" gorm:"type:varchar(64);not null;index:idx_prof_requests,priority:1"`
	PatientName    string        `json:"patient_name"    gorm:"type:varchar(255);not null"`
	PatientEmail   string        `json:"patient_email"   gorm:"type:varchar(255);not null"`
	PatientPhone   string        `json:"patient_phone"   gorm:"type:varchar(32)"`
	Description    string        `json:"description"     gorm:"type:text;not null"`
	Urgency        Urgency       `json:"urgency"         gorm:"type:varchar(8);not null;default:'media';check:urgency IN ('baixa','media','alta')"`
	Notes          *string       `json:"notes,omitempty" gorm:"type:text"`
	Status         RequestStatus `json:"status"          gorm:"type:varchar(16);not null;default:'pendente';index;check:status IN ('pendente','aceito','rejeitado')"`
	ResolutionNote string        `json:"resolution_note,omitempty" gorm:"type:text"`
	ResolvedAt     *time.Time    `json:"resolved_at,omitempty"`
	CreatedAt      time.Time     `json:"created_at"      gorm:"index:idx_prof_requests,priority:2"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// TableName returns the database table name for Request.
func (Request) TableName() string { return "requests" }

// IsPending reports whether the request can still be accepted or rejected.
func (r *Request) IsPending() bool { return r.Status == RequestPending }

// Patient is a professional's accepted care recipient.
//
// The pair (ProfessionalID, Email) is unique: the ux_patient_owner_email index
// is the authority for at-most-once patient creation, the application-level
// check in the registry is only a fast path.
type Patient struct {
	ID              string    `json:"id"              gorm:"type:char(36);primaryKey"`
	ProfessionalID  string    `json:"professional_id" gorm:"type:varchar(64);not null;index;uniqueIndex:ux_patient_owner_email,priority:1"`
	Name            string    `json:"name"            gorm:"type:varchar(255);not null"`
	Email           string    `json:"email"           gorm:"type:varchar(255);not null;uniqueIndex:ux_patient_owner_email,priority:2"`
	Phone           string    `json:"phone"           gorm:"type:varchar(32)"`
	BirthDate       string    `json:"birth_date,omitempty" gorm:"type:varchar(10)"` // YYYY-MM-DD, empty when not informed
	Age             int       `json:"age,omitempty"`
	Status          string    `json:"status"          gorm:"type:varchar(32);not null;default:'Ativo'"`
	SessionsCount   int       `json:"sessions_count"  gorm:"not null;default:0"`
	SourceRequestID *string   `json:"source_request_id,omitempty" gorm:"type:char(36)"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName returns the database table name for Patient.
func (Patient) TableName() string { return "patients" }

// Session is a single scheduled therapy appointment belonging to a Patient.
//
// Date and Time are kept as the wall-clock strings the professional picked
// (YYYY-MM-DD and HH:MM, clinic time zone) so ordering is lexical and no
// time-zone conversion ever shifts an appointment.
type Session struct {
	ID             string        `json:"id"              gorm:"type:char(36);primaryKey"`
	PatientID      string        `json:"patient_id"      gorm:"type:char(36);not null;index:idx_patient_sessions,priority:1"`
	ProfessionalID string        `json:"professional_id" gorm:"type:varchar(64);not null;index"`
	Date           string        `json:"date"            gorm:"type:varchar(10);not null;index:idx_patient_sessions,priority:2"`
	Time           string        `json:"time"            gorm:"type:varchar(5);not null;index:idx_patient_sessions,priority:3"`
	Description    string        `json:"description"     gorm:"type:text;not null"`
	Duration       int           `json:"duration"        gorm:"not null;check:duration IN (30,40,50,60)"`
	Status         SessionStatus `json:"status"          gorm:"type:varchar(16);not null;default:'agendado';check:status IN ('agendado','iniciado','concluido','cancelado')"`
	Notes          *string       `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`

	// Patient is the owning patient. Sessions are never deleted in this
	// service, so no cascade is declared.
	Patient Patient `json:"-" gorm:"foreignKey:PatientID;references:ID"`
}

// TableName returns the database table name for Session.
func (Session) TableName() string { return "sessions" }

// NormalizeEmail returns the identity form of an email address: surrounding
// whitespace removed and lower-cased. All duplicate checks compare this form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
