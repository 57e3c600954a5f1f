package domain

import "time"

// Idempotency scopes. A scope names the operation and the entity it ran
// against, e.g. "accept:<request id>", so the same client key may be reused
// across different entities without colliding.
const (
	IdemScopeAccept        = "accept"
	IdemScopeCreateSession = "create-session"
)

// Idempotency records the outcome of a completed unsafe request, keyed by
// (professional_id, scope, key). A replay with the same Idempotency-Key
// returns the originally created resource instead of running the workflow a
// second time.
type Idempotency struct {
	ID             string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	ProfessionalID string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_prof_scope_key,priority:1"`
	Scope          string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_prof_scope_key,priority:2"`
	Key            string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_prof_scope_key,priority:3"`
	ResourceID     string    `gorm:"type:TEXT NOT NULL"`
	Status         int       `gorm:"type:INTEGER NOT NULL"`
	CreatedAt      time.Time `gorm:"type:DATETIME NOT NULL;autoCreateTime"`
	ExpiresAt      time.Time `gorm:"type:DATETIME NOT NULL;index"`
}

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency" }
