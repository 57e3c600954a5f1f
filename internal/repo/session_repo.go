package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/care-scheduler/internal/domain"
)

// CreateSession inserts s and increments the owning patient's
// sessions_count (touching updated_at so list ETags change) in one transaction. A missing patient yields ErrNotFound.
func CreateSession(ctx context.Context, db *gorm.DB, s *domain.Session) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Status == "" {
		s.Status = domain.SessionScheduled
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Patient{}).
			Where("id = ?", s.PatientID).
			UpdateColumns(map[string]any{
				"sessions_count": gorm.Expr("sessions_count + 1"),
				"updated_at":     time.Now().UTC(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Omit("Patient").Create(s).Error
	})
}

// GetSession loads a session by ID. It does not check ownership.
func GetSession(ctx context.Context, db *gorm.DB, id string) (*domain.Session, error) {
	var s domain.Session
	if err := db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListSessionsByPatient returns a patient's sessions in calendar order.
// Date and time are fixed-width strings so lexical order is chronological.
func ListSessionsByPatient(ctx context.Context, db *gorm.DB, patientID string) ([]domain.Session, error) {
	var out []domain.Session
	err := db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("date ASC, time ASC, created_at ASC").
		Find(&out).Error
	return out, err
}

// UpdateSessionStatus overwrites a session's status and returns the fresh row.
func UpdateSessionStatus(ctx context.Context, db *gorm.DB, id string, status domain.SessionStatus, now time.Time) (*domain.Session, error) {
	res := db.WithContext(ctx).
		Model(&domain.Session{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": now})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return GetSession(ctx, db, id)
}
