// This file provides small aggregate queries used for conditional responses
// (ETag generation) in the HTTP layer.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/care-scheduler/internal/domain"
)

// PatientsStats returns the number of a professional's patients and the
// greatest UpdatedAt among them. With no rows it returns (0, nil, nil).
func PatientsStats(ctx context.Context, db *gorm.DB, professionalID string) (count int64, maxUpdatedAt *time.Time, err error) {
	return latest(db.WithContext(ctx).Model(&domain.Patient{}).Where("professional_id = ?", professionalID))
}

// SessionsStats is PatientsStats for one patient's sessions.
func SessionsStats(ctx context.Context, db *gorm.DB, patientID string) (count int64, maxUpdatedAt *time.Time, err error) {
	return latest(db.WithContext(ctx).Model(&domain.Session{}).Where("patient_id = ?", patientID))
}

func latest(q *gorm.DB) (int64, *time.Time, error) {
	var count int64
	if err := q.Session(&gorm.Session{}).Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err := q.Session(&gorm.Session{}).Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}
