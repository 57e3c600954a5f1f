package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/care-scheduler/internal/domain"
)

// CreatePatient inserts p, assigning an ID when empty. A second patient with
// the same (professional_id, email) maps to ErrDuplicate.
func CreatePatient(ctx context.Context, db *gorm.DB, p *domain.Patient) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if err := db.WithContext(ctx).Create(p).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// GetPatient loads a patient by ID. It does not check ownership.
func GetPatient(ctx context.Context, db *gorm.DB, id string) (*domain.Patient, error) {
	var p domain.Patient
	if err := db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindPatientByEmail returns the professional's patient whose stored email
// equals email, or ErrNotFound.
func FindPatientByEmail(ctx context.Context, db *gorm.DB, professionalID, email string) (*domain.Patient, error) {
	var p domain.Patient
	err := db.WithContext(ctx).
		Where("professional_id = ? AND email = ?", professionalID, email).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPatients returns all of a professional's patients ordered by name.
func ListPatients(ctx context.Context, db *gorm.DB, professionalID string) ([]domain.Patient, error) {
	var out []domain.Patient
	err := db.WithContext(ctx).
		Where("professional_id = ?", professionalID).
		Order("name ASC, id ASC").
		Find(&out).Error
	return out, err
}
