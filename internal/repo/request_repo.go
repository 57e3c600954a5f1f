package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/care-scheduler/internal/domain"
)

// CreateRequest inserts a request, assigning an ID when empty. An empty
// urgency defaults to media; an unknown one is ErrInvalidValue.
func CreateRequest(ctx context.Context, db *gorm.DB, r *domain.Request) error {
	if r.Urgency == "" {
		r.Urgency = domain.UrgencyMedium
	}
	if !r.Urgency.Valid() {
		return fmt.Errorf("urgency %q: %w", r.Urgency, ErrInvalidValue)
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Status == "" {
		r.Status = domain.RequestPending
	}
	return db.WithContext(ctx).Create(r).Error
}

// ListRequests returns a professional's requests in arrival order (oldest
// first). An empty status lists every state. Rows sharing a created_at are
// ordered by id, which is stable but not insertion order for generated ids.
func ListRequests(ctx context.Context, db *gorm.DB, professionalID string, status domain.RequestStatus) ([]domain.Request, error) {
	q := db.WithContext(ctx).Where("professional_id = ?", professionalID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []domain.Request
	err := q.Order("created_at ASC, id ASC").Find(&out).Error
	return out, err
}

// GetRequest loads a request by ID. It does not check ownership.
func GetRequest(ctx context.Context, db *gorm.DB, id string) (*domain.Request, error) {
	var r domain.Request
	if err := db.WithContext(ctx).First(&r, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

// ResolveRequest moves a pendente request to status, recording note and the
// resolution time. The update is conditional on the row still being
// pendente: a request that already left it yields ErrStaleState, a missing
// one ErrNotFound. status must be terminal, otherwise ErrInvalidValue.
func ResolveRequest(ctx context.Context, db *gorm.DB, id string, status domain.RequestStatus, note string, now time.Time) (*domain.Request, error) {
	if !status.Terminal() {
		return nil, fmt.Errorf("resolution status %q: %w", status, ErrInvalidValue)
	}
	res := db.WithContext(ctx).
		Model(&domain.Request{}).
		Where("id = ? AND status = ?", id, domain.RequestPending).
		Updates(map[string]any{
			"status":          status,
			"resolution_note": note,
			"resolved_at":     now,
			"updated_at":      now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		var n int64
		if err := db.WithContext(ctx).Model(&domain.Request{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, ErrNotFound
		}
		return nil, ErrStaleState
	}
	return GetRequest(ctx, db, id)
}
