package repo

import (
	"context"
	"testing"
	"time"

	"github.com/tbourn/care-scheduler/internal/domain"
)

func TestPatientsStats_CountError_NoTable(t *testing.T) {
	db := newTestDB(t /* no migrations */)
	if _, _, err := PatientsStats(context.Background(), db, "prof"); err == nil {
		t.Fatalf("expected error due to missing patients table")
	}
}

func TestPatientsStats_ZeroRows(t *testing.T) {
	db := newTestDB(t, &domain.Patient{})
	count, maxAt, err := PatientsStats(context.Background(), db, "prof")
	if err != nil {
		t.Fatalf("PatientsStats error: %v", err)
	}
	if count != 0 || maxAt != nil {
		t.Fatalf("expected (0, nil), got (%d, %v)", count, maxAt)
	}
}

func TestPatientsStats_Success_FilterAndMax(t *testing.T) {
	db := newTestDB(t, &domain.Patient{})

	t1 := time.Date(2025, 1, 2, 15, 0, 0, 0, time.UTC)
	t2 := time.Date(2025, 3, 4, 10, 30, 0, 0, time.UTC) // max for prof
	t3 := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)   // other owner

	for _, p := range []*domain.Patient{
		{ID: "p1", ProfessionalID: "prof", Name: "a", Email: "a@x.com", Status: "Ativo", CreatedAt: t1, UpdatedAt: t1},
		{ID: "p2", ProfessionalID: "prof", Name: "b", Email: "b@x.com", Status: "Ativo", CreatedAt: t2, UpdatedAt: t2},
		{ID: "p3", ProfessionalID: "other", Name: "c", Email: "c@x.com", Status: "Ativo", CreatedAt: t3, UpdatedAt: t3},
	} {
		if err := db.Create(p).Error; err != nil {
			t.Fatalf("seed %s: %v", p.ID, err)
		}
	}

	count, maxAt, err := PatientsStats(context.Background(), db, "prof")
	if err != nil {
		t.Fatalf("PatientsStats error: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected count 2, got %d", count)
	}
	if maxAt == nil || !maxAt.Equal(t2) {
		t.Fatalf("expected maxUpdatedAt %v, got %v", t2, maxAt)
	}
}

// Force the second query (SELECT updated_at ...) to fail by renaming the column.
func TestSessionsStats_SelectLatest_ErrorPath(t *testing.T) {
	db := newTestDB(t, &domain.Patient{}, &domain.Session{})
	seedPatient(t, db, "p1", "prof", "Ana", "a@x.com")
	if err := CreateSession(context.Background(), db, newSession("p1", "2030-01-02", "09:00")); err != nil {
		t.Fatalf("seed session: %v", err)
	}

	if err := db.Exec(`ALTER TABLE sessions RENAME COLUMN updated_at TO updated_at_old`).Error; err != nil {
		t.Fatalf("rename column: %v", err)
	}
	if _, _, err := SessionsStats(context.Background(), db, "p1"); err == nil {
		t.Fatalf("expected error from latest-updated select after column rename")
	}
}
