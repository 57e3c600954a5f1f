package repo

import (
	"fmt"
	"strings"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/care-scheduler/internal/domain"
)

func newTestDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()
	// Unique DB per test to avoid schema leaking across tests.
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func allModels() []any {
	return []any{&domain.Request{}, &domain.Patient{}, &domain.Session{}, &domain.Idempotency{}}
}

func seedRequest(t *testing.T, db *gorm.DB, id, prof, email string, at time.Time) *domain.Request {
	t.Helper()
	r := &domain.Request{
		ID: id, ProfessionalID: prof, PatientName: "Paciente " + id, PatientEmail: email,
		PatientPhone: "(11) 99999-0000", Description: "ansiedade", Urgency: domain.UrgencyMedium,
		Status: domain.RequestPending, CreatedAt: at, UpdatedAt: at,
	}
	if err := db.Create(r).Error; err != nil {
		t.Fatalf("seed request %s: %v", id, err)
	}
	return r
}

func seedPatient(t *testing.T, db *gorm.DB, id, prof, name, email string) *domain.Patient {
	t.Helper()
	p := &domain.Patient{ID: id, ProfessionalID: prof, Name: name, Email: email, Status: domain.PatientActive}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("seed patient %s: %v", id, err)
	}
	return p
}
