// Command devseed inserts sample pending care requests for local
// development. In production requests arrive from the patient-facing intake.
//
// Environment:
//
//	DEVSEED_PROFESSIONAL_ID  professional that receives the requests (default "prof-dev")
//	DEVSEED_RESET            when truthy, deletes that professional's data first
package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/care-scheduler/internal/config"
	"github.com/tbourn/care-scheduler/internal/domain"
	"github.com/tbourn/care-scheduler/internal/repo"
	"github.com/tbourn/care-scheduler/internal/sysutil"
)

var samples = []domain.Request{
	{PatientName: "Maria Conceição", PatientEmail: "maria.conceicao@example.com", PatientPhone: "(11) 98765-4321",
		Description: "Crises de ansiedade antes de reuniões de trabalho", Urgency: domain.UrgencyHigh},
	{PatientName: "João Pedro Alves", PatientEmail: "joao.alves@example.com", PatientPhone: "(21) 99876-5432",
		Description: "Dificuldade para dormir há três meses", Urgency: domain.UrgencyMedium},
	{PatientName: "Ana Beatriz Souza", PatientEmail: "ana.souza@example.com",
		Description: "Acompanhamento após processo de luto", Urgency: domain.UrgencyMedium},
	{PatientName: "Carlos Eduardo Lima", PatientEmail: "carlos.lima@example.com", PatientPhone: "(31) 91234-5678",
		Description: "Orientação vocacional", Urgency: domain.UrgencyLow},
}

func main() {
	_ = godotenv.Load()

	cfg := config.MustLoad()
	sysutil.SetupLogger(cfg.LogLevel, true, "devseed", nil)
	prof := sysutil.FirstNonEmpty(os.Getenv("DEVSEED_PROFESSIONAL_ID"), "prof-dev")

	dsn := cfg.DBPath
	if cfg.DBDriver == repo.DriverPostgres {
		dsn = cfg.DatabaseURL
	}
	db, err := repo.Open(cfg.DBDriver, dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	ctx := context.Background()
	if sysutil.IsTruthy(os.Getenv("DEVSEED_RESET")) {
		if err := reset(ctx, db, prof); err != nil {
			log.Fatal().Err(err).Msg("reset")
		}
		log.Info().Str("professional_id", prof).Msg("existing data removed")
	}

	n, err := seed(ctx, db, prof)
	if err != nil {
		log.Fatal().Err(err).Msg("seed")
	}
	log.Info().Str("professional_id", prof).Int("requests", n).Msg("seeded pending requests")
}

// seed inserts one pending request per sample, spaced a minute apart so the
// arrival order is stable.
func seed(ctx context.Context, db *gorm.DB, professionalID string) (int, error) {
	base := time.Now().UTC().Add(-time.Duration(len(samples)) * time.Minute)
	for i, s := range samples {
		r := s
		r.ProfessionalID = professionalID
		r.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if err := repo.CreateRequest(ctx, db, &r); err != nil {
			return i, err
		}
	}
	return len(samples), nil
}

func reset(ctx context.Context, db *gorm.DB, professionalID string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range []any{&domain.Session{}, &domain.Patient{}, &domain.Request{}, &domain.Idempotency{}} {
			if err := tx.Where("professional_id = ?", professionalID).Delete(m).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
