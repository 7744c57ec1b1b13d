// Command registry-import loads a SEBI registry snapshot JSON file into the
// advisors table, replacing the previous snapshot transactionally.
package main

import (
	"flag"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/investsafe/advisor-verify-api/internal/database"
	"github.com/investsafe/advisor-verify-api/internal/logger"
	"github.com/investsafe/advisor-verify-api/internal/registry"
	"github.com/investsafe/advisor-verify-api/internal/repository"
	"github.com/investsafe/advisor-verify-api/internal/services"
	"github.com/investsafe/advisor-verify-api/pkg/config"
)

func main() {
	godotenv.Load()

	cfg := config.New()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	snapshotPath := flag.String("snapshot", cfg.RegistrySnapshotPath, "path to the registry snapshot JSON file")
	flag.Parse()

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	repos := repository.NewRepositories(db.DB)
	registrySvc := newImportService(repos, log)

	if err := registrySvc.ImportSnapshot(*snapshotPath); err != nil {
		log.Fatal("snapshot import failed", zap.Error(err))
	}

	count, err := repos.Advisor.Count()
	if err != nil {
		log.Fatal("failed to count imported records", zap.Error(err))
	}
	log.Info("snapshot import complete", zap.Int("records", count))
}

func newImportService(repos *repository.Repositories, log logger.Logger) services.RegistryService {
	svcs := services.NewServices(services.Dependencies{
		Repos:    repos,
		Registry: registry.New(),
		Config:   config.New(),
		Logger:   log,
	})
	return svcs.Registry
}
