package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/investsafe/advisor-verify-api/internal/ai"
	"github.com/investsafe/advisor-verify-api/internal/api"
	"github.com/investsafe/advisor-verify-api/internal/cache"
	"github.com/investsafe/advisor-verify-api/internal/database"
	"github.com/investsafe/advisor-verify-api/internal/liveverify"
	"github.com/investsafe/advisor-verify-api/internal/logger"
	"github.com/investsafe/advisor-verify-api/internal/middleware"
	"github.com/investsafe/advisor-verify-api/internal/registry"
	"github.com/investsafe/advisor-verify-api/internal/repository"
	"github.com/investsafe/advisor-verify-api/internal/scoring"
	"github.com/investsafe/advisor-verify-api/internal/services"
	"github.com/investsafe/advisor-verify-api/internal/verification"
	"github.com/investsafe/advisor-verify-api/pkg/config"
)

func main() {
	godotenv.Load()

	cfg := config.New()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	repos := repository.NewRepositories(db.DB)
	reg := registry.New()

	// Live verification against the regulator website.
	liveClient, err := liveverify.NewClient(cfg.SEBIBaseURL, cfg.LiveVerifyTimeout, cfg.RequestsPerSecond)
	if err != nil {
		log.Fatal("failed to create live verification client", zap.Error(err))
	}
	defer liveClient.Close()
	orchestrator := liveverify.NewOrchestrator(liveClient, log, cfg.LiveVerifyWorkers, cfg.MaxCandidatePages)

	// AI fallback is optional; without credentials the deterministic
	// pipeline stands alone.
	var oracle *ai.Client
	if cfg.HasGroqCredentials() {
		oracle = ai.NewClient(cfg)
		log.Info("ai fallback enabled", zap.String("model", cfg.GroqModel))
	} else {
		log.Warn("no ai credentials configured, running deterministic-only")
	}

	verifier := verification.NewVerifier(reg, orchestrator, oracleOrNil(oracle), log)

	var resultCache *cache.ResultStore
	if cfg.HasRedis() {
		resultCache, err = cache.New(cfg.RedisAddr, cfg.CacheTTL, log)
		if err != nil {
			log.Warn("redis unavailable, running without result cache", zap.Error(err))
		} else {
			defer resultCache.Close()
			verifier.WithCache(resultCache)
		}
	}

	svcs := services.NewServices(services.Dependencies{
		Repos:    repos,
		Registry: reg,
		Verifier: verifier,
		Engine:   scoring.NewEngine(),
		Oracle:   offerOracleOrNil(oracle),
		Config:   cfg,
		Logger:   log,
	})

	loadRegistry(svcs.Registry, cfg, log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.LoggingMiddleware(log))
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.CORSMiddleware(cfg))
	r.Use(middleware.InputValidationMiddleware())
	if cfg.EnableRateLimit {
		r.Use(middleware.RateLimitingMiddleware())
	}
	r.Use(gin.Recovery())

	api.SetupRoutes(r, api.RouterDeps{
		Services: svcs,
		Config:   cfg,
		Monitor:  orchestrator.Monitor(),
		Database: db,
		Cache:    cachePingerOrNil(resultCache),
		Logger:   log,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	log.Info("server starting", zap.String("port", port))
	if err := r.Run(":" + port); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}

// loadRegistry prefers the database snapshot and falls back to the bundled
// JSON file. An empty registry is survivable; verification degrades to the
// live and AI tiers.
func loadRegistry(registrySvc services.RegistryService, cfg *config.Config, log logger.Logger) {
	if err := registrySvc.LoadFromDatabase(); err != nil {
		log.Warn("failed to load registry from database", zap.Error(err))
	}
	if registrySvc.Size() > 0 {
		return
	}

	if _, err := os.Stat(cfg.RegistrySnapshotPath); err != nil {
		log.Warn("no registry snapshot available, starting with empty registry",
			zap.String("path", cfg.RegistrySnapshotPath))
		return
	}
	if err := registrySvc.LoadFromFile(cfg.RegistrySnapshotPath); err != nil {
		log.Warn("failed to load registry snapshot file", zap.Error(err))
	}
}

// typed-nil guards: a nil *ai.Client stored in an interface is not a nil
// interface, so the conversions happen only for a live client.

func oracleOrNil(client *ai.Client) verification.AdvisorClassifier {
	if client == nil {
		return nil
	}
	return client
}

func offerOracleOrNil(client *ai.Client) services.OfferAnalyzer {
	if client == nil {
		return nil
	}
	return client
}

func cachePingerOrNil(store *cache.ResultStore) api.HealthPinger {
	if store == nil {
		return nil
	}
	return store
}
