// Package app provides database initialization and setup.
package app

import (
	"context"

	"github.com/skyfare/farecalc-service/config"
	"github.com/skyfare/farecalc-service/internal/circuitbreaker"
	"github.com/skyfare/farecalc-service/internal/logger"
	"github.com/skyfare/farecalc-service/internal/repository"
	"github.com/skyfare/farecalc-service/internal/service"
)

// DatabaseComponents holds database-related components.
type DatabaseComponents struct {
	Mongo                *repository.MongoDB
	ConfigRepo           repository.FareCalcConfigRepositoryInterface
	AuditService         service.EntryAuditService
	ConfigCircuitBreaker *circuitbreaker.CircuitBreaker
	AuditCircuitBreaker  *circuitbreaker.CircuitBreaker
}

// InitializeDatabase initializes MongoDB connection and creates required repositories and services.
// Returns nil if database is disabled or connection fails.
func InitializeDatabase(cfg config.DatabaseConfig) *DatabaseComponents {
	if !cfg.Enabled {
		return nil
	}

	log := logger.ForComponent("database")

	db, err := repository.NewMongoDB(cfg.URI, cfg.DatabaseName)
	if err != nil {
		log.Error().Err(err).Msg("Policy store unreachable, pricing will use built-in defaults")
		return nil
	}

	log.Info().Str("database", cfg.DatabaseName).Msg("Connected to policy store")

	// Entry journal retention
	ttlDays := int(cfg.LogsTTL.Hours() / 24)
	if err := db.SetAuditTTL(context.Background(), ttlDays); err != nil {
		log.Warn().Err(err).Msg("Could not apply entry journal retention index")
	}

	// Initialize circuit breakers
	configCB := circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: cfg.CircuitBreakerFailureThreshold,
		SuccessThreshold: cfg.CircuitBreakerSuccessThreshold,
		Timeout:          cfg.CircuitBreakerTimeout,
		Name:             "mongodb-fare-calc-configs",
	})

	auditCB := circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: cfg.CircuitBreakerFailureThreshold,
		SuccessThreshold: cfg.CircuitBreakerSuccessThreshold,
		Timeout:          cfg.CircuitBreakerTimeout,
		Name:             "mongodb-entry-audits",
	})

	// Initialize repositories
	auditRepo := repository.NewEntryAuditRepository(db)
	auditRepoWithCB := repository.NewEntryAuditRepositoryWithCircuitBreaker(auditRepo, auditCB)
	auditService := service.NewEntryAuditService(auditRepoWithCB)

	configRepo := repository.NewFareCalcConfigRepository(db)
	configRepoWithCB := repository.NewFareCalcConfigRepositoryWithCircuitBreaker(configRepo, configCB)

	// Seed the built-in display defaults if no config records exist
	if err := initializeDefaultConfig(configRepoWithCB); err != nil {
		log.Warn().Err(err).Msg("Could not seed default display policy")
	}

	return &DatabaseComponents{
		Mongo:                db,
		ConfigRepo:           configRepoWithCB,
		AuditService:         auditService,
		ConfigCircuitBreaker: configCB,
		AuditCircuitBreaker:  auditCB,
	}
}
