// Package app provides application initialization and dependency injection.
package app

import (
	"github.com/gin-gonic/gin"
	"github.com/skyfare/farecalc-service/config"
	"github.com/skyfare/farecalc-service/internal/http"
	"github.com/skyfare/farecalc-service/internal/logger"
	"github.com/skyfare/farecalc-service/internal/middleware"
)

// InitializeApp creates and wires all application dependencies.
// This is the main orchestration function that initializes all components.
func InitializeApp(cfg config.Config) *gin.Engine {
	// Initialize logger first (needed by other components)
	logger.Init(cfg.Log.Level, cfg.Log.Pretty)

	// Initialize database components (MongoDB repositories and services)
	dbComponents := InitializeDatabase(cfg.Database)

	// The entry journal buffers audit records behind a writer pool so the
	// pricing path never waits on Mongo.
	if dbComponents != nil {
		middleware.InitAuditJournal(dbComponents.AuditService, middleware.AuditJournalConfig{
			BufferSize:   cfg.Journal.BufferSize,
			NumWriters:   cfg.Journal.Writers,
			WriteTimeout: cfg.Journal.WriteTimeout,
		})
	}

	// Initialize business services
	serviceComponents := InitializeServices(cfg, dbComponents)

	// Initialize router components (handlers and configuration)
	routerComponents := InitializeRouter(serviceComponents, dbComponents, cfg)

	return http.NewRouter(routerComponents.Handler, routerComponents.HealthHandler, routerComponents.Config)
}
