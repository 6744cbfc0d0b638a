// Package app provides router configuration.
package app

import (
	"github.com/skyfare/farecalc-service/config"
	"github.com/skyfare/farecalc-service/internal/http"
	"github.com/skyfare/farecalc-service/internal/service"
)

// RouterComponents holds router-related components.
type RouterComponents struct {
	Handler       *http.Handler
	HealthHandler *http.HealthHandler
	Config        http.RouterConfig
}

// InitializeRouter initializes HTTP handlers and router configuration.
func InitializeRouter(
	serviceComponents *ServiceComponents,
	dbComponents *DatabaseComponents,
	cfg config.Config,
) *RouterComponents {
	var auditService service.EntryAuditService
	if dbComponents != nil {
		auditService = dbComponents.AuditService
	}

	handler := http.NewHandler(serviceComponents.PricingService)
	healthHandler := http.NewHealthHandler()

	// Surface the policy store and journal circuits on the readiness probe
	if dbComponents != nil {
		if dbComponents.Mongo != nil {
			healthHandler.RegisterProbe("mongodb", dbComponents.Mongo.HealthCheck)
		}
		if dbComponents.ConfigCircuitBreaker != nil {
			healthHandler.RegisterCircuitBreaker("mongodb_fare_calc_configs", dbComponents.ConfigCircuitBreaker)
		}
		if dbComponents.AuditCircuitBreaker != nil {
			healthHandler.RegisterCircuitBreaker("mongodb_entry_audits", dbComponents.AuditCircuitBreaker)
		}
	}

	// The config administration routes are only useful with a database
	var configService service.FareCalcConfigService
	if dbComponents != nil {
		configService = serviceComponents.ConfigService
	}

	jwtSecret := ""
	if cfg.Auth.Enabled {
		jwtSecret = cfg.Auth.JWTSecretKey
	}

	routerCfg := http.RouterConfig{
		RateLimit:         cfg.Server.RateLimit,
		RateWindow:        cfg.Server.RateWindow,
		JWTSecret:         jwtSecret,
		EnableIdempotency: true,
		CORSOrigins:       cfg.Server.CORSOrigins,
		SwaggerUser:       cfg.Server.SwaggerUser,
		SwaggerPass:       cfg.Server.SwaggerPass,
		AuditService:      auditService,
		ConfigService:     configService,
		PricingService:    serviceComponents.PricingService,
	}

	return &RouterComponents{
		Handler:       handler,
		HealthHandler: healthHandler,
		Config:        routerCfg,
	}
}
