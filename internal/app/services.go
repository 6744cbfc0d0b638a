// Package app provides service initialization.
package app

import (
	"github.com/skyfare/farecalc-service/config"
	"github.com/skyfare/farecalc-service/internal/farecalc"
	"github.com/skyfare/farecalc-service/internal/logger"
	"github.com/skyfare/farecalc-service/internal/repository"
	"github.com/skyfare/farecalc-service/internal/service"
)

// ServiceComponents holds service-related components.
type ServiceComponents struct {
	ConfigService  service.FareCalcConfigService
	PricingService service.PricingService
}

// InitializeServices initializes business logic services.
func InitializeServices(cfg config.Config, dbComponents *DatabaseComponents) *ServiceComponents {
	var configRepo repository.FareCalcConfigRepositoryInterface
	if dbComponents != nil {
		configRepo = dbComponents.ConfigRepo
	}

	var configOpts []service.ConfigOption
	if cfg.Cache.Size > 0 {
		configOpts = append(configOpts, service.WithConfigCache(cfg.Cache.Size, cfg.Cache.TTL))
	}
	configService := service.NewFareCalcConfigService(configRepo, configOpts...)

	var pricingOpts []service.PricingOption
	if cfg.Pricing.LegacyStopovers {
		pricingOpts = append(pricingOpts, service.WithPricingStopoverPolicy(farecalc.StopoverPolicyLegacy))
	}
	if len(cfg.Pricing.TicketLineLens) > 0 {
		pricingOpts = append(pricingOpts, service.WithPricingTicketStock(&farecalc.TicketStock{
			LineLens: cfg.Pricing.TicketLineLens,
		}))
	}
	pricingService := service.NewPricingService(configService, logger.ForComponent("pricing"), pricingOpts...)

	return &ServiceComponents{
		ConfigService:  configService,
		PricingService: pricingService,
	}
}
