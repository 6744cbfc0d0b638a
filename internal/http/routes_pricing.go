package http

import (
	"github.com/gin-gonic/gin"
	"github.com/skyfare/farecalc-service/internal/service"
)

// PricingRoutes handles pricing-related route registration.
type PricingRoutes struct {
	handler        *Handler
	configsHandler *FareCalcConfigsHandler
}

// NewPricingRoutes creates a new PricingRoutes instance.
func NewPricingRoutes(pricing service.PricingService, configService service.FareCalcConfigService) *PricingRoutes {
	handler := NewHandler(pricing)

	var configsHandler *FareCalcConfigsHandler
	if configService != nil {
		configsHandler = NewFareCalcConfigsHandler(configService)
	}

	return &PricingRoutes{
		handler:        handler,
		configsHandler: configsHandler,
	}
}

// RegisterPublicRoutes registers the pricing entry and, when no extra
// middleware is supplied, the open config routes.
func (r *PricingRoutes) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/price", r.handler.Price)

	if r.configsHandler != nil {
		rg.GET("/fare-calc-configs", r.configsHandler.ListConfigs)
		rg.POST("/fare-calc-configs", r.configsHandler.CreateConfig)
		rg.PUT("/fare-calc-configs/:id", r.configsHandler.UpdateConfig)
	}
}

// RegisterProtectedConfigRoutes registers the config write surface behind
// the given auth middleware while the pricing entry stays open.
func (r *PricingRoutes) RegisterProtectedConfigRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	rg.POST("/price", r.handler.Price)

	if r.configsHandler == nil {
		return
	}

	protected := rg.Group("", auth)
	protected.GET("/fare-calc-configs", r.configsHandler.ListConfigs)
	protected.POST("/fare-calc-configs", r.configsHandler.CreateConfig)
	protected.PUT("/fare-calc-configs/:id", r.configsHandler.UpdateConfig)
}
