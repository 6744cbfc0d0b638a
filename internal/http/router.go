package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/skyfare/farecalc-service/internal/metrics"
	"github.com/skyfare/farecalc-service/internal/middleware"
	"github.com/skyfare/farecalc-service/internal/service"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RouterConfig holds router configuration options.
type RouterConfig struct {
	RateLimit         int
	RateWindow        time.Duration
	JWTSecret         string
	EnableIdempotency bool
	CORSOrigins       []string
	SwaggerUser       string
	SwaggerPass       string
	AuditService      service.EntryAuditService
	ConfigService     service.FareCalcConfigService
	PricingService    service.PricingService
}

// DefaultRouterConfig returns the default router configuration.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		RateLimit:  100,
		RateWindow: time.Minute,
	}
}

// NewRouter assembles the gin engine: global middleware, probe and
// documentation endpoints, then the /api pricing surface.
func NewRouter(handler *Handler, healthHandler *HealthHandler, cfg RouterConfig) *gin.Engine {
	router := gin.New()

	router.Use(corsPolicy(cfg.CORSOrigins))
	router.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		metrics.PrometheusMiddleware(),
		middleware.Compression(),
		middleware.EntryLogger(cfg.AuditService),
		middleware.ErrorHandler(),
	)
	if cfg.RateLimit > 0 {
		router.Use(middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow).RateLimit())
	}

	healthHandler.Register(router)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	mountSwagger(router, cfg.SwaggerUser, cfg.SwaggerPass)

	api := router.Group("/api")
	if cfg.EnableIdempotency {
		api.Use(middleware.Idempotency(middleware.DefaultIdempotencyConfig()))
	}

	// Pricing is always open; the config write surface sits behind the
	// token guard whenever a secret is configured.
	if handler != nil {
		pricingRoutes := NewPricingRoutes(handler.pricing, cfg.ConfigService)
		if cfg.JWTSecret != "" {
			pricingRoutes.RegisterProtectedConfigRoutes(api, middleware.JWTAuth(cfg.JWTSecret))
		} else {
			pricingRoutes.RegisterPublicRoutes(api)
		}
	}

	return router
}

func corsPolicy(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	}
	return cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Content-Length", "Accept-Encoding",
			"Accept-Language", "Authorization", "Cache-Control",
			"Idempotency-Key", "X-Request-ID",
		},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	})
}

func mountSwagger(router *gin.Engine, user, pass string) {
	if user != "" && pass != "" {
		authorized := router.Group("/swagger", gin.BasicAuth(gin.Accounts{user: pass}))
		authorized.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
		return
	}
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
