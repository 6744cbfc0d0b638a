package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/skyfare/farecalc-service/internal/circuitbreaker"
)

// probeTimeout bounds one dependency probe during a readiness check.
const probeTimeout = 2 * time.Second

// Probe checks one dependency of the pricing service.
type Probe func(ctx context.Context) error

type namedProbe struct {
	name  string
	probe Probe
}

type namedBreaker struct {
	name    string
	breaker *circuitbreaker.CircuitBreaker
}

// HealthHandler serves the liveness and readiness endpoints.
//
// A failed dependency probe makes the service not ready. An open circuit
// breaker does not: the engine keeps pricing on the built-in display
// defaults while the policy store is shedding, so the service reports
// degraded but stays in rotation.
type HealthHandler struct {
	probes   []namedProbe
	breakers []namedBreaker
}

// NewHealthHandler creates an empty health handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// RegisterProbe adds a named dependency probe to the readiness check.
// Probes run in registration order.
func (h *HealthHandler) RegisterProbe(name string, probe Probe) {
	h.probes = append(h.probes, namedProbe{name: name, probe: probe})
}

// RegisterCircuitBreaker adds a circuit breaker to the readiness report.
func (h *HealthHandler) RegisterCircuitBreaker(name string, cb *circuitbreaker.CircuitBreaker) {
	h.breakers = append(h.breakers, namedBreaker{name: name, breaker: cb})
}

// Register mounts the health endpoints.
func (h *HealthHandler) Register(router *gin.Engine) {
	router.GET("/healthz", h.Liveness)
	router.GET("/readyz", h.Readiness)
}

// Liveness reports that the process is up. Orchestrators restart the
// service when this stops answering.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness reports whether the service should receive pricing traffic.
// Responds 503 only when a dependency probe fails outright; open circuits
// downgrade the status to "degraded" but keep the service in rotation.
func (h *HealthHandler) Readiness(c *gin.Context) {
	status := "ok"
	code := http.StatusOK
	checks := gin.H{}

	for _, p := range h.probes {
		ctx, cancel := context.WithTimeout(c.Request.Context(), probeTimeout)
		err := p.probe(ctx)
		cancel()
		if err != nil {
			checks[p.name] = err.Error()
			status = "unavailable"
			code = http.StatusServiceUnavailable
			continue
		}
		checks[p.name] = "ok"
	}

	for _, b := range h.breakers {
		stats := b.breaker.GetStats()
		checks[b.name+"_circuit"] = stats.State
		if !stats.IsHealthy && status == "ok" {
			status = "degraded"
		}
	}

	if len(checks) == 0 {
		checks["service"] = "ok"
	}

	c.JSON(code, gin.H{"status": status, "checks": checks})
}
