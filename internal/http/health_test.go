package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyfare/farecalc-service/internal/circuitbreaker"
)

func serveReadyz(t *testing.T, handler *HealthHandler) (int, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler.Register(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func openBreaker(t *testing.T) *circuitbreaker.CircuitBreaker {
	t.Helper()
	cb := circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: 1,
		SuccessThreshold: 1,
		Timeout:          time.Minute,
		Name:             "test",
	})
	err := cb.Execute(context.Background(), func() error { return errors.New("store down") })
	require.Error(t, err)
	require.True(t, cb.IsOpen())
	return cb
}

func TestHealthHandler_Liveness(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHealthHandler().Register(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHealthHandler_Readiness_NoDependencies(t *testing.T) {
	code, body := serveReadyz(t, NewHealthHandler())
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
}

func TestHealthHandler_Readiness_ProbeOutcomes(t *testing.T) {
	t.Run("healthy probe", func(t *testing.T) {
		h := NewHealthHandler()
		h.RegisterProbe("mongodb", func(ctx context.Context) error { return nil })

		code, body := serveReadyz(t, h)
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "ok", body["status"])
	})

	t.Run("failing probe takes the service out of rotation", func(t *testing.T) {
		h := NewHealthHandler()
		h.RegisterProbe("mongodb", func(ctx context.Context) error {
			return errors.New("connection refused")
		})

		code, body := serveReadyz(t, h)
		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "unavailable", body["status"])
		checks := body["checks"].(map[string]any)
		assert.Equal(t, "connection refused", checks["mongodb"])
	})

	t.Run("probe receives a deadline", func(t *testing.T) {
		h := NewHealthHandler()
		h.RegisterProbe("mongodb", func(ctx context.Context) error {
			_, ok := ctx.Deadline()
			assert.True(t, ok)
			return nil
		})
		code, _ := serveReadyz(t, h)
		assert.Equal(t, http.StatusOK, code)
	})
}

func TestHealthHandler_Readiness_OpenCircuitDegradesButServes(t *testing.T) {
	// Pricing falls back to the built-in display defaults while the
	// policy store circuit is open, so the service stays in rotation.
	h := NewHealthHandler()
	h.RegisterCircuitBreaker("mongodb_fare_calc_configs", openBreaker(t))

	code, body := serveReadyz(t, h)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "degraded", body["status"])
	checks := body["checks"].(map[string]any)
	assert.Equal(t, "open", checks["mongodb_fare_calc_configs_circuit"])
}

func TestHealthHandler_Readiness_FailedProbeOutranksDegraded(t *testing.T) {
	h := NewHealthHandler()
	h.RegisterProbe("mongodb", func(ctx context.Context) error {
		return errors.New("connection refused")
	})
	h.RegisterCircuitBreaker("mongodb_entry_audits", openBreaker(t))

	code, body := serveReadyz(t, h)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unavailable", body["status"])
}

func TestHealthHandler_Readiness_HealthyCircuit(t *testing.T) {
	h := NewHealthHandler()
	h.RegisterCircuitBreaker("mongodb_fare_calc_configs", circuitbreaker.New(circuitbreaker.DefaultConfig()))

	code, body := serveReadyz(t, h)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
	checks := body["checks"].(map[string]any)
	assert.Equal(t, "closed", checks["mongodb_fare_calc_configs_circuit"])
}
