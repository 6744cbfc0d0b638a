package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func replayRouter(t *testing.T, cfg IdempotencyConfig) (*gin.Engine, *int64) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var rendered int64
	router := gin.New()
	router.Use(Idempotency(cfg))
	router.POST("/price", func(c *gin.Context) {
		atomic.AddInt64(&rendered, 1)
		c.JSON(http.StatusOK, gin.H{"display": "657.50 NUC657.50END"})
	})
	router.POST("/reject", func(c *gin.Context) {
		atomic.AddInt64(&rendered, 1)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "unprocessable"})
	})
	return router, &rendered
}

func priceRequest(key, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/price", strings.NewReader(body))
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	return req
}

func TestIdempotency_ReplaysRenderedDisplay(t *testing.T) {
	router, rendered := replayRouter(t, DefaultIdempotencyConfig())

	body := `{"request":{"entry":1},"agency_pcc":"K25H"}`

	w1 := httptest.NewRecorder()
	router.ServeHTTP(w1, priceRequest("entry-1", body))
	assert.Equal(t, http.StatusOK, w1.Code)
	assert.Empty(t, w1.Header().Get(ReplayedHeader))

	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, priceRequest("entry-1", body))
	assert.Equal(t, http.StatusOK, w2.Code)
	assert.Equal(t, "true", w2.Header().Get(ReplayedHeader))
	assert.Equal(t, w1.Body.String(), w2.Body.String())

	assert.Equal(t, int64(1), atomic.LoadInt64(rendered))
}

func TestIdempotency_DifferentBodyPricesAgain(t *testing.T) {
	router, rendered := replayRouter(t, DefaultIdempotencyConfig())

	w1 := httptest.NewRecorder()
	router.ServeHTTP(w1, priceRequest("entry-1", `{"agency_pcc":"K25H"}`))
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, priceRequest("entry-1", `{"agency_pcc":"B4T0"}`))

	assert.Empty(t, w2.Header().Get(ReplayedHeader))
	assert.Equal(t, int64(2), atomic.LoadInt64(rendered))
}

func TestIdempotency_NoKeyNotCached(t *testing.T) {
	router, rendered := replayRouter(t, DefaultIdempotencyConfig())

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, priceRequest("", `{}`))
		assert.Empty(t, w.Header().Get(ReplayedHeader))
	}
	assert.Equal(t, int64(2), atomic.LoadInt64(rendered))
}

func TestIdempotency_FailedRenderNotRetained(t *testing.T) {
	router, rendered := replayRouter(t, DefaultIdempotencyConfig())

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/reject", strings.NewReader(`{}`))
		req.Header.Set(IdempotencyKeyHeader, "entry-2")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Empty(t, w.Header().Get(ReplayedHeader))
	}
	assert.Equal(t, int64(2), atomic.LoadInt64(rendered))
}

func TestIdempotency_ExpiredRecordPricesAgain(t *testing.T) {
	cfg := IdempotencyConfig{
		Cache:   newReplayCache(10 * time.Millisecond),
		TTL:     10 * time.Millisecond,
		Enabled: true,
	}
	router, rendered := replayRouter(t, cfg)

	w1 := httptest.NewRecorder()
	router.ServeHTTP(w1, priceRequest("entry-3", `{}`))
	time.Sleep(20 * time.Millisecond)
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, priceRequest("entry-3", `{}`))

	assert.Empty(t, w2.Header().Get(ReplayedHeader))
	assert.Equal(t, int64(2), atomic.LoadInt64(rendered))
}
