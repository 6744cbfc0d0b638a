// Package middleware provides HTTP middleware components for the fare calc service.
package middleware

import (
	"bytes"
	"crypto/sha256"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	// IdempotencyKeyHeader is the standard header agencies send to guard
	// against double-submitted entries.
	IdempotencyKeyHeader = "Idempotency-Key"
	// ReplayedHeader marks a response served from the replay cache.
	ReplayedHeader = "X-Idempotency-Replayed"
	// IdempotencyKeyTTL is how long a rendered display stays replayable.
	IdempotencyKeyTTL = 5 * time.Minute
)

// replayKey keys the cache on the full digest of key, method, path and body,
// so two entries replay only when the whole priced request matches.
type replayKey [sha256.Size]byte

func makeReplayKey(idempotencyKey string, req *http.Request) replayKey {
	h := sha256.New()
	io.WriteString(h, idempotencyKey)
	io.WriteString(h, req.Method)
	io.WriteString(h, req.URL.Path)

	if req.Body != nil {
		body, _ := io.ReadAll(req.Body)
		req.Body = io.NopCloser(bytes.NewReader(body))
		h.Write(body)
	}

	var key replayKey
	h.Sum(key[:0])
	return key
}

// replayRecord is a rendered response retained for replay.
type replayRecord struct {
	statusCode int
	headers    map[string]string
	body       []byte
	storedAt   time.Time
}

// replayCache retains rendered responses keyed by request digest.
type replayCache struct {
	mu    sync.RWMutex
	items map[replayKey]*replayRecord
	ttl   time.Duration
}

func newReplayCache(ttl time.Duration) *replayCache {
	c := &replayCache{
		items: make(map[replayKey]*replayRecord),
		ttl:   ttl,
	}
	go c.sweep()
	return c
}

func (c *replayCache) get(key replayKey) (*replayRecord, bool) {
	c.mu.RLock()
	rec, ok := c.items[key]
	c.mu.RUnlock()

	if !ok || time.Since(rec.storedAt) > c.ttl {
		return nil, false
	}
	return rec, true
}

func (c *replayCache) put(key replayKey, rec *replayRecord) {
	rec.storedAt = time.Now()
	c.mu.Lock()
	c.items[key] = rec
	c.mu.Unlock()
}

func (c *replayCache) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-c.ttl)
		c.mu.Lock()
		for key, rec := range c.items {
			if rec.storedAt.Before(cutoff) {
				delete(c.items, key)
			}
		}
		c.mu.Unlock()
	}
}

// IdempotencyConfig holds configuration for the replay guard.
type IdempotencyConfig struct {
	Cache   *replayCache
	TTL     time.Duration
	Enabled bool
}

// DefaultIdempotencyConfig returns the default replay guard configuration.
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		Cache:   newReplayCache(IdempotencyKeyTTL),
		TTL:     IdempotencyKeyTTL,
		Enabled: true,
	}
}

// Idempotency replays the previously rendered response when an agency
// resubmits the same entry under the same Idempotency-Key. Only mutating
// methods are guarded, and only successful responses are retained.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	if !cfg.Enabled || cfg.Cache == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
		default:
			c.Next()
			return
		}

		idempotencyKey := c.GetHeader(IdempotencyKeyHeader)
		if idempotencyKey == "" {
			c.Next()
			return
		}

		key := makeReplayKey(idempotencyKey, c.Request)

		if rec, ok := cfg.Cache.get(key); ok {
			for k, v := range rec.headers {
				c.Header(k, v)
			}
			c.Header(ReplayedHeader, "true")
			c.Data(rec.statusCode, "application/json", rec.body)
			c.Abort()
			return
		}

		capture := &captureWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
			statusCode:     http.StatusOK,
			headers:        make(map[string]string),
		}
		c.Writer = capture

		c.Next()

		// Failed renders are not retained; the agency's retry should price
		// again rather than replay the error.
		if capture.statusCode >= 200 && capture.statusCode < 300 {
			cfg.Cache.put(key, &replayRecord{
				statusCode: capture.statusCode,
				headers:    capture.headers,
				body:       capture.body.Bytes(),
			})
		}
	}
}

// captureWriter tees the response for the replay cache.
type captureWriter struct {
	gin.ResponseWriter
	body       *bytes.Buffer
	statusCode int
	headers    map[string]string
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *captureWriter) Header() http.Header {
	headers := w.ResponseWriter.Header()
	for k, v := range headers {
		if len(v) > 0 {
			w.headers[k] = v[0]
		}
	}
	return headers
}
