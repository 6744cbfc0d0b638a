package middleware

import (
	"hash/fnv"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/skyfare/farecalc-service/internal/domain/dto"
	"github.com/skyfare/farecalc-service/internal/i18n"
)

// defaultNumShards spreads agencies across locks to keep contention low when
// many agencies price concurrently.
const defaultNumShards = 16

// agencyBucket tracks the remaining entry budget for one caller in the
// current window.
type agencyBucket struct {
	tokens    int
	lastReset time.Time
}

type limiterShard struct {
	mu      sync.Mutex
	buckets map[string]*agencyBucket
}

// RateLimiter enforces a fixed-window entry budget per caller. Authenticated
// callers are budgeted per agency pseudo city; anonymous ones per client IP.
type RateLimiter struct {
	shards    []*limiterShard
	numShards int
	rate      int
	window    time.Duration
	stopCh    chan struct{}
}

// NewRateLimiter creates a rate limiter with the given per-window budget.
func NewRateLimiter(rate int, window time.Duration) *RateLimiter {
	return NewShardedRateLimiter(rate, window, defaultNumShards)
}

// NewShardedRateLimiter creates a rate limiter with a custom shard count.
func NewShardedRateLimiter(rate int, window time.Duration, numShards int) *RateLimiter {
	if numShards <= 0 {
		numShards = defaultNumShards
	}

	shards := make([]*limiterShard, numShards)
	for i := range shards {
		shards[i] = &limiterShard{
			buckets: make(map[string]*agencyBucket),
		}
	}

	rl := &RateLimiter{
		shards:    shards,
		numShards: numShards,
		rate:      rate,
		window:    window,
		stopCh:    make(chan struct{}),
	}

	go rl.sweep()
	return rl
}

func (rl *RateLimiter) shardFor(caller string) *limiterShard {
	h := fnv.New32a()
	h.Write([]byte(caller))
	return rl.shards[h.Sum32()%uint32(rl.numShards)]
}

// take consumes one entry from the caller's budget.
func (rl *RateLimiter) take(caller string) (allowed bool, remaining int) {
	shard := rl.shardFor(caller)

	shard.mu.Lock()
	defer shard.mu.Unlock()

	now := time.Now()
	b, exists := shard.buckets[caller]
	if !exists || now.Sub(b.lastReset) > rl.window {
		shard.buckets[caller] = &agencyBucket{tokens: rl.rate - 1, lastReset: now}
		return true, rl.rate - 1
	}

	if b.tokens <= 0 {
		return false, 0
	}

	b.tokens--
	return true, b.tokens
}

// callerIdentity budgets by agency when the token claims carry one, by
// client IP otherwise.
func callerIdentity(c *gin.Context) string {
	if pcc, exists := c.Get("agent_pcc"); exists {
		if p, ok := pcc.(string); ok && p != "" {
			return "pcc:" + p
		}
	}
	return "ip:" + c.ClientIP()
}

// RateLimit returns the entry budget middleware.
func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, remaining := rl.take(callerIdentity(c))

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.rate))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			locale := i18n.GetLocale(c)
			c.Header("Retry-After", rl.window.String())
			errorResp := dto.NewError(dto.ErrCodeRateLimit, i18n.GetTranslator().Translate(i18n.ErrKeyRateLimitExceeded, locale)).
				WithRequestID(GetRequestID(c))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, errorResp)
			return
		}

		c.Next()
	}
}

func (rl *RateLimiter) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.dropStale()
		case <-rl.stopCh:
			return
		}
	}
}

// dropStale removes buckets idle for more than two windows.
func (rl *RateLimiter) dropStale() {
	now := time.Now()
	threshold := rl.window * 2

	for _, shard := range rl.shards {
		shard.mu.Lock()
		for caller, b := range shard.buckets {
			if now.Sub(b.lastReset) > threshold {
				delete(shard.buckets, caller)
			}
		}
		shard.mu.Unlock()
	}
}

// Stop shuts down the background sweeper.
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

// Stats returns the tracked caller count, total and per shard.
func (rl *RateLimiter) Stats() (totalCallers int, perShard []int) {
	perShard = make([]int, rl.numShards)
	for i, shard := range rl.shards {
		shard.mu.Lock()
		perShard[i] = len(shard.buckets)
		totalCallers += perShard[i]
		shard.mu.Unlock()
	}
	return totalCallers, perShard
}
