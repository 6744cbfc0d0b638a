// Package service contains the business logic for the fare calc service.
package service

import (
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/skyfare/farecalc-service/internal/domain/model"
	"github.com/skyfare/farecalc-service/internal/metrics"
	"github.com/skyfare/farecalc-service/internal/service/cache"
)

// defaultPolicyShards spreads agency policy entries across shards so
// concurrent pricing entries for different PCCs do not contend on one lock.
const defaultPolicyShards = 8

// AgencyPolicyCache holds resolved FareCalcConfig records keyed by agency
// identity (user appl type / user appl / pseudo city). Entries expire after
// a TTL so policy edits in the store show up without a restart, and the
// least recently priced agencies are evicted first when the cache fills.
type AgencyPolicyCache struct {
	shards []*policyShard
	mask   uint32
}

// NewAgencyPolicyCache creates a sharded policy cache. Capacity is split
// evenly across shards; the shard count is rounded up to a power of two.
func NewAgencyPolicyCache(capacity int, ttl time.Duration, numShards int) *AgencyPolicyCache {
	if numShards <= 0 {
		numShards = defaultPolicyShards
	}
	n := 1
	for n < numShards {
		n *= 2
	}

	perShard := capacity / n
	if perShard < 1 {
		perShard = 1
	}

	shards := make([]*policyShard, n)
	for i := range shards {
		shards[i] = newPolicyShard(perShard, ttl)
	}
	return &AgencyPolicyCache{shards: shards, mask: uint32(n - 1)}
}

func (pc *AgencyPolicyCache) shardFor(agency string) *policyShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(agency))
	return pc.shards[h.Sum32()&pc.mask]
}

// Get returns the cached policy for the agency, if present and fresh.
func (pc *AgencyPolicyCache) Get(agency string) (*model.FareCalcConfig, bool) {
	return pc.shardFor(agency).get(agency)
}

// Set stores the resolved policy for the agency.
func (pc *AgencyPolicyCache) Set(agency string, policy *model.FareCalcConfig) {
	pc.shardFor(agency).set(agency, policy)
}

// Invalidate drops the agency's entry after a policy write.
func (pc *AgencyPolicyCache) Invalidate(agency string) {
	pc.shardFor(agency).invalidate(agency)
}

// Clear empties every shard.
func (pc *AgencyPolicyCache) Clear() {
	for _, s := range pc.shards {
		s.clear()
	}
}

// Stop shuts down the shard sweepers.
func (pc *AgencyPolicyCache) Stop() {
	for _, s := range pc.shards {
		s.stop()
	}
}

// Metrics aggregates hit/miss/eviction counts across shards.
func (pc *AgencyPolicyCache) Metrics() cache.Metrics {
	var total cache.Metrics
	for _, s := range pc.shards {
		m := s.metrics()
		total.Hits += m.Hits
		total.Misses += m.Misses
		total.Evictions += m.Evictions
		total.Size += m.Size
		total.Capacity += m.Capacity
	}
	return total
}

// policyShard is one lock domain of the cache: a map for lookup plus an
// intrusive LRU list for eviction order.
type policyShard struct {
	mu        sync.Mutex
	capacity  int
	ttl       time.Duration
	items     map[string]*policyEntry
	head      *policyEntry
	tail      *policyEntry
	stopCh    chan struct{}
	hits      int64
	misses    int64
	evictions int64
}

type policyEntry struct {
	agency  string
	policy  *model.FareCalcConfig
	staleAt time.Time
	prev    *policyEntry
	next    *policyEntry
}

func newPolicyShard(capacity int, ttl time.Duration) *policyShard {
	s := &policyShard{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*policyEntry, capacity),
		stopCh:   make(chan struct{}),
	}
	go s.sweep()
	return s
}

func (s *policyShard) get(agency string) (*model.FareCalcConfig, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.items[agency]
	if !ok {
		atomic.AddInt64(&s.misses, 1)
		metrics.RecordCacheOperation("get", "miss")
		return nil, false
	}
	if time.Now().After(entry.staleAt) {
		s.unlink(entry)
		atomic.AddInt64(&s.misses, 1)
		metrics.RecordCacheOperation("get", "expired")
		return nil, false
	}

	s.moveToFront(entry)
	atomic.AddInt64(&s.hits, 1)
	metrics.RecordCacheOperation("get", "hit")
	return entry.policy, true
}

func (s *policyShard) set(agency string, policy *model.FareCalcConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.items[agency]; ok {
		entry.policy = policy
		entry.staleAt = time.Now().Add(s.ttl)
		s.moveToFront(entry)
		return
	}

	entry := &policyEntry{
		agency:  agency,
		policy:  policy,
		staleAt: time.Now().Add(s.ttl),
	}
	s.items[agency] = entry
	s.pushFront(entry)

	if len(s.items) > s.capacity {
		if s.tail != nil {
			s.unlink(s.tail)
			atomic.AddInt64(&s.evictions, 1)
			metrics.RecordCacheOperation("evict", "capacity")
		}
	}
	metrics.RecordCacheOperation("set", "success")
}

func (s *policyShard) invalidate(agency string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.items[agency]; ok {
		s.unlink(entry)
		metrics.RecordCacheOperation("invalidate", "success")
	}
}

func (s *policyShard) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[string]*policyEntry, s.capacity)
	s.head = nil
	s.tail = nil
	atomic.StoreInt64(&s.hits, 0)
	atomic.StoreInt64(&s.misses, 0)
	atomic.StoreInt64(&s.evictions, 0)
	metrics.RecordCacheOperation("clear", "success")
}

func (s *policyShard) stop() {
	close(s.stopCh)
}

func (s *policyShard) metrics() cache.Metrics {
	s.mu.Lock()
	defer s.mu.Unlock()

	return cache.Metrics{
		Hits:      atomic.LoadInt64(&s.hits),
		Misses:    atomic.LoadInt64(&s.misses),
		Evictions: atomic.LoadInt64(&s.evictions),
		Size:      len(s.items),
		Capacity:  s.capacity,
	}
}

// sweep drops stale entries once a minute so agencies that stopped pricing
// do not pin policy records until eviction.
func (s *policyShard) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			cutoff := time.Now()
			for _, entry := range s.items {
				if cutoff.After(entry.staleAt) {
					s.unlink(entry)
				}
			}
			s.mu.Unlock()
		case <-s.stopCh:
			return
		}
	}
}

// unlink removes the entry from the map and the LRU list. Callers hold s.mu.
func (s *policyShard) unlink(entry *policyEntry) {
	delete(s.items, entry.agency)
	if entry.prev != nil {
		entry.prev.next = entry.next
	} else {
		s.head = entry.next
	}
	if entry.next != nil {
		entry.next.prev = entry.prev
	} else {
		s.tail = entry.prev
	}
	entry.prev = nil
	entry.next = nil
}

func (s *policyShard) pushFront(entry *policyEntry) {
	entry.prev = nil
	entry.next = s.head
	if s.head != nil {
		s.head.prev = entry
	}
	s.head = entry
	if s.tail == nil {
		s.tail = entry
	}
}

func (s *policyShard) moveToFront(entry *policyEntry) {
	if entry == s.head {
		return
	}
	// Detach from the list only; the map entry stays.
	if entry.prev != nil {
		entry.prev.next = entry.next
	}
	if entry.next != nil {
		entry.next.prev = entry.prev
	} else {
		s.tail = entry.prev
	}
	s.pushFront(entry)
}
