package routing

import (
	"container/list"
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Bapt252/nextvision/internal/domain/model"
	"github.com/Bapt252/nextvision/pkg/logger"
	"github.com/Bapt252/nextvision/pkg/metrics"
)

// Default cache tuning.
const (
	defaultTTL      = 2 * time.Hour
	defaultCapacity = 1000
)

// cacheKey identifies one route computation.
type cacheKey struct {
	origin      string
	destination string
	mode        model.TravelMode
}

func (k cacheKey) String() string {
	return fmt.Sprintf("%s|%s|%s", k.origin, k.destination, k.mode)
}

// cacheEntry is owned exclusively by the cache.
type cacheEntry struct {
	key       cacheKey
	result    RouteResult
	createdAt time.Time
}

// Cache is the process-wide route cache: TTL expiry, capacity-bounded LRU
// eviction, and singleflight coalescing of identical in-flight lookups.
// On a miss it calls the provider through the circuit breaker; every
// provider failure is absorbed into the fallback estimator, so Route
// never fails.
type Cache struct {
	mu      sync.Mutex
	entries map[cacheKey]*list.Element
	lru     *list.List // front = most recently used

	ttl      time.Duration
	capacity int
	now      func() time.Time

	group     singleflight.Group
	provider  Provider
	breaker   *Breaker
	estimator *Estimator
	logger    logger.Logger

	hits           atomic.Int64
	misses         atomic.Int64
	coalesced      atomic.Int64
	evictions      atomic.Int64
	providerCalls  atomic.Int64
	providerErrors atomic.Int64
	fallbacks      atomic.Int64
}

// CacheOption applies a configuration option to the Cache.
type CacheOption func(*Cache)

// WithTTL sets the entry time-to-live.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithCapacity sets the entry cap enforced by LRU eviction.
func WithCapacity(n int) CacheOption {
	return func(c *Cache) {
		if n > 0 {
			c.capacity = n
		}
	}
}

// WithCacheClock injects a clock, used by tests.
func WithCacheClock(now func() time.Time) CacheOption {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCache creates a cache over the given provider chain. provider may be
// nil, in which case every lookup uses the estimator directly.
func NewCache(provider Provider, breaker *Breaker, estimator *Estimator, opts ...CacheOption) *Cache {
	c := &Cache{
		entries:   make(map[cacheKey]*list.Element),
		lru:       list.New(),
		ttl:       defaultTTL,
		capacity:  defaultCapacity,
		now:       time.Now,
		provider:  provider,
		breaker:   breaker,
		estimator: estimator,
		logger:    logger.Get().Named("route-cache"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Route returns a result for the query, from cache when fresh, otherwise
// from a single coalesced upstream call. It never fails.
func (c *Cache) Route(ctx context.Context, q model.TravelQuery) RouteResult {
	k := cacheKey{origin: q.Origin, destination: q.Destination, mode: q.Mode}

	if res, ok := c.lookup(k); ok {
		c.hits.Add(1)
		metrics.RecordCacheHit()
		return res
	}
	c.misses.Add(1)
	metrics.RecordCacheMiss()

	v, _, shared := c.group.Do(k.String(), func() (interface{}, error) {
		// A coalesced waiter may arrive after the leader stored the
		// entry; re-check before going upstream.
		if res, ok := c.lookup(k); ok {
			return res, nil
		}
		res := c.fetch(ctx, q)
		if !res.Estimated {
			// Estimates are not cached: they would mask provider
			// recovery for the whole TTL.
			c.store(k, res)
		}
		return res, nil
	})
	if shared {
		c.coalesced.Add(1)
		metrics.RecordCacheCoalesced()
	}

	return v.(RouteResult)
}

// fetch goes upstream through the breaker, falling back to the estimator
// on open circuit or provider error.
func (c *Cache) fetch(ctx context.Context, q model.TravelQuery) RouteResult {
	if c.provider == nil || !c.breaker.Allow() {
		return c.estimate(ctx, q)
	}

	c.providerCalls.Add(1)
	metrics.RecordProviderCall()
	res, err := c.provider.Route(ctx, q)
	if err != nil {
		c.providerErrors.Add(1)
		kind := KindUnknown
		var pe *ProviderError
		if errors.As(err, &pe) {
			kind = pe.Kind
		}
		metrics.RecordProviderError(string(kind))
		c.breaker.RecordFailure()
		c.logger.Warn(ctx, "provider call failed, using estimator",
			logger.String("kind", string(kind)),
			logger.String("mode", string(q.Mode)),
		)
		return c.estimate(ctx, q)
	}

	c.breaker.RecordSuccess()
	return res
}

func (c *Cache) estimate(ctx context.Context, q model.TravelQuery) RouteResult {
	c.fallbacks.Add(1)
	metrics.RecordFallbackEstimate()
	res, _ := c.estimator.Route(ctx, q)
	return res
}

// lookup returns a fresh entry and bumps its recency.
func (c *Cache) lookup(k cacheKey) (RouteResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[k]
	if !ok {
		return RouteResult{}, false
	}
	entry := el.Value.(*cacheEntry)
	if c.now().Sub(entry.createdAt) > c.ttl {
		c.removeLocked(el)
		return RouteResult{}, false
	}
	c.lru.MoveToFront(el)
	return entry.result, true
}

// store inserts an entry, evicting the least recently used past capacity.
func (c *Cache) store(k cacheKey, res RouteResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[k]; ok {
		entry := el.Value.(*cacheEntry)
		entry.result = res
		entry.createdAt = c.now()
		c.lru.MoveToFront(el)
		return
	}

	el := c.lru.PushFront(&cacheEntry{key: k, result: res, createdAt: c.now()})
	c.entries[k] = el

	for len(c.entries) > c.capacity {
		oldest := c.lru.Back()
		if oldest == nil {
			break
		}
		c.removeLocked(oldest)
		c.evictions.Add(1)
		metrics.RecordCacheEviction()
	}
	metrics.UpdateCacheSize(len(c.entries))
}

// removeLocked drops an element. Caller holds the lock.
func (c *Cache) removeLocked(el *list.Element) {
	entry := el.Value.(*cacheEntry)
	delete(c.entries, entry.key)
	c.lru.Remove(el)
}

// Len returns the current entry count.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats is a read-only counter snapshot for monitoring.
type Stats struct {
	Hits           int64   `json:"hits"`
	Misses         int64   `json:"misses"`
	Coalesced      int64   `json:"coalesced"`
	Evictions      int64   `json:"evictions"`
	ProviderCalls  int64   `json:"provider_calls"`
	ProviderErrors int64   `json:"provider_errors"`
	Fallbacks      int64   `json:"fallbacks"`
	HitRate        float64 `json:"hit_rate"`
	CircuitState   string  `json:"circuit_state"`
}

// Snapshot returns the current counters.
func (c *Cache) Snapshot() Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()
	s := Stats{
		Hits:           hits,
		Misses:         misses,
		Coalesced:      c.coalesced.Load(),
		Evictions:      c.evictions.Load(),
		ProviderCalls:  c.providerCalls.Load(),
		ProviderErrors: c.providerErrors.Load(),
		Fallbacks:      c.fallbacks.Load(),
		CircuitState:   c.breaker.State().String(),
	}
	if total := hits + misses; total > 0 {
		s.HitRate = float64(hits) / float64(total)
	}
	return s
}
