package tickcache

import (
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/singleflight"

	"github.com/arynux/tickcache/internal/cache"
	"github.com/arynux/tickcache/internal/stats"
)

// Cache is a bounded key/value cache with TTL expiration and LRU
// eviction. The zero value is not usable; construct with New.
type Cache[K comparable, V any] struct {
	id    uuid.UUID
	store *cache.Store[K, V]
	sf    singleflight.Group
}

// New creates a Cache holding at most maxEntries live entries at once.
func New[K comparable, V any](maxEntries int, opts ...Option[K, V]) (*Cache[K, V], error) {
	if maxEntries <= 0 {
		return nil, ErrInvalidMaxEntries
	}

	s := defaultSettings[K, V]()
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	store, err := cache.New[K, V](cache.Options[K, V]{
		MaxEntries:        maxEntries,
		InitialCap:        s.initialCap,
		WheelSize:         s.wheelSize,
		BudgetPerTick:     s.budgetPerTick,
		TickMs:            s.tickInterval.Milliseconds(),
		UpdateTTLOnGet:    s.updateTTLOnGet,
		PassiveExpiration: s.passiveExpiration,
		Clock:             s.clock,
		OnEvict:           cache.DisposeFunc[K, V](s.onEvict),
		Logger:            s.logger,
	})
	if err != nil {
		return nil, err
	}

	return &Cache[K, V]{id: uuid.New(), store: store}, nil
}

// ID returns the instance identifier assigned at construction, useful
// for disambiguating multiple caches in one process's logs and stats.
func (c *Cache[K, V]) ID() uuid.UUID { return c.id }

// Set inserts or overwrites key with value, expiring after ttl. A
// non-positive ttl is a silent no-op.
func (c *Cache[K, V]) Set(key K, value V, ttl time.Duration) {
	c.store.Set(key, value, ttl.Milliseconds())
}

// Get returns the value for key if present and unexpired.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	return c.store.Get(key)
}

// Has reports whether key is present and unexpired, without affecting
// LRU order.
func (c *Cache[K, V]) Has(key K) bool {
	return c.store.Has(key)
}

// Delete removes key, reporting whether it was present.
func (c *Cache[K, V]) Delete(key K) bool {
	return c.store.Delete(key)
}

// Clear removes every entry.
func (c *Cache[K, V]) Clear() {
	c.store.Clear()
}

// Size returns the number of live entries.
func (c *Cache[K, V]) Size() int {
	return c.store.Size()
}

// Close stops the background advancer, if one is running. Idempotent.
func (c *Cache[K, V]) Close() error {
	return c.store.Close()
}

// Collector returns a prometheus.Collector reporting this cache's size
// and hit/miss/eviction counters, for registration with a
// prometheus.Registerer.
func (c *Cache[K, V]) Collector() prometheus.Collector {
	return stats.NewCollector(c.store)
}
