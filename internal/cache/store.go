// Package cache provides the concurrency-safe wrapper around the
// single-threaded engine core: one mutex serializes every public
// operation, including the ticks the background advancer drives, so
// user operations and the periodic advancer never interleave.
package cache

import (
	"log"
	"sync"
	"sync/atomic"

	"github.com/arynux/tickcache/internal/engine"
)

// Reason re-exports engine.Reason so callers of this package never
// need to import internal/engine directly.
type Reason = engine.Reason

const (
	ReasonTTL    = engine.ReasonTTL
	ReasonLRU    = engine.ReasonLRU
	ReasonDelete = engine.ReasonDelete
	ReasonClear  = engine.ReasonClear
)

// DisposeFunc is the user-supplied disposal callback, invoked
// synchronously and exactly once per entry removal.
type DisposeFunc[K comparable, V any] func(key K, value V, reason Reason)

// Options configures a Store. MaxEntries is required; everything else
// takes the documented default when left at its zero value.
type Options[K comparable, V any] struct {
	MaxEntries     int
	InitialCap     int
	WheelSize      int
	BudgetPerTick  int
	TickMs         int64
	UpdateTTLOnGet bool
	PassiveExpiration bool
	Clock          Clock
	OnEvict        DisposeFunc[K, V]
	Logger         *log.Logger
}

// Stats is a point-in-time snapshot of a Store's counters.
type Stats struct {
	Size      int
	Hits      uint64
	Misses    uint64
	Evictions uint64
	TTLExpirations uint64
	Deletes   uint64
}

// Store wraps an engine.Coordinator with a mutex, a Clock, hit/miss
// counters, and (optionally) a background advancer goroutine.
type Store[K comparable, V any] struct {
	mu    sync.Mutex
	coord *engine.Coordinator[K, V]

	clock  Clock
	tickMs int64

	passive  bool
	advancer *advancer

	logger *log.Logger

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
	ttlExpirations atomic.Uint64
	deletes   atomic.Uint64

	closed atomic.Bool
}

// New builds a Store from opts.
func New[K comparable, V any](opts Options[K, V]) (*Store[K, V], error) {
	tickMs := opts.TickMs
	if tickMs <= 0 {
		tickMs = 50
	}
	clk := opts.Clock
	if clk == nil {
		clk = NewSystemClock()
	}

	coord, err := engine.New[K, V](engine.Config{
		MaxEntries:     opts.MaxEntries,
		InitialCap:     opts.InitialCap,
		WheelSize:      opts.WheelSize,
		BudgetPerTick:  opts.BudgetPerTick,
		TickMs:         tickMs,
		UpdateTTLOnGet: opts.UpdateTTLOnGet,
		StartTick:      clk.NowMS() / tickMs,
	})
	if err != nil {
		return nil, err
	}

	s := &Store[K, V]{
		coord:  coord,
		clock:  clk,
		tickMs: tickMs,
		logger: opts.Logger,
	}

	coord.SetDispose(func(key K, value V, reason Reason) {
		switch reason {
		case ReasonLRU:
			s.evictions.Add(1)
			logEviction("LRU evicted key=%v", key)
		case ReasonTTL:
			s.ttlExpirations.Add(1)
			logEviction("TTL expired key=%v", key)
		case ReasonDelete:
			s.deletes.Add(1)
		}
		if opts.OnEvict != nil {
			opts.OnEvict(key, value, reason)
		}
	})

	s.passive = opts.PassiveExpiration
	if s.passive {
		s.advancer = startAdvancer(tickMs, func() { s.advanceToNow() })
		s.logInfo("passive expiration advancer started, interval=%dms", tickMs)
	}

	return s, nil
}

func (s *Store[K, V]) nowTick() int64 {
	return s.clock.NowMS() / s.tickMs
}

// advanceToNow drives the wheel forward to the clock's current tick,
// looping until the budget-bounded advance reports done.
func (s *Store[K, V]) advanceToNow() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advanceToNowLocked()
}

func (s *Store[K, V]) advanceToNowLocked() {
	target := s.nowTick()
	for !s.coord.AdvanceToTick(target) {
	}
}

// Set inserts or overwrites key with a time-to-live. A non-positive
// ttl is a silent no-op.
func (s *Store[K, V]) Set(key K, value V, ttl int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.passive {
		s.advanceToNowLocked()
	}
	s.coord.Set(key, value, ttl)
}

// Get returns the value for key if present and unexpired.
func (s *Store[K, V]) Get(key K) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.passive {
		s.advanceToNowLocked()
	}
	v, ok := s.coord.Get(key)
	if ok {
		s.hits.Add(1)
	} else {
		s.misses.Add(1)
	}
	return v, ok
}

// Has reports whether key is present and unexpired, without affecting
// LRU order or hit/miss counters.
func (s *Store[K, V]) Has(key K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.passive {
		s.advanceToNowLocked()
	}
	return s.coord.Has(key)
}

// Delete removes key, reporting whether it was present.
func (s *Store[K, V]) Delete(key K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coord.Delete(key)
}

// Clear removes every entry.
func (s *Store[K, V]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coord.Clear()
}

// Size returns the number of live entries.
func (s *Store[K, V]) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coord.Size()
}

// Stats returns a snapshot of the store's counters.
func (s *Store[K, V]) Stats() Stats {
	s.mu.Lock()
	size := s.coord.Size()
	s.mu.Unlock()

	return Stats{
		Size:           size,
		Hits:           s.hits.Load(),
		Misses:         s.misses.Load(),
		Evictions:      s.evictions.Load(),
		TTLExpirations: s.ttlExpirations.Load(),
		Deletes:        s.deletes.Load(),
	}
}

// Close stops the background advancer, if any. Idempotent.
func (s *Store[K, V]) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	if s.advancer != nil {
		s.advancer.stop()
		s.logInfo("advancer stopped")
	}
	return nil
}
