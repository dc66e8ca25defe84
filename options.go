package tickcache

import (
	"log"
	"time"

	"github.com/arynux/tickcache/internal/cache"
)

// Reason identifies why an entry was removed from the cache.
type Reason = cache.Reason

const (
	ReasonTTL    = cache.ReasonTTL
	ReasonLRU    = cache.ReasonLRU
	ReasonDelete = cache.ReasonDelete
	ReasonClear  = cache.ReasonClear
)

// Option configures a Cache beyond its required MaxEntries.
type Option[K comparable, V any] func(*settings[K, V])

type settings[K comparable, V any] struct {
	initialCap        int
	wheelSize         int
	budgetPerTick     int
	tickInterval      time.Duration
	updateTTLOnGet    bool
	passiveExpiration bool
	clock             cache.Clock
	onEvict           func(key K, value V, reason Reason)
	logger            *log.Logger
}

func defaultSettings[K comparable, V any]() *settings[K, V] {
	return &settings[K, V]{
		tickInterval:      50 * time.Millisecond,
		passiveExpiration: true,
	}
}

// WithInitialCap sets the arena's starting column length. Defaults to
// min(1024, maxEntries).
func WithInitialCap[K comparable, V any](n int) Option[K, V] {
	return func(s *settings[K, V]) { s.initialCap = n }
}

// WithWheelSize sets the timer wheel's bucket count, which must be a
// power of two at least 2. Defaults to 4096.
func WithWheelSize[K comparable, V any](n int) Option[K, V] {
	return func(s *settings[K, V]) { s.wheelSize = n }
}

// WithBudgetPerTick bounds the work performed by one tick advance.
// Defaults to 200000.
func WithBudgetPerTick[K comparable, V any](n int) Option[K, V] {
	return func(s *settings[K, V]) { s.budgetPerTick = n }
}

// WithTickInterval sets both the wheel's tick duration and, when
// passive expiration is enabled, the background advancer's period.
// Defaults to 50ms.
func WithTickInterval[K comparable, V any](d time.Duration) Option[K, V] {
	return func(s *settings[K, V]) { s.tickInterval = d }
}

// WithUpdateTTLOnGet enables sliding expiration: a successful Get
// reschedules the entry's expiry from the moment of access.
func WithUpdateTTLOnGet[K comparable, V any](enabled bool) Option[K, V] {
	return func(s *settings[K, V]) { s.updateTTLOnGet = enabled }
}

// WithPassiveExpiration controls whether a background goroutine drives
// tick advancement (true, the default) or whether Get/Set/Has advance
// the wheel inline on entry (false).
func WithPassiveExpiration[K comparable, V any](enabled bool) Option[K, V] {
	return func(s *settings[K, V]) { s.passiveExpiration = enabled }
}

// WithClock overrides the cache's time source, primarily for tests.
func WithClock[K comparable, V any](clk cache.Clock) Option[K, V] {
	return func(s *settings[K, V]) { s.clock = clk }
}

// WithOnEvict registers a callback invoked synchronously, exactly once
// per entry removal, before the slot is returned to the free list.
//
// The callback must not call any method on the Cache it was registered
// with: the façade's mutex is not reentrant and doing so deadlocks.
func WithOnEvict[K comparable, V any](fn func(key K, value V, reason Reason)) Option[K, V] {
	return func(s *settings[K, V]) { s.onEvict = fn }
}

// SetEvictionLogging toggles the package-wide rate-limited logger that
// reports LRU evictions and TTL expirations (at most once per second)
// across every Cache in the process. Enabled by default.
func SetEvictionLogging(enabled bool) {
	cache.SetEvictionLogging(enabled)
}

// WithLogger sets the *log.Logger used for the cache's diagnostic
// lines (advancer start/stop). Eviction/expiration logging is
// rate-limited separately and controlled package-wide; see
// SetEvictionLogging. Defaults to the standard logger when nil.
func WithLogger[K comparable, V any](logger *log.Logger) Option[K, V] {
	return func(s *settings[K, V]) { s.logger = logger }
}
