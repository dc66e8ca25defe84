package engine

import "fmt"

// Config holds the coordinator's constructor options. Zero values for
// the optional fields mean "use the default"; MaxEntries has no
// default and must be positive.
type Config struct {
	MaxEntries    int
	InitialCap    int
	WheelSize     int
	BudgetPerTick int
	TickMs        int64
	UpdateTTLOnGet bool
	StartTick     int64
}

const (
	defaultWheelSize     = 4096
	defaultBudgetPerTick = 200_000
	defaultTickMs        = 50
)

func (c *Config) withDefaults() Config {
	out := *c
	if out.WheelSize == 0 {
		out.WheelSize = defaultWheelSize
	}
	if out.BudgetPerTick == 0 {
		out.BudgetPerTick = defaultBudgetPerTick
	}
	if out.TickMs == 0 {
		out.TickMs = defaultTickMs
	}
	return out
}

// DisposeFunc is invoked synchronously, exactly once per removal,
// with the key/value/reason of whatever entry was just evicted.
type DisposeFunc[K comparable, V any] func(key K, value V, reason Reason)

// Coordinator is the single-threaded cache core: it maps keys to slot
// ids and orchestrates the arena, LRU list, and timer wheel across
// Set/Get/Has/Delete/Clear. It performs no locking of its own — the
// caller (internal/cache.Store in this repository) is responsible for
// serializing access, including against the periodic advancer.
type Coordinator[K comparable, V any] struct {
	arena *Arena[K, V]
	lru   *LRU[K, V]
	wheel *Wheel[K, V]

	index map[K]int32

	tickMs         int64
	updateTTLOnGet bool
	dispose        DisposeFunc[K, V]
}

// New builds a coordinator from cfg. MaxEntries must be positive; all
// other fields take documented defaults when zero.
func New[K comparable, V any](cfg Config) (*Coordinator[K, V], error) {
	if cfg.MaxEntries <= 0 {
		return nil, ErrInvalidArgument
	}
	cfg = cfg.withDefaults()

	arena, err := NewArena[K, V](cfg.MaxEntries, cfg.InitialCap)
	if err != nil {
		return nil, err
	}
	wheel, err := NewWheel[K, V](arena, cfg.WheelSize, cfg.BudgetPerTick, cfg.StartTick)
	if err != nil {
		return nil, err
	}

	c := &Coordinator[K, V]{
		arena:          arena,
		lru:            NewLRU[K, V](arena),
		wheel:          wheel,
		index:          make(map[K]int32, cfg.InitialCap),
		tickMs:         cfg.TickMs,
		updateTTLOnGet: cfg.UpdateTTLOnGet,
	}
	return c, nil
}

// SetDispose installs (or replaces) the disposal callback, receiving
// the key and value alongside the reason.
func (c *Coordinator[K, V]) SetDispose(fn DisposeFunc[K, V]) { c.dispose = fn }

// Size returns the number of live entries, i.e. the key index's
// cardinality.
func (c *Coordinator[K, V]) Size() int { return len(c.index) }

// NowTick returns the wheel's current processed tick.
func (c *Coordinator[K, V]) NowTick() int64 { return c.wheel.NowTick() }

func (c *Coordinator[K, V]) ticksFromMs(ttlMs int64) int64 {
	ticks := ttlMs / c.tickMs
	if ticks < 1 {
		ticks = 1
	}
	return ticks
}

// Set inserts or overwrites key with value, expiring in ttlMs
// milliseconds. A non-positive or non-finite ttlMs is a silent no-op,
// matching the façade's "invalid TTL never mutates the cache"
// contract.
func (c *Coordinator[K, V]) Set(key K, value V, ttlMs int64) {
	if ttlMs <= 0 {
		return
	}

	if id, ok := c.index[key]; ok {
		c.arena.SetValue(id, value)
		c.arena.SetTTLMs(id, ttlMs)
		c.reschedule(id, ttlMs)
		c.lru.Touch(id)
		return
	}

	for len(c.index) >= int(c.arena.MaxEntries()) {
		if !c.evictTail() {
			panic("engine: LRU tail missing with index at capacity: invariant breach")
		}
	}

	id, ok := c.arena.Alloc(key, value)
	if !ok {
		panic(fmt.Errorf("%w: allocation failed with headroom expected", ErrCapacityExhausted))
	}
	c.arena.SetTTLMs(id, ttlMs)
	c.index[key] = id
	c.reschedule(id, ttlMs)
	c.lru.LinkHead(id)
}

func (c *Coordinator[K, V]) reschedule(id int32, ttlMs int64) {
	target := c.wheel.NowTick() + c.ticksFromMs(ttlMs)
	_ = c.wheel.Schedule(id, target)
}

// Get returns the value for key, the defensive-expiring on read when
// the wheel hasn't yet caught up to an already-due entry. On a live
// hit it touches the LRU and, if UpdateTTLOnGet is set, reschedules
// the wheel entry from now.
func (c *Coordinator[K, V]) Get(key K) (V, bool) {
	var zero V
	id, ok := c.index[key]
	if !ok {
		return zero, false
	}

	if c.arena.ExpiresTick(id) <= c.wheel.NowTick() {
		c.expireAndRemove(id, ReasonTTL)
		return zero, false
	}

	c.lru.Touch(id)
	if c.updateTTLOnGet {
		if ttl := c.arena.TTLMs(id); ttl > 0 {
			c.reschedule(id, ttl)
		}
	}

	v, _ := c.arena.Value(id)
	return v, true
}

// Has reports whether key is present and unexpired, performing the
// same defensive expiration as Get but never touching LRU order or
// TTL.
func (c *Coordinator[K, V]) Has(key K) bool {
	id, ok := c.index[key]
	if !ok {
		return false
	}
	if c.arena.ExpiresTick(id) <= c.wheel.NowTick() {
		c.expireAndRemove(id, ReasonTTL)
		return false
	}
	return true
}

// Delete removes key if present, reporting whether it was.
func (c *Coordinator[K, V]) Delete(key K) bool {
	id, ok := c.index[key]
	if !ok {
		return false
	}
	c.expireAndRemove(id, ReasonDelete)
	return true
}

// Clear removes every entry, invoking the disposal callback with
// ReasonClear for each, then resets the LRU list and key index in one
// sweep. Calling Clear on an already-empty cache invokes no
// callbacks.
func (c *Coordinator[K, V]) Clear() {
	for _, id := range c.index {
		c.disposeIfSet(id, ReasonClear)
		c.wheel.Unlink(id)
		_ = c.arena.FreeID(id)
	}
	c.lru.Reset()
	c.index = make(map[K]int32, len(c.index))
}

// AdvanceToTick drives the wheel forward, expiring due entries
// through the coordinator's own removal path so the key index and LRU
// list stay consistent with the arena.
func (c *Coordinator[K, V]) AdvanceToTick(targetTick int64) bool {
	return c.wheel.AdvanceToTick(targetTick, func(id int32) {
		c.expireAndRemove(id, ReasonTTL)
	})
}

func (c *Coordinator[K, V]) evictTail() bool {
	id := c.lru.Tail()
	if id == NIL {
		return false
	}
	c.expireAndRemove(id, ReasonLRU)
	return true
}

// expireAndRemove is the single private removal routine used by every
// public path that destroys an entry: TTL expiration, LRU eviction,
// and explicit delete. Clear has its own sweep since it must not
// touch the LRU list once per entry.
func (c *Coordinator[K, V]) expireAndRemove(id int32, reason Reason) {
	key, _ := c.arena.Key(id)
	c.disposeIfSet(id, reason)
	delete(c.index, key)
	c.wheel.Unlink(id)
	c.lru.Unlink(id)
	_ = c.arena.FreeID(id)
}

func (c *Coordinator[K, V]) disposeIfSet(id int32, reason Reason) {
	if c.dispose == nil {
		return
	}
	key, kok := c.arena.Key(id)
	value, vok := c.arena.Value(id)
	if kok && vok {
		c.dispose(key, value, reason)
	}
}
