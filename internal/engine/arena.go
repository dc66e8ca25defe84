package engine

// Sentinel values shared by the arena's link columns, the LRU list,
// and the timer wheel. Buckets are always non-negative, so NONE and
// OVERFLOW can never collide with a real bucket index.
const (
	// NIL marks an absent link: no next, no prev, no slot.
	NIL int32 = -1
	// BucketNone marks a slot that is not scheduled in the wheel at all.
	BucketNone int32 = -1
	// BucketOverflow marks a slot parked on the overflow list.
	BucketOverflow int32 = -2
)

const defaultInitialCap = 1024

// Arena is a growable, structure-of-arrays pool of entries. Every
// column is indexed by slot id; a slot is live iff present[id] is
// true. Growth doubles capacity (clamped to maxEntries) and preserves
// every live slot's id and column contents.
type Arena[K comparable, V any] struct {
	maxEntries    int32
	cap           int32
	sizeAllocated int32
	freeList      []int32

	present []bool
	keys    []K
	values  []V

	expiresTick []int64
	ttlMs       []int64

	wheelNext   []int32
	wheelPrev   []int32
	wheelBucket []int32

	lruNext []int32
	lruPrev []int32
}

// NewArena builds an arena that can hold at most maxEntries live
// slots, starting with column length initialCap. A zero or negative
// initialCap selects min(1024, maxEntries); an initialCap above
// maxEntries, or a non-positive maxEntries, returns ErrInvalidArgument.
func NewArena[K comparable, V any](maxEntries int, initialCap int) (*Arena[K, V], error) {
	if maxEntries <= 0 {
		return nil, ErrInvalidArgument
	}
	if initialCap <= 0 {
		initialCap = defaultInitialCap
		if initialCap > maxEntries {
			initialCap = maxEntries
		}
	}
	if initialCap > maxEntries {
		return nil, ErrInvalidArgument
	}

	a := &Arena[K, V]{
		maxEntries: int32(maxEntries),
	}
	a.growTo(int32(initialCap))
	return a, nil
}

// Cap returns the current column length.
func (a *Arena[K, V]) Cap() int32 { return a.cap }

// MaxEntries returns the hard cap on live slots.
func (a *Arena[K, V]) MaxEntries() int32 { return a.maxEntries }

// SizeAllocated returns the high-water mark of ever-used slot ids.
func (a *Arena[K, V]) SizeAllocated() int32 { return a.sizeAllocated }

// FreeCount returns the number of reusable ids on the free list.
func (a *Arena[K, V]) FreeCount() int32 { return int32(len(a.freeList)) }

// LiveCount returns the number of currently live slots.
func (a *Arena[K, V]) LiveCount() int32 {
	return a.sizeAllocated - int32(len(a.freeList))
}

// AllocID reserves a slot id, reusing a freed one (LIFO) when
// possible, otherwise extending the high-water mark and growing
// backing storage as needed. Returns (NIL, false) once maxEntries is
// reached and the free list is empty.
func (a *Arena[K, V]) AllocID() (int32, bool) {
	if n := len(a.freeList); n > 0 {
		id := a.freeList[n-1]
		a.freeList = a.freeList[:n-1]
		a.resetSlot(id)
		return id, true
	}

	if a.sizeAllocated >= a.maxEntries {
		return NIL, false
	}

	id := a.sizeAllocated
	a.sizeAllocated++
	if id >= a.cap {
		if !a.grow(id + 1) {
			a.sizeAllocated--
			return NIL, false
		}
	}
	a.resetSlot(id)
	return id, true
}

// Alloc reserves a slot and writes key/value into it in one call.
func (a *Arena[K, V]) Alloc(key K, value V) (int32, bool) {
	id, ok := a.AllocID()
	if !ok {
		return NIL, false
	}
	_ = a.SetEntry(id, key, value)
	return id, true
}

// SetEntry writes the key and value columns of a slot that has
// already been allocated.
func (a *Arena[K, V]) SetEntry(id int32, key K, value V) error {
	if id < 0 || id >= a.cap {
		return ErrInvalidID
	}
	a.present[id] = true
	a.keys[id] = key
	a.values[id] = value
	return nil
}

// FreeID releases a live slot back to the free list after resetting
// every column family.
func (a *Arena[K, V]) FreeID(id int32) error {
	if id < 0 || id >= a.cap {
		return ErrInvalidID
	}
	if !a.present[id] {
		return ErrDoubleFree
	}
	a.resetSlot(id)
	a.freeList = append(a.freeList, id)
	return nil
}

// resetSlot zeroes every column family of a slot to its neutral
// state. It does not touch the free list.
func (a *Arena[K, V]) resetSlot(id int32) {
	var zeroK K
	var zeroV V
	a.present[id] = false
	a.keys[id] = zeroK
	a.values[id] = zeroV
	a.expiresTick[id] = 0
	a.ttlMs[id] = 0
	a.wheelNext[id] = NIL
	a.wheelPrev[id] = NIL
	a.wheelBucket[id] = BucketNone
	a.lruNext[id] = NIL
	a.lruPrev[id] = NIL
}

// Key returns the key stored at id and whether the slot is live.
func (a *Arena[K, V]) Key(id int32) (K, bool) {
	return a.keys[id], a.present[id]
}

// Value returns the value stored at id and whether the slot is live.
func (a *Arena[K, V]) Value(id int32) (V, bool) {
	return a.values[id], a.present[id]
}

// SetValue overwrites the value column of a live slot.
func (a *Arena[K, V]) SetValue(id int32, value V) { a.values[id] = value }

// Live reports whether id currently holds an entry.
func (a *Arena[K, V]) Live(id int32) bool { return a.present[id] }

func (a *Arena[K, V]) ExpiresTick(id int32) int64     { return a.expiresTick[id] }
func (a *Arena[K, V]) SetExpiresTick(id int32, t int64) { a.expiresTick[id] = t }

func (a *Arena[K, V]) TTLMs(id int32) int64     { return a.ttlMs[id] }
func (a *Arena[K, V]) SetTTLMs(id int32, ms int64) { a.ttlMs[id] = ms }

func (a *Arena[K, V]) WheelNext(id int32) int32     { return a.wheelNext[id] }
func (a *Arena[K, V]) SetWheelNext(id int32, v int32) { a.wheelNext[id] = v }

func (a *Arena[K, V]) WheelPrev(id int32) int32     { return a.wheelPrev[id] }
func (a *Arena[K, V]) SetWheelPrev(id int32, v int32) { a.wheelPrev[id] = v }

func (a *Arena[K, V]) WheelBucket(id int32) int32     { return a.wheelBucket[id] }
func (a *Arena[K, V]) SetWheelBucket(id int32, b int32) { a.wheelBucket[id] = b }

func (a *Arena[K, V]) LRUNext(id int32) int32     { return a.lruNext[id] }
func (a *Arena[K, V]) SetLRUNext(id int32, v int32) { a.lruNext[id] = v }

func (a *Arena[K, V]) LRUPrev(id int32) int32     { return a.lruPrev[id] }
func (a *Arena[K, V]) SetLRUPrev(id int32, v int32) { a.lruPrev[id] = v }

// grow doubles capacity until it can hold `required`, clamped to
// maxEntries. Returns false if a doubling step fails to make
// progress, i.e. CapacityExhausted.
func (a *Arena[K, V]) grow(required int32) bool {
	newCap := a.cap
	if newCap == 0 {
		newCap = 1
	}
	for newCap < required {
		next := newCap * 2
		if next > a.maxEntries {
			next = a.maxEntries
		}
		if next <= newCap {
			return false
		}
		newCap = next
	}
	a.growTo(newCap)
	return true
}

// growTo reallocates every column to length newCap, copying the live
// prefix and initializing the new suffix to neutral values.
func (a *Arena[K, V]) growTo(newCap int32) {
	if newCap > a.maxEntries {
		newCap = a.maxEntries
	}
	if newCap <= a.cap {
		return
	}

	grow := func(old []bool) []bool {
		n := make([]bool, newCap)
		copy(n, old)
		return n
	}
	a.present = grow(a.present)

	keys := make([]K, newCap)
	copy(keys, a.keys)
	a.keys = keys

	values := make([]V, newCap)
	copy(values, a.values)
	a.values = values

	i64 := func(old []int64) []int64 {
		n := make([]int64, newCap)
		copy(n, old)
		return n
	}
	a.expiresTick = i64(a.expiresTick)
	a.ttlMs = i64(a.ttlMs)

	i32Fill := func(old []int32, fill int32) []int32 {
		n := make([]int32, newCap)
		for i := range n {
			n[i] = fill
		}
		copy(n, old)
		return n
	}
	a.wheelNext = i32Fill(a.wheelNext, NIL)
	a.wheelPrev = i32Fill(a.wheelPrev, NIL)
	a.wheelBucket = i32Fill(a.wheelBucket, BucketNone)
	a.lruNext = i32Fill(a.lruNext, NIL)
	a.lruPrev = i32Fill(a.lruPrev, NIL)

	a.cap = newCap
}
