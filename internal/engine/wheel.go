package engine

// wheelArena is the column contract the timer wheel needs from an
// arena. Mirrors the shape used by LRU for the same reason: a
// parameterized interface satisfied directly by *Arena[K, V].
type wheelArena[K comparable, V any] interface {
	WheelNext(id int32) int32
	SetWheelNext(id int32, v int32)
	WheelPrev(id int32) int32
	SetWheelPrev(id int32, v int32)
	WheelBucket(id int32) int32
	SetWheelBucket(id int32, b int32)
	ExpiresTick(id int32) int64
	SetExpiresTick(id int32, t int64)
}

// Wheel is a circular array of bucket lists plus one overflow list,
// all threaded through an arena's wheel columns. It advances in
// discrete ticks, draining due entries through a callback under a
// per-advance work budget.
type Wheel[K comparable, V any] struct {
	arena wheelArena[K, V]

	size  int32
	mask  int32
	horizon int64

	nowTick int64
	budget  int64

	bucketHeads []int32
	overflowHead int32
	overflowCountApprox int64

	pendingTarget    int64
	pendingTargetSet bool
}

// NewWheel builds a wheel of wheelSize buckets (a power of two >= 2),
// a positive per-advance budgetPerTick, starting at startTick.
func NewWheel[K comparable, V any](arena *Arena[K, V], wheelSize int, budgetPerTick int, startTick int64) (*Wheel[K, V], error) {
	if wheelSize < 2 || wheelSize&(wheelSize-1) != 0 {
		return nil, ErrInvalidArgument
	}
	if budgetPerTick <= 0 {
		return nil, ErrInvalidArgument
	}
	if startTick < 0 {
		return nil, ErrInvalidArgument
	}

	heads := make([]int32, wheelSize)
	for i := range heads {
		heads[i] = NIL
	}

	return &Wheel[K, V]{
		arena:        arena,
		size:         int32(wheelSize),
		mask:         int32(wheelSize - 1),
		horizon:      int64(wheelSize),
		nowTick:      startTick,
		budget:       int64(budgetPerTick),
		bucketHeads:  heads,
		overflowHead: NIL,
	}, nil
}

// NowTick returns the wheel's current processed tick.
func (w *Wheel[K, V]) NowTick() int64 { return w.nowTick }

// HorizonTicks returns the number of ticks the wheel can represent
// directly before an entry must live in overflow.
func (w *Wheel[K, V]) HorizonTicks() int64 { return w.horizon }

// OverflowCountApprox returns an approximate (never negative, may
// undercount) size of the overflow list.
func (w *Wheel[K, V]) OverflowCountApprox() int64 { return w.overflowCountApprox }

// Schedule places id so it will be emitted at expireTick, unlinking it
// from wherever it currently lives first and recording expireTick in
// the slot's expiry column. expireTick must be strictly
// greater than the current tick.
func (w *Wheel[K, V]) Schedule(id int32, expireTick int64) error {
	if expireTick < 0 || expireTick <= w.nowTick {
		return ErrScheduleInPast
	}

	w.Unlink(id)
	w.arena.SetExpiresTick(id, expireTick)

	if expireTick-w.nowTick > w.horizon {
		w.linkOverflowHead(id)
		w.overflowCountApprox++
	} else {
		bucket := int32(expireTick) & w.mask
		w.linkBucketHead(bucket, id)
	}
	return nil
}

// Unlink removes id from whichever wheel state it occupies. A no-op
// if the slot is already unscheduled.
func (w *Wheel[K, V]) Unlink(id int32) {
	switch b := w.arena.WheelBucket(id); {
	case b == BucketNone:
		return
	case b == BucketOverflow:
		w.spliceOut(id, func(h int32) { w.overflowHead = h })
		if w.overflowCountApprox > 0 {
			w.overflowCountApprox--
		}
	default:
		w.spliceOut(id, func(h int32) { w.bucketHeads[b] = h })
	}
	w.arena.SetWheelBucket(id, BucketNone)
}

func (w *Wheel[K, V]) spliceOut(id int32, setHead func(int32)) {
	prev := w.arena.WheelPrev(id)
	next := w.arena.WheelNext(id)

	if prev != NIL {
		w.arena.SetWheelNext(prev, next)
	} else {
		setHead(next)
	}
	if next != NIL {
		w.arena.SetWheelPrev(next, prev)
	}

	w.arena.SetWheelNext(id, NIL)
	w.arena.SetWheelPrev(id, NIL)
}

func (w *Wheel[K, V]) linkBucketHead(bucket int32, id int32) {
	old := w.bucketHeads[bucket]
	w.arena.SetWheelPrev(id, NIL)
	w.arena.SetWheelNext(id, old)
	if old != NIL {
		w.arena.SetWheelPrev(old, id)
	}
	w.bucketHeads[bucket] = id
	w.arena.SetWheelBucket(id, bucket)
}

func (w *Wheel[K, V]) linkOverflowHead(id int32) {
	old := w.overflowHead
	w.arena.SetWheelPrev(id, NIL)
	w.arena.SetWheelNext(id, old)
	if old != NIL {
		w.arena.SetWheelPrev(old, id)
	}
	w.overflowHead = id
	w.arena.SetWheelBucket(id, BucketOverflow)
}

// AdvanceToTick drives nowTick forward one tick at a time until it
// reaches targetTick or the per-call work budget runs out, invoking
// onExpire for every slot it determines has reached its expiry tick.
// Returns true once nowTick == targetTick (or the effective target
// left over from an interrupted prior call), false if the budget was
// exhausted first, in which case the effective target is remembered
// so the next call resumes.
func (w *Wheel[K, V]) AdvanceToTick(targetTick int64, onExpire func(int32)) bool {
	if targetTick < 0 {
		targetTick = w.nowTick
	}

	effectiveTarget := targetTick
	if w.pendingTargetSet && w.pendingTarget > effectiveTarget {
		effectiveTarget = w.pendingTarget
	}

	remaining := w.budget
	for w.nowTick < effectiveTarget {
		w.nowTick++

		remaining = w.drainOverflow(remaining, onExpire)
		if remaining <= 0 {
			w.pendingTarget = effectiveTarget
			w.pendingTargetSet = true
			return false
		}

		remaining = w.processBucket(int32(w.nowTick)&w.mask, remaining, onExpire)
		if remaining <= 0 {
			w.pendingTarget = effectiveTarget
			w.pendingTargetSet = true
			return false
		}
	}

	w.pendingTargetSet = false
	return true
}

// drainOverflow walks the overflow list from its head, bounded by the
// remaining budget. Every examined slot (moved, expired, or merely
// inspected and left in place) consumes one unit of budget, closing
// the unbounded-walk gap a naive per-move charge would leave open.
func (w *Wheel[K, V]) drainOverflow(budget int64, onExpire func(int32)) int64 {
	id := w.overflowHead
	for id != NIL && budget > 0 {
		next := w.arena.WheelNext(id)
		budget--

		expires := w.arena.ExpiresTick(id)
		delta := expires - w.nowTick

		if delta <= w.horizon {
			w.Unlink(id)
			if expires <= w.nowTick {
				onExpire(id)
			} else {
				bucket := int32(expires) & w.mask
				w.linkBucketHead(bucket, id)
			}
		}

		id = next
	}
	return budget
}

// processBucket walks the bucket for the current tick. Due slots are
// expired; not-yet-due slots found here only because the wheel
// wrapped around are relocated to their correct bucket (the
// guardrail). The next pointer is captured before any unlink/relink so
// the walk stays safe across mutation.
func (w *Wheel[K, V]) processBucket(bucket int32, budget int64, onExpire func(int32)) int64 {
	id := w.bucketHeads[bucket]
	for id != NIL && budget > 0 {
		next := w.arena.WheelNext(id)
		budget--

		expires := w.arena.ExpiresTick(id)
		if expires <= w.nowTick {
			w.Unlink(id)
			onExpire(id)
		} else {
			correct := int32(expires) & w.mask
			if correct != bucket {
				w.Unlink(id)
				w.linkBucketHead(correct, id)
			}
		}

		id = next
	}
	return budget
}
