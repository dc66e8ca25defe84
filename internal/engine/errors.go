// Package engine implements the hybrid TTL/LRU eviction core: a
// structure-of-arrays entry arena, an intrusive LRU list, and a hashed
// timer wheel with overflow, all sharing the arena's columns.
//
// The package is single-threaded by design (see the coordinator doc
// comment); callers needing concurrent access must serialize their own
// calls, which is exactly what internal/cache does on top of this
// package.
package engine

import "errors"

var (
	// ErrInvalidID is returned when a slot id falls outside [0, cap).
	ErrInvalidID = errors.New("engine: invalid slot id")

	// ErrDoubleFree is returned when FreeID is called on a slot whose
	// key column is already absent.
	ErrDoubleFree = errors.New("engine: slot already free")

	// ErrCapacityExhausted is returned when the arena cannot grow far
	// enough to satisfy an allocation despite maxEntries headroom.
	ErrCapacityExhausted = errors.New("engine: capacity exhausted")

	// ErrInvalidArgument is returned by constructors when a size,
	// budget, or capacity argument violates its contract.
	ErrInvalidArgument = errors.New("engine: invalid argument")

	// ErrScheduleInPast is returned when Schedule is asked to place an
	// entry at or before the wheel's current tick.
	ErrScheduleInPast = errors.New("engine: schedule target not in the future")
)
