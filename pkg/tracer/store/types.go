package store

import (
	"sync/atomic"

	"dettrace/pkg/tracer/event"
	"dettrace/pkg/tracer/spinlock"
)

// Aggregate counters mutated as a side effect of reporting.
// All fields are atomic so readers never need the store lock.
type Stats struct {
	TotalEvents      atomic.Uint64 // Every report that passed the filter
	UniqueSignatures atomic.Uint64 // First insertions, never decremented by eviction
	Overflows        atomic.Uint64 // Oldest-record evictions on cursor wrap
	RuntimeErrors    atomic.Uint64 // Reports tagged operational rather than parameter-validation
	TransientFaults  atomic.Uint64 // Reports of transient hardware anomalies
	Suppressed       atomic.Uint64 // Reports dropped by severity filtering

	Warnings atomic.Uint64
	Errors   atomic.Uint64
	Fatals   atomic.Uint64

	CallbackFailures atomic.Uint64 // Observed non-nil callback returns
}

// Point-in-time copy of all statistic counters
type Snapshot struct {
	TotalEvents      uint64
	UniqueSignatures uint64
	Overflows        uint64
	RuntimeErrors    uint64
	TransientFaults  uint64
	Suppressed       uint64
	Warnings         uint64
	Errors           uint64
	Fatals           uint64
	CallbackFailures uint64
	ForcedAcquires   uint64 // Degraded lock acquisitions, filled in by the tracer
}

// Fixed-capacity circular buffer of deduplicated error records.
// Slot mutations happen only under the guard; the linear dedup scan is
// bounded by the live count and never exceeds capacity comparisons.
type Store struct {
	guard spinlock.Guard
	now   func() (stamp uint64)

	slots  []event.Record
	cursor int // Next write position
	live   int // Occupied slots, never exceeds capacity

	Stats Stats
}
