// Deduplicating bounded event ledger for the development error tracer
package store

import (
	"fmt"

	"dettrace/internal/atomics"
	"dettrace/pkg/tracer/event"
	"dettrace/pkg/tracer/spinlock"
)

// Bounded retries for statistic counter updates (best-effort under contention)
const statRetries int = 8

// Store constructor. Guard selects the multi-core lock or the no-op variant,
// now supplies monotonic timestamps.
func New(capacity int, guard spinlock.Guard, now func() uint64) (newStore *Store, err error) {
	if capacity < 1 {
		err = fmt.Errorf("store capacity must be at least 1")
		return
	}
	if guard == nil {
		err = fmt.Errorf("store guard must not be nil")
		return
	}
	if now == nil {
		err = fmt.Errorf("store timestamp source must not be nil")
		return
	}

	newStore = &Store{
		guard: guard,
		now:   now,
		slots: make([]event.Record, capacity),
	}
	return
}

// Records one report. An existing record with an equal signature absorbs the
// repeat (occurrence count saturates, timestamp refreshes); a new signature
// takes the slot at the write cursor, evicting the oldest record when full.
// Safe for concurrent callers when built with the multi-core guard.
func (eventStore *Store) Report(sig event.Signature, severity event.Severity) {
	stamp := eventStore.now()

	eventStore.guard.Acquire()

	evicted := false
	matched := false

	// Scan live entries only, oldest first
	oldest := eventStore.oldestIndex()
	for scanned := 0; scanned < eventStore.live; scanned++ {
		slot := &eventStore.slots[(oldest+scanned)%len(eventStore.slots)]
		if slot.Signature != sig {
			continue
		}

		// Exact tuple match, absorb the repeat
		slot.Occurrences = atomics.SaturateAdd32(slot.Occurrences, 1)
		slot.Timestamp = stamp
		slot.Severity = severity
		matched = true
		break
	}

	if !matched {
		if eventStore.live == len(eventStore.slots) {
			// Cursor points at the oldest record, its identity is lost here
			evicted = true
		} else {
			eventStore.live++
		}

		eventStore.slots[eventStore.cursor] = event.Record{
			Signature:   sig,
			Severity:    severity,
			Timestamp:   stamp,
			Occurrences: 1,
		}
		eventStore.cursor = (eventStore.cursor + 1) % len(eventStore.slots)
	}

	eventStore.guard.Release()

	// Counter updates happen outside the critical section
	atomics.AddSaturate(&eventStore.Stats.TotalEvents, 1, statRetries)
	if !matched {
		atomics.AddSaturate(&eventStore.Stats.UniqueSignatures, 1, statRetries)
	}
	if evicted {
		atomics.AddSaturate(&eventStore.Stats.Overflows, 1, statRetries)
	}

	switch severity {
	case event.SeverityWarning:
		atomics.AddSaturate(&eventStore.Stats.Warnings, 1, statRetries)
	case event.SeverityError:
		atomics.AddSaturate(&eventStore.Stats.Errors, 1, statRetries)
	case event.SeverityFatal:
		atomics.AddSaturate(&eventStore.Stats.Fatals, 1, statRetries)
	}
}

// Most recently written record by cursor position
func (eventStore *Store) Last() (record event.Record, hasData bool) {
	eventStore.guard.Acquire()
	defer eventStore.guard.Release()

	if eventStore.live == 0 {
		return
	}

	capacity := len(eventStore.slots)
	record = eventStore.slots[(eventStore.cursor-1+capacity)%capacity]
	hasData = true
	return
}

// Number of live records
func (eventStore *Store) Len() (count int) {
	eventStore.guard.Acquire()
	defer eventStore.guard.Release()
	count = eventStore.live
	return
}

// Total slot capacity
func (eventStore *Store) Capacity() (capacity int) {
	capacity = len(eventStore.slots)
	return
}

// Empties all records and resets statistics.
// Filter and callback configuration is owned elsewhere and untouched.
func (eventStore *Store) Clear() {
	eventStore.guard.Acquire()
	for i := range eventStore.slots {
		eventStore.slots[i] = event.Record{}
	}
	eventStore.cursor = 0
	eventStore.live = 0
	eventStore.guard.Release()

	eventStore.resetStats()
}

// Index of the oldest live record.
// Once the buffer wraps the oldest sits at the cursor, before that at zero.
func (eventStore *Store) oldestIndex() (index int) {
	capacity := len(eventStore.slots)
	index = (eventStore.cursor - eventStore.live + capacity) % capacity
	return
}
