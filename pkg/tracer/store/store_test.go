package store

import (
	"sync"
	"sync/atomic"
	"testing"

	"dettrace/pkg/tracer/event"
	"dettrace/pkg/tracer/spinlock"
)

// Deterministic timestamp source for tests
func testClock() (now func() uint64) {
	var tick atomic.Uint64
	now = func() uint64 { return tick.Add(1) }
	return
}

func newTestStore(t *testing.T, capacity int) (eventStore *Store) {
	t.Helper()
	eventStore, err := New(capacity, spinlock.Nop{}, testClock())
	if err != nil {
		t.Fatalf("expected no error creating store, but got '%v'", err)
	}
	return
}

func sig(module uint16, instance, api, errorID uint8) (s event.Signature) {
	s = event.Signature{ModuleID: module, InstanceID: instance, APIID: api, ErrorID: errorID}
	return
}

func TestNew_InvalidArguments(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		guard    spinlock.Guard
		now      func() uint64
	}{
		{"ZeroCapacity", 0, spinlock.Nop{}, testClock()},
		{"NilGuard", 4, nil, testClock()},
		{"NilClock", 4, spinlock.Nop{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.capacity, tt.guard, tt.now)
			if err == nil {
				t.Fatalf("expected error in creating store, but got nil")
			}
		})
	}
}

func TestReport_Dedup(t *testing.T) {
	eventStore := newTestStore(t, 8)

	for i := 0; i < 5; i++ {
		eventStore.Report(sig(1, 0, 0, 10), event.SeverityError)
	}

	if got := eventStore.Len(); got != 1 {
		t.Fatalf("expected 1 live record, got %d", got)
	}

	record, hasData := eventStore.Last()
	if !hasData {
		t.Fatalf("expected record data, got none")
	}
	if record.Occurrences != 5 {
		t.Fatalf("expected 5 occurrences, got %d", record.Occurrences)
	}
	if snap := eventStore.Snapshot(); snap.TotalEvents != 5 || snap.UniqueSignatures != 1 {
		t.Fatalf("expected totals 5/1, got %d/%d", snap.TotalEvents, snap.UniqueSignatures)
	}
}

func TestReport_TimestampRefreshOnRepeat(t *testing.T) {
	eventStore := newTestStore(t, 4)

	eventStore.Report(sig(1, 0, 0, 1), event.SeverityWarning)
	first, _ := eventStore.Last()

	eventStore.Report(sig(1, 0, 0, 1), event.SeverityWarning)
	second, _ := eventStore.Last()

	if second.Timestamp <= first.Timestamp {
		t.Fatalf("expected refreshed timestamp, got %d then %d", first.Timestamp, second.Timestamp)
	}
}

// Concrete scenario: two signatures, one repeated
func TestReport_MixedSignatures(t *testing.T) {
	eventStore := newTestStore(t, 4)

	for i := 0; i < 3; i++ {
		eventStore.Report(sig(1, 0, 0, 10), event.SeverityError)
	}
	eventStore.Report(sig(2, 0, 0, 20), event.SeverityWarning)

	if got := eventStore.Len(); got != 2 {
		t.Fatalf("expected 2 live records, got %d", got)
	}

	var records []event.Record
	eventStore.Iterate(func(record event.Record) bool {
		records = append(records, record)
		return true
	})

	if records[0].Signature != sig(1, 0, 0, 10) || records[0].Occurrences != 3 {
		t.Fatalf("first record wrong: %+v", records[0])
	}
	if records[1].Signature != sig(2, 0, 0, 20) || records[1].Occurrences != 1 {
		t.Fatalf("second record wrong: %+v", records[1])
	}

	snap := eventStore.Snapshot()
	if snap.TotalEvents != 4 {
		t.Fatalf("expected total 4, got %d", snap.TotalEvents)
	}
	if snap.UniqueSignatures != 2 {
		t.Fatalf("expected 2 unique, got %d", snap.UniqueSignatures)
	}
	if snap.Errors != 3 || snap.Warnings != 1 {
		t.Fatalf("expected severity counts 3/1, got %d/%d", snap.Errors, snap.Warnings)
	}
}

// Overflow scenario: four distinct signatures through a two slot store
func TestReport_EvictionOnOverflow(t *testing.T) {
	eventStore := newTestStore(t, 2)

	for errorID := uint8(1); errorID <= 4; errorID++ {
		eventStore.Report(sig(1, 0, 0, errorID), event.SeverityError)
	}

	if got := eventStore.Len(); got != 2 {
		t.Fatalf("live records must never exceed capacity, got %d", got)
	}

	var remaining []uint8
	eventStore.Iterate(func(record event.Record) bool {
		remaining = append(remaining, record.ErrorID)
		return true
	})
	if len(remaining) != 2 || remaining[0] != 3 || remaining[1] != 4 {
		t.Fatalf("expected oldest evicted leaving [3 4], got %v", remaining)
	}

	snap := eventStore.Snapshot()
	if snap.Overflows != 2 {
		t.Fatalf("expected 2 overflow increments, got %d", snap.Overflows)
	}
	if snap.UniqueSignatures != 4 {
		t.Fatalf("eviction must not decrement unique count, got %d", snap.UniqueSignatures)
	}
}

// Dedup must still find a record whose slot index moved past the cursor wrap
func TestReport_DedupAfterWrap(t *testing.T) {
	eventStore := newTestStore(t, 3)

	for errorID := uint8(1); errorID <= 4; errorID++ {
		eventStore.Report(sig(1, 0, 0, errorID), event.SeverityError)
	}

	// Signature 3 is live (slots hold 2,3,4), a repeat must not insert
	eventStore.Report(sig(1, 0, 0, 3), event.SeverityError)

	if got := eventStore.Len(); got != 3 {
		t.Fatalf("expected 3 live records, got %d", got)
	}

	found := false
	eventStore.Iterate(func(record event.Record) bool {
		if record.ErrorID == 3 {
			found = true
			if record.Occurrences != 2 {
				t.Fatalf("expected 2 occurrences after wrap dedup, got %d", record.Occurrences)
			}
		}
		return true
	})
	if !found {
		t.Fatalf("expected signature 3 still live after wrap")
	}
}

func TestIterate_Order(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		reports  []uint8 // error ids, all distinct signatures
		want     []uint8
	}{
		{"NotWrapped", 8, []uint8{1, 2, 3}, []uint8{1, 2, 3}},
		{"ExactlyFull", 3, []uint8{1, 2, 3}, []uint8{1, 2, 3}},
		{"Wrapped", 3, []uint8{1, 2, 3, 4, 5}, []uint8{3, 4, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eventStore := newTestStore(t, tt.capacity)
			for _, errorID := range tt.reports {
				eventStore.Report(sig(9, 0, 0, errorID), event.SeverityWarning)
			}

			var got []uint8
			visited := eventStore.Iterate(func(record event.Record) bool {
				got = append(got, record.ErrorID)
				return true
			})

			if visited != len(tt.want) {
				t.Fatalf("expected %d visited, got %d", len(tt.want), visited)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("order mismatch at %d: want %v, got %v", i, tt.want, got)
				}
			}
		})
	}
}

func TestIterate_EarlyStop(t *testing.T) {
	eventStore := newTestStore(t, 8)
	for errorID := uint8(1); errorID <= 5; errorID++ {
		eventStore.Report(sig(1, 0, 0, errorID), event.SeverityWarning)
	}

	visited := eventStore.Iterate(func(record event.Record) bool {
		return record.ErrorID < 2
	})
	if visited != 2 {
		t.Fatalf("expected walk stopped after 2 records, got %d", visited)
	}
}

func TestLast_EmptyStore(t *testing.T) {
	eventStore := newTestStore(t, 4)

	_, hasData := eventStore.Last()
	if hasData {
		t.Fatalf("expected no data from empty store")
	}
}

func TestClear(t *testing.T) {
	eventStore := newTestStore(t, 4)
	for errorID := uint8(1); errorID <= 6; errorID++ {
		eventStore.Report(sig(1, 0, 0, errorID), event.SeverityError)
	}

	eventStore.Clear()

	if got := eventStore.Len(); got != 0 {
		t.Fatalf("expected empty store after clear, got %d live", got)
	}
	if _, hasData := eventStore.Last(); hasData {
		t.Fatalf("expected no last record after clear")
	}
	snap := eventStore.Snapshot()
	if snap.TotalEvents != 0 || snap.Overflows != 0 || snap.UniqueSignatures != 0 {
		t.Fatalf("expected zeroed statistics after clear, got %+v", snap)
	}

	// Store remains usable
	eventStore.Report(sig(2, 0, 0, 1), event.SeverityWarning)
	if got := eventStore.Len(); got != 1 {
		t.Fatalf("expected 1 live record after re-report, got %d", got)
	}
}

// Two concurrent reports of the same signature must both land in the
// occurrence count. This is the primary property the lock provides.
func TestReport_ConcurrentSameSignature(t *testing.T) {
	eventStore, err := New(16, spinlock.New(0, 0), testClock())
	if err != nil {
		t.Fatalf("expected no error in creating store, but got '%v'", err)
	}

	const workers = 8
	const reports = 500

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < reports; i++ {
				eventStore.Report(sig(5, 0, 0, 1), event.SeverityError)
			}
		}()
	}
	wg.Wait()

	record, hasData := eventStore.Last()
	if !hasData {
		t.Fatalf("expected record data, got none")
	}
	if record.Occurrences != workers*reports {
		t.Fatalf("lost occurrence updates: want %d, got %d", workers*reports, record.Occurrences)
	}

	snap := eventStore.Snapshot()
	if snap.TotalEvents != workers*reports {
		t.Fatalf("lost total count updates: want %d, got %d", workers*reports, snap.TotalEvents)
	}
	if snap.UniqueSignatures != 1 {
		t.Fatalf("expected single unique signature, got %d", snap.UniqueSignatures)
	}
}

// Distinct signatures from many cores may interleave in any order, but the
// capacity bound and per-signature accounting must hold.
func TestReport_ConcurrentDistinctSignatures(t *testing.T) {
	eventStore, err := New(64, spinlock.New(0, 0), testClock())
	if err != nil {
		t.Fatalf("expected no error in creating store, but got '%v'", err)
	}

	const workers = 4
	const reports = 200

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		worker := uint8(w)
		go func() {
			defer wg.Done()
			for i := 0; i < reports; i++ {
				eventStore.Report(sig(1, worker, 0, uint8(i%8)), event.SeverityWarning)
			}
		}()
	}
	wg.Wait()

	if got := eventStore.Len(); got != workers*8 {
		t.Fatalf("expected %d live records, got %d", workers*8, got)
	}

	total := uint32(0)
	eventStore.Iterate(func(record event.Record) bool {
		total += record.Occurrences
		return true
	})
	if total != workers*reports {
		t.Fatalf("occurrence sum mismatch: want %d, got %d", workers*reports, total)
	}
}

// Walking the store while cores keep reporting must yield a consistent
// point-in-time view: bounded by capacity, every record fully written.
func TestIterate_DuringConcurrentReports(t *testing.T) {
	const capacity = 8
	eventStore, err := New(capacity, spinlock.New(0, 0), testClock())
	if err != nil {
		t.Fatalf("expected no error in creating store, but got '%v'", err)
	}

	const workers = 4
	const reports = 300

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		worker := uint8(w)
		go func() {
			defer wg.Done()
			for i := 0; i < reports; i++ {
				eventStore.Report(sig(3, worker, 0, uint8(i%32)), event.SeverityError)
			}
		}()
	}

	for pass := 0; pass < 50; pass++ {
		visited := eventStore.Iterate(func(record event.Record) bool {
			if record.Occurrences == 0 {
				t.Errorf("visited record with zero occurrences: %+v", record)
			}
			if record.Timestamp == 0 {
				t.Errorf("visited record with zero timestamp: %+v", record)
			}
			return true
		})
		if visited > capacity {
			t.Fatalf("visited %d records, capacity is %d", visited, capacity)
		}
	}
	wg.Wait()
}
