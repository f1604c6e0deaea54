package store

import "dettrace/pkg/tracer/event"

// Visitor for stored records. Returning false stops the walk early.
type Visitor func(record event.Record) (keepGoing bool)

// Walks live records in oldest-to-newest order and returns the count visited.
// The records are copied out under the guard in one short critical section,
// so the walk is safe alongside concurrent reporting. The visitor sees a
// point-in-time view, reports landing mid-walk are not included.
func (eventStore *Store) Iterate(visit Visitor) (visited int) {
	if visit == nil {
		return
	}

	eventStore.guard.Acquire()
	capacity := len(eventStore.slots)
	oldest := eventStore.oldestIndex()
	snapshot := make([]event.Record, 0, eventStore.live)
	for scanned := 0; scanned < eventStore.live; scanned++ {
		snapshot = append(snapshot, eventStore.slots[(oldest+scanned)%capacity])
	}
	eventStore.guard.Release()

	for _, record := range snapshot {
		visited++
		if !visit(record) {
			return
		}
	}
	return
}
