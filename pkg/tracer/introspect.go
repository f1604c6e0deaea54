package tracer

import (
	"fmt"

	"dettrace/pkg/tracer/event"
	"dettrace/pkg/tracer/store"
)

// Most recently written record, or no data when the store is empty or the
// tracer is uninitialized. Takes the store lock briefly.
func (tracer *Tracer) LastError() (record event.Record, hasData bool) {
	if tracer.state.Load() == stateUninitialized {
		return
	}
	record, hasData = tracer.events.Last()
	return
}

// Copy of all aggregate counters including degraded lock acquisitions
func (tracer *Tracer) Statistics() (snap store.Snapshot) {
	if tracer.state.Load() == stateUninitialized {
		return
	}

	snap = tracer.events.Snapshot()
	if tracer.spin != nil {
		snap.ForcedAcquires = tracer.spin.ForcedAcquires()
	}
	return
}

// Walks live records oldest to newest, returns the count visited.
// Safe alongside concurrent reporting, the visitor sees a point-in-time
// copy of the store contents.
func (tracer *Tracer) Iterate(visit store.Visitor) (visited int) {
	if tracer.state.Load() == stateUninitialized {
		return
	}
	visited = tracer.events.Iterate(visit)
	return
}

// Number of live deduplicated records
func (tracer *Tracer) LiveRecords() (count int) {
	if tracer.state.Load() == stateUninitialized {
		return
	}
	count = tracer.events.Len()
	return
}

// Empties the store and statistics. Filters and callbacks stay configured.
func (tracer *Tracer) Clear() (err error) {
	if tracer.state.Load() == stateUninitialized {
		err = fmt.Errorf("clear rejected: tracer not initialized")
		return
	}
	tracer.events.Clear()
	return
}

// Stores a minimum severity threshold for one module, or the global
// fallback when GlobalModule is given. Maintenance context only.
func (tracer *Tracer) SetFilter(moduleID uint16, minSeverity Severity) (err error) {
	if tracer.state.Load() == stateUninitialized {
		err = fmt.Errorf("set filter rejected: tracer not initialized")
		return
	}
	err = tracer.filters.Set(moduleID, minSeverity)
	return
}

// Appends a notification callback. Maintenance context only, no removal.
func (tracer *Tracer) RegisterCallback(callback Callback) (err error) {
	if tracer.state.Load() == stateUninitialized {
		err = fmt.Errorf("register rejected: tracer not initialized")
		return
	}
	err = tracer.callbacks.Register(callback)
	return
}
