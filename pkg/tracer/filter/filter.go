// Per-module minimum severity thresholds with a global fallback
package filter

import (
	"fmt"

	"dettrace/pkg/tracer/event"
)

// Sentinel module id selecting the global fallback threshold
const GlobalModule uint16 = 0xFFFF

// Table maps module ids to their minimum reportable severity.
// Set is not safe to call concurrently with Threshold, callers must apply
// filter changes from a single maintenance context with no reports in flight.
type Table struct {
	fallback  event.Severity
	overrides map[uint16]event.Severity
}

// Table constructor, defaults to report everything
func New() (table *Table) {
	table = &Table{
		fallback:  event.SeverityWarning,
		overrides: make(map[uint16]event.Severity),
	}
	return
}

// Stores a threshold for one module, or the global fallback when the
// sentinel id is given. Already stored records are never re-evaluated.
func (table *Table) Set(moduleID uint16, minSeverity event.Severity) (err error) {
	if !minSeverity.Valid() {
		err = fmt.Errorf("invalid severity value %d", uint8(minSeverity))
		return
	}

	if moduleID == GlobalModule {
		table.fallback = minSeverity
		return
	}

	table.overrides[moduleID] = minSeverity
	return
}

// Effective threshold for a module: its own entry if present, else the fallback
func (table *Table) Threshold(moduleID uint16) (minSeverity event.Severity) {
	minSeverity, present := table.overrides[moduleID]
	if !present {
		minSeverity = table.fallback
	}
	return
}

// Restores the default report-everything state
func (table *Table) Reset() {
	table.fallback = event.SeverityWarning
	table.overrides = make(map[uint16]event.Severity)
}
