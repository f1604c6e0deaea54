// Time-sliced registry for harness collection metrics, injector counters
// and tracer statistic snapshots land here each gatherer interval
package metrics

import "time"

// Creates an empty registry. Collection slices are opened per interval
// by the gatherer, nothing is pre-allocated.
func New() (registry *Registry) {
	registry = &Registry{
		metrics: make(map[time.Time]map[string]map[string]Metric),
	}
	return
}
