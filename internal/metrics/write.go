package metrics

import (
	"strings"
	"time"
)

// Opens the collection slice covering now.
// Slice keys are rounded down to the interval so every gatherer pass
// within one interval lands in the same slice.
func (registry *Registry) NewTimeSlice(now time.Time, interval time.Duration) (timeSlice time.Time) {
	timeSlice = now
	if interval > 0 {
		timeSlice = now.Truncate(interval)
	}

	registry.mu.Lock()
	defer registry.mu.Unlock()

	_, sliceExists := registry.metrics[timeSlice]
	if !sliceExists {
		registry.metrics[timeSlice] = make(map[string]map[string]Metric)
	}
	return
}

// Stores one collected batch into an open slice.
// Batches aimed at a pruned or never-opened slice are discarded, a late
// gatherer pass must not resurrect expired slices.
func (registry *Registry) Add(timeSlice time.Time, batch []Metric) {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	slice, sliceExists := registry.metrics[timeSlice]
	if !sliceExists {
		return
	}

	for _, metric := range batch {
		group := strings.Join(metric.Namespace, "/")
		if slice[group] == nil {
			slice[group] = make(map[string]Metric)
		}
		slice[group][metric.Name] = metric
	}
}
