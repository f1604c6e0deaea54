package metrics

import "time"

// Drops collection slices older than the retention window.
// Runs periodically from the gatherer so a long simulation cannot grow
// the registry without bound.
func (registry *Registry) Prune(currentTime time.Time, maxAge time.Duration) {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	for timeSlice := range registry.metrics {
		age := currentTime.Sub(timeSlice)
		if age > maxAge {
			delete(registry.metrics, timeSlice)
		}
	}
}
