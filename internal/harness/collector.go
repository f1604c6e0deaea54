package harness

import (
	"context"
	"runtime/debug"
	"time"

	"dettrace/internal/global"
	"dettrace/internal/logctx"
	"dettrace/internal/metrics"
)

// Gathers injector and tracer metrics into the central registry
type Gatherer struct {
	Interval  time.Duration     // Polling interval to gather metrics at
	Retention time.Duration     // Maximum time to maintain metrics for
	Registry  *metrics.Registry // Storage for metric data
	harness   *Harness
}

func newGatherer(harness *Harness, interval time.Duration, maximumMetricAge time.Duration) (gatherer *Gatherer) {
	gatherer = &Gatherer{
		Registry:  metrics.New(),
		Interval:  interval,
		Retention: maximumMetricAge,
		harness:   harness,
	}
	return
}

func (gatherer *Gatherer) Run(ctx context.Context) {
	ctx = logctx.AppendCtxTag(ctx, global.NSCollector)
	defer func() { ctx = logctx.RemoveLastCtxTag(ctx) }()

	// Track last run times for each interval
	lastRun := time.Now()

	ticker := time.NewTicker(gatherer.Interval / 2) // Use polling interval half of desired record interval
	defer ticker.Stop()

	// Counter to track how many ticks have passed (for retention)
	var tickCount int

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if now.Sub(lastRun) >= gatherer.Interval {
				timeSlice := gatherer.Registry.NewTimeSlice(now, gatherer.Interval)

				lastRun = now
				go gatherer.runIntervalTasks(ctx, timeSlice, gatherer.Interval)
			}

			// Conduct old metric evaluations and cleanup
			tickCount++
			if tickCount >= 30 {
				gatherer.Registry.Prune(now, gatherer.Retention)
				tickCount = 0 // Reset the counter after cleanup
			}
		}
	}
}

// Read and calculate metrics for the tracer and every injector
func (gatherer *Gatherer) runIntervalTasks(ctx context.Context, timeSlice time.Time, interval time.Duration) {
	// Record panics and continue on next interval
	defer func() {
		if fatalError := recover(); fatalError != nil {
			stack := debug.Stack()
			logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
				"panic in harness metric collector thread: %v\n%s", fatalError, stack)
		}
	}()

	// Injectors (fixed set after startup, no lock needed)
	var collection []metrics.Metric
	for _, injector := range gatherer.harness.injectors {
		m1 := injector.CollectMetrics(interval)
		collection = append(collection, m1...)
	}
	gatherer.Registry.Add(timeSlice, collection)

	// Tracer aggregate counters
	m2 := tracerMetrics(gatherer.harness.Tracer, interval)
	gatherer.Registry.Add(timeSlice, m2)
}
