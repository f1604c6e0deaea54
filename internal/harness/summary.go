package harness

import (
	"dettrace/internal/calc"
)

// Outlier share removed from each end before averaging latencies
const latencyTrimPercent float64 = 0.05

// Aggregates injector outcomes and latencies across the whole run.
// Reads the whole-run counters, not the interval counters the collector
// consumes.
func (harness *Harness) Summarize() (summary Summary) {
	var latencies []uint64
	for _, injector := range harness.injectors {
		summary.ReportsSent += injector.Metrics.TotalSent.Load()
		summary.Suppressed += injector.Metrics.TotalSuppressed.Load()
		summary.Rejected += injector.Metrics.TotalRejected.Load()

		injector.Metrics.latMu.Lock()
		latencies = append(latencies, injector.Metrics.latencies...)
		injector.Metrics.latMu.Unlock()
	}

	summary.LatencySamples = len(latencies)
	if summary.LatencySamples > 0 {
		summary.LatencyMeanNs = calc.TrimmedMeanUint64(latencies, latencyTrimPercent)
		for _, latency := range latencies {
			if latency > summary.LatencyMaxNs {
				summary.LatencyMaxNs = latency
			}
		}
	}

	snap := harness.Tracer.Statistics()
	summary.UniqueSignatures = snap.UniqueSignatures
	summary.LiveRecords = harness.Tracer.LiveRecords()
	return
}
