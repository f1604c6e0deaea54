package harness

import (
	"time"

	"dettrace/internal/global"
	"dettrace/internal/metrics"
	"dettrace/pkg/tracer"
)

// Reads and clears the interval counters for one injector
func (injector *Injector) CollectMetrics(interval time.Duration) (collection []metrics.Metric) {
	// Read and clear
	sent := injector.Metrics.ReportsSent.Swap(0)
	suppressed := injector.Metrics.Suppressed.Swap(0)
	rejected := injector.Metrics.Rejected.Swap(0)
	sumNs := injector.Metrics.SumNs.Swap(0)
	maxNs := injector.Metrics.MaxNs.Swap(0)

	// Record read time
	recordTime := time.Now()

	total := sent + suppressed + rejected
	var avgNs uint64
	if total > 0 {
		avgNs = sumNs / total
	}

	add := func(name string, raw interface{}, unit string, t metrics.MetricType, description string) {
		collection = append(collection, metrics.Metric{
			Name:        name,
			Description: description,
			Namespace:   injector.Namespace,
			Type:        t,
			Timestamp:   recordTime,
			Value: metrics.MetricValue{
				Raw:      raw,
				Unit:     unit,
				Interval: interval,
			},
		})
	}

	add("reports_sent", sent, "count", metrics.Counter, "Reports accepted by the tracer in the interval")
	add("reports_suppressed", suppressed, "count", metrics.Counter, "Reports filtered below severity threshold in the interval")
	add("reports_rejected", rejected, "count", metrics.Counter, "Reports refused by the tracer in the interval")
	add("report_latency_avg_ns", avgNs, "ns", metrics.Gauge, "Average report call latency in the interval")
	add("report_latency_max_ns", maxNs, "ns", metrics.Gauge, "Maximum report call latency in the interval")

	return
}

// Converts the tracer's aggregate counters into registry metrics
func tracerMetrics(target *tracer.Tracer, interval time.Duration) (collection []metrics.Metric) {
	snap := target.Statistics()
	recordTime := time.Now()
	namespace := []string{global.NSHarness, global.NSTracer}

	add := func(name string, raw interface{}, t metrics.MetricType, description string) {
		collection = append(collection, metrics.Metric{
			Name:        name,
			Description: description,
			Namespace:   namespace,
			Type:        t,
			Timestamp:   recordTime,
			Value: metrics.MetricValue{
				Raw:      raw,
				Unit:     "count",
				Interval: interval,
			},
		})
	}

	add("total_events", snap.TotalEvents, metrics.Counter, "Events accepted into the store since startup")
	add("unique_signatures", snap.UniqueSignatures, metrics.Counter, "Distinct signatures ever stored since startup")
	add("overflows", snap.Overflows, metrics.Counter, "Oldest records evicted for new signatures since startup")
	add("runtime_errors", snap.RuntimeErrors, metrics.Counter, "Runtime error class reports since startup")
	add("transient_faults", snap.TransientFaults, metrics.Counter, "Transient fault class reports since startup")
	add("suppressed", snap.Suppressed, metrics.Counter, "Reports dropped by severity filtering since startup")
	add("callback_failures", snap.CallbackFailures, metrics.Counter, "Notification callbacks that returned errors since startup")
	add("forced_acquires", snap.ForcedAcquires, metrics.Counter, "Store lock acquisitions forced past the spin budget since startup")
	add("live_records", target.LiveRecords(), metrics.Gauge, "Deduplicated records currently held in the store")

	return
}
