// Synthetic fault workload driving the tracer the way instrumented firmware would
package harness

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"dettrace/internal/global"
	"dettrace/internal/metrics"
	"dettrace/pkg/tracer"
)

// Parsed and validated runtime settings from the JSON simulation config
type settings struct {
	cores            int
	runTime          time.Duration
	uniqueSignatures int
	reportInterval   time.Duration
	runtimeShare     int // percent of reports sent as runtime errors
	transientShare   int // percent of reports sent as transient faults

	metricsEnabled bool
	metricInterval time.Duration
	metricMaxAge   time.Duration
}

type Harness struct {
	cfg    settings
	raw    global.SimConfig
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// Shutdown runs once even when both the run loop and a signal race into it
	shutdownOnce sync.Once

	Tracer    *tracer.Tracer
	injectors []*Injector
	gatherer  *Gatherer

	// Bound post-startup for the query server
	MetricDataSearcher func(name string, namespacePrefix []string, start, end time.Time) []metrics.Metric
	MetricDiscoverer   func(name string, namespacePrefix []string, metricType metrics.MetricType) []metrics.Metric
}

// One concurrent reporting worker standing in for a firmware core
type Injector struct {
	id        int
	Namespace []string
	Metrics   *MetricStorage
}

type MetricStorage struct {
	// Interval counters, read and cleared by the collector
	ReportsSent atomic.Uint64 // reports accepted by the tracer
	Suppressed  atomic.Uint64 // reports filtered below threshold
	Rejected    atomic.Uint64 // reports refused (lifecycle or bad params)
	SumNs       atomic.Uint64 // sum of per-report latencies
	MaxNs       atomic.Uint64 // max observed per-report latency

	// Whole-run counters, never cleared
	TotalSent       atomic.Uint64
	TotalSuppressed atomic.Uint64
	TotalRejected   atomic.Uint64

	latMu     sync.Mutex
	latencies []uint64 // per-report ns, kept for the end of run summary
}

// End of run aggregate over all injectors
type Summary struct {
	ReportsSent      uint64
	Suppressed       uint64
	Rejected         uint64
	LatencyMeanNs    uint64
	LatencyMaxNs     uint64
	LatencySamples   int
	LiveRecords      int
	UniqueSignatures uint64
}
