package harness

import (
	"context"
	"math/rand"
	"runtime/debug"
	"strconv"
	"time"

	"dettrace/internal/global"
	"dettrace/internal/logctx"
	"dettrace/pkg/tracer"
)

// Per-injector cap on retained latency samples for the end of run summary
const maxLatencySamples int = 4096

func newInjector(id int) (injector *Injector) {
	injector = &Injector{
		id:        id,
		Namespace: []string{global.NSHarness, global.NSInjector, strconv.Itoa(id)},
		Metrics:   &MetricStorage{},
	}
	return
}

// Worker loop reporting synthetic faults until the context ends
func (injector *Injector) run(ctx context.Context, target *tracer.Tracer, cfg settings) {
	ctx = logctx.AppendCtxTag(ctx, global.NSInjector)
	defer func() { ctx = logctx.RemoveLastCtxTag(ctx) }()

	// Record panics, a dead injector must not take the run down
	defer func() {
		if fatalError := recover(); fatalError != nil {
			stack := debug.Stack()
			logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
				"panic in injector %d: %v\n%s", injector.id, fatalError, stack)
		}
	}()

	// Deterministic per-worker stream so runs are comparable
	rng := rand.New(rand.NewSource(int64(injector.id) + 1))

	ticker := time.NewTicker(cfg.reportInterval)
	defer ticker.Stop()

	var reportCount int
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			injector.reportOne(target, cfg, rng, reportCount)
			reportCount++
		}
	}
}

// Sends one synthetic report and records its outcome and latency
func (injector *Injector) reportOne(target *tracer.Tracer, cfg settings, rng *rand.Rand, reportCount int) {
	// Cycle a bounded signature population so deduplication gets exercised
	sigIndex := reportCount % cfg.uniqueSignatures
	moduleID := uint16(1 + sigIndex%7)
	instanceID := uint8(injector.id % 4)
	apiID := uint8(sigIndex % 5)
	errorID := uint8(sigIndex)

	var outcome tracer.Outcome
	class := rng.Intn(100)

	start := time.Now()
	switch {
	case class < cfg.runtimeShare:
		outcome = target.ReportRuntimeError(moduleID, instanceID, apiID, errorID)
	case class < cfg.runtimeShare+cfg.transientShare:
		outcome = target.ReportTransientFault(moduleID, instanceID, apiID, errorID)
	default:
		severity := tracer.SeverityWarning + tracer.Severity(sigIndex%3)
		outcome = target.ReportEvent(moduleID, instanceID, apiID, errorID, severity)
	}
	elapsed := uint64(time.Since(start).Nanoseconds())

	switch outcome {
	case tracer.Success:
		injector.Metrics.ReportsSent.Add(1)
		injector.Metrics.TotalSent.Add(1)
	case tracer.Suppressed:
		injector.Metrics.Suppressed.Add(1)
		injector.Metrics.TotalSuppressed.Add(1)
	default:
		injector.Metrics.Rejected.Add(1)
		injector.Metrics.TotalRejected.Add(1)
	}

	injector.Metrics.SumNs.Add(elapsed)
	for {
		max := injector.Metrics.MaxNs.Load()
		if elapsed <= max || injector.Metrics.MaxNs.CompareAndSwap(max, elapsed) {
			break
		}
	}

	injector.Metrics.latMu.Lock()
	if len(injector.Metrics.latencies) < maxLatencySamples {
		injector.Metrics.latencies = append(injector.Metrics.latencies, elapsed)
	}
	injector.Metrics.latMu.Unlock()
}
