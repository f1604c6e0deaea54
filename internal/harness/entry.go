package harness

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/pbnjay/memory"

	"dettrace/internal/global"
	"dettrace/internal/logctx"
	"dettrace/pkg/tracer"
	"dettrace/pkg/tracer/event"
)

// Bytes of system memory backing one auto-sized store slot
const bytesPerSlot uint64 = 64 * 1024 * 1024

// Reads and parses the simulation config file
func LoadConfig(path string) (cfg global.SimConfig, err error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		err = fmt.Errorf("failed reading config file: %v", err)
		return
	}

	err = json.Unmarshal(contents, &cfg)
	if err != nil {
		err = fmt.Errorf("failed parsing config file: %v", err)
		return
	}
	return
}

// Creates a new harness from the raw simulation config
func New(cfg global.SimConfig) (harness *Harness, err error) {
	parsed, err := parseSettings(cfg)
	if err != nil {
		return
	}

	capacity := cfg.Tracer.Capacity
	if capacity == 0 {
		capacity = autoSizeCapacity(memory.TotalMemory())
	}

	harness = &Harness{
		cfg: parsed,
		raw: cfg,
		Tracer: tracer.New(tracer.Config{
			Capacity:            capacity,
			MaxCallbacks:        cfg.Tracer.MaxCallbacks,
			MultiCore:           cfg.Tracer.MultiCore,
			FilterEnabled:       cfg.Tracer.FilterEnabled,
			UniqueCallbackCheck: cfg.Tracer.DuplicateCallbackCheck,
		}),
	}
	return
}

// Validates the raw config and parses duration text
func parseSettings(cfg global.SimConfig) (parsed settings, err error) {
	parsed.cores = cfg.Cores
	if parsed.cores <= 0 {
		parsed.cores = global.DefaultSimCores
	}

	parsed.uniqueSignatures = cfg.Faults.UniqueSignatures
	if parsed.uniqueSignatures <= 0 {
		parsed.uniqueSignatures = global.DefaultSimSignatures
	}

	if cfg.RunTime != "" {
		parsed.runTime, err = time.ParseDuration(cfg.RunTime)
		if err != nil {
			err = fmt.Errorf("invalid runTime: %v", err)
			return
		}
	}

	parsed.reportInterval = 1 * time.Millisecond
	if cfg.Faults.ReportInterval != "" {
		parsed.reportInterval, err = time.ParseDuration(cfg.Faults.ReportInterval)
		if err != nil {
			err = fmt.Errorf("invalid reportInterval: %v", err)
			return
		}
	}

	parsed.runtimeShare = cfg.Faults.RuntimeShare
	parsed.transientShare = cfg.Faults.TransientShare
	if parsed.runtimeShare < 0 || parsed.transientShare < 0 ||
		parsed.runtimeShare+parsed.transientShare > 100 {
		err = fmt.Errorf("fault class shares must be 0-100 and sum to at most 100")
		return
	}

	parsed.metricsEnabled = cfg.Metrics.Enabled
	parsed.metricInterval = 1 * time.Second
	if cfg.Metrics.Interval != "" {
		parsed.metricInterval, err = time.ParseDuration(cfg.Metrics.Interval)
		if err != nil {
			err = fmt.Errorf("invalid metric interval: %v", err)
			return
		}
	}
	parsed.metricMaxAge = 10 * time.Minute
	if cfg.Metrics.MaxAge != "" {
		parsed.metricMaxAge, err = time.ParseDuration(cfg.Metrics.MaxAge)
		if err != nil {
			err = fmt.Errorf("invalid metric maxAge: %v", err)
			return
		}
	}
	return
}

// Picks a store size from installed system memory, one slot per 64MiB,
// clamped to the supported slot range
func autoSizeCapacity(totalMemory uint64) (capacity int) {
	capacity = int(totalMemory / bytesPerSlot)
	if capacity < global.MinStoreCapacity {
		capacity = global.MinStoreCapacity
	}
	if capacity > global.MaxStoreCapacity {
		capacity = global.MaxStoreCapacity
	}
	return
}

// Brings up the tracer and starts injector workers in the background
func (harness *Harness) Start(globalCtx context.Context) (err error) {
	// New context for the harness
	harness.ctx, harness.cancel = context.WithCancel(context.Background())
	harness.ctx = context.WithValue(harness.ctx, global.LoggerKey, logctx.GetLogger(globalCtx))

	// Top level tag for harness logs
	harness.ctx = logctx.AppendCtxTag(harness.ctx, global.NSHarness)
	defer func() { harness.ctx = logctx.RemoveLastCtxTag(harness.ctx) }()

	logctx.LogEvent(harness.ctx, global.VerbosityStandard, global.InfoLog, "Starting...\n")

	err = harness.Tracer.Init()
	if err != nil {
		err = fmt.Errorf("failed tracer init: %v", err)
		return
	}
	err = harness.Tracer.Start()
	if err != nil {
		err = fmt.Errorf("failed tracer start: %v", err)
		return
	}

	err = harness.applyFilters()
	if err != nil {
		harness.Tracer.DeInit()
		return
	}

	// Observe notifications at high verbosity only
	callbackCtx := harness.ctx
	err = harness.Tracer.RegisterCallback(func(sig event.Signature) (cbErr error) {
		logctx.LogEvent(callbackCtx, global.VerbosityData, global.InfoLog,
			"notified: module=%d instance=%d api=%d error=%d\n",
			sig.ModuleID, sig.InstanceID, sig.APIID, sig.ErrorID)
		return
	})
	if err != nil {
		err = fmt.Errorf("failed registering notification callback: %v", err)
		harness.Tracer.DeInit()
		return
	}

	// Injector workers
	for id := 0; id < harness.cfg.cores; id++ {
		injector := newInjector(id)
		harness.injectors = append(harness.injectors, injector)

		workerCtx := harness.ctx
		harness.wg.Add(1)
		go func() {
			defer harness.wg.Done()
			injector.run(workerCtx, harness.Tracer, harness.cfg)
		}()
	}

	// Metrics Collector
	if harness.cfg.metricsEnabled {
		harness.gatherer = newGatherer(harness, harness.cfg.metricInterval, harness.cfg.metricMaxAge)
		workerCtx := harness.ctx
		harness.wg.Add(1)
		go func() {
			defer harness.wg.Done()
			harness.gatherer.Run(workerCtx)
		}()
		harness.MetricDataSearcher = harness.gatherer.Registry.Search
		harness.MetricDiscoverer = harness.gatherer.Registry.Discover
	}

	// Bounded run time ends the simulation by itself
	if harness.cfg.runTime > 0 {
		time.AfterFunc(harness.cfg.runTime, harness.cancel)
	}

	logctx.LogEvent(harness.ctx, global.VerbosityStandard, global.InfoLog, "Startup complete.\n")
	return
}

// Loads configured severity thresholds into the tracer
func (harness *Harness) applyFilters() (err error) {
	for _, rule := range harness.raw.Filters {
		var minSeverity event.Severity
		minSeverity, err = event.ParseSeverity(rule.MinSeverity)
		if err != nil {
			err = fmt.Errorf("invalid filter rule: %v", err)
			return
		}

		moduleID := rule.ModuleID
		if rule.Global {
			moduleID = tracer.GlobalModule
		}

		err = harness.Tracer.SetFilter(moduleID, minSeverity)
		if err != nil {
			err = fmt.Errorf("failed applying filter rule: %v", err)
			return
		}
	}
	return
}

// Blocking harness waiter
func (harness *Harness) Run() {
	<-harness.ctx.Done()
}

// Stops injector workers and waits for them to drain. Idempotent.
// The tracer instance stays started so accumulated events remain queryable.
func (harness *Harness) Shutdown() {
	harness.shutdownOnce.Do(harness.shutdown)
}

func (harness *Harness) shutdown() {
	harness.ctx = logctx.AppendCtxTag(harness.ctx, global.NSHarness)
	defer func() { harness.ctx = logctx.RemoveLastCtxTag(harness.ctx) }()

	logctx.LogEvent(harness.ctx, global.VerbosityStandard, global.InfoLog,
		"Harness shutdown started...\n")

	harness.cancel()

	// Wait for all workers to finish (with timeout)
	done := make(chan struct{})
	go func() {
		harness.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logctx.LogEvent(harness.ctx, global.VerbosityStandard, global.InfoLog,
			"Harness shutdown completed successfully\n")
	case <-time.After(global.HarnessShutdownTimeout):
		logctx.LogEvent(harness.ctx, global.VerbosityStandard, global.WarnLog,
			"Timeout: harness workers did not stop within %v seconds\n",
			global.HarnessShutdownTimeout.Seconds())
		return
	}

	summary := harness.Summarize()
	logctx.LogEvent(harness.ctx, global.VerbosityStandard, global.InfoLog,
		"Run summary: sent=%d suppressed=%d rejected=%d live=%d latency(mean=%dns max=%dns over %d samples)\n",
		summary.ReportsSent, summary.Suppressed, summary.Rejected, summary.LiveRecords,
		summary.LatencyMeanNs, summary.LatencyMaxNs, summary.LatencySamples)
}
