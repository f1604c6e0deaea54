// Development-time error tracer: a bounded deduplicating event ledger with
// severity filtering and callback fan-out. Diagnostic aid only, never part
// of a production fault reaction path.
package tracer

import (
	"fmt"
	"sync/atomic"

	"dettrace/pkg/tracer/filter"
	"dettrace/pkg/tracer/notify"
	"dettrace/pkg/tracer/spinlock"
	"dettrace/pkg/tracer/store"
)

// Lifecycle states
const (
	stateUninitialized uint32 = iota
	stateInitialized
	stateStarted
)

// Tracer is one isolated instance of the event ledger.
// Construct explicitly and pass by handle, multiple instances may coexist
// (each test gets its own rather than sharing process state).
type Tracer struct {
	state atomic.Uint32
	cfg   Config

	spin      *spinlock.Lock // Set only on multi-core builds
	events    *store.Store
	filters   *filter.Table
	callbacks *notify.Registry
}

// Tracer constructor. The instance starts uninitialized, reporting is
// rejected until Init and Start have both run.
func New(cfg Config) (tracer *Tracer) {
	tracer = &Tracer{cfg: cfg.normalize()}
	return
}

// Allocates the store and default configuration.
// Rejected unless the instance is uninitialized.
func (tracer *Tracer) Init() (err error) {
	if !tracer.state.CompareAndSwap(stateUninitialized, stateInitialized) {
		err = fmt.Errorf("init rejected: tracer already initialized")
		return
	}

	var guard spinlock.Guard
	if tracer.cfg.MultiCore {
		tracer.spin = spinlock.New(tracer.cfg.SpinBudget, tracer.cfg.SpinPause)
		guard = tracer.spin
	} else {
		guard = spinlock.Nop{}
	}

	tracer.events, err = store.New(tracer.cfg.Capacity, guard, tracer.cfg.Now)
	if err != nil {
		// Roll back so a corrected config can retry
		tracer.state.Store(stateUninitialized)
		err = fmt.Errorf("failed store allocation: %w", err)
		return
	}

	tracer.filters = filter.New()
	tracer.callbacks = notify.New(tracer.cfg.MaxCallbacks, tracer.cfg.UniqueCallbackCheck)
	return
}

// Enables reporting. Rejected unless Init completed.
func (tracer *Tracer) Start() (err error) {
	if !tracer.state.CompareAndSwap(stateInitialized, stateStarted) {
		err = fmt.Errorf("start rejected: tracer not in initialized state")
		return
	}
	return
}

// Discards all accumulated diagnostic history, filters and callbacks and
// returns the instance to its pre-Init state.
// Test/simulation use only, must not be wired into production control flow.
func (tracer *Tracer) DeInit() {
	previous := tracer.state.Swap(stateUninitialized)
	if previous == stateUninitialized {
		return
	}

	tracer.events = nil
	tracer.filters = nil
	tracer.callbacks = nil
	tracer.spin = nil
}

// Whether reporting is currently accepted
func (tracer *Tracer) Started() (started bool) {
	started = tracer.state.Load() == stateStarted
	return
}
