package tracer

import (
	"dettrace/internal/atomics"
	"dettrace/pkg/tracer/event"
)

// Bounded retries for statistic counter updates outside the lock
const statRetries int = 8

// Reports a parameter violation detected by a module.
// Safe to call from multiple cores simultaneously on multi-core builds.
func (tracer *Tracer) ReportEvent(moduleID uint16, instanceID, apiID, errorID uint8, severity Severity) (outcome Outcome) {
	outcome = tracer.report(event.Signature{
		ModuleID:   moduleID,
		InstanceID: instanceID,
		APIID:      apiID,
		ErrorID:    errorID,
	}, severity, nil)
	return
}

// Reports an operational runtime fault. Recorded at error severity and
// counted separately from parameter violations.
func (tracer *Tracer) ReportRuntimeError(moduleID uint16, instanceID, apiID, errorID uint8) (outcome Outcome) {
	outcome = tracer.report(event.Signature{
		ModuleID:   moduleID,
		InstanceID: instanceID,
		APIID:      apiID,
		ErrorID:    errorID,
	}, SeverityError, func() {
		atomics.AddSaturate(&tracer.events.Stats.RuntimeErrors, 1, statRetries)
	})
	return
}

// Reports a transient hardware anomaly. Recorded at warning severity and
// counted separately.
func (tracer *Tracer) ReportTransientFault(moduleID uint16, instanceID, apiID, faultID uint8) (outcome Outcome) {
	outcome = tracer.report(event.Signature{
		ModuleID:   moduleID,
		InstanceID: instanceID,
		APIID:      apiID,
		ErrorID:    faultID,
	}, SeverityWarning, func() {
		atomics.AddSaturate(&tracer.events.Stats.TransientFaults, 1, statRetries)
	})
	return
}

// Common reporting path: lifecycle gate, filter, store update, fan-out.
// The class counter hook runs only for reports that reach the store.
func (tracer *Tracer) report(sig event.Signature, severity Severity, countClass func()) (outcome Outcome) {
	if !traceEnabled {
		// Disabled builds still hand back the success sentinel so call
		// sites need no conditional compilation
		outcome = Success
		return
	}

	if tracer.state.Load() != stateStarted {
		outcome = NotStarted
		return
	}
	if !severity.Valid() {
		outcome = InvalidParam
		return
	}

	if tracer.cfg.FilterEnabled && severity < tracer.filters.Threshold(sig.ModuleID) {
		atomics.AddSaturate(&tracer.events.Stats.Suppressed, 1, statRetries)
		outcome = Suppressed
		return
	}

	tracer.events.Report(sig, severity)
	if countClass != nil {
		countClass()
	}

	// Fan-out happens after the store lock is released, in registration
	// order. Failures are observed, never escalated.
	failures := tracer.callbacks.Invoke(sig)
	if failures > 0 {
		atomics.AddSaturate(&tracer.events.Stats.CallbackFailures, uint64(failures), statRetries)
	}

	outcome = Success
	return
}
