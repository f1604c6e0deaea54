package tracer

import (
	"dettrace/pkg/tracer/event"
	"dettrace/pkg/tracer/filter"
	"dettrace/pkg/tracer/notify"
)

// Severity classes re-exported so callers only import this package
type Severity = event.Severity

const (
	SeverityWarning = event.SeverityWarning
	SeverityError   = event.SeverityError
	SeverityFatal   = event.SeverityFatal
)

// Callback invoked once per recorded event after the store lock is released
type Callback = notify.Callback

// Module id sentinel addressing the global filter fallback
const GlobalModule uint16 = filter.GlobalModule

// Result of a reporting call. Callers conventionally ignore it and continue
// their own error path.
type Outcome uint8

const (
	Success    Outcome = iota
	Suppressed         // Counted but below the module's severity threshold
	NotStarted         // Tracer lifecycle state rejected the report
	InvalidParam
)

// Stringify outcome
func (outcome Outcome) String() (text string) {
	switch outcome {
	case Success:
		text = "success"
	case Suppressed:
		text = "suppressed"
	case NotStarted:
		text = "not started"
	case InvalidParam:
		text = "invalid parameter"
	default:
		text = "unknown"
	}
	return
}

// Reporting succeeded from the caller's point of view (suppression included)
func (outcome Outcome) OK() (ok bool) {
	ok = outcome == Success || outcome == Suppressed
	return
}
