// Shared event identity and record types for the development error tracer
package event

import "fmt"

// Severity classes ordered for threshold filtering.
// Zero is reserved so an unset value never passes validation.
type Severity uint8

const (
	SeverityWarning Severity = iota + 1
	SeverityError
	SeverityFatal
)

// Stringify severity
func (severity Severity) String() (text string) {
	switch severity {
	case SeverityWarning:
		text = "warning"
	case SeverityError:
		text = "error"
	case SeverityFatal:
		text = "fatal"
	default:
		text = fmt.Sprintf("severity(%d)", uint8(severity))
	}
	return
}

// Checks severity is one of the defined classes
func (severity Severity) Valid() (valid bool) {
	valid = severity >= SeverityWarning && severity <= SeverityFatal
	return
}

// Converts config text to severity
func ParseSeverity(text string) (severity Severity, err error) {
	switch text {
	case "warning":
		severity = SeverityWarning
	case "error":
		severity = SeverityError
	case "fatal":
		severity = SeverityFatal
	default:
		err = fmt.Errorf("unknown severity '%s'", text)
	}
	return
}

// Identity of one unique error class.
// Two reports with equal signatures collapse into one stored record.
type Signature struct {
	ModuleID   uint16 // Reporting subsystem
	InstanceID uint8  // Disambiguates multiple instances of a module
	APIID      uint8  // Call site within the module
	ErrorID    uint8  // Module-local error code
}

// One deduplicated stored error
type Record struct {
	Signature
	Severity    Severity
	Timestamp   uint64 // Opaque monotonic value, refreshed on every repeat
	Occurrences uint32 // Saturates instead of wrapping
}
