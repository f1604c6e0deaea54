package tracer

import (
	"time"

	"dettrace/internal/global"
	"dettrace/pkg/tracer/monotime"
)

// Build-time equivalents of the firmware configuration constants.
// Zero values select the documented defaults.
type Config struct {
	Capacity     int // Event store slots (one per unique signature)
	MaxCallbacks int // Notification registry slots

	MultiCore           bool // Enables the bounded-spin store lock
	FilterEnabled       bool // Enables severity threshold evaluation
	UniqueCallbackCheck bool // Duplicate identity scan on registration (debug builds)

	SpinBudget int           // Lock acquire attempts before forcing
	SpinPause  time.Duration // Busy-wait between failed attempts

	Now func() (stamp uint64) // Timestamp source override for tests
}

// Fills unset fields with defaults
func (cfg Config) normalize() (normalized Config) {
	normalized = cfg

	if normalized.Capacity <= 0 {
		normalized.Capacity = global.DefaultStoreCapacity
	}
	if normalized.MaxCallbacks <= 0 {
		normalized.MaxCallbacks = global.DefaultMaxCallbacks
	}
	if normalized.MaxCallbacks > global.MaxCallbackSlots {
		normalized.MaxCallbacks = global.MaxCallbackSlots
	}
	if normalized.SpinBudget <= 0 {
		normalized.SpinBudget = global.DefaultSpinBudget
	}
	if normalized.SpinPause <= 0 {
		normalized.SpinPause = global.DefaultSpinPause
	}
	if normalized.Now == nil {
		normalized.Now = monotime.Now
	}
	return
}
