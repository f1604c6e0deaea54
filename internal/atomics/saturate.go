// Helper functions that deal with atomic variables and their values
package atomics

import (
	"math"
	"sync/atomic"
	"time"
)

// Tries to add value to the atomic source, clamping at the max representable
// value instead of wrapping. Success if already saturated.
// It retries up to maxRetries times if the CAS fails due to contention.
// Has exponential backoff, unbounded (use wisely).
func AddSaturate(source *atomic.Uint64, value uint64, maxRetries int) (success bool) {
	retryInterval := time.Microsecond * 10

	for i := 0; i < maxRetries; i++ {
		current := source.Load()

		if current == math.MaxUint64 {
			success = true
			return
		}

		var newValue uint64
		if value > math.MaxUint64-current {
			newValue = math.MaxUint64
		} else {
			newValue = current + value
		}

		// CAS will only succeed if the value has not changed since we last read it.
		if source.CompareAndSwap(current, newValue) {
			success = true
			return
		}

		// CAS failed due to contention, retry
		time.Sleep(retryInterval)
		retryInterval = retryInterval * 2
	}

	success = false // gave up after max attempts
	return
}

// Adds value to counter clamping at the max representable uint32
func SaturateAdd32(counter uint32, value uint32) (sum uint32) {
	if value > math.MaxUint32-counter {
		sum = math.MaxUint32
		return
	}
	sum = counter + value
	return
}
