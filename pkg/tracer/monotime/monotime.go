// Monotonic timestamp source for event ordering
package monotime

import (
	"sync/atomic"

	"golang.org/x/sys/unix"
)

var fallbackCounter atomic.Uint64

// Returns an opaque monotonically increasing value in nanoseconds.
// Values are only meaningful relative to each other within one runtime.
func Now() (stamp uint64) {
	var ts unix.Timespec
	err := unix.ClockGettime(unix.CLOCK_MONOTONIC_RAW, &ts)
	if err != nil {
		// Clock read failure, order is still preserved via counter
		stamp = fallbackCounter.Add(1)
		return
	}

	stamp = uint64(ts.Sec)*1_000_000_000 + uint64(ts.Nsec)
	return
}
