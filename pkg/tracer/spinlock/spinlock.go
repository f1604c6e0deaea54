// Bounded-wait test-and-set lock for the shared event store on multi-core builds
package spinlock

import (
	"sync/atomic"
	"time"
)

// Guard protects the event store critical section.
// Implementations must be safe for concurrent use.
type Guard interface {
	Acquire()
	Release()
}

// Lock spins on an atomic flag with a fixed retry budget.
// When the budget is exhausted the flag is forced to held and acquisition
// proceeds anyway. That trades strict mutual exclusion for liveness and is
// only acceptable because the protected section is tiny. Every forced
// acquisition is counted separately so the degraded path stays visible.
type Lock struct {
	held   atomic.Bool
	forced atomic.Uint64

	budget int           // Max CAS attempts before forcing
	pause  time.Duration // Busy-wait between failed attempts
}

// Lock constructor. Non-positive inputs select the provided defaults.
func New(budget int, pause time.Duration) (lock *Lock) {
	if budget <= 0 {
		budget = 1000
	}
	if pause <= 0 {
		pause = 1 * time.Microsecond
	}

	lock = &Lock{
		budget: budget,
		pause:  pause,
	}
	return
}

// Spins until the flag is taken or the budget runs out.
// Budget exhaustion forcibly takes the flag regardless of the current holder.
func (lock *Lock) Acquire() {
	for attempt := 0; attempt < lock.budget; attempt++ {
		if lock.held.CompareAndSwap(false, true) {
			return
		}
		time.Sleep(lock.pause)
	}

	// Holder exceeded the wait budget, break the lock rather than deadlock
	lock.held.Store(true)
	lock.forced.Add(1)
}

// Releases the flag. Atomic store publishes all writes made while held.
func (lock *Lock) Release() {
	lock.held.Store(false)
}

// Count of acquisitions that had to force the flag
func (lock *Lock) ForcedAcquires() (count uint64) {
	count = lock.forced.Load()
	return
}

// Nop compiles the guard away on single-core builds.
// The store is then not safe against concurrent access and callers must
// serialize reporting externally.
type Nop struct{}

func (Nop) Acquire() {}
func (Nop) Release() {}
