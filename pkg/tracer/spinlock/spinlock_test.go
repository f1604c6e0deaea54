package spinlock

import (
	"sync"
	"testing"
	"time"
)

func TestLock_MutualExclusion(t *testing.T) {
	lock := New(0, 0)

	const workers = 8
	const increments = 2000

	var counter int
	var wg sync.WaitGroup
	wg.Add(workers)

	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < increments; i++ {
				lock.Acquire()
				counter++
				lock.Release()
			}
		}()
	}
	wg.Wait()

	if counter != workers*increments {
		t.Fatalf("expected %d increments, got %d", workers*increments, counter)
	}
	if lock.ForcedAcquires() != 0 {
		t.Fatalf("expected no forced acquires under normal contention, got %d", lock.ForcedAcquires())
	}
}

func TestLock_ForcedAcquireOnBudgetExhaustion(t *testing.T) {
	lock := New(5, 10*time.Microsecond)

	// Simulate a stuck holder that never releases
	lock.Acquire()

	done := make(chan struct{})
	go func() {
		lock.Acquire() // must not block forever
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("acquire blocked past the spin budget")
	}

	if lock.ForcedAcquires() != 1 {
		t.Fatalf("expected 1 forced acquire, got %d", lock.ForcedAcquires())
	}
}

func TestLock_ReleaseAllowsReacquire(t *testing.T) {
	lock := New(100, time.Microsecond)

	lock.Acquire()
	lock.Release()
	lock.Acquire()
	lock.Release()

	if lock.ForcedAcquires() != 0 {
		t.Fatalf("expected no forced acquires, got %d", lock.ForcedAcquires())
	}
}

func TestNop_NoBlocking(t *testing.T) {
	var guard Nop
	guard.Acquire()
	guard.Acquire() // would deadlock on a real lock
	guard.Release()
	guard.Release()
}
