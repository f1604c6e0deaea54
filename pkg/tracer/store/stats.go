package store

// Copies all counters without taking the store lock
func (eventStore *Store) Snapshot() (snap Snapshot) {
	snap = Snapshot{
		TotalEvents:      eventStore.Stats.TotalEvents.Load(),
		UniqueSignatures: eventStore.Stats.UniqueSignatures.Load(),
		Overflows:        eventStore.Stats.Overflows.Load(),
		RuntimeErrors:    eventStore.Stats.RuntimeErrors.Load(),
		TransientFaults:  eventStore.Stats.TransientFaults.Load(),
		Suppressed:       eventStore.Stats.Suppressed.Load(),
		Warnings:         eventStore.Stats.Warnings.Load(),
		Errors:           eventStore.Stats.Errors.Load(),
		Fatals:           eventStore.Stats.Fatals.Load(),
		CallbackFailures: eventStore.Stats.CallbackFailures.Load(),
	}
	return
}

// Zeroes every statistic counter
func (eventStore *Store) resetStats() {
	eventStore.Stats.TotalEvents.Store(0)
	eventStore.Stats.UniqueSignatures.Store(0)
	eventStore.Stats.Overflows.Store(0)
	eventStore.Stats.RuntimeErrors.Store(0)
	eventStore.Stats.TransientFaults.Store(0)
	eventStore.Stats.Suppressed.Store(0)
	eventStore.Stats.Warnings.Store(0)
	eventStore.Stats.Errors.Store(0)
	eventStore.Stats.Fatals.Store(0)
	eventStore.Stats.CallbackFailures.Store(0)
}
