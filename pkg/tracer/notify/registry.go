// Bounded append-only callback registry for post-report notification
package notify

import (
	"fmt"
	"reflect"

	"dettrace/pkg/tracer/event"
)

// Callback receives the identifying fields of every recorded event.
// The returned error is observed by the caller but never alters store state.
type Callback func(sig event.Signature) error

// Registry holds caller supplied callbacks in registration order.
// Registration is append-only, there is no removal. Not safe to call
// concurrently with itself or with reporting.
type Registry struct {
	callbacks   []Callback
	capacity    int
	uniqueCheck bool // Duplicate identity scan on every Register, debug builds only
}

// Registry constructor
func New(capacity int, uniqueCheck bool) (registry *Registry) {
	if capacity < 1 {
		capacity = 1
	}

	registry = &Registry{
		callbacks:   make([]Callback, 0, capacity),
		capacity:    capacity,
		uniqueCheck: uniqueCheck,
	}
	return
}

// Appends a callback. Rejects nil, rejects when full, and with the
// uniqueness check enabled rejects exact duplicate identities.
func (registry *Registry) Register(callback Callback) (err error) {
	if callback == nil {
		err = fmt.Errorf("callback must not be nil")
		return
	}
	if len(registry.callbacks) >= registry.capacity {
		err = fmt.Errorf("callback registry full (%d slots)", registry.capacity)
		return
	}

	if registry.uniqueCheck {
		newIdentity := reflect.ValueOf(callback).Pointer()
		for _, existing := range registry.callbacks {
			if reflect.ValueOf(existing).Pointer() == newIdentity {
				err = fmt.Errorf("callback already registered")
				return
			}
		}
	}

	registry.callbacks = append(registry.callbacks, callback)
	return
}

// Invokes every callback once, in registration order.
// Best-effort: callback failures are counted, never propagated.
func (registry *Registry) Invoke(sig event.Signature) (failures int) {
	for _, callback := range registry.callbacks {
		err := callback(sig)
		if err != nil {
			failures++
		}
	}
	return
}

// Number of registered callbacks
func (registry *Registry) Len() (count int) {
	count = len(registry.callbacks)
	return
}

// Empties the registry (deinit path only)
func (registry *Registry) Clear() {
	registry.callbacks = registry.callbacks[:0]
}
