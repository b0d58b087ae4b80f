package crossing

import "sync"

// Observer reacts to office-region state changes. Implementations are
// notified on every confirmed platform callback, even when the reported value
// matches the previous one.
type Observer interface {
	RegionStateChanged(entered bool)
}

// Registry fans region-state changes out to registered observers so the
// monitor does not need to know its consumers. Observers are held by explicit
// registration and must Remove themselves when they go away; there is no
// weak-reference pruning.
type Registry struct {
	mu        sync.Mutex
	observers []Observer
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds the observer unless the same observer is already present.
// Re-registering is a no-op, so registration order is stable.
func (r *Registry) Register(o Observer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.observers {
		if existing == o {
			return
		}
	}
	r.observers = append(r.observers, o)
}

// Remove drops the observer by identity. Removing an unknown observer is a
// no-op.
func (r *Registry) Remove(o Observer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.observers {
		if existing == o {
			r.observers = append(r.observers[:i], r.observers[i+1:]...)
			return
		}
	}
}

// Notify invokes RegionStateChanged on every observer, in registration order,
// synchronously with respect to the triggering callback.
func (r *Registry) Notify(entered bool) {
	r.mu.Lock()
	snapshot := make([]Observer, len(r.observers))
	copy(snapshot, r.observers)
	r.mu.Unlock()

	for _, o := range snapshot {
		o.RegionStateChanged(entered)
	}
}

// Len returns the number of registered observers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.observers)
}
