package resource

import (
	"sync"
)

// Registry is a concurrency-safe mapping from Handle to a resource value.
// Values are expected to be immutable and cheap to copy; Lookup hands back
// a copy so callers never touch registry storage after the lock is released.
type Registry[T any] struct {
	alloc     *Allocator
	entries   map[Handle]T
	observers []Observer
	mu        sync.RWMutex
	obsMu     sync.RWMutex
}

// NewRegistry creates an empty registry with its own allocator.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{
		alloc:   NewAllocator(),
		entries: make(map[Handle]T),
	}
}

// Insert stores value under a freshly issued handle and returns it.
// The handle is not observable by other callers before Insert returns.
func (r *Registry[T]) Insert(value T) Handle {
	h := r.alloc.Issue()

	r.mu.Lock()
	r.entries[h] = value
	r.mu.Unlock()

	r.notify(Event{Handle: h, Type: EventInserted})
	return h
}

// Lookup copies the value registered under h. The second result is false for
// handles never issued or already erased.
func (r *Registry[T]) Lookup(h Handle) (T, bool) {
	r.mu.RLock()
	value, ok := r.entries[h]
	r.mu.RUnlock()
	return value, ok
}

// Erase removes the entry under h and reports whether it existed. The handle
// is retired either way; it will never resolve again.
func (r *Registry[T]) Erase(h Handle) bool {
	r.mu.Lock()
	_, ok := r.entries[h]
	if ok {
		delete(r.entries, h)
	}
	r.mu.Unlock()

	if ok {
		r.notify(Event{Handle: h, Type: EventErased})
	}
	return ok
}

// Len returns the number of live entries.
func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Each calls fn for every live entry until fn returns false. The snapshot is
// taken under the lock; fn runs without it.
func (r *Registry[T]) Each(fn func(Handle, T) bool) {
	r.mu.RLock()
	handles := make([]Handle, 0, len(r.entries))
	values := make([]T, 0, len(r.entries))
	for h, v := range r.entries {
		handles = append(handles, h)
		values = append(values, v)
	}
	r.mu.RUnlock()

	for i, h := range handles {
		if !fn(h, values[i]) {
			return
		}
	}
}

// Clear erases every entry. Teardown is best-effort: values are simply
// dropped for the garbage collector.
func (r *Registry[T]) Clear() {
	r.mu.Lock()
	handles := make([]Handle, 0, len(r.entries))
	for h := range r.entries {
		handles = append(handles, h)
	}
	r.entries = make(map[Handle]T)
	r.mu.Unlock()

	for _, h := range handles {
		r.notify(Event{Handle: h, Type: EventErased})
	}
}

// Subscribe adds an observer for lifecycle events.
func (r *Registry[T]) Subscribe(o Observer) {
	r.obsMu.Lock()
	defer r.obsMu.Unlock()
	r.observers = append(r.observers, o)
}

// Unsubscribe removes an observer.
func (r *Registry[T]) Unsubscribe(o Observer) {
	r.obsMu.Lock()
	defer r.obsMu.Unlock()
	for i, obs := range r.observers {
		if obs == o {
			r.observers = append(r.observers[:i], r.observers[i+1:]...)
			return
		}
	}
}

func (r *Registry[T]) notify(e Event) {
	r.obsMu.RLock()
	defer r.obsMu.RUnlock()
	for _, o := range r.observers {
		o.OnRegistryEvent(e)
	}
}
