// Package resource provides handle allocation and the registry that maps
// handles to opaque kernel resources.
//
// # Handles
//
// A Handle is an opaque uint64. Handle 0 is reserved and always invalid.
// The Allocator issues handles from a monotonic counter and never reuses
// one, even after its entry is erased: a stale handle misses the registry
// instead of aliasing onto a resource registered later.
//
// # Registry
//
// The Registry maps handles to values of one resource type:
//
//	reg := resource.NewRegistry[Shape]()
//
//	// Insert a value, get a handle
//	h := reg.Insert(shape)
//
//	// Copy the value out by handle
//	shape, ok := reg.Lookup(h)
//
//	// Erase the entry (reports whether it existed)
//	existed := reg.Erase(h)
//
// All registry operations serialize through a single lock covering the whole
// map. Lookup copies the value out and releases the lock before returning,
// so the lock is never held across kernel computation; values must therefore
// be immutable and cheap to copy.
//
// # Observers
//
// Register observers to track entry lifecycle events:
//
//	reg.Subscribe(obs) // obs.OnRegistryEvent(Event) on insert/erase
package resource
