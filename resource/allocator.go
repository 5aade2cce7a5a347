package resource

import "sync/atomic"

// Allocator issues unique handles from a thread-safe monotonic counter.
// The first handle issued is 1; 0 is never returned. Handles are never
// reused. 64-bit exhaustion is treated as unreachable.
type Allocator struct {
	next atomic.Uint64
}

// NewAllocator creates an allocator whose first Issue returns 1.
func NewAllocator() *Allocator {
	return &Allocator{}
}

// Issue returns the next handle.
func (a *Allocator) Issue() Handle {
	return Handle(a.next.Add(1))
}
