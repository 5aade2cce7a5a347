// Package facade implements the handle-based operation surface over a
// geometry kernel.
//
// Every operation follows the same protocol: validate that the required
// handles exist, copy the shapes out of the registry under its lock, release
// the lock, invoke the kernel, and only then register the result. A failed
// operation registers nothing and allocates nothing; a kernel panic is
// recovered at this layer and reported as an algorithm error.
//
// A Facade is an explicit object, not process-global state. Independent
// facades own independent registries, which keeps tests deterministic and
// lets one process serve several isolated kernel instances.
package facade
