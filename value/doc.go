// Package value is the value-semantics facade: a Solid is an immutable value
// carrying its kernel and shape, and every operation returns a new Solid
// instead of mutating the receiver or touching a registry.
//
// Solids convert to and from the handle world without copying geometry:
// facade.Adopt registers a Solid's shape under a handle, and Wrap turns a
// shape obtained from facade.Share back into a Solid. Both sides then
// reference the same immutable kernel object.
package value
