// Package abi flattens the facade into the classic flat boundary
// convention: handle 0 as the universal failure sentinel, int 1/0 for
// boolean success, caller-owned fixed-capacity error buffers, and explicit
// buffer-ownership transfer for variable-length results.
//
// # Error Channel
//
// Every fallible operation takes a caller-owned byte slice. On failure a
// NUL-terminated diagnostic is written, truncated to the slice's capacity;
// on success the slice is left untouched. A nil or empty slice means the
// caller declines diagnostics and is never itself an error.
//
// # Buffer Ownership
//
// Operations returning variable-length bytes allocate exactly one Buffer on
// success and nothing on failure. Ownership transfers to the caller, who
// must release it with FreeBuffer. Freeing nil is a no-op. Freeing a Buffer
// twice, or using one after freeing it, is undefined behavior: the backing
// storage is recycled, not reference-counted. This is a documented caller
// obligation.
package abi
