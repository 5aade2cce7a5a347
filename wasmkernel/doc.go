// Package wasmkernel runs a geometry kernel compiled to WebAssembly behind
// the solidcore.Kernel interface, using wazero as the embedded runtime.
//
// The guest module owns every shape; the host only ever sees opaque guest
// handles. All guest calls are serialized by one mutex because core wasm
// instances are single-threaded. Variable-length results cross the boundary
// through guest memory allocated with kernel_alloc and returned with
// kernel_free, and every guest diagnostic arrives as a NUL-terminated string
// in a host-owned slot inside guest memory.
package wasmkernel
