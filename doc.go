// Package solidcore exposes a solid-geometry kernel to embedding hosts
// through a stable, failure-as-value boundary.
//
// The geometry algorithms themselves (primitive construction, booleans,
// meshing, file I/O) live behind the Kernel interface and are treated as a
// black box. What this module owns is the resource lifecycle and the
// cross-boundary protocol around that black box.
//
// # Architecture Overview
//
// The library is organized into flat packages with distinct responsibilities:
//
//	solidcore/        Root package with the Kernel, Shape and Bounds contracts
//	├── resource/     Handle allocation and the concurrency-safe registry
//	├── errors/       Structured kind+operation error types
//	├── facade/       Handle-based operation surface (load, boolean, mesh, ...)
//	├── abi/          Flat boundary: error channel and buffer-ownership protocol
//	├── meshkernel/   Pure Go triangle-mesh kernel (STL/OBJ, box, CSG)
//	├── wasmkernel/   wazero-backed kernel compiled to WebAssembly
//	├── value/        Value-semantics facade for scripting hosts
//	└── cmd/          CLI with an interactive registry inspector
//
// # Quick Start
//
// Load a model and mesh it through the handle facade:
//
//	f := facade.New(meshkernel.New())
//
//	h, err := f.Load("part.stl", stlBytes)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer f.Release(h)
//
//	obj, err := f.MeshExport(h, 0.1, true)
//	fmt.Printf("%d bytes of mesh\n", len(obj))
//
// # Handles
//
// Every loaded or derived solid is registered under an opaque uint64 handle.
// Handle 0 is never valid. Handles are issued monotonically and never reused,
// so a stale handle misses the registry instead of aliasing onto a newer
// resource. Shapes are immutable once registered; every derivation produces a
// new shape under a new handle.
//
// # Thread Safety
//
// Facade and Registry are safe for concurrent use. The registry lock covers
// only map access; shape values are copied out before any kernel computation
// runs, so a long boolean never blocks unrelated lookups. Calls are fully
// synchronous: there is no cancellation, and a running kernel operation
// cannot be aborted.
//
// # Failure Model
//
// No expected failure crosses the boundary as a panic. Kernel panics are
// recovered at the facade and converted to algorithm errors. Each error
// carries a machine-checkable kind plus a diagnostic message; the abi package
// flattens both to the classic sentinel-plus-text convention.
package solidcore
