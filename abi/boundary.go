package abi

import (
	"github.com/qutlas/solidcore/facade"
	"github.com/qutlas/solidcore/resource"
)

// Boundary is the flat operation surface over one facade. Handle 0 is the
// universal failure sentinel; boolean-returning calls report 1 for success
// and 0 for failure. No expected failure crosses this surface as a panic.
type Boundary struct {
	facade *facade.Facade
}

// NewBoundary wraps f in the flat boundary convention.
func NewBoundary(f *facade.Facade) *Boundary {
	return &Boundary{facade: f}
}

// Facade returns the wrapped facade, for callers that outgrow the flat
// surface.
func (b *Boundary) Facade() *facade.Facade {
	return b.facade
}

// Init prepares the kernel. Returns 1 on success, 0 on failure.
func (b *Boundary) Init(resourcePath string, errBuf []byte) int32 {
	if err := b.facade.Init(resourcePath); err != nil {
		WriteError(errBuf, err)
		return 0
	}
	return 1
}

// LoadFromMemory parses model bytes. Returns the new handle, or 0 on
// failure with no handle allocated.
func (b *Boundary) LoadFromMemory(filenameHint string, data []byte, errBuf []byte) uint64 {
	h, err := b.facade.Load(filenameHint, data)
	if err != nil {
		WriteError(errBuf, err)
		return 0
	}
	return uint64(h)
}

// ExportPrimary serializes the shape under h to the primary interchange
// format. On success exactly one Buffer is allocated and ownership
// transfers to the caller; on failure nil is returned and nothing is
// allocated.
func (b *Boundary) ExportPrimary(h uint64, errBuf []byte) *Buffer {
	out, err := b.facade.Export(resource.Handle(h))
	if err != nil {
		WriteError(errBuf, err)
		return nil
	}
	return newBuffer(out)
}

// GetBounds writes min/max extents into out. Returns 1 on success, 0 on
// failure with out untouched.
func (b *Boundary) GetBounds(h uint64, out *[6]float64, errBuf []byte) int32 {
	bounds, err := b.facade.Bounds(resource.Handle(h))
	if err != nil {
		WriteError(errBuf, err)
		return 0
	}
	out[0], out[1], out[2] = bounds.MinX, bounds.MinY, bounds.MinZ
	out[3], out[4], out[5] = bounds.MaxX, bounds.MaxY, bounds.MaxZ
	return 1
}

// Boolean derives a new shape from target and tool. opName accepts
// union/fuse, cut, and common/intersect; anything else fails with an
// "unknown boolean operation" diagnostic regardless of handle validity.
func (b *Boundary) Boolean(target, tool uint64, opName string, tolerance float64, errBuf []byte) uint64 {
	h, err := b.facade.Boolean(resource.Handle(target), resource.Handle(tool), opName, tolerance)
	if err != nil {
		WriteError(errBuf, err)
		return 0
	}
	return uint64(h)
}

// Fillet registers a derivation of target. See the facade for the stub
// caveat.
func (b *Boundary) Fillet(target uint64, edgeIDs []uint64, radius, tolerance float64, errBuf []byte) uint64 {
	h, err := b.facade.Fillet(resource.Handle(target), edgeIDs, radius, tolerance)
	if err != nil {
		WriteError(errBuf, err)
		return 0
	}
	return uint64(h)
}

// GenerateMeshExport triangulates the shape under h and returns the text
// mesh export under the buffer-ownership protocol.
func (b *Boundary) GenerateMeshExport(h uint64, deflection float64, linear bool, errBuf []byte) *Buffer {
	out, err := b.facade.MeshExport(resource.Handle(h), deflection, linear)
	if err != nil {
		WriteError(errBuf, err)
		return nil
	}
	return newBuffer(out)
}

// FreeBuffer releases a buffer produced by this boundary. nil is a no-op.
func (b *Boundary) FreeBuffer(buf *Buffer) {
	freeBuffer(buf)
}

// Release erases the handle. Returns 1 on success; releasing a missing or
// already-released handle returns 0 with a not-found diagnostic.
func (b *Boundary) Release(h uint64, errBuf []byte) int32 {
	if err := b.facade.Release(resource.Handle(h)); err != nil {
		WriteError(errBuf, err)
		return 0
	}
	return 1
}
