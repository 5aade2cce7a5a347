package solidcore

// Shape is an opaque solid produced by a Kernel. Its concrete type belongs to
// the kernel that produced it; everything above the kernel treats it as an
// immutable, cheaply-shareable value. Copying a Shape never copies geometry.
type Shape any

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	MinX, MinY, MinZ float64
	MaxX, MaxY, MaxZ float64
}

// BoolOp selects a boolean algorithm.
type BoolOp uint8

const (
	BoolFuse   BoolOp = iota // union of target and tool
	BoolCut                  // target minus tool
	BoolCommon               // intersection of target and tool
)

// String returns the canonical operation name.
func (op BoolOp) String() string {
	switch op {
	case BoolFuse:
		return "fuse"
	case BoolCut:
		return "cut"
	case BoolCommon:
		return "common"
	}
	return "unknown"
}

// ParseBoolOp maps a caller-supplied operation name to a BoolOp. Both the
// "union"/"fuse" and "common"/"intersect" spellings are accepted. Unknown
// names are rejected, never defaulted.
func ParseBoolOp(name string) (BoolOp, bool) {
	switch name {
	case "union", "fuse":
		return BoolFuse, true
	case "cut":
		return BoolCut, true
	case "common", "intersect":
		return BoolCommon, true
	}
	return 0, false
}

// Kernel is the geometry-kernel collaborator. Implementations supply the
// actual geometry algorithms; callers must not assume anything about a Shape
// beyond what Kernel methods expose.
//
// All methods are synchronous and may take arbitrarily long. Implementations
// that are not internally reentrant must serialize their own calls; the
// registry lock above never covers kernel computation.
type Kernel interface {
	// Init prepares the kernel. resourcePath points at auxiliary kernel data
	// and may be empty.
	Init(resourcePath string) error

	// Load parses model bytes, auto-detecting the interchange format.
	// filenameHint is advisory (diagnostics only).
	Load(filenameHint string, data []byte) (Shape, error)

	// Export serializes a shape to the kernel's primary interchange format.
	Export(s Shape) ([]byte, error)

	// Bounds computes the axis-aligned bounding box of a shape.
	Bounds(s Shape) (Bounds, error)

	// Boolean derives a new shape from target and tool. tolerance is the
	// kernel's fuzzy-match control and is passed through untouched.
	Boolean(target, tool Shape, op BoolOp, tolerance float64) (Shape, error)

	// Fillet rounds the given edges of target with the given radius.
	Fillet(target Shape, edgeIDs []uint64, radius, tolerance float64) (Shape, error)

	// Mesh triangulates a shape and renders the position/triangle text
	// export. A deflection <= 0 selects the kernel default.
	Mesh(s Shape, deflection float64, linear bool) ([]byte, error)
}
