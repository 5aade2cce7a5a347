package meshkernel

import (
	"fmt"

	"github.com/qutlas/solidcore"
	"github.com/qutlas/solidcore/errors"
)

// DefaultDeflection is the tessellation deflection used when a caller passes
// a non-positive value.
const DefaultDeflection = 0.1

// formatNames lists the supported interchange formats in detection priority
// order, as reported in parse diagnostics.
var formatNames = []string{"STL (binary)", "STL (ASCII)", "OBJ"}

// Kernel implements solidcore.Kernel over immutable triangle meshes. The
// zero value is ready to use; New exists for symmetry with other kernels.
// All methods are safe for concurrent use because meshes are immutable.
type Kernel struct{}

// New returns a ready mesh kernel.
func New() *Kernel {
	return &Kernel{}
}

// Init accepts and ignores resourcePath; the mesh kernel carries no
// auxiliary resources.
func (k *Kernel) Init(resourcePath string) error {
	return nil
}

// Load parses model bytes by trying each supported format in priority
// order. The first successful parse wins. filenameHint is not used for
// detection, only echoed in diagnostics.
func (k *Kernel) Load(filenameHint string, data []byte) (solidcore.Shape, error) {
	if len(data) == 0 {
		return nil, errors.Input("load", "empty input data")
	}

	decoders := []func([]byte) (*Mesh, error){
		decodeBinarySTL,
		decodeASCIISTL,
		decodeOBJ,
	}
	for _, decode := range decoders {
		if mesh, err := decode(data); err == nil {
			return mesh, nil
		}
	}

	err := errors.Parse("load", formatNames)
	if filenameHint != "" {
		err.Detail += fmt.Sprintf(" (input %q)", filenameHint)
	}
	return nil, err
}

// Export serializes a shape to binary STL, the kernel's primary interchange
// format.
func (k *Kernel) Export(s solidcore.Shape) ([]byte, error) {
	mesh, err := k.mesh("export", s)
	if err != nil {
		return nil, err
	}
	return encodeBinarySTL(mesh), nil
}

// Bounds computes the axis-aligned bounding box of a shape.
func (k *Kernel) Bounds(s solidcore.Shape) (solidcore.Bounds, error) {
	mesh, err := k.mesh("bounds", s)
	if err != nil {
		return solidcore.Bounds{}, err
	}
	return mesh.Bounds(), nil
}

// Boolean derives a new shape. Inputs are untouched; the result is a fresh
// mesh even when one side contributes every triangle.
func (k *Kernel) Boolean(target, tool solidcore.Shape, op solidcore.BoolOp, tolerance float64) (solidcore.Shape, error) {
	targetMesh, err := k.mesh("boolean", target)
	if err != nil {
		return nil, err
	}
	toolMesh, err := k.mesh("boolean", tool)
	if err != nil {
		return nil, err
	}
	if targetMesh.TriangleCount() == 0 || toolMesh.TriangleCount() == 0 {
		return nil, errors.Algorithm("boolean", op.String()+" of empty operand did not complete")
	}
	return boolean(targetMesh, toolMesh, op, tolerance), nil
}

// Fillet is a stub: it accepts the full parameter set but applies no
// geometry change, handing the same immutable mesh back so the facade can
// register it under a new handle. Real fillet support is tracked as an open
// enhancement; callers must not rely on rounded edges.
func (k *Kernel) Fillet(target solidcore.Shape, edgeIDs []uint64, radius, tolerance float64) (solidcore.Shape, error) {
	mesh, err := k.mesh("fillet", target)
	if err != nil {
		return nil, err
	}
	_ = edgeIDs
	_ = radius
	_ = tolerance
	return mesh, nil
}

// Mesh triangulates a shape and renders the text export. deflection <= 0
// selects DefaultDeflection. A faceted mesh is already its own
// triangulation, so deflection and linear only participate in parameter
// validation here.
func (k *Kernel) Mesh(s solidcore.Shape, deflection float64, linear bool) ([]byte, error) {
	mesh, err := k.mesh("mesh", s)
	if err != nil {
		return nil, err
	}
	if deflection <= 0 {
		deflection = DefaultDeflection
	}
	_ = deflection
	_ = linear
	return encodeMeshText(mesh), nil
}

// mesh narrows an opaque shape back to this kernel's mesh type.
func (k *Kernel) mesh(op string, s solidcore.Shape) (*Mesh, error) {
	mesh, ok := s.(*Mesh)
	if !ok || mesh == nil {
		return nil, errors.Input(op, fmt.Sprintf("shape %T does not belong to the mesh kernel", s))
	}
	return mesh, nil
}
