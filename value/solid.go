package value

import (
	"fmt"

	"github.com/qutlas/solidcore"
	"github.com/qutlas/solidcore/errors"
)

// Solid is an immutable solid value. The zero Solid is empty and every
// operation on it fails with an input error. Solids are cheap to copy and
// safe to share; copying never copies geometry.
type Solid struct {
	kernel solidcore.Kernel
	shape  solidcore.Shape
}

// Load parses model bytes with k and returns the resulting Solid.
func Load(k solidcore.Kernel, filenameHint string, data []byte) (Solid, error) {
	if k == nil {
		return Solid{}, errors.Input("load", "nil kernel")
	}
	if len(data) == 0 {
		return Solid{}, errors.Input("load", "empty input data")
	}

	var shape solidcore.Shape
	err := guard("load", func() error {
		var kerr error
		shape, kerr = k.Load(filenameHint, data)
		return kerr
	})
	if err != nil {
		return Solid{}, errors.Wrap("load", errors.KindParse, err)
	}
	return Solid{kernel: k, shape: shape}, nil
}

// Wrap turns a shape produced by k into a Solid without copying. The usual
// source is facade.Share.
func Wrap(k solidcore.Kernel, shape solidcore.Shape) Solid {
	if k == nil || shape == nil {
		return Solid{}
	}
	return Solid{kernel: k, shape: shape}
}

// Shape returns the underlying kernel shape for handoff to facade.Adopt.
// Returns nil for the zero Solid.
func (s Solid) Shape() solidcore.Shape {
	return s.shape
}

// IsZero reports whether s is the zero Solid.
func (s Solid) IsZero() bool {
	return s.shape == nil
}

// Union returns the fusion of s and other.
func (s Solid) Union(other Solid, tolerance float64) (Solid, error) {
	return s.boolean(other, solidcore.BoolFuse, tolerance)
}

// Cut returns s minus other.
func (s Solid) Cut(other Solid, tolerance float64) (Solid, error) {
	return s.boolean(other, solidcore.BoolCut, tolerance)
}

// Common returns the intersection of s and other.
func (s Solid) Common(other Solid, tolerance float64) (Solid, error) {
	return s.boolean(other, solidcore.BoolCommon, tolerance)
}

func (s Solid) boolean(other Solid, op solidcore.BoolOp, tolerance float64) (Solid, error) {
	if s.IsZero() || other.IsZero() {
		return Solid{}, errors.Input(op.String(), "operation on zero Solid")
	}
	if s.kernel != other.kernel {
		return Solid{}, errors.Input(op.String(), "operands belong to different kernels")
	}

	var shape solidcore.Shape
	err := guard(op.String(), func() error {
		var kerr error
		shape, kerr = s.kernel.Boolean(s.shape, other.shape, op, tolerance)
		return kerr
	})
	if err != nil {
		return Solid{}, errors.Wrap(op.String(), errors.KindAlgorithm, err)
	}
	return Solid{kernel: s.kernel, shape: shape}, nil
}

// Fillet returns a derivation of s with the given edges rounded. The current
// mesh kernel implements this as a documented stub that returns an unmodified
// copy; the value contract is stable regardless.
func (s Solid) Fillet(edgeIDs []uint64, radius, tolerance float64) (Solid, error) {
	if s.IsZero() {
		return Solid{}, errors.Input("fillet", "operation on zero Solid")
	}

	var shape solidcore.Shape
	err := guard("fillet", func() error {
		var kerr error
		shape, kerr = s.kernel.Fillet(s.shape, edgeIDs, radius, tolerance)
		return kerr
	})
	if err != nil {
		return Solid{}, errors.Wrap("fillet", errors.KindAlgorithm, err)
	}
	return Solid{kernel: s.kernel, shape: shape}, nil
}

// Bounds computes the axis-aligned bounding box of s.
func (s Solid) Bounds() (solidcore.Bounds, error) {
	if s.IsZero() {
		return solidcore.Bounds{}, errors.Input("bounds", "operation on zero Solid")
	}

	var b solidcore.Bounds
	err := guard("bounds", func() error {
		var kerr error
		b, kerr = s.kernel.Bounds(s.shape)
		return kerr
	})
	if err != nil {
		return solidcore.Bounds{}, errors.Wrap("bounds", errors.KindAlgorithm, err)
	}
	return b, nil
}

// Export serializes s to the kernel's primary interchange format.
func (s Solid) Export() ([]byte, error) {
	if s.IsZero() {
		return nil, errors.Input("export", "operation on zero Solid")
	}

	var out []byte
	err := guard("export", func() error {
		var kerr error
		out, kerr = s.kernel.Export(s.shape)
		return kerr
	})
	if err != nil {
		return nil, errors.Wrap("export", errors.KindIO, err)
	}
	return out, nil
}

// Mesh triangulates s and renders the position/triangle text export. A
// deflection <= 0 selects the kernel default.
func (s Solid) Mesh(deflection float64, linear bool) ([]byte, error) {
	if s.IsZero() {
		return nil, errors.Input("mesh", "operation on zero Solid")
	}

	var out []byte
	err := guard("mesh", func() error {
		var kerr error
		out, kerr = s.kernel.Mesh(s.shape, deflection, linear)
		return kerr
	})
	if err != nil {
		return nil, errors.Wrap("mesh", errors.KindAlgorithm, err)
	}
	return out, nil
}

// guard runs fn and converts a kernel panic into an algorithm error, matching
// the no-panic guarantee of the handle facade.
func guard(op string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Algorithm(op, fmt.Sprintf("kernel panic: %v", r))
		}
	}()
	return fn()
}
