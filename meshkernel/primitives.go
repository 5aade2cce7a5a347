package meshkernel

import "github.com/qutlas/solidcore/errors"

// Box builds an axis-aligned box primitive with one corner at the origin and
// the opposite corner at (w, h, d). Faces wind counter-clockwise viewed from
// outside, two triangles per face, so bounds are exactly (0,0,0)..(w,h,d).
func Box(w, h, d float64) (*Mesh, error) {
	if w <= 0 || h <= 0 || d <= 0 {
		return nil, errors.Input("box", "box dimensions must be positive")
	}

	verts := []float64{
		0, 0, 0, // 0
		w, 0, 0, // 1
		w, h, 0, // 2
		0, h, 0, // 3
		0, 0, d, // 4
		w, 0, d, // 5
		w, h, d, // 6
		0, h, d, // 7
	}

	tris := []uint32{
		0, 2, 1, 0, 3, 2, // z = 0
		4, 5, 6, 4, 6, 7, // z = d
		0, 1, 5, 0, 5, 4, // y = 0
		3, 7, 6, 3, 6, 2, // y = h
		0, 4, 7, 0, 7, 3, // x = 0
		1, 2, 6, 1, 6, 5, // x = w
	}

	return &Mesh{verts: verts, tris: tris}, nil
}
