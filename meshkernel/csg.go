package meshkernel

import (
	"math"

	"github.com/qutlas/solidcore"
)

const csgEpsilon = 1e-10

// boolean derives a new mesh from target and tool by whole-triangle
// classification: each triangle keeps or loses membership based on whether
// its centroid lies inside the other solid. tolerance widens the containment
// epsilon (the fuzzy-match control) and is otherwise unvalidated.
func boolean(target, tool *Mesh, op solidcore.BoolOp, tolerance float64) *Mesh {
	eps := csgEpsilon
	if tolerance > eps {
		eps = tolerance
	}

	a := newSolidIndex(target, eps)
	b := newSolidIndex(tool, eps)

	var out triangleSink

	switch op {
	case solidcore.BoolFuse:
		collect(&out, target, func(t int) (bool, bool) { return !b.contains(target.centroid(t)), false })
		collect(&out, tool, func(t int) (bool, bool) { return !a.contains(tool.centroid(t)), false })
	case solidcore.BoolCut:
		collect(&out, target, func(t int) (bool, bool) { return !b.contains(target.centroid(t)), false })
		// Tool triangles inside the target become the cavity wall; their
		// winding flips so normals face out of the result.
		collect(&out, tool, func(t int) (bool, bool) { return a.contains(tool.centroid(t)), true })
	case solidcore.BoolCommon:
		collect(&out, target, func(t int) (bool, bool) { return b.contains(target.centroid(t)), false })
		collect(&out, tool, func(t int) (bool, bool) { return a.contains(tool.centroid(t)), false })
	}

	return out.build()
}

func collect(out *triangleSink, m *Mesh, keep func(t int) (kept, flip bool)) {
	for t := 0; t < m.TriangleCount(); t++ {
		kept, flip := keep(t)
		if !kept {
			continue
		}
		tri := m.triangle(t)
		if flip {
			tri[1], tri[2] = tri[2], tri[1]
		}
		out.add(tri)
	}
}

// triangleSink accumulates triangles, deduplicating vertices by quantized
// coordinate so shared corners collapse back into one index.
type triangleSink struct {
	verts  []float64
	tris   []uint32
	lookup map[[3]int64]uint32
}

func (s *triangleSink) add(tri [3][3]float64) {
	if s.lookup == nil {
		s.lookup = make(map[[3]int64]uint32)
	}
	for _, p := range tri {
		key := [3]int64{
			int64(math.Round(p[0] * 1e6)),
			int64(math.Round(p[1] * 1e6)),
			int64(math.Round(p[2] * 1e6)),
		}
		idx, ok := s.lookup[key]
		if !ok {
			idx = uint32(len(s.verts) / 3)
			s.verts = append(s.verts, p[0], p[1], p[2])
			s.lookup[key] = idx
		}
		s.tris = append(s.tris, idx)
	}
}

func (s *triangleSink) build() *Mesh {
	return &Mesh{verts: s.verts, tris: s.tris}
}

// solidIndex answers point containment for one mesh with an AABB early-out
// and ray-parity counting.
type solidIndex struct {
	mesh *Mesh
	min  [3]float64
	max  [3]float64
	eps  float64
}

func newSolidIndex(m *Mesh, eps float64) *solidIndex {
	b := m.Bounds()
	return &solidIndex{
		mesh: m,
		min:  [3]float64{b.MinX - eps, b.MinY - eps, b.MinZ - eps},
		max:  [3]float64{b.MaxX + eps, b.MaxY + eps, b.MaxZ + eps},
		eps:  eps,
	}
}

// contains casts a ray in +X from p and counts crossings; odd means inside.
func (s *solidIndex) contains(p [3]float64) bool {
	if p[0] < s.min[0] || p[1] < s.min[1] || p[2] < s.min[2] ||
		p[0] > s.max[0] || p[1] > s.max[1] || p[2] > s.max[2] {
		return false
	}

	crossings := 0
	for t := 0; t < s.mesh.TriangleCount(); t++ {
		if rayHitsTriangle(p, s.mesh.triangle(t), s.eps) {
			crossings++
		}
	}
	return crossings%2 == 1
}

// rayHitsTriangle is the Möller-Trumbore intersection test for a ray from
// origin in +X.
func rayHitsTriangle(origin [3]float64, tri [3][3]float64, eps float64) bool {
	edge1 := sub(tri[1], tri[0])
	edge2 := sub(tri[2], tri[0])

	// h = rayDir x edge2 with rayDir = (1,0,0)
	h := [3]float64{0, -edge2[2], edge2[1]}
	a := dot(edge1, h)
	if math.Abs(a) < csgEpsilon {
		return false
	}

	f := 1.0 / a
	s := sub(origin, tri[0])
	u := f * dot(s, h)
	if u < 0 || u > 1 {
		return false
	}

	q := cross(s, edge1)
	v := f * q[0] // rayDir . q
	if v < 0 || u+v > 1 {
		return false
	}

	t := f * dot(edge2, q)
	return t > eps
}

func sub(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func dot(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func cross(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}
