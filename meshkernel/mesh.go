package meshkernel

import "github.com/qutlas/solidcore"

// Mesh is an immutable triangle mesh. Vertices are stored as packed xyz
// triplets and triangles as packed 0-based index triplets. Once built, a
// Mesh is never modified; it may be freely shared across handles and
// facades.
type Mesh struct {
	verts []float64
	tris  []uint32
}

// NewMesh builds a mesh from packed vertex and index buffers. The buffers
// are copied so callers cannot mutate the mesh afterwards.
func NewMesh(verts []float64, tris []uint32) *Mesh {
	m := &Mesh{
		verts: make([]float64, len(verts)),
		tris:  make([]uint32, len(tris)),
	}
	copy(m.verts, verts)
	copy(m.tris, tris)
	return m
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.tris) / 3
}

// VertexCount returns the number of stored vertices.
func (m *Mesh) VertexCount() int {
	return len(m.verts) / 3
}

// vertex returns vertex i as a point.
func (m *Mesh) vertex(i uint32) [3]float64 {
	return [3]float64{m.verts[i*3], m.verts[i*3+1], m.verts[i*3+2]}
}

// triangle returns the three corner points of triangle t.
func (m *Mesh) triangle(t int) [3][3]float64 {
	return [3][3]float64{
		m.vertex(m.tris[t*3]),
		m.vertex(m.tris[t*3+1]),
		m.vertex(m.tris[t*3+2]),
	}
}

// centroid returns the centroid of triangle t.
func (m *Mesh) centroid(t int) [3]float64 {
	tri := m.triangle(t)
	return [3]float64{
		(tri[0][0] + tri[1][0] + tri[2][0]) / 3,
		(tri[0][1] + tri[1][1] + tri[2][1]) / 3,
		(tri[0][2] + tri[1][2] + tri[2][2]) / 3,
	}
}

// Translated returns a new mesh moved by (dx, dy, dz). The receiver is
// untouched.
func (m *Mesh) Translated(dx, dy, dz float64) *Mesh {
	verts := make([]float64, len(m.verts))
	for i := 0; i < len(m.verts); i += 3 {
		verts[i] = m.verts[i] + dx
		verts[i+1] = m.verts[i+1] + dy
		verts[i+2] = m.verts[i+2] + dz
	}
	tris := make([]uint32, len(m.tris))
	copy(tris, m.tris)
	return &Mesh{verts: verts, tris: tris}
}

// Bounds sweeps every vertex and returns the axis-aligned bounding box.
// An empty mesh reports the zero box.
func (m *Mesh) Bounds() solidcore.Bounds {
	if len(m.verts) == 0 {
		return solidcore.Bounds{}
	}

	b := solidcore.Bounds{
		MinX: m.verts[0], MinY: m.verts[1], MinZ: m.verts[2],
		MaxX: m.verts[0], MaxY: m.verts[1], MaxZ: m.verts[2],
	}
	for i := 3; i < len(m.verts); i += 3 {
		x, y, z := m.verts[i], m.verts[i+1], m.verts[i+2]
		b.MinX = min(b.MinX, x)
		b.MinY = min(b.MinY, y)
		b.MinZ = min(b.MinZ, z)
		b.MaxX = max(b.MaxX, x)
		b.MaxY = max(b.MaxY, y)
		b.MaxZ = max(b.MaxZ, z)
	}
	return b
}
