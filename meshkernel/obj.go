package meshkernel

import (
	"fmt"
	"strconv"
	"strings"
)

// decodeOBJ parses the v/f subset of Wavefront OBJ. Faces with more than
// three corners are fan-triangulated. Texture and normal references after a
// slash are ignored.
func decodeOBJ(data []byte) (*Mesh, error) {
	var verts [][3]float64
	var sink triangleSink

	for ln, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(strings.TrimSpace(line))
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("obj: line %d: vertex needs 3 coordinates", ln+1)
			}
			var p [3]float64
			for c := 0; c < 3; c++ {
				f, err := strconv.ParseFloat(fields[c+1], 64)
				if err != nil {
					return nil, fmt.Errorf("obj: line %d: bad coordinate %q", ln+1, fields[c+1])
				}
				p[c] = f
			}
			verts = append(verts, p)
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("obj: line %d: face needs 3 corners", ln+1)
			}
			corners := make([]int, 0, len(fields)-1)
			for _, ref := range fields[1:] {
				idxStr, _, _ := strings.Cut(ref, "/")
				idx, err := strconv.Atoi(idxStr)
				if err != nil || idx == 0 {
					return nil, fmt.Errorf("obj: line %d: bad index %q", ln+1, ref)
				}
				if idx < 0 {
					idx = len(verts) + 1 + idx
				}
				if idx < 1 || idx > len(verts) {
					return nil, fmt.Errorf("obj: line %d: index %d out of range", ln+1, idx)
				}
				corners = append(corners, idx-1)
			}
			for i := 1; i+1 < len(corners); i++ {
				sink.add([3][3]float64{verts[corners[0]], verts[corners[i]], verts[corners[i+1]]})
			}
		}
	}

	mesh := sink.build()
	if mesh.TriangleCount() == 0 {
		return nil, fmt.Errorf("obj: no faces")
	}
	return mesh, nil
}

// encodeMeshText renders the position/triangle text export: one "v" line per
// vertex and one "f" line per triangle, 1-based indices. Vertices are
// emitted per face without cross-face deduplication, so adjacent faces carry
// independent copies of their shared corners. That matches the historical
// export; downstream consumers already tolerate the non-watertight seams.
func encodeMeshText(m *Mesh) []byte {
	var b strings.Builder
	b.WriteString("# solidcore mesh\n")

	count := m.TriangleCount()
	for t := 0; t < count; t++ {
		tri := m.triangle(t)
		for _, p := range tri {
			b.WriteString("v ")
			b.WriteString(strconv.FormatFloat(p[0], 'g', -1, 64))
			b.WriteByte(' ')
			b.WriteString(strconv.FormatFloat(p[1], 'g', -1, 64))
			b.WriteByte(' ')
			b.WriteString(strconv.FormatFloat(p[2], 'g', -1, 64))
			b.WriteByte('\n')
		}
	}
	for t := 0; t < count; t++ {
		fmt.Fprintf(&b, "f %d %d %d\n", t*3+1, t*3+2, t*3+3)
	}
	return []byte(b.String())
}
