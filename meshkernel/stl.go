package meshkernel

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Binary STL layout: 80-byte header, uint32 triangle count, then 50 bytes
// per triangle (normal + 3 vertices as float32, uint16 attribute).
const (
	stlHeaderSize   = 80
	stlTriangleSize = 50
)

// decodeBinarySTL parses binary STL bytes. The length must match the
// triangle count exactly; anything else is rejected so the ASCII and OBJ
// decoders get their turn.
func decodeBinarySTL(data []byte) (*Mesh, error) {
	if len(data) < stlHeaderSize+4 {
		return nil, fmt.Errorf("binary stl: %d bytes is too short", len(data))
	}
	// ASCII files also start with "solid"; a binary file whose header reads
	// as ASCII is disambiguated by the length check below.
	count := binary.LittleEndian.Uint32(data[stlHeaderSize:])
	want := stlHeaderSize + 4 + int(count)*stlTriangleSize
	if count == 0 || len(data) != want {
		return nil, fmt.Errorf("binary stl: length %d does not match %d triangles", len(data), count)
	}

	var sink triangleSink
	off := stlHeaderSize + 4
	for t := uint32(0); t < count; t++ {
		base := off + int(t)*stlTriangleSize + 12 // skip normal
		var tri [3][3]float64
		for v := 0; v < 3; v++ {
			for c := 0; c < 3; c++ {
				bits := binary.LittleEndian.Uint32(data[base+v*12+c*4:])
				f := math.Float32frombits(bits)
				if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
					return nil, fmt.Errorf("binary stl: non-finite coordinate in triangle %d", t)
				}
				tri[v][c] = float64(f)
			}
		}
		sink.add(tri)
	}
	return sink.build(), nil
}

// encodeBinarySTL writes the mesh as binary STL, the primary interchange
// format of this kernel.
func encodeBinarySTL(m *Mesh) []byte {
	count := m.TriangleCount()
	out := make([]byte, stlHeaderSize+4+count*stlTriangleSize)
	copy(out, "solidcore binary stl")
	binary.LittleEndian.PutUint32(out[stlHeaderSize:], uint32(count))

	off := stlHeaderSize + 4
	for t := 0; t < count; t++ {
		tri := m.triangle(t)
		n := cross(sub(tri[1], tri[0]), sub(tri[2], tri[0]))
		if l := math.Sqrt(dot(n, n)); l > 0 {
			n[0] /= l
			n[1] /= l
			n[2] /= l
		}
		base := off + t*stlTriangleSize
		for c := 0; c < 3; c++ {
			binary.LittleEndian.PutUint32(out[base+c*4:], math.Float32bits(float32(n[c])))
		}
		for v := 0; v < 3; v++ {
			for c := 0; c < 3; c++ {
				bits := math.Float32bits(float32(tri[v][c]))
				binary.LittleEndian.PutUint32(out[base+12+v*12+c*4:], bits)
			}
		}
	}
	return out
}

// decodeASCIISTL parses ASCII STL bytes. Vertices are consumed three at a
// time from "vertex" lines; facet structure beyond that is not enforced.
func decodeASCIISTL(data []byte) (*Mesh, error) {
	if !bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte("solid")) {
		return nil, fmt.Errorf("ascii stl: missing solid header")
	}

	var sink triangleSink
	var tri [3][3]float64
	corner := 0

	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) != 4 || fields[0] != "vertex" {
			continue
		}
		var p [3]float64
		for c := 0; c < 3; c++ {
			f, err := strconv.ParseFloat(fields[c+1], 64)
			if err != nil {
				return nil, fmt.Errorf("ascii stl: bad coordinate %q", fields[c+1])
			}
			p[c] = f
		}
		tri[corner] = p
		corner++
		if corner == 3 {
			sink.add(tri)
			corner = 0
		}
	}

	if corner != 0 {
		return nil, fmt.Errorf("ascii stl: dangling vertex count %d", corner)
	}
	mesh := sink.build()
	if mesh.TriangleCount() == 0 {
		return nil, fmt.Errorf("ascii stl: no facets")
	}
	return mesh, nil
}
