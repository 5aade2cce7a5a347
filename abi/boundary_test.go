package abi

import (
	"bytes"
	"strings"
	"testing"

	"github.com/qutlas/solidcore/facade"
	"github.com/qutlas/solidcore/meshkernel"
)

func newBoundary(t *testing.T) *Boundary {
	t.Helper()
	b := NewBoundary(facade.New(meshkernel.New()))
	errBuf := make([]byte, 256)
	if b.Init("", errBuf) != 1 {
		t.Fatalf("init failed: %s", ErrorString(errBuf))
	}
	return b
}

func loadCube(t *testing.T, b *Boundary) uint64 {
	t.Helper()
	errBuf := make([]byte, 256)
	h := loadCubeWithBuf(t, b, errBuf)
	if h == 0 {
		t.Fatalf("load failed: %s", ErrorString(errBuf))
	}
	return h
}

func TestBoundary_LoadEmptyReturnsZeroHandle(t *testing.T) {
	b := newBoundary(t)
	errBuf := make([]byte, 256)

	if h := b.LoadFromMemory("empty.stl", nil, errBuf); h != 0 {
		t.Fatalf("expected failure sentinel 0, got %d", h)
	}
	if msg := ErrorString(errBuf); !strings.Contains(msg, "empty input data") {
		t.Fatalf("diagnostic %q does not mention empty input", msg)
	}
}

func TestBoundary_SuccessLeavesErrorBufferUntouched(t *testing.T) {
	b := newBoundary(t)
	errBuf := bytes.Repeat([]byte{0xAA}, 64)
	saved := bytes.Clone(errBuf)

	h := loadCubeWithBuf(t, b, errBuf)
	if h == 0 {
		t.Fatal("load failed")
	}
	if !bytes.Equal(errBuf, saved) {
		t.Fatal("successful call touched the error buffer")
	}
}

func loadCubeWithBuf(t *testing.T, b *Boundary, errBuf []byte) uint64 {
	t.Helper()
	cube, err := meshkernel.Box(1, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	data, err := meshkernel.New().Export(cube)
	if err != nil {
		t.Fatal(err)
	}
	return b.LoadFromMemory("cube.stl", data, errBuf)
}

func TestBoundary_GetBounds(t *testing.T) {
	b := newBoundary(t)
	h := loadCube(t, b)

	var out [6]float64
	errBuf := make([]byte, 256)
	if b.GetBounds(h, &out, errBuf) != 1 {
		t.Fatalf("GetBounds failed: %s", ErrorString(errBuf))
	}
	want := [6]float64{0, 0, 0, 1, 1, 1}
	for i := range want {
		if diff := out[i] - want[i]; diff > 1e-6 || diff < -1e-6 {
			t.Fatalf("bounds[%d] = %g, want %g", i, out[i], want[i])
		}
	}
}

func TestBoundary_GetBoundsFailureLeavesOutUntouched(t *testing.T) {
	b := newBoundary(t)

	out := [6]float64{9, 9, 9, 9, 9, 9}
	errBuf := make([]byte, 256)
	if b.GetBounds(777, &out, errBuf) != 0 {
		t.Fatal("expected failure for missing handle")
	}
	for i, v := range out {
		if v != 9 {
			t.Fatalf("out[%d] was touched on failure", i)
		}
	}
	if msg := ErrorString(errBuf); !strings.Contains(msg, "not_found") {
		t.Fatalf("diagnostic %q does not carry the not_found kind", msg)
	}
}

func TestBoundary_ExportBufferOwnership(t *testing.T) {
	b := newBoundary(t)
	h := loadCube(t, b)

	errBuf := make([]byte, 256)
	buf := b.ExportPrimary(h, errBuf)
	if buf == nil {
		t.Fatalf("export failed: %s", ErrorString(errBuf))
	}
	if buf.Len() == 0 {
		t.Fatal("expected non-empty export")
	}

	// The transferred bytes must survive independent of the registry.
	b.Release(h, errBuf)
	if buf.Len() == 0 {
		t.Fatal("buffer died with the handle")
	}
	b.FreeBuffer(buf)

	// Freeing nil is a documented no-op.
	b.FreeBuffer(nil)
}

func TestBoundary_ExportFailureAllocatesNothing(t *testing.T) {
	b := newBoundary(t)
	errBuf := make([]byte, 256)

	if buf := b.ExportPrimary(424242, errBuf); buf != nil {
		t.Fatal("failed export must not allocate a buffer")
	}
	if ErrorString(errBuf) == "" {
		t.Fatal("expected a diagnostic")
	}
}

func TestBoundary_BooleanConventions(t *testing.T) {
	b := newBoundary(t)
	a := loadCube(t, b)
	tool := loadCube(t, b)

	errBuf := make([]byte, 256)
	h := b.Boolean(a, tool, "union", 1e-9, errBuf)
	if h == 0 {
		t.Fatalf("union failed: %s", ErrorString(errBuf))
	}

	if h := b.Boolean(a, tool, "bogus", 1e-9, errBuf); h != 0 {
		t.Fatal("unknown op must return the 0 sentinel")
	}
	if msg := ErrorString(errBuf); !strings.Contains(msg, "unknown boolean operation") {
		t.Fatalf("diagnostic %q", msg)
	}
}

func TestBoundary_ReleaseTwice(t *testing.T) {
	b := newBoundary(t)
	h := loadCube(t, b)

	errBuf := make([]byte, 256)
	if b.Release(h, errBuf) != 1 {
		t.Fatal("first release should succeed")
	}
	if b.Release(h, errBuf) != 0 {
		t.Fatal("second release must fail, not no-op")
	}
	if msg := ErrorString(errBuf); !strings.Contains(msg, "not_found") {
		t.Fatalf("diagnostic %q", msg)
	}
}

func TestBoundary_MeshExport(t *testing.T) {
	b := newBoundary(t)
	h := loadCube(t, b)

	errBuf := make([]byte, 256)
	buf := b.GenerateMeshExport(h, 0, true, errBuf)
	if buf == nil {
		t.Fatalf("mesh export failed: %s", ErrorString(errBuf))
	}
	defer b.FreeBuffer(buf)

	text := string(buf.Bytes())
	if !strings.Contains(text, "\nv ") {
		t.Fatal("mesh export has no vertex lines")
	}
	if !strings.Contains(text, "f 1 2 3") {
		t.Fatal("mesh export has no 1-based face lines")
	}
}

func TestBufferPool_Reuse(t *testing.T) {
	small := newBuffer([]byte("hello"))
	if string(small.Bytes()) != "hello" {
		t.Fatalf("Bytes = %q", small.Bytes())
	}
	freeBuffer(small)

	again := newBuffer([]byte("world"))
	if string(again.Bytes()) != "world" {
		t.Fatalf("Bytes = %q", again.Bytes())
	}
	freeBuffer(again)
}
