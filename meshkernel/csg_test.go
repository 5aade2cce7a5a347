package meshkernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qutlas/solidcore"
	"github.com/qutlas/solidcore/errors"
)

func boundsInDelta(t *testing.T, want, got solidcore.Bounds, delta float64) {
	t.Helper()
	assert.InDelta(t, want.MinX, got.MinX, delta)
	assert.InDelta(t, want.MinY, got.MinY, delta)
	assert.InDelta(t, want.MinZ, got.MinZ, delta)
	assert.InDelta(t, want.MaxX, got.MaxX, delta)
	assert.InDelta(t, want.MaxY, got.MaxY, delta)
	assert.InDelta(t, want.MaxZ, got.MaxZ, delta)
}

func TestBoolean_FuseDisjointBoxes(t *testing.T) {
	k := New()
	a, err := Box(1, 1, 1)
	require.NoError(t, err)
	b := a.Translated(2, 0, 0)

	out, err := k.Boolean(a, b, solidcore.BoolFuse, 1e-9)
	require.NoError(t, err)

	mesh := out.(*Mesh)
	assert.Equal(t, 24, mesh.TriangleCount())
	boundsInDelta(t, solidcore.Bounds{MaxX: 3, MaxY: 1, MaxZ: 1}, mesh.Bounds(), 1e-12)

	// Inputs untouched.
	assert.Equal(t, 12, a.TriangleCount())
	boundsInDelta(t, solidcore.Bounds{MaxX: 1, MaxY: 1, MaxZ: 1}, a.Bounds(), 0)
}

func TestBoolean_CutDisjointToolIsIdentity(t *testing.T) {
	k := New()
	a, err := Box(1, 1, 1)
	require.NoError(t, err)
	b := a.Translated(5, 5, 5)

	out, err := k.Boolean(a, b, solidcore.BoolCut, 1e-9)
	require.NoError(t, err)

	mesh := out.(*Mesh)
	assert.Equal(t, 12, mesh.TriangleCount())
	boundsInDelta(t, a.Bounds(), mesh.Bounds(), 1e-12)
}

func TestBoolean_CutNestedToolKeepsOuterBounds(t *testing.T) {
	k := New()
	a, err := Box(3, 3, 3)
	require.NoError(t, err)
	inner, err := Box(1, 1, 1)
	require.NoError(t, err)
	b := inner.Translated(1, 1, 1)

	out, err := k.Boolean(a, b, solidcore.BoolCut, 1e-9)
	require.NoError(t, err)

	mesh := out.(*Mesh)
	// All of A's shell plus the flipped cavity wall.
	assert.Equal(t, 24, mesh.TriangleCount())
	boundsInDelta(t, solidcore.Bounds{MaxX: 3, MaxY: 3, MaxZ: 3}, mesh.Bounds(), 1e-12)
}

func TestBoolean_CommonNestedToolIsTool(t *testing.T) {
	k := New()
	a, err := Box(3, 3, 3)
	require.NoError(t, err)
	inner, err := Box(1, 1, 1)
	require.NoError(t, err)
	b := inner.Translated(1, 1, 1)

	out, err := k.Boolean(a, b, solidcore.BoolCommon, 1e-9)
	require.NoError(t, err)

	mesh := out.(*Mesh)
	assert.Equal(t, 12, mesh.TriangleCount())
	boundsInDelta(t, solidcore.Bounds{
		MinX: 1, MinY: 1, MinZ: 1,
		MaxX: 2, MaxY: 2, MaxZ: 2,
	}, mesh.Bounds(), 1e-12)
}

func TestBoolean_CommonDisjointIsEmpty(t *testing.T) {
	k := New()
	a, err := Box(1, 1, 1)
	require.NoError(t, err)
	b := a.Translated(10, 0, 0)

	out, err := k.Boolean(a, b, solidcore.BoolCommon, 1e-9)
	require.NoError(t, err)

	mesh := out.(*Mesh)
	assert.Equal(t, 0, mesh.TriangleCount())
	assert.Equal(t, solidcore.Bounds{}, mesh.Bounds())
}

func TestBoolean_EmptyOperandFails(t *testing.T) {
	k := New()
	a, err := Box(1, 1, 1)
	require.NoError(t, err)
	empty := NewMesh(nil, nil)

	_, err = k.Boolean(a, empty, solidcore.BoolFuse, 0)
	require.Error(t, err)
	assert.Equal(t, errors.KindAlgorithm, errors.KindOf(err))
}

func TestTriangleSink_DeduplicatesSharedCorners(t *testing.T) {
	var sink triangleSink
	sink.add([3][3]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	sink.add([3][3]float64{{1, 0, 0}, {1, 1, 0}, {0, 1, 0}})

	mesh := sink.build()
	assert.Equal(t, 2, mesh.TriangleCount())
	assert.Equal(t, 4, mesh.VertexCount())
}
