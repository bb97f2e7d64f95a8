package geometry2D

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSoftEquiv(t *testing.T) {
	assert.True(t, SoftEquiv(1, 1, SoftEquivTol))
	assert.True(t, SoftEquiv(1, 1+1.e-14, SoftEquivTol))
	assert.False(t, SoftEquiv(1, 1.001, SoftEquivTol))
	// Near zero values compare absolutely
	assert.True(t, SoftEquiv(0, 1.e-16, SoftEquivTol))
	assert.False(t, SoftEquiv(0, 1.e-3, SoftEquivTol))
}

func TestPolygonClip(t *testing.T) {
	box := &BoundingBox{XMin: [2]float64{0, 0}, XMax: [2]float64{1, 1}}
	poly := box.Outline()
	assert.InDelta(t, 1., poly.Area(), 1.e-14)

	// Bisector between (0.25,0.5) and (0.75,0.5) is x = 0.5
	left := poly.Clip(Bisector(NewPoint(0.25, 0.5), NewPoint(0.75, 0.5)))
	require.Len(t, left, 4)
	assert.InDelta(t, 0.5, left.Area(), 1.e-14)
	for _, pt := range left {
		assert.LessOrEqual(t, pt.X[0], 0.5+1.e-14)
	}
	// Cut points on the box edges stay exactly on the edge
	for _, pt := range left {
		if SoftEquiv(pt.X[0], 0.5, SoftEquivTol) {
			assert.True(t, pt.X[1] == 0 || pt.X[1] == 1)
		}
	}

	// Diagonal cut through two corners leaves a triangle
	tri := poly.Clip(HalfPlane{N: NewPoint(1, 1), C: 1})
	require.Len(t, tri, 3)
	assert.InDelta(t, 0.5, tri.Area(), 1.e-14)

	// Half plane excluding everything
	assert.Empty(t, poly.Clip(HalfPlane{N: NewPoint(1, 0), C: -1}))
}

func TestBoundingBox(t *testing.T) {
	bb := NewBoundingBox([]Point{NewPoint(1, 2), NewPoint(-1, 5), NewPoint(0, 0)})
	require.NotNil(t, bb)
	assert.Equal(t, [2]float64{-1, 0}, bb.XMin)
	assert.Equal(t, [2]float64{1, 5}, bb.XMax)
	assert.Equal(t, NewPoint(0, 2.5), bb.Centroid())
	assert.True(t, bb.PointInside(NewPoint(0, 1)))
	assert.False(t, bb.PointInside(NewPoint(2, 1)))
	big := bb.Scale(2)
	assert.Equal(t, [2]float64{-2, -2.5}, big.XMin)
	assert.Nil(t, NewBoundingBox(nil))
}
