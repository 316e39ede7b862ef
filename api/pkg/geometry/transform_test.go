package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allTransforms() []Transform {
	return []Transform{
		TransformNormal, Transform90, Transform180, Transform270,
		TransformFlipped, TransformFlipped90, TransformFlipped180, TransformFlipped270,
	}
}

func TestTransformInvertIsInvolution(t *testing.T) {
	for _, tr := range allTransforms() {
		require.Equal(t, tr, tr.Invert().Invert(), "invert(invert(%v)) != %v", tr, tr)
	}
}

func TestTransformRectRoundTrip(t *testing.T) {
	area := Size[Buffer, int32]{W: 800, H: 600}
	rect := Rectangle[Buffer, int32]{Origin: Point[Buffer, int32]{X: 10, Y: 20}, Size: Size[Buffer, int32]{W: 100, H: 50}}

	for _, tr := range allTransforms() {
		transformed := TransformRectIn(tr, rect, area)
		transformedArea := area
		if tr == Transform90 || tr == Transform270 || tr == TransformFlipped90 || tr == TransformFlipped270 {
			transformedArea = Size[Buffer, int32]{W: area.H, H: area.W}
		}
		back := TransformRectIn(tr.Invert(), transformed, transformedArea)
		assert.Equal(t, rect, back, "round trip failed for %v", tr)
	}
}

func TestTransformAddComposesRotationAndFlip(t *testing.T) {
	assert.Equal(t, Transform180, Transform90.Add(Transform90))
	assert.Equal(t, TransformFlipped90, TransformFlipped.Add(Transform90))
	assert.Equal(t, TransformNormal, TransformFlipped.Add(TransformFlipped))
}

func TestSizeRoundTripIntegerScale(t *testing.T) {
	logical := Size[Logical, int32]{W: 100, H: 50}
	physical := ToPhysicalSize(logical, int32(2))
	assert.Equal(t, Size[Physical, int32]{W: 200, H: 100}, physical)
	assert.Equal(t, logical, ToLogicalSize(physical, int32(2)))
}

func TestRectangleIntersection(t *testing.T) {
	a := Rectangle[Logical, int32]{Origin: Point[Logical, int32]{X: 0, Y: 0}, Size: Size[Logical, int32]{W: 10, H: 10}}
	b := Rectangle[Logical, int32]{Origin: Point[Logical, int32]{X: 5, Y: 5}, Size: Size[Logical, int32]{W: 10, H: 10}}

	got, ok := a.Intersection(b)
	require.True(t, ok)
	assert.Equal(t, Rectangle[Logical, int32]{Origin: Point[Logical, int32]{X: 5, Y: 5}, Size: Size[Logical, int32]{W: 5, H: 5}}, got)

	c := Rectangle[Logical, int32]{Origin: Point[Logical, int32]{X: 100, Y: 100}, Size: Size[Logical, int32]{W: 5, H: 5}}
	_, ok = a.Intersection(c)
	assert.False(t, ok)
}

func TestFractionalScaleRoundsIntegerUp(t *testing.T) {
	s := FractionalScale(1.5)
	assert.Equal(t, int32(2), s.Integer)
	assert.True(t, s.Split)

	whole := FractionalScale(2.0)
	assert.Equal(t, int32(2), whole.Integer)
}
