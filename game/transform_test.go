package game

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestTransformPosition(t *testing.T) {
	tr := NewTransform(mgl32.Vec3{0, 0, 10}, YawQuat(90))
	p := tr.TransformPosition(mgl32.Vec3{1, 0, 0})
	assert.InDelta(t, 0, p.X(), 1e-5)
	assert.InDelta(t, 1, p.Y(), 1e-5)
	assert.InDelta(t, 10, p.Z(), 1e-5)

	back := tr.InverseTransformPosition(p)
	assert.InDelta(t, 1, back.X(), 1e-5)
	assert.InDelta(t, 0, back.Y(), 1e-5)
	assert.InDelta(t, 0, back.Z(), 1e-5)

	v := tr.InverseTransformVector(tr.TransformVector(mgl32.Vec3{0, 2, 3}))
	assert.InDelta(t, 2, v.Y(), 1e-5)
	assert.InDelta(t, 3, v.Z(), 1e-5)
}

func TestTransformRelativeRoundTrip(t *testing.T) {
	tilt := mgl32.QuatRotate(mgl32.DegToRad(20), mgl32.Vec3{1, 0, 0})
	parents := []struct {
		name   string
		parent Transform
	}{
		{"identity", IdentityTransform()},
		{"yawed", NewTransform(mgl32.Vec3{10, -5, 3}, YawQuat(30))},
		{"tilted and scaled", Transform{Location: mgl32.Vec3{-40, 12, 7}, Rotation: YawQuat(-120).Mul(tilt), Scale: mgl32.Vec3{2, 2, 2}}},
		{"non-uniform scale", Transform{Location: mgl32.Vec3{1, 2, 3}, Rotation: YawQuat(45), Scale: mgl32.Vec3{1, 2, 0.5}}},
	}
	child := NewTransform(mgl32.Vec3{65, 0, 41.9}, YawQuat(-70))

	for _, tt := range parents {
		rel := child.RelativeTo(tt.parent)
		got := tt.parent.Compose(rel)
		assert.True(t, got.Equal(child, 1e-3), "%s: expected %+v, got %+v", tt.name, child, got)
	}
}

func TestTransformEqual(t *testing.T) {
	a := NewTransform(mgl32.Vec3{1, 2, 3}, YawQuat(60))
	b := a
	b.Rotation = a.Rotation.Scale(-1)
	assert.True(t, a.Equal(b, 1e-5), "negated rotations describe the same transform")

	b = a
	b.Location[2] += 0.1
	assert.False(t, a.Equal(b, 1e-3))

	b = a
	b.Rotation = YawQuat(61)
	assert.False(t, a.Equal(b, 1e-5))
}
