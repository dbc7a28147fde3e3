package game

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Transform is a rigid transform with a per-axis scale. A point is scaled first, then
// rotated, then translated.
type Transform struct {
	Location mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

// IdentityTransform returns a transform that leaves points unchanged.
func IdentityTransform() Transform {
	return Transform{Rotation: mgl32.QuatIdent(), Scale: mgl32.Vec3{1, 1, 1}}
}

// NewTransform returns a unit-scale transform at the location and rotation given.
func NewTransform(location mgl32.Vec3, rotation mgl32.Quat) Transform {
	return Transform{Location: location, Rotation: rotation, Scale: mgl32.Vec3{1, 1, 1}}
}

// TransformPosition maps a point from the local space of t into the parent space.
func (t Transform) TransformPosition(p mgl32.Vec3) mgl32.Vec3 {
	return t.Location.Add(t.Rotation.Rotate(mulVec(t.Scale, p)))
}

// TransformVector maps a direction from the local space of t into the parent space,
// ignoring translation and scale.
func (t Transform) TransformVector(v mgl32.Vec3) mgl32.Vec3 {
	return t.Rotation.Rotate(v)
}

// InverseTransformPosition maps a point from the parent space into the local space of t.
func (t Transform) InverseTransformPosition(p mgl32.Vec3) mgl32.Vec3 {
	return divVec(t.Rotation.Inverse().Rotate(p.Sub(t.Location)), t.Scale)
}

// InverseTransformVector maps a direction from the parent space into the local space of t,
// ignoring translation and scale.
func (t Transform) InverseTransformVector(v mgl32.Vec3) mgl32.Vec3 {
	return t.Rotation.Inverse().Rotate(v)
}

// Compose returns the world transform of child, where child is expressed relative to t.
func (t Transform) Compose(child Transform) Transform {
	return Transform{
		Location: t.TransformPosition(child.Location),
		Rotation: t.Rotation.Mul(child.Rotation).Normalize(),
		Scale:    mulVec(t.Scale, child.Scale),
	}
}

// RelativeTo returns t expressed in the local space of parent, so that
// parent.Compose(t.RelativeTo(parent)) == t.
func (t Transform) RelativeTo(parent Transform) Transform {
	return Transform{
		Location: parent.InverseTransformPosition(t.Location),
		Rotation: parent.Rotation.Inverse().Mul(t.Rotation).Normalize(),
		Scale:    divVec(t.Scale, parent.Scale),
	}
}

// Equal reports whether two transforms are equal within tolerance on every component.
func (t Transform) Equal(o Transform, tolerance float32) bool {
	for i := 0; i < 3; i++ {
		if !IsNearlyEqual(t.Location[i], o.Location[i], tolerance) || !IsNearlyEqual(t.Scale[i], o.Scale[i], tolerance) {
			return false
		}
	}
	// q and -q describe the same rotation.
	d := t.Rotation.Dot(o.Rotation)
	return IsNearlyEqual(d*d, 1, tolerance)
}

func mulVec(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

func divVec(a, b mgl32.Vec3) mgl32.Vec3 {
	out := a
	for i := 0; i < 3; i++ {
		if b[i] != 0 {
			out[i] = a[i] / b[i]
		}
	}
	return out
}
