package game

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// SmallNumber is the tolerance used by the IsNearly* helpers when no tolerance is given.
const SmallNumber = float32(1e-4)

// Float32ApproxEq determines whether two floating point numbers are close enough to each other
// by a threshold of 1e-5.
func Float32ApproxEq(a, b float32) bool {
	return math32.Abs(a-b) <= 1e-5
}

// IsNearlyEqual reports whether a and b differ by at most tolerance.
func IsNearlyEqual(a, b, tolerance float32) bool {
	return math32.Abs(a-b) <= tolerance
}

// IsNearlyZero reports whether v is within SmallNumber of zero.
func IsNearlyZero(v float32) bool {
	return math32.Abs(v) <= SmallNumber
}

// Clamp clamps v to the range [min, max].
func Clamp(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// ClampAxis clamps an angle in degrees to the range [0, 360).
func ClampAxis(angle float32) float32 {
	angle = math32.Mod(angle, 360)
	if angle < 0 {
		angle += 360
	}
	return angle
}

// NormalizeAxis wraps an angle in degrees to the range (-180, 180].
func NormalizeAxis(angle float32) float32 {
	angle = ClampAxis(angle)
	if angle > 180 {
		angle -= 360
	}
	return angle
}

// ClampAngle clamps angle to the arc that starts at min and ends at max, measured
// counter-clockwise. Angles outside the arc snap to the nearest end of it. The result is
// normalized to (-180, 180].
func ClampAngle(angle, min, max float32) float32 {
	maxDelta := ClampAxis(max-min) * 0.5
	center := ClampAxis(min + maxDelta)
	delta := NormalizeAxis(angle - center)

	if delta > maxDelta {
		return NormalizeAxis(center + maxDelta)
	} else if delta < -maxDelta {
		return NormalizeAxis(center - maxDelta)
	}
	return NormalizeAxis(angle)
}

// AngleToDirectionXY returns the unit vector in the XY plane facing the given yaw.
func AngleToDirectionXY(yaw float32) mgl32.Vec3 {
	sin, cos := math32.Sincos(mgl32.DegToRad(yaw))
	return mgl32.Vec3{cos, sin, 0}
}

// DirectionToYaw returns the yaw in degrees of the horizontal component of dir.
func DirectionToYaw(dir mgl32.Vec3) float32 {
	return mgl32.RadToDeg(math32.Atan2(dir.Y(), dir.X()))
}

// YawQuat returns the rotation of yaw degrees about the up axis.
func YawQuat(yaw float32) mgl32.Quat {
	return mgl32.QuatRotate(mgl32.DegToRad(yaw), mgl32.Vec3{0, 0, 1})
}

// QuatYaw extracts the yaw in degrees of the rotation q.
func QuatYaw(q mgl32.Quat) float32 {
	return DirectionToYaw(q.Rotate(mgl32.Vec3{1, 0, 0}))
}

// SafeNormal2D returns the horizontal component of v scaled to unit length, or the zero
// vector if it is too short to normalize.
func SafeNormal2D(v mgl32.Vec3) mgl32.Vec3 {
	v[2] = 0
	l := v.Len()
	if l <= SmallNumber {
		return mgl32.Vec3{}
	}
	return v.Mul(1 / l)
}

// SafeNormal returns v scaled to unit length, or the zero vector if it is too short to normalize.
func SafeNormal(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l <= SmallNumber {
		return mgl32.Vec3{}
	}
	return v.Mul(1 / l)
}

// Vec3HzLen returns the horizontal length of a vector.
func Vec3HzLen(vec3 mgl32.Vec3) float32 {
	return math32.Sqrt(Vec3HzLenSqr(vec3))
}

// Vec3HzLenSqr returns the squared horizontal length of a vector.
func Vec3HzLenSqr(vec3 mgl32.Vec3) float32 {
	return vec3.X()*vec3.X() + vec3.Y()*vec3.Y()
}

// MappedRangeClamped maps v from the input range onto the output range, clamping v to the
// input range first. A degenerate input range maps everything onto the start of the output.
func MappedRangeClamped(in, out mgl32.Vec2, v float32) float32 {
	span := in.Y() - in.X()
	if IsNearlyZero(span) {
		return out.X()
	}
	alpha := Clamp((v-in.X())/span, 0, 1)
	return out.X() + (out.Y()-out.X())*alpha
}

// Lerp linearly interpolates between a and b.
func Lerp(a, b, alpha float32) float32 {
	return a + (b-a)*alpha
}

// QuatSlerp spherically interpolates between two rotations on the shortest arc.
func QuatSlerp(a, b mgl32.Quat, alpha float32) mgl32.Quat {
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return mgl32.QuatSlerp(a, b, alpha).Normalize()
}
