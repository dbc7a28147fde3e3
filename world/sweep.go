package world

import (
	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/ethaniccc/float32-cube/cube/trace"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/traverse/game"
)

// overlapTolerance keeps shapes that only touch a primitive from counting as overlapping it.
const overlapTolerance = float32(1e-3)

// Shape is a sphere or an upright capsule.
type Shape struct {
	Radius float32
	// HalfHeight is the distance from the centre to the top of the capsule, including the
	// hemisphere. A half height at or below the radius describes a sphere.
	HalfHeight float32
}

// Sphere returns a sphere shape.
func Sphere(radius float32) Shape {
	return Shape{Radius: radius, HalfHeight: radius}
}

// Capsule returns an upright capsule shape.
func Capsule(radius, halfHeight float32) Shape {
	return Shape{Radius: radius, HalfHeight: halfHeight}
}

// segment returns the half length of the capsule's inner segment.
func (s Shape) segment() float32 {
	return max(0, s.HalfHeight-s.Radius)
}

// Hit is the result of a sweep.
type Hit struct {
	// Blocking is true if the sweep was stopped by a primitive.
	Blocking bool
	// StartPenetrating is true if the shape already overlapped the primitive at the start.
	StartPenetrating bool

	// Time is the fraction of the sweep travelled before the hit, in [0, 1].
	Time float32
	// Distance is the distance travelled before the hit.
	Distance float32

	// Location is the centre of the shape at the time of the hit.
	Location mgl32.Vec3
	// ImpactPoint is the point of contact on the primitive.
	ImpactPoint mgl32.Vec3
	// Normal is the normal of the swept shape at the contact.
	Normal mgl32.Vec3
	// ImpactNormal is the normal of the primitive surface at the contact.
	ImpactNormal mgl32.Vec3

	TraceStart, TraceEnd mgl32.Vec3

	Primitive Ref
}

// IsValidBlockingHit returns true if the sweep was blocked and did not start inside the primitive.
func (h Hit) IsValidBlockingHit() bool {
	return h.Blocking && !h.StartPenetrating
}

// Sweep moves shape from start to end and returns the first blocking hit, if any. Primitives
// are tested in insertion order and ties are broken by the lowest ID, so the result only
// depends on the world state.
func (w *World) Sweep(start, end mgl32.Vec3, shape Shape, q Query) (Hit, bool) {
	w.RLock()
	defer w.RUnlock()

	var (
		best   Hit
		found  bool
		bounds = sweptBounds(start, end, shape)
	)
	for el := w.primitives.Front(); el != nil; el = el.Next() {
		p := el.Value
		if !q.blocks(p) || !bounds.IntersectsWith(p.BBox()) {
			continue
		}
		hit, ok := sweepPrimitive(p, start, end, shape)
		if !ok {
			continue
		}
		if !found || hit.Time < best.Time || (hit.Time == best.Time && p.ID < best.Primitive.id) {
			hit.Primitive = Ref{id: p.ID, w: w}
			best, found = hit, true
		}
	}
	return best, found
}

// Overlap returns true if shape placed at centre overlaps any blocking primitive.
func (w *World) Overlap(centre mgl32.Vec3, shape Shape, q Query) bool {
	w.RLock()
	defer w.RUnlock()

	bounds := sweptBounds(centre, centre, shape)
	for el := w.primitives.Front(); el != nil; el = el.Next() {
		p := el.Value
		if !q.blocks(p) || !bounds.IntersectsWith(p.BBox()) {
			continue
		}
		frame := p.Frame()
		local := frame.InverseTransformPosition(centre)
		if within(local, expandedExtents(p, frame, shape), overlapTolerance) {
			return true
		}
	}
	return false
}

// sweptBounds returns the world space box enclosing the shape along the whole sweep.
func sweptBounds(start, end mgl32.Vec3, shape Shape) cube.BBox {
	lo, hi := start, end
	for i := 0; i < 3; i++ {
		if lo[i] > hi[i] {
			lo[i], hi[i] = hi[i], lo[i]
		}
	}
	return cube.Box(lo[0], lo[1], lo[2], hi[0], hi[1], hi[2]).GrowVec3(mgl32.Vec3{shape.Radius, shape.Radius, max(shape.Radius, shape.HalfHeight)})
}

// expandedExtents returns the half sizes of the primitive grown by the shape, so that testing
// the shape's centre against them approximates testing the shape against the box.
func expandedExtents(p *Primitive, frame game.Transform, shape Shape) mgl32.Vec3 {
	ext := p.ScaledExtents()
	axis := frame.InverseTransformVector(mgl32.Vec3{0, 0, 1})
	seg := shape.segment()
	for i := 0; i < 3; i++ {
		ext[i] += shape.Radius + seg*math32.Abs(axis[i])
	}
	return ext
}

func within(v, ext mgl32.Vec3, tolerance float32) bool {
	for i := 0; i < 3; i++ {
		if math32.Abs(v[i]) >= ext[i]-tolerance {
			return false
		}
	}
	return true
}

// sweepPrimitive sweeps the shape against a single primitive in the primitive's local space,
// where the primitive is an axis aligned box and the shape is approximated by growing the
// box by the shape's radius and capsule segment.
func sweepPrimitive(p *Primitive, start, end mgl32.Vec3, shape Shape) (Hit, bool) {
	frame := p.Frame()
	ext := p.ScaledExtents()
	grown := expandedExtents(p, frame, shape)
	axis := frame.InverseTransformVector(mgl32.Vec3{0, 0, 1})

	ls, le := frame.InverseTransformPosition(start), frame.InverseTransformPosition(end)
	hit := Hit{Blocking: true, TraceStart: start, TraceEnd: end}

	if within(ls, grown, overlapTolerance) {
		// Push out through the nearest face.
		n := faceNormal(ls, grown)
		hit.StartPenetrating = true
		hit.Location = start
		hit.ImpactPoint = frame.TransformPosition(contactPoint(ls, ext, axis, shape.segment()))
		hit.Normal = frame.TransformVector(n)
		hit.ImpactNormal = hit.Normal
		return hit, true
	}

	length := le.Sub(ls).Len()
	if length <= 1e-6 {
		return Hit{}, false
	}

	bb := cube.Box(-grown[0], -grown[1], -grown[2], grown[0], grown[1], grown[2])
	res, ok := trace.BBoxIntercept(bb, ls, le)
	if !ok {
		return Hit{}, false
	}
	pos := res.Position()
	dist := pos.Sub(ls).Len()

	n := faceNormal(pos, grown)
	hit.Time = min(dist/length, 1)
	hit.Distance = end.Sub(start).Len() * hit.Time
	hit.Location = frame.TransformPosition(pos)
	hit.ImpactPoint = frame.TransformPosition(contactPoint(pos, ext, axis, shape.segment()))
	hit.Normal = frame.TransformVector(n)
	hit.ImpactNormal = hit.Normal
	return hit, true
}

// faceNormal returns the outward normal of the face of a box with half sizes ext that is
// nearest to pos.
func faceNormal(pos, ext mgl32.Vec3) mgl32.Vec3 {
	best, bestGap := 0, float32(math32.MaxFloat32)
	for i := 0; i < 3; i++ {
		if gap := ext[i] - math32.Abs(pos[i]); gap < bestGap {
			best, bestGap = i, gap
		}
	}
	var n mgl32.Vec3
	n[best] = math32.Copysign(1, pos[best])
	return n
}

// contactPoint returns the point on the box with half sizes ext closest to a capsule whose
// centre is at c, whose segment has half length seg and runs along axis.
func contactPoint(c, ext, axis mgl32.Vec3, seg float32) mgl32.Vec3 {
	closest := clampToBox(c, ext)
	along := max(-seg, min(seg, closest.Sub(c).Dot(axis)))
	return clampToBox(c.Add(axis.Mul(along)), ext)
}

func clampToBox(v, ext mgl32.Vec3) mgl32.Vec3 {
	for i := 0; i < 3; i++ {
		v[i] = max(-ext[i], min(ext[i], v[i]))
	}
	return v
}
