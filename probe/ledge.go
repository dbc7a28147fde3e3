package probe

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/traverse/game"
	"github.com/oomph-ac/traverse/movement"
	"github.com/oomph-ac/traverse/settings"
	"github.com/oomph-ac/traverse/world"
)

// cone limits the directions a probe may search in.
type cone struct {
	angleThreshold float32
	maxReachAngle  float32
}

// ledgeConfig holds what a ledge search needs from the settings of a traversal.
type ledgeConfig struct {
	cone
	slopeCos       float32
	speedThreshold float32
	trace          settings.Trace
	query          world.Query
}

// ledge is a surface on top of an obstacle that a character fits onto.
type ledge struct {
	target    world.Ref
	primitive world.Primitive

	// location is the landing point of the feet.
	location mgl32.Vec3
	// direction is the horizontal direction into the obstacle.
	direction mgl32.Vec3
	rotation  mgl32.Quat

	feet        mgl32.Vec3
	traceRadius float32
	height      float32
}

// direction picks the horizontal direction to search in. It leans towards where the character
// moves and wants to move, without turning further than the cone allows from its facing.
func (c cone) direction(in Input) (mgl32.Vec3, bool) {
	l := in.Locomotion
	var angle float32
	switch {
	case l.HasSpeed && l.HasInput:
		angle = l.VelocityYaw + game.ClampAngle(l.InputYaw-l.VelocityYaw, -c.maxReachAngle, c.maxReachAngle)
	case l.HasSpeed:
		angle = l.VelocityYaw
	case l.HasInput:
		angle = l.InputYaw
	default:
		angle = in.Yaw
	}

	delta := game.NormalizeAxis(angle - in.Yaw)
	if math32.Abs(delta) > c.angleThreshold {
		return mgl32.Vec3{}, false
	}
	return game.AngleToDirectionXY(in.Yaw + game.ClampAngle(delta, -c.maxReachAngle, c.maxReachAngle)), true
}

// findLedge runs the forward sweep, the downward sweep and both clearance checks.
func findLedge(w Spatial, in Input, cfg ledgeConfig) (ledge, Rejection) {
	forward, ok := cfg.direction(in)
	if !ok {
		return ledge{}, RejectDirection
	}

	var (
		scale       = in.scale()
		feet        = in.Feet()
		traceRadius = in.Radius - 1
		heightDelta = (cfg.trace.LedgeHeight.Max - cfg.trace.LedgeHeight.Min) * scale
	)

	// Find an obstacle the character cannot walk onto.
	forwardStart := feet.Sub(forward.Mul(in.Radius))
	forwardStart[2] += (cfg.trace.LedgeHeight.Min+cfg.trace.LedgeHeight.Max)*0.5*scale - game.MaxFloorDist
	forwardEnd := forwardStart.Add(forward.Mul(in.Radius + (cfg.trace.ReachDistance+1)*scale))

	forwardHit, ok := w.Sweep(forwardStart, forwardEnd, world.Capsule(traceRadius, heightDelta*0.5), cfg.query)
	if !ok || !forwardHit.IsValidBlockingHit() {
		return ledge{}, RejectNoObstacle
	}
	prim, ok := forwardHit.Primitive.Resolve()
	if !ok {
		return ledge{}, RejectNoObstacle
	}
	if prim.Velocity.Len() > cfg.speedThreshold {
		return ledge{}, RejectObstacleSpeed
	}
	if !prim.CanStepUp() {
		return ledge{}, RejectNoStepUp
	}
	if movement.Walkable(forwardHit, in.floorZ()) {
		return ledge{}, RejectWalkableObstacle
	}

	// Find the top of the obstacle.
	direction := game.SafeNormal2D(forwardHit.ImpactNormal).Mul(-1)
	offset := direction.Mul(cfg.trace.TargetLocationOffset * scale)

	downStart := mgl32.Vec3{
		forwardHit.ImpactPoint.X() + offset.X(),
		forwardHit.ImpactPoint.Y() + offset.Y(),
		feet.Z() + heightDelta + 2.5*traceRadius + game.MinFloorDist,
	}
	downEnd := mgl32.Vec3{
		downStart.X(),
		downStart.Y(),
		feet.Z() + cfg.trace.LedgeHeight.Min*scale + traceRadius - game.MaxFloorDist,
	}

	downHit, ok := w.Sweep(downStart, downEnd, world.Sphere(traceRadius), cfg.query)
	if !ok || !downHit.IsValidBlockingHit() {
		return ledge{}, RejectNoLedge
	}
	// The normal alone misjudges stair-like surfaces, so the direction from the contact to the
	// sphere centre is checked as well.
	approximate := game.SafeNormal(downHit.Location.Sub(downHit.ImpactPoint))
	if downHit.ImpactNormal.Z() < cfg.slopeCos || approximate.Z() < cfg.slopeCos {
		return ledge{}, RejectSlope
	}
	if !movement.Walkable(downHit, in.floorZ()) {
		return ledge{}, RejectSlope
	}

	// Make sure the character fits on top.
	location := mgl32.Vec3{downHit.Location.X(), downHit.Location.Y(), downHit.ImpactPoint.Z() + game.MinFloorDist}
	if w.Overlap(location.Add(mgl32.Vec3{0, 0, in.HalfHeight}), world.Capsule(in.Radius, in.HalfHeight), cfg.query) {
		return ledge{}, RejectLandingBlocked
	}

	// Make sure nothing such as a ceiling is in the way on the path up.
	startOffset := direction.Mul(cfg.trace.StartLocationOffset * scale)
	pathCentre := mgl32.Vec3{
		forwardHit.ImpactPoint.X() - startOffset.X(),
		forwardHit.ImpactPoint.Y() - startOffset.Y(),
		(downHit.Location.Z() + downEnd.Z()) * 0.5,
	}
	pathHalfHeight := (downHit.Location.Z()-downEnd.Z())*0.5 + traceRadius
	if w.Overlap(pathCentre, world.Capsule(traceRadius, pathHalfHeight), cfg.query) {
		return ledge{}, RejectPathBlocked
	}

	return ledge{
		target:      forwardHit.Primitive,
		primitive:   prim,
		location:    location,
		direction:   direction,
		rotation:    game.YawQuat(game.DirectionToYaw(direction)),
		feet:        feet,
		traceRadius: traceRadius,
		height:      (location.Z() - feet.Z()) / scale,
	}, RejectNone
}

// parameters packages the ledge. Landing poses on primitives that move are kept relative to
// them.
func (l ledge) parameters(kind Kind) Parameters {
	t := game.NewTransform(l.location, l.rotation)
	p := Parameters{Target: l.target, TargetTransform: t, Height: l.height, Kind: kind}
	if l.primitive.IsMovable() {
		p.TargetTransform, p.Relative = t.RelativeTo(l.primitive.Frame()), true
	}
	return p
}

func withIgnored(q world.Query, ids []world.ID) world.Query {
	if len(ids) == 0 {
		return q
	}
	q.Ignore = append(q.Ignore[:len(q.Ignore):len(q.Ignore)], ids...)
	return q
}
