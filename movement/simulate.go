package movement

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/traverse/game"
	"github.com/oomph-ac/traverse/world"
)

// skinWidth is the distance kept between the capsule and whatever it was stopped by.
const skinWidth = float32(0.01)

type movementContext struct {
	mc *Component
	dt float32

	landed bool
}

var ctxPool = sync.Pool{
	New: func() any {
		return &movementContext{}
	},
}

func newCtx(mc *Component, dt float32) *movementContext {
	ctx := ctxPool.Get().(*movementContext)
	ctx.mc, ctx.dt = mc, dt
	return ctx
}

func putCtx(ctx *movementContext) {
	ctx.mc = nil
	ctx.dt = 0
	ctx.landed = false
	ctxPool.Put(ctx)
}

// Tick runs the movement simulation for dt seconds. Root motion sources take precedence over
// every movement mode.
func (mc *Component) Tick(dt float32) {
	if dt <= 0 {
		return
	}

	ctx := newCtx(mc, dt)
	defer putCtx(ctx)

	mc.removeMarkedSources()
	if ctx.applyRootMotion() {
		return
	}

	switch mc.mode {
	case ModeWalking:
		ctx.walk()
	case ModeFalling:
		ctx.fall()
	case ModeFlying:
		ctx.move(mc.vel.Mul(dt))
	case ModeCustom:
		// Custom movement without a source holds the character in place.
		mc.SetVel(mgl32.Vec3{})
	}
}

// applyRootMotion lets every source move the character. It returns false if no source moved it.
func (ctx *movementContext) applyRootMotion() bool {
	mc := ctx.mc
	moved := false
	start := mc.pos
	for _, src := range mc.sources {
		if src.MarkedForRemoval() {
			continue
		}
		motion, ok := src.Prepare(ctx.dt, mc)
		if !ok {
			continue
		}
		mc.SetPos(mc.pos.Add(motion.Delta))
		if motion.Rotation != (mgl32.Quat{}) {
			mc.SetRotation(motion.Rotation.Mul(mc.rotation))
		}
		moved = true
	}
	if moved {
		mc.SetVel(mc.pos.Sub(start).Mul(1 / ctx.dt))
		mc.lastPos = start
	}
	return moved
}

func (ctx *movementContext) walk() {
	mc := ctx.mc
	vel := mc.input.Mul(mc.walkSpeed)
	if base, ok := mc.base.Resolve(); ok && base.IsMovable() {
		vel = vel.Add(base.Velocity)
	}
	vel[2] = 0
	mc.SetVel(vel)
	ctx.move(vel.Mul(ctx.dt))

	floor, ok := mc.FindFloor()
	if !ok {
		mc.SetBase(world.Ref{})
		mc.SetMode(ModeFalling)
		return
	}
	mc.SetBase(floor.Hit.Primitive)
}

func (ctx *movementContext) fall() {
	mc := ctx.mc
	vel := mc.vel
	vel[2] -= mc.gravity * ctx.dt
	mc.SetVel(vel)

	ctx.move(vel.Mul(ctx.dt))
	if ctx.landed {
		vel[2] = 0
		mc.SetVel(vel)
		mc.SetMode(ModeWalking)
	}
}

// move moves the capsule by delta, sliding once along whatever it hits.
func (ctx *movementContext) move(delta mgl32.Vec3) {
	mc := ctx.mc
	for iteration := 0; iteration < 2 && delta.Len() > game.SmallNumber; iteration++ {
		hit, ok := mc.world.Sweep(mc.pos, mc.pos.Add(delta), mc.Shape(), mc.query)
		if !ok || !hit.IsValidBlockingHit() {
			mc.SetPos(mc.pos.Add(delta))
			return
		}

		travelled := delta.Mul(hit.Time)
		if l := travelled.Len(); l > skinWidth {
			travelled = travelled.Mul((l - skinWidth) / l)
		} else {
			travelled = mgl32.Vec3{}
		}
		mc.SetPos(mc.pos.Add(travelled))

		if mc.IsWalkable(hit) && delta.Z() < 0 {
			ctx.landed = true
			mc.SetBase(hit.Primitive)
		}

		// Slide along the surface with what is left.
		remaining := delta.Mul(1 - hit.Time)
		delta = remaining.Sub(hit.Normal.Mul(remaining.Dot(hit.Normal)))
	}
}
