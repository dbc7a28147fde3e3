package movement

import (
	"log/slog"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/traverse/game"
	"github.com/oomph-ac/traverse/world"
)

// Config configures a new Component.
type Config struct {
	World *world.World
	Log   *slog.Logger

	// Location is the initial centre of the capsule.
	Location mgl32.Vec3
	Yaw      float32

	Radius, HalfHeight float32
	// Scale scales the capsule and every distance derived from it. Zero means 1.
	Scale float32

	// WalkSpeed is the horizontal speed at full input.
	WalkSpeed float32
	// Gravity is the downward acceleration while falling.
	Gravity float32
	// WalkableFloorZ is the smallest floor normal Z that can be walked on. Zero means
	// game.WalkableFloorZ.
	WalkableFloorZ float32
	// Channel is the channel movement sweeps are issued on.
	Channel world.Channel
	// Ignore lists primitives the character never collides with or probes, such as those
	// attached to it.
	Ignore []world.ID
}

// Component simulates the movement of a single character.
type Component struct {
	log   *slog.Logger
	world *world.World

	pos, lastPos mgl32.Vec3
	vel, lastVel mgl32.Vec3
	rotation     mgl32.Quat
	input        mgl32.Vec3

	radius, halfHeight, scale float32
	walkSpeed, gravity        float32
	walkableFloorZ            float32
	query                     world.Query
	ignore                    []world.ID

	mode       Mode
	modeLocked bool
	smoothing  NetworkSmoothing
	base       world.Ref

	sources      []Source
	nextSourceID uint16
}

// New returns a component for a character standing in the world passed.
func New(cfg Config) *Component {
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	if cfg.Scale == 0 {
		cfg.Scale = 1
	}
	if cfg.WalkableFloorZ == 0 {
		cfg.WalkableFloorZ = game.WalkableFloorZ
	}
	if cfg.Gravity == 0 {
		cfg.Gravity = 980
	}
	if cfg.WalkSpeed == 0 {
		cfg.WalkSpeed = 175
	}
	query := world.NewQuery(cfg.Channel)
	query.Ignore = slices.Clone(cfg.Ignore)
	return &Component{
		log:            cfg.Log,
		world:          cfg.World,
		pos:            cfg.Location,
		lastPos:        cfg.Location,
		rotation:       game.YawQuat(cfg.Yaw),
		radius:         cfg.Radius,
		halfHeight:     cfg.HalfHeight,
		scale:          cfg.Scale,
		walkSpeed:      cfg.WalkSpeed,
		gravity:        cfg.Gravity,
		walkableFloorZ: cfg.WalkableFloorZ,
		query:          query,
		ignore:         query.Ignore,
		mode:           ModeWalking,
		smoothing:      SmoothingExponential,
		nextSourceID:   1,
	}
}

// World returns the world the component moves in.
func (mc *Component) World() *world.World {
	return mc.world
}

// Pos returns the location of the centre of the capsule.
func (mc *Component) Pos() mgl32.Vec3 {
	return mc.pos
}

// LastPos returns the previous location of the centre of the capsule.
func (mc *Component) LastPos() mgl32.Vec3 {
	return mc.lastPos
}

// SetPos sets the location of the centre of the capsule.
func (mc *Component) SetPos(newPos mgl32.Vec3) {
	mc.lastPos = mc.pos
	mc.pos = newPos
}

// Feet returns the location of the bottom of the capsule.
func (mc *Component) Feet() mgl32.Vec3 {
	return mc.pos.Sub(mgl32.Vec3{0, 0, mc.HalfHeight()})
}

// Vel returns the velocity of the component.
func (mc *Component) Vel() mgl32.Vec3 {
	return mc.vel
}

// LastVel returns the previous velocity of the component.
func (mc *Component) LastVel() mgl32.Vec3 {
	return mc.lastVel
}

// SetVel sets the velocity of the component.
func (mc *Component) SetVel(newVel mgl32.Vec3) {
	mc.lastVel = mc.vel
	mc.vel = newVel
}

// Rotation returns the rotation of the character.
func (mc *Component) Rotation() mgl32.Quat {
	return mc.rotation
}

// SetRotation sets the rotation of the character.
func (mc *Component) SetRotation(rot mgl32.Quat) {
	mc.rotation = rot.Normalize()
}

// Yaw returns the yaw of the character in degrees.
func (mc *Component) Yaw() float32 {
	return game.QuatYaw(mc.rotation)
}

// Transform returns the transform of the character, located at the centre of the capsule.
func (mc *Component) Transform() game.Transform {
	return game.NewTransform(mc.pos, mc.rotation)
}

// Input returns the requested movement direction. Its length is at most 1.
func (mc *Component) Input() mgl32.Vec3 {
	return mc.input
}

// SetInput sets the requested movement direction. Vertical input is dropped.
func (mc *Component) SetInput(input mgl32.Vec3) {
	input[2] = 0
	if l := input.Len(); l > 1 {
		input = input.Mul(1 / l)
	}
	mc.input = input
}

// Scale returns the scale of the capsule.
func (mc *Component) Scale() float32 {
	return mc.scale
}

// Radius returns the scaled radius of the capsule.
func (mc *Component) Radius() float32 {
	return mc.radius * mc.scale
}

// HalfHeight returns the scaled half height of the capsule.
func (mc *Component) HalfHeight() float32 {
	return mc.halfHeight * mc.scale
}

// Shape returns the scaled capsule.
func (mc *Component) Shape() world.Shape {
	return world.Capsule(mc.Radius(), mc.HalfHeight())
}

// Ignored returns the primitives the character never collides with or probes.
func (mc *Component) Ignored() []world.ID {
	return mc.ignore
}

// Mode returns the movement mode.
func (mc *Component) Mode() Mode {
	return mc.mode
}

// SetMode changes the movement mode. It does nothing and returns false while the mode is locked.
func (mc *Component) SetMode(mode Mode) bool {
	if mc.modeLocked {
		return mode == mc.mode
	}
	if mode != mc.mode {
		mc.log.Debug("movement mode changed", "from", mc.mode, "to", mode)
	}
	mc.mode = mode
	return true
}

// ModeLocked returns true if the movement mode cannot be changed.
func (mc *Component) ModeLocked() bool {
	return mc.modeLocked
}

// SetModeLocked locks or unlocks the movement mode.
func (mc *Component) SetModeLocked(locked bool) {
	mc.modeLocked = locked
}

// ForceMode changes the movement mode even when it is locked, and unlocks it. It is what a
// correction from the server does.
func (mc *Component) ForceMode(mode Mode) {
	mc.modeLocked = false
	mc.SetMode(mode)
}

// IsMovingOnGround returns true if the character walks.
func (mc *Component) IsMovingOnGround() bool {
	return mc.mode == ModeWalking
}

// IsFalling returns true if the character falls.
func (mc *Component) IsFalling() bool {
	return mc.mode == ModeFalling
}

// NetworkSmoothing returns how remote copies of the character are smoothed.
func (mc *Component) NetworkSmoothing() NetworkSmoothing {
	return mc.smoothing
}

// SetNetworkSmoothing sets how remote copies of the character are smoothed.
func (mc *Component) SetNetworkSmoothing(s NetworkSmoothing) {
	mc.smoothing = s
}

// Base returns the primitive the character is based on.
func (mc *Component) Base() world.Ref {
	return mc.base
}

// SetBase sets the primitive the character is based on.
func (mc *Component) SetBase(base world.Ref) {
	mc.base = base
}

// ApplyRootMotionSource registers a root motion source and returns its ID. IDs are never 0.
func (mc *Component) ApplyRootMotionSource(src Source) uint16 {
	id := mc.nextSourceID
	if mc.nextSourceID++; mc.nextSourceID == 0 {
		mc.nextSourceID = 1
	}
	src.SetID(id)
	mc.sources = append(mc.sources, src)
	mc.log.Debug("root motion source applied", "source", src.Name(), "id", id)
	return id
}

// RootMotionSourceByID returns the registered root motion source with the ID passed. A source
// marked for removal is still returned until the next tick removes it.
func (mc *Component) RootMotionSourceByID(id uint16) Source {
	if id == 0 {
		return nil
	}
	for _, src := range mc.sources {
		if src.ID() == id {
			return src
		}
	}
	return nil
}

// RemoveRootMotionSource marks the root motion source with the ID passed for removal. It is
// removed at the start of the next tick.
func (mc *Component) RemoveRootMotionSource(id uint16) {
	if src := mc.RootMotionSourceByID(id); src != nil {
		src.MarkForRemoval()
	}
}

// HasRootMotionSources returns true if any root motion source is registered and not marked
// for removal.
func (mc *Component) HasRootMotionSources() bool {
	for _, src := range mc.sources {
		if !src.MarkedForRemoval() {
			return true
		}
	}
	return false
}

// RootMotionSourceCount returns the amount of registered sources, including those marked for removal.
func (mc *Component) RootMotionSourceCount() int {
	return len(mc.sources)
}

// removeMarkedSources drops sources marked for removal during an earlier tick.
func (mc *Component) removeMarkedSources() {
	mc.sources = slices.DeleteFunc(mc.sources, func(src Source) bool {
		if src.MarkedForRemoval() {
			mc.log.Debug("root motion source removed", "source", src.Name(), "id", src.ID())
			return true
		}
		return false
	})
}

// IsWalkable returns true if the hit is on a surface the character can walk on.
func (mc *Component) IsWalkable(hit world.Hit) bool {
	return Walkable(hit, mc.walkableFloorZ)
}

// WalkableFloorZ returns the smallest floor normal Z the character can walk on.
func (mc *Component) WalkableFloorZ() float32 {
	return mc.walkableFloorZ
}

// Walkable returns true if the hit is on a surface that can be walked on, given the smallest
// walkable floor normal Z.
func Walkable(hit world.Hit, floorZ float32) bool {
	if !hit.IsValidBlockingHit() {
		return false
	}
	// Vertical and downward facing surfaces are never walkable.
	if hit.ImpactNormal.Z() < game.SmallNumber {
		return false
	}
	if p, ok := hit.Primitive.Resolve(); ok {
		switch p.Walkable {
		case world.WalkableAlways:
			return true
		case world.WalkableNever:
			return false
		}
	}
	return hit.ImpactNormal.Z() >= floorZ
}

// Floor is the result of a floor probe.
type Floor struct {
	Hit world.Hit
	// Distance is the gap between the bottom of the capsule and the floor.
	Distance float32
}

// FindFloor looks for walkable ground under the capsule within game.MaxFloorDist.
func (mc *Component) FindFloor() (Floor, bool) {
	// Start a little above the capsule so resting exactly on the floor is not a penetration.
	const lift = 1
	start := mc.pos.Add(mgl32.Vec3{0, 0, lift})
	end := mc.pos.Sub(mgl32.Vec3{0, 0, game.MaxFloorDist})

	hit, ok := mc.world.Sweep(start, end, mc.Shape(), mc.query)
	if !ok || !mc.IsWalkable(hit) {
		return Floor{}, false
	}
	return Floor{Hit: hit, Distance: max(0, hit.Distance-lift)}, true
}

// Locomotion summarises the movement of the character the way traversal probes consume it.
type Locomotion struct {
	HasSpeed    bool
	VelocityYaw float32
	HasInput    bool
	InputYaw    float32
	Yaw         float32
}

// Locomotion returns the current locomotion state.
func (mc *Component) Locomotion() Locomotion {
	l := Locomotion{Yaw: mc.Yaw()}
	if game.Vec3HzLen(mc.vel) >= 1 {
		l.HasSpeed, l.VelocityYaw = true, game.DirectionToYaw(mc.vel)
	}
	if game.Vec3HzLenSqr(mc.input) > 0 {
		l.HasInput, l.InputYaw = true, game.DirectionToYaw(mc.input)
	}
	return l
}
