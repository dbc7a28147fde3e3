package probe

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/traverse/game"
	"github.com/oomph-ac/traverse/movement"
	"github.com/oomph-ac/traverse/world"
)

// Spatial is the world geometry a probe searches.
type Spatial interface {
	Sweep(start, end mgl32.Vec3, shape world.Shape, q world.Query) (world.Hit, bool)
	Overlap(centre mgl32.Vec3, shape world.Shape, q world.Query) bool
}

// Input is a snapshot of the character a probe runs for.
type Input struct {
	// Location is the centre of the capsule.
	Location mgl32.Vec3
	// Yaw is the facing of the character in degrees.
	Yaw float32

	// Radius and HalfHeight are the scaled capsule dimensions.
	Radius, HalfHeight float32
	Scale              float32

	Grounded   bool
	Locomotion movement.Locomotion

	WalkableFloorZ float32
	// Ignore lists primitives probes never hit, such as the character's own.
	Ignore []world.ID
}

// InputFromMovement takes a snapshot of the character moved by mc.
func InputFromMovement(mc *movement.Component) Input {
	return Input{
		Location:       mc.Pos(),
		Yaw:            game.NormalizeAxis(mc.Yaw()),
		Radius:         mc.Radius(),
		HalfHeight:     mc.HalfHeight(),
		Scale:          mc.Scale(),
		Grounded:       mc.IsMovingOnGround(),
		Locomotion:     mc.Locomotion(),
		WalkableFloorZ: mc.WalkableFloorZ(),
		Ignore:         mc.Ignored(),
	}
}

// Feet returns the bottom of the capsule.
func (in Input) Feet() mgl32.Vec3 {
	return in.Location.Sub(mgl32.Vec3{0, 0, in.HalfHeight})
}

func (in Input) scale() float32 {
	if in.Scale == 0 {
		return 1
	}
	return in.Scale
}

func (in Input) floorZ() float32 {
	if in.WalkableFloorZ == 0 {
		return game.WalkableFloorZ
	}
	return in.WalkableFloorZ
}
