package probe

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/traverse/game"
	"github.com/oomph-ac/traverse/world"
)

// Parameters are the result of a successful probe.
type Parameters struct {
	// Target is the surface the character lands on. It must be resolved again before use.
	Target world.Ref
	// TargetTransform is the landing pose of the character's feet. It is relative to the
	// target's frame if Relative is set and in world space otherwise.
	TargetTransform game.Transform
	Relative        bool

	// Height is the vertical distance from the feet to the landing point, divided by the
	// capsule scale.
	Height float32
	Kind   Kind

	// EndLocation is where the feet end up on the far side of a vault, in world space.
	EndLocation mgl32.Vec3
}

// WorldTransform resolves the landing pose in world space. It fails if the target is gone.
func (p Parameters) WorldTransform() (game.Transform, bool) {
	prim, ok := p.Target.Resolve()
	if !ok {
		return game.Transform{}, false
	}
	if p.Relative {
		return prim.Frame().Compose(p.TargetTransform), true
	}
	return p.TargetTransform, true
}
