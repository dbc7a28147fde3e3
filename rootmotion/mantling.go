package rootmotion

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/traverse/anim"
	"github.com/oomph-ac/traverse/game"
	"github.com/oomph-ac/traverse/movement"
	"github.com/oomph-ac/traverse/world"
)

// Mantling moves a character along the root motion of a mantle clip so that the clip's final
// root pose ends up on a target transform. The offset between where the character actually
// is and where the clip expects it to be is blended out over the course of the mantle.
type Mantling struct {
	movement.SourceBase

	montage   *anim.Clip
	startTime float32
	playRate  float32
	duration  float32
	elapsed   float32

	target world.Ref
	// targetTransform is relative to the target's frame when relative is set, and in world space
	// otherwise.
	targetTransform game.Transform
	relative        bool

	actorFeetOffset     mgl32.Vec3
	actorRotationOffset mgl32.Quat

	horizontal, vertical *anim.Curve

	// residual is the part of actorFeetOffset the clip's own motion does not cover, kept in the
	// target's rotation frame so it follows a rotating target.
	residual mgl32.Vec3
	// motion is the root displacement from the start time to the end of the clip.
	motion  mgl32.Vec3
	rootEnd game.Transform

	state State
}

// MantlingConfig configures a Mantling source.
type MantlingConfig struct {
	Montage   *anim.Clip
	StartTime float32

	Target world.Ref
	// TargetTransform is where the character's feet end up.
	TargetTransform game.Transform
	// Relative marks TargetTransform as relative to the target's frame.
	Relative bool

	// ActorFeetOffset is the character's feet relative to the target location, in world space.
	ActorFeetOffset mgl32.Vec3
	// ActorRotationOffset is the character's rotation relative to the target rotation.
	ActorRotationOffset mgl32.Quat

	// HorizontalCorrection and VerticalCorrection map normalized time to how far the offset
	// has been blended out. nil curves blend linearly.
	HorizontalCorrection, VerticalCorrection *anim.Curve
}

// NewMantling returns a source for the configuration passed. The world space rotation of the
// target at the time of attaching is passed so the offsets can be stored relative to it.
func NewMantling(cfg MantlingConfig, targetRotation mgl32.Quat) *Mantling {
	rate := cfg.Montage.PlayRate()
	rootStart := cfg.Montage.RootTransform(cfg.StartTime)
	rootEnd := cfg.Montage.RootTransform(cfg.Montage.Length)
	motion := rootEnd.Location.Sub(rootStart.Location)

	rot := cfg.ActorRotationOffset
	if rot == (mgl32.Quat{}) {
		rot = mgl32.QuatIdent()
	}

	return &Mantling{
		montage:             cfg.Montage,
		startTime:           cfg.StartTime,
		playRate:            rate,
		duration:            (cfg.Montage.Length - cfg.StartTime) / rate,
		target:              cfg.Target,
		targetTransform:     cfg.TargetTransform,
		relative:            cfg.Relative,
		actorFeetOffset:     cfg.ActorFeetOffset,
		actorRotationOffset: rot,
		horizontal:          cfg.HorizontalCorrection,
		vertical:            cfg.VerticalCorrection,
		residual:            targetRotation.Inverse().Rotate(cfg.ActorFeetOffset).Add(motion),
		motion:              motion,
		rootEnd:             rootEnd,
		state:               StateAttached,
	}
}

// Name ...
func (s *Mantling) Name() string {
	return "mantling"
}

// State returns the state of the source.
func (s *Mantling) State() State {
	return s.state
}

// Duration returns the time in seconds the source runs for.
func (s *Mantling) Duration() float32 {
	return s.duration
}

// Elapsed returns the time in seconds the source has run for.
func (s *Mantling) Elapsed() float32 {
	return s.elapsed
}

// Target returns the surface the character is moved onto.
func (s *Mantling) Target() world.Ref {
	return s.target
}

// ActorFeetOffset returns the offset of the character's feet from the target at attach time.
func (s *Mantling) ActorFeetOffset() mgl32.Vec3 {
	return s.actorFeetOffset
}

// ResolveTarget returns the world space target transform. It fails once the target surface is
// gone.
func (s *Mantling) ResolveTarget() (game.Transform, bool) {
	p, ok := s.target.Resolve()
	if !ok {
		return game.Transform{}, false
	}
	if s.relative {
		return p.Frame().Compose(s.targetTransform), true
	}
	return s.targetTransform, true
}

// Invalidate stops the source because its target is gone.
func (s *Mantling) Invalidate() {
	if s.state == StateCompleted || s.state == StateInvalidated {
		return
	}
	s.state = StateInvalidated
	s.MarkForRemoval()
}

// Prepare ...
func (s *Mantling) Prepare(dt float32, mc *movement.Component) (movement.Motion, bool) {
	if s.state == StateCompleted || s.state == StateInvalidated {
		return movement.Motion{}, false
	}
	target, ok := s.ResolveTarget()
	if !ok {
		s.Invalidate()
		return movement.Motion{}, false
	}
	s.state = StateSampling

	s.elapsed = min(s.elapsed+dt, s.duration)
	feet, rot := s.Sample(target, s.elapsed)

	if s.elapsed >= s.duration {
		s.state = StateCompleted
		s.MarkForRemoval()
	}

	centre := feet.Add(mgl32.Vec3{0, 0, mc.HalfHeight()})
	return movement.Motion{
		Delta:    centre.Sub(mc.Pos()),
		Rotation: rot.Mul(mc.Rotation().Inverse()).Normalize(),
	}, true
}

// Sample returns the feet location and rotation of the character after elapsed seconds, for the
// world space target transform passed.
func (s *Mantling) Sample(target game.Transform, elapsed float32) (mgl32.Vec3, mgl32.Quat) {
	alpha := float32(1)
	if s.duration > 0 {
		alpha = game.Clamp(elapsed/s.duration, 0, 1)
	}
	hAlpha, vAlpha := alpha, alpha
	if !s.horizontal.Empty() {
		hAlpha = game.Clamp(s.horizontal.Eval(alpha), 0, 1)
	}
	if !s.vertical.Empty() {
		vAlpha = game.Clamp(s.vertical.Eval(alpha), 0, 1)
	}

	root := s.montage.RootTransform(s.startTime + elapsed*s.playRate)
	// Displacement of the root since the start time, then expressed relative to the end pose.
	delta := root.Location.Sub(s.montage.RootTransform(s.startTime).Location)
	animOffset := target.TransformVector(delta.Sub(s.motion))

	residual := target.TransformVector(s.residual)
	correction := mgl32.Vec3{
		residual.X() * (1 - hAlpha),
		residual.Y() * (1 - hAlpha),
		residual.Z() * (1 - vAlpha),
	}
	feet := target.Location.Add(animOffset).Add(correction)

	rootRot := root.Rotation.Mul(s.rootEnd.Rotation.Inverse())
	offset := game.QuatSlerp(s.actorRotationOffset, mgl32.QuatIdent(), hAlpha)
	rot := target.Rotation.Mul(rootRot).Mul(offset).Normalize()
	return feet, rot
}

// TargetValid ...
func (s *Mantling) TargetValid() bool {
	_, ok := s.ResolveTarget()
	return ok
}
