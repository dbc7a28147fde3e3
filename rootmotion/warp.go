package rootmotion

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/traverse/anim"
	"github.com/oomph-ac/traverse/game"
	"github.com/oomph-ac/traverse/movement"
	"github.com/oomph-ac/traverse/world"
)

// Warp moves a character over an obstacle in two legs: from where it stands onto a landing
// point, then from the landing point down to an end location. The clip is split at its highest
// root key, and each leg follows the progress the clip's root makes during its half.
type Warp struct {
	movement.SourceBase

	montage  *anim.Clip
	playRate float32
	duration float32
	elapsed  float32
	peak     float32

	startFeet     mgl32.Vec3
	startRotation mgl32.Quat

	target          world.Ref
	targetTransform game.Transform
	relative        bool
	end             mgl32.Vec3

	state State
}

// WarpConfig configures a Warp source.
type WarpConfig struct {
	Montage *anim.Clip

	StartFeet     mgl32.Vec3
	StartRotation mgl32.Quat

	Target world.Ref
	// TargetTransform is the landing point on top of the obstacle.
	TargetTransform game.Transform
	Relative        bool
	// EndLocation is where the feet end up, in world space.
	EndLocation mgl32.Vec3
}

// NewWarp returns a warp source for the configuration passed.
func NewWarp(cfg WarpConfig) *Warp {
	rate := cfg.Montage.PlayRate()
	peak := cfg.Montage.PeakTime()
	if peak <= 0 || peak >= cfg.Montage.Length {
		peak = cfg.Montage.Length / 2
	}
	rot := cfg.StartRotation
	if rot == (mgl32.Quat{}) {
		rot = mgl32.QuatIdent()
	}
	return &Warp{
		montage:         cfg.Montage,
		playRate:        rate,
		duration:        cfg.Montage.Length / rate,
		peak:            peak,
		startFeet:       cfg.StartFeet,
		startRotation:   rot,
		target:          cfg.Target,
		targetTransform: cfg.TargetTransform,
		relative:        cfg.Relative,
		end:             cfg.EndLocation,
		state:           StateAttached,
	}
}

// Name ...
func (s *Warp) Name() string {
	return "vaulting"
}

// State returns the state of the source.
func (s *Warp) State() State {
	return s.state
}

// Duration returns the time in seconds the source runs for.
func (s *Warp) Duration() float32 {
	return s.duration
}

// Target returns the obstacle vaulted over.
func (s *Warp) Target() world.Ref {
	return s.target
}

// ResolveTarget returns the world space landing transform.
func (s *Warp) ResolveTarget() (game.Transform, bool) {
	p, ok := s.target.Resolve()
	if !ok {
		return game.Transform{}, false
	}
	if s.relative {
		return p.Frame().Compose(s.targetTransform), true
	}
	return s.targetTransform, true
}

// TargetValid ...
func (s *Warp) TargetValid() bool {
	_, ok := s.ResolveTarget()
	return ok
}

// Invalidate stops the source because its target is gone.
func (s *Warp) Invalidate() {
	if s.state == StateCompleted || s.state == StateInvalidated {
		return
	}
	s.state = StateInvalidated
	s.MarkForRemoval()
}

// Prepare ...
func (s *Warp) Prepare(dt float32, mc *movement.Component) (movement.Motion, bool) {
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

// Sample returns the feet location and rotation after elapsed seconds, for the world space
// landing transform passed.
func (s *Warp) Sample(target game.Transform, elapsed float32) (mgl32.Vec3, mgl32.Quat) {
	t := game.Clamp(elapsed*s.playRate, 0, s.montage.Length)
	if t <= s.peak {
		h, v, alpha := s.progress(0, s.peak, t)
		feet := lerpAxes(s.startFeet, target.Location, h, v)
		return feet, game.QuatSlerp(s.startRotation, target.Rotation, alpha)
	}
	h, v, _ := s.progress(s.peak, s.montage.Length, t)
	return lerpAxes(target.Location, s.end, h, v), target.Rotation
}

// progress returns how far the root has moved horizontally and vertically at t between the
// times a and b, along with the plain time fraction. An axis the root does not move along
// in that span progresses with time.
func (s *Warp) progress(a, b, t float32) (h, v, alpha float32) {
	alpha = 1
	if b > a {
		alpha = game.Clamp((t-a)/(b-a), 0, 1)
	}
	from := s.montage.RootLocation(a)
	span := s.montage.RootLocation(b).Sub(from)
	moved := s.montage.RootLocation(t).Sub(from)

	h, v = alpha, alpha
	if l := game.Vec3HzLen(span); l > game.SmallNumber {
		h = game.Clamp(game.Vec3HzLen(moved)/l, 0, 1)
	}
	if !game.IsNearlyZero(span.Z()) {
		v = game.Clamp(moved.Z()/span.Z(), 0, 1)
	}
	return h, v, alpha
}

func lerpAxes(from, to mgl32.Vec3, h, v float32) mgl32.Vec3 {
	d := to.Sub(from)
	return from.Add(mgl32.Vec3{d.X() * h, d.Y() * h, d.Z() * v})
}
