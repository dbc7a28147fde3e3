package settings

import (
	"github.com/oomph-ac/traverse/anim"
	"github.com/oomph-ac/traverse/world"
)

// Vaulting holds the settings of the vault probe and of vaulting itself.
type Vaulting struct {
	TraceAngleThreshold           float32 `toml:"trace_angle_threshold"`
	MaxReachAngle                 float32 `toml:"max_reach_angle"`
	SlopeAngleThreshold           float32 `toml:"slope_angle_threshold"`
	TargetPrimitiveSpeedThreshold float32 `toml:"target_primitive_speed_threshold"`

	Trace     Trace     `toml:"trace"`
	Collision Collision `toml:"collision"`

	// ReleaseDistance is how far past the landing point the far side is searched for ground.
	ReleaseDistance float32 `toml:"release_distance"`
	// MinimumSpace is the least free distance needed past the landing point.
	MinimumSpace float32 `toml:"minimum_space"`
	// EndLocationMinimumDepth is how far the far side ground must be below the landing point.
	EndLocationMinimumDepth float32 `toml:"end_location_minimum_depth"`
	// MaxDropDepth is how far below the feet the far side ground is searched for.
	MaxDropDepth float32 `toml:"max_drop_depth"`

	Montage          string  `toml:"montage"`
	BlendOutDuration float32 `toml:"blend_out_duration"`

	clip *anim.Clip
}

// DefaultVaulting returns the default vaulting settings.
func DefaultVaulting() Vaulting {
	return Vaulting{
		TraceAngleThreshold:           120,
		MaxReachAngle:                 100,
		SlopeAngleThreshold:           35,
		TargetPrimitiveSpeedThreshold: 10,
		Trace: Trace{
			LedgeHeight:          Range{Min: 50, Max: 125},
			ReachDistance:        75,
			TargetLocationOffset: 15,
			StartLocationOffset:  55,
		},
		Collision:               Collision{Channel: world.ChannelVisibility.String()},
		ReleaseDistance:         120,
		MinimumSpace:            50,
		EndLocationMinimumDepth: 50,
		MaxDropDepth:            100,
		Montage:                 "Vault",
		BlendOutDuration:        0.2,
	}
}

// SlopeAngleThresholdCos returns the cosine of SlopeAngleThreshold.
func (v Vaulting) SlopeAngleThresholdCos() float32 {
	return cosDeg(v.SlopeAngleThreshold)
}

// Clip returns the clip the montage name was bound to, or nil.
func (v *Vaulting) Clip() *anim.Clip {
	return v.clip
}

// SetClip binds the vault to a clip directly.
func (v *Vaulting) SetClip(c *anim.Clip) {
	v.clip = c
	if c != nil {
		v.Montage = c.Name
	}
}
