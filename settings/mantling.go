package settings

import (
	"fmt"

	"github.com/oomph-ac/traverse/anim"
	"github.com/oomph-ac/traverse/world"
)

// Mantling holds the settings of the mantle probe and of mantling itself.
type Mantling struct {
	// TraceAngleThreshold is the largest angle between the character's facing and the probe
	// direction.
	TraceAngleThreshold float32 `toml:"trace_angle_threshold"`
	// MaxReachAngle is the largest angle the probe direction may be turned from the facing.
	MaxReachAngle float32 `toml:"max_reach_angle"`
	// SlopeAngleThreshold is the steepest top surface in degrees a character may mantle onto.
	SlopeAngleThreshold float32 `toml:"slope_angle_threshold"`
	// TargetPrimitiveSpeedThreshold is the highest speed an obstacle may move at.
	TargetPrimitiveSpeedThreshold float32 `toml:"target_primitive_speed_threshold"`
	// HighHeightThreshold is the traversal height above which a grounded mantle is high.
	HighHeightThreshold float32 `toml:"high_height_threshold"`

	GroundedTrace Trace     `toml:"grounded_trace"`
	InAirTrace    Trace     `toml:"in_air_trace"`
	Collision     Collision `toml:"collision"`

	// BlendOutDuration is the blend out time of a montage of a mantle that did not finish.
	BlendOutDuration float32 `toml:"blend_out_duration"`
	// StartFallbackOnTargetDestruction activates the fallback ability when the surface being
	// mantled onto disappears.
	StartFallbackOnTargetDestruction bool   `toml:"start_fallback_on_target_destruction"`
	FallbackTag                      string `toml:"fallback_tag"`

	Low   MantlingVariant `toml:"low"`
	High  MantlingVariant `toml:"high"`
	InAir MantlingVariant `toml:"in_air"`
}

// MantlingVariant holds the settings of a single kind of mantle.
type MantlingVariant struct {
	// Montage is the name of the clip played.
	Montage string `toml:"montage"`
	// AutoStartTime finds the start time by searching the clip's root motion. Otherwise the
	// start time is mapped from the traversal height.
	AutoStartTime            bool  `toml:"auto_start_time"`
	StartTimeReferenceHeight Range `toml:"start_time_reference_height"`
	StartTime                Range `toml:"start_time"`

	// HorizontalCorrection and VerticalCorrection map the normalized time of the mantle to how
	// far the character has been corrected towards the animation. Empty curves correct linearly.
	HorizontalCorrection []anim.CurveKey `toml:"horizontal_correction,omitempty"`
	VerticalCorrection   []anim.CurveKey `toml:"vertical_correction,omitempty"`

	clip *anim.Clip
}

// DefaultMantling returns the default mantling settings.
func DefaultMantling() Mantling {
	variant := func(montage string) MantlingVariant {
		return MantlingVariant{
			Montage:                  montage,
			AutoStartTime:            true,
			StartTimeReferenceHeight: Range{Min: 50, Max: 100},
			StartTime:                Range{Min: 0.5, Max: 0},
		}
	}
	return Mantling{
		TraceAngleThreshold:           110,
		MaxReachAngle:                 50,
		SlopeAngleThreshold:           35,
		TargetPrimitiveSpeedThreshold: 10,
		HighHeightThreshold:           125,
		GroundedTrace: Trace{
			LedgeHeight:          Range{Min: 50, Max: 225},
			ReachDistance:        75,
			TargetLocationOffset: 15,
			StartLocationOffset:  55,
		},
		InAirTrace: Trace{
			LedgeHeight:          Range{Min: 50, Max: 150},
			ReachDistance:        70,
			TargetLocationOffset: 15,
			StartLocationOffset:  55,
		},
		Collision:                        Collision{Channel: world.ChannelVisibility.String()},
		BlendOutDuration:                 0.3,
		StartFallbackOnTargetDestruction: true,
		FallbackTag:                      "Als.LocomotionAction.FreeFalling",
		Low:                              variant("MantleLow"),
		High:                             variant("MantleHigh"),
		InAir:                            variant("MantleInAir"),
	}
}

// SlopeAngleThresholdCos returns the cosine of SlopeAngleThreshold.
func (m Mantling) SlopeAngleThresholdCos() float32 {
	return cosDeg(m.SlopeAngleThreshold)
}

// Clip returns the clip the montage name was bound to, or nil.
func (v *MantlingVariant) Clip() *anim.Clip {
	return v.clip
}

// SetClip binds the variant to a clip directly.
func (v *MantlingVariant) SetClip(c *anim.Clip) {
	v.clip = c
	if c != nil {
		v.Montage = c.Name
	}
}

// Corrections returns the correction curves of the variant. Empty curves are returned as nil.
func (v *MantlingVariant) Corrections() (horizontal, vertical *anim.Curve) {
	if len(v.HorizontalCorrection) > 0 {
		horizontal = anim.NewCurve(v.HorizontalCorrection...)
	}
	if len(v.VerticalCorrection) > 0 {
		vertical = anim.NewCurve(v.VerticalCorrection...)
	}
	return
}

// Query builds the collision query described by c. An empty channel selects Visibility.
func (c Collision) Query() (world.Query, error) {
	q := world.NewQuery(world.ChannelVisibility)
	if c.Channel != "" {
		ch, err := world.ParseChannel(c.Channel)
		if err != nil {
			return world.Query{}, err
		}
		q.Channel = ch
	}
	for objectType, response := range c.Responses {
		ch, err := world.ParseChannel(objectType)
		if err != nil {
			return world.Query{}, fmt.Errorf("response override: %w", err)
		}
		r, err := world.ParseResponse(response)
		if err != nil {
			return world.Query{}, fmt.Errorf("response override for %s: %w", objectType, err)
		}
		q.Responses = q.Responses.With(ch, r)
	}
	return q, nil
}
