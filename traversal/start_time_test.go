package traversal

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/traverse/anim"
	"github.com/oomph-ac/traverse/settings"
	"github.com/stretchr/testify/assert"
)

func autoVariant() settings.MantlingVariant {
	return settings.MantlingVariant{AutoStartTime: true}
}

func TestResolveStartTimeLowMantle(t *testing.T) {
	clip := anim.NewLinearClip("MantleLow", 1, 30, mgl32.Vec3{}, mgl32.Vec3{0, 0, 45})

	start := ResolveStartTime(clip, 41.9, autoVariant())
	assert.InDelta(t, 0.0625, start, 1e-6)

	// The root reaches 45 - 40 = 5 at 1/9s. The start lies before it, within a frame of where
	// 41.9 is left to climb.
	assert.Greater(t, start, float32(0))
	assert.Less(t, start, float32(5.0/45.0))
	assert.InDelta(t, 3.1/45.0, start, float64(clip.FrameDuration()))
}

func TestResolveStartTimeIsMonotonic(t *testing.T) {
	clip := anim.NewLinearClip("MantleLow", 1, 30, mgl32.Vec3{}, mgl32.Vec3{0, 0, 45})

	prev := ResolveStartTime(clip, 0, autoVariant())
	for h := float32(0.5); h <= 50; h += 0.5 {
		start := ResolveStartTime(clip, h, autoVariant())
		assert.LessOrEqual(t, start, prev, "height %v", h)
		prev = start
	}
	assert.Equal(t, float32(0), ResolveStartTime(clip, 60, autoVariant()), "heights above the clip start at its beginning")
}

func TestStartTimeSearchIsBounded(t *testing.T) {
	clips := []*anim.Clip{
		anim.NewLinearClip("short", 1, 30, mgl32.Vec3{}, mgl32.Vec3{0, 0, 45}),
		anim.NewLinearClip("long", 2.5, 60, mgl32.Vec3{}, mgl32.Vec3{0, 0, 180}),
		anim.NewClip("eased", 1.2, 30,
			anim.RootKey{Time: 0},
			anim.RootKey{Time: 0.2, Location: mgl32.Vec3{0, 0, 5}},
			anim.RootKey{Time: 0.9, Location: mgl32.Vec3{0, 0, 120}},
			anim.RootKey{Time: 1.2, Location: mgl32.Vec3{0, 0, 125}},
		),
	}
	for _, clip := range clips {
		bound := int(math32.Ceil(math32.Log2(clip.Length/clip.FrameDuration()))) + 1
		endZ := clip.RootLocation(clip.Length).Z()
		for h := float32(0); h <= endZ; h += 0.25 {
			_, iterations := searchStartTime(clip, h)
			assert.LessOrEqual(t, iterations, bound, "%s: height %v", clip.Name, h)
		}
	}
}

func TestResolveStartTimeMapped(t *testing.T) {
	v := settings.MantlingVariant{
		StartTimeReferenceHeight: settings.Range{Min: 50, Max: 100},
		StartTime:                settings.Range{Min: 0.5, Max: 0},
	}
	assert.InDelta(t, 0.25, ResolveStartTime(nil, 75, v), 1e-6)
	assert.InDelta(t, 0.5, ResolveStartTime(nil, 20, v), 1e-6)
	assert.InDelta(t, 0, ResolveStartTime(nil, 120, v), 1e-6)
}
