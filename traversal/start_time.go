package traversal

import (
	"github.com/oomph-ac/traverse/anim"
	"github.com/oomph-ac/traverse/game"
	"github.com/oomph-ac/traverse/metrics"
	"github.com/oomph-ac/traverse/settings"
)

// startTimeTolerance is how close in height the root must be to the searched height.
const startTimeTolerance = 1.0

// ResolveStartTime returns the time in the clip to start playing at so that the root motion left
// to play covers height. Variants without automatic start times map the height onto their
// configured start time range instead.
func ResolveStartTime(clip *anim.Clip, height float32, v settings.MantlingVariant) float32 {
	if !v.AutoStartTime {
		return game.MappedRangeClamped(v.StartTimeReferenceHeight.Vec2(), v.StartTime.Vec2(), height)
	}
	t, iterations := searchStartTime(clip, height)
	metrics.StartTimeIterations.Observe(float64(iterations))
	return t
}

// searchStartTime binary searches the clip for the time its root is at the height the clip
// still has to climb height from. It assumes the root rises monotonically, and stops once the
// interval is no longer than a frame.
func searchStartTime(clip *anim.Clip, height float32) (t float32, iterations int) {
	if clip == nil {
		return 0, 0
	}
	lo, hi := float32(0), clip.Length
	frame := clip.FrameDuration()

	startZ := clip.RootLocation(lo).Z()
	target := max(0, clip.RootLocation(hi).Z()-height)
	if game.IsNearlyEqual(startZ, target, startTimeTolerance) {
		return lo, 0
	}

	for {
		iterations++
		mid := (lo + hi) * 0.5
		z := clip.RootLocation(mid).Z()
		if game.IsNearlyEqual(z, target, startTimeTolerance) || hi-lo <= frame {
			return mid, iterations
		}
		if z < target {
			lo = mid
		} else {
			hi = mid
		}
	}
}
