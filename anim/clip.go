package anim

import (
	"sort"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/traverse/game"
)

// RootKey is a keyframe of a clip's root bone.
type RootKey struct {
	Time     float32
	Location mgl32.Vec3
	// Yaw is the root's rotation about the up axis in degrees.
	Yaw float32
}

// Clip is an animation clip reduced to what traversal needs: its timing and the motion of its
// root bone.
type Clip struct {
	Name string
	// Length is the length of the clip in seconds at a rate of 1.
	Length float32
	// FrameRate is the sample rate the clip was authored at.
	FrameRate float32
	// RateScale is the authored playback rate.
	RateScale float32

	// Root holds the root bone keys, sorted by time.
	Root []RootKey
}

// NewClip returns a clip with the root keys passed. The keys are sorted by time.
func NewClip(name string, length, frameRate float32, keys ...RootKey) *Clip {
	c := &Clip{Name: name, Length: length, FrameRate: frameRate, RateScale: 1, Root: keys}
	sort.SliceStable(c.Root, func(i, j int) bool { return c.Root[i].Time < c.Root[j].Time })
	return c
}

// NewLinearClip returns a clip whose root moves in a straight line from `from` to `to` over its
// whole length.
func NewLinearClip(name string, length, frameRate float32, from, to mgl32.Vec3) *Clip {
	return NewClip(name, length, frameRate,
		RootKey{Time: 0, Location: from},
		RootKey{Time: length, Location: to},
	)
}

// FrameDuration returns the duration of a single frame of the clip.
func (c *Clip) FrameDuration() float32 {
	if c.FrameRate <= 0 {
		return 1 / float32(game.DefaultTickRate)
	}
	return 1 / c.FrameRate
}

// PlayRate returns the rate the clip should be played at.
func (c *Clip) PlayRate() float32 {
	if c.RateScale <= 0 {
		return 1
	}
	return c.RateScale
}

// RootTransform samples the root bone at time t. t is clamped to the length of the clip.
func (c *Clip) RootTransform(t float32) game.Transform {
	loc, yaw := c.sample(t)
	return game.NewTransform(loc, game.YawQuat(yaw))
}

// RootLocation samples the location of the root bone at time t.
func (c *Clip) RootLocation(t float32) mgl32.Vec3 {
	loc, _ := c.sample(t)
	return loc
}

// PeakTime returns the earliest time at which the root bone is at its highest.
func (c *Clip) PeakTime() float32 {
	var (
		best  float32
		bestZ = float32(-math32.MaxFloat32)
	)
	for _, k := range c.Root {
		if k.Time > c.Length {
			break
		}
		if k.Location.Z() > bestZ {
			best, bestZ = k.Time, k.Location.Z()
		}
	}
	return best
}

func (c *Clip) sample(t float32) (mgl32.Vec3, float32) {
	if len(c.Root) == 0 {
		return mgl32.Vec3{}, 0
	}
	t = game.Clamp(t, 0, c.Length)

	i := sort.Search(len(c.Root), func(i int) bool { return c.Root[i].Time >= t })
	if i == 0 {
		return c.Root[0].Location, c.Root[0].Yaw
	}
	if i == len(c.Root) {
		last := c.Root[len(c.Root)-1]
		return last.Location, last.Yaw
	}

	a, b := c.Root[i-1], c.Root[i]
	span := b.Time - a.Time
	if span <= 0 {
		return b.Location, b.Yaw
	}
	alpha := (t - a.Time) / span
	loc := a.Location.Add(b.Location.Sub(a.Location).Mul(alpha))
	return loc, a.Yaw + game.NormalizeAxis(b.Yaw-a.Yaw)*alpha
}
