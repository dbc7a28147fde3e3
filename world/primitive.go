package world

import (
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/traverse/game"
	"github.com/zeebo/xxh3"
)

// ID identifies a primitive. IDs are derived from primitive names, so the same scene built on
// several machines agrees on them. The zero ID is never assigned.
type ID uint64

// IDFromName returns the ID of the primitive with the name given.
func IDFromName(name string) ID {
	id := ID(xxh3.HashString(name))
	if id == 0 {
		id = 1
	}
	return id
}

// Mobility describes whether a primitive may move after it was placed.
type Mobility uint8

const (
	MobilityStatic Mobility = iota
	MobilityStationary
	MobilityMovable
)

func (m Mobility) String() string {
	switch m {
	case MobilityStatic:
		return "static"
	case MobilityStationary:
		return "stationary"
	}
	return "movable"
}

// WalkableOverride changes how the walkable slope test treats a primitive.
type WalkableOverride uint8

const (
	WalkableDefault WalkableOverride = iota
	WalkableAlways
	WalkableNever
)

// Primitive is an oriented box in the world.
type Primitive struct {
	ID   ID
	Name string

	// Transform places the box. Its location is the centre of the box.
	Transform game.Transform
	// Extents are the half sizes of the box before scaling.
	Extents mgl32.Vec3

	ObjectType Channel
	Responses  Responses

	Mobility Mobility
	Velocity mgl32.Vec3

	// NoStepUp stops characters from stepping or climbing onto the primitive.
	NoStepUp bool
	Walkable WalkableOverride
}

// NewBox returns a static world primitive spanning the axis aligned box from min to max.
func NewBox(name string, min, max mgl32.Vec3) Primitive {
	return Primitive{
		ID:         IDFromName(name),
		Name:       name,
		Transform:  game.NewTransform(min.Add(max).Mul(0.5), mgl32.QuatIdent()),
		Extents:    max.Sub(min).Mul(0.5),
		ObjectType: ChannelWorldStatic,
	}
}

// CanStepUp returns true if characters may climb onto the primitive.
func (p Primitive) CanStepUp() bool {
	return !p.NoStepUp
}

// IsMovable returns true if the primitive may move or rotate on its own, in which case
// positions on it are best kept relative to it.
func (p Primitive) IsMovable() bool {
	return p.Mobility == MobilityMovable
}

// ScaledExtents returns the half sizes of the box in world units.
func (p Primitive) ScaledExtents() mgl32.Vec3 {
	s := p.Transform.Scale
	if s == (mgl32.Vec3{}) {
		s = mgl32.Vec3{1, 1, 1}
	}
	return mgl32.Vec3{
		p.Extents[0] * abs(s[0]),
		p.Extents[1] * abs(s[1]),
		p.Extents[2] * abs(s[2]),
	}
}

// BBox returns the world space bounding box of the primitive.
func (p Primitive) BBox() cube.BBox {
	ext := p.ScaledExtents()
	var half mgl32.Vec3
	for _, axis := range [3]mgl32.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}} {
		// Project each world axis onto the rotated box.
		local := p.Transform.Rotation.Inverse().Rotate(axis)
		r := abs(local[0])*ext[0] + abs(local[1])*ext[1] + abs(local[2])*ext[2]
		half = half.Add(axis.Mul(r))
	}
	c := p.Transform.Location
	return cube.Box(c[0]-half[0], c[1]-half[1], c[2]-half[2], c[0]+half[0], c[1]+half[1], c[2]+half[2])
}

// Frame returns the unscaled rigid transform of the box. Locations relative to a primitive are
// expressed in this frame.
func (p Primitive) Frame() game.Transform {
	rot := p.Transform.Rotation
	if rot == (mgl32.Quat{}) {
		rot = mgl32.QuatIdent()
	}
	return game.NewTransform(p.Transform.Location, rot)
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
