package movement

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Motion is the movement a root motion source produces for one tick.
type Motion struct {
	// Delta is the world space displacement of the character.
	Delta mgl32.Vec3
	// Rotation is the world space rotation applied on top of the current rotation.
	Rotation mgl32.Quat
}

// Source is a root motion source: while registered on a Component and not marked for removal,
// it decides how the character moves.
type Source interface {
	Name() string
	ID() uint16
	SetID(id uint16)

	// Prepare returns the motion of the character over the next dt seconds. A source that
	// returns false produces no motion this tick.
	Prepare(dt float32, mc *Component) (Motion, bool)

	// MarkForRemoval asks the component to drop the source on its next tick.
	MarkForRemoval()
	MarkedForRemoval() bool
}

// SourceBase implements the bookkeeping part of Source.
type SourceBase struct {
	id      uint16
	removed bool
}

// ID ...
func (s *SourceBase) ID() uint16 {
	return s.id
}

// SetID ...
func (s *SourceBase) SetID(id uint16) {
	s.id = id
}

// MarkForRemoval ...
func (s *SourceBase) MarkForRemoval() {
	s.removed = true
}

// MarkedForRemoval ...
func (s *SourceBase) MarkedForRemoval() bool {
	return s.removed
}
