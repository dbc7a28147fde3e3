package world

import (
	"log/slog"
	"sync/atomic"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/traverse/game"
	"github.com/sasha-s/go-deadlock"
)

var currentWorldId atomic.Uint64

// World holds the primitives characters collide with. It is safe for concurrent use: queries
// may run on the worker pool while the owning tick adds, moves or removes primitives.
type World struct {
	id uint64

	// primitives is kept in insertion order so queries visit primitives deterministically.
	primitives *orderedmap.OrderedMap[ID, *Primitive]

	logger **slog.Logger

	deadlock.RWMutex
}

func New(logger **slog.Logger) *World {
	return &World{
		id:         currentWorldId.Add(1),
		primitives: orderedmap.NewOrderedMap[ID, *Primitive](),
		logger:     logger,
	}
}

// ID returns the unique ID of the world.
func (w *World) ID() uint64 {
	return w.id
}

// Add adds a primitive to the world and returns a reference to it. A primitive with the same
// ID already in the world is replaced.
func (w *World) Add(p Primitive) Ref {
	if p.ID == 0 {
		p.ID = IDFromName(p.Name)
	}
	if p.Transform.Rotation == (mgl32.Quat{}) {
		p.Transform.Rotation = mgl32.QuatIdent()
	}
	if p.Transform.Scale == (mgl32.Vec3{}) {
		p.Transform.Scale = mgl32.Vec3{1, 1, 1}
	}

	w.Lock()
	_, replaced := w.primitives.Get(p.ID)
	w.primitives.Set(p.ID, &p)
	w.Unlock()

	if replaced {
		w.log().Debug("replaced primitive", "name", p.Name, "id", Ref{id: p.ID, w: w})
	}
	return Ref{id: p.ID, w: w}
}

// Remove removes the primitive with the ID passed. References to it become invalid.
func (w *World) Remove(id ID) bool {
	w.Lock()
	defer w.Unlock()
	return w.primitives.Delete(id)
}

// Primitive returns a copy of the primitive with the ID passed.
func (w *World) Primitive(id ID) (Primitive, bool) {
	w.RLock()
	defer w.RUnlock()

	p, ok := w.primitives.Get(id)
	if !ok {
		return Primitive{}, false
	}
	return *p, true
}

// Ref returns a reference to the primitive with the ID passed. The reference is returned even
// if no such primitive exists yet, in which case it is simply not valid.
func (w *World) Ref(id ID) Ref {
	if id == 0 {
		return Ref{}
	}
	return Ref{id: id, w: w}
}

// Len returns the amount of primitives in the world.
func (w *World) Len() int {
	w.RLock()
	defer w.RUnlock()
	return w.primitives.Len()
}

// SetTransform moves the primitive with the ID passed.
func (w *World) SetTransform(id ID, t game.Transform) bool {
	w.Lock()
	defer w.Unlock()

	p, ok := w.primitives.Get(id)
	if !ok {
		return false
	}
	if t.Scale == (mgl32.Vec3{}) {
		t.Scale = p.Transform.Scale
	}
	p.Transform = t
	return true
}

// SetVelocity sets the linear velocity of the primitive with the ID passed.
func (w *World) SetVelocity(id ID, vel mgl32.Vec3) bool {
	w.Lock()
	defer w.Unlock()

	p, ok := w.primitives.Get(id)
	if !ok {
		return false
	}
	p.Velocity = vel
	return true
}

// Tick advances every movable primitive by its velocity.
func (w *World) Tick(dt float32) {
	w.Lock()
	defer w.Unlock()

	for el := w.primitives.Front(); el != nil; el = el.Next() {
		p := el.Value
		if p.Mobility != MobilityMovable || p.Velocity == (mgl32.Vec3{}) {
			continue
		}
		p.Transform.Location = p.Transform.Location.Add(p.Velocity.Mul(dt))
	}
}

// Purge removes all primitives from the world.
func (w *World) Purge() {
	w.Lock()
	defer w.Unlock()

	n := w.primitives.Len()
	w.primitives = orderedmap.NewOrderedMap[ID, *Primitive]()
	if n > 0 {
		w.log().Info("purged primitives", "world", w.id, "count", n)
	}
}

func (w *World) log() *slog.Logger {
	if w.logger == nil || *w.logger == nil {
		return slog.Default()
	}
	return *w.logger
}
