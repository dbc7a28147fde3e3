package world

import (
	"fmt"
)

// Ref is a weak reference to a primitive. The primitive may be removed from the world at any
// time, so a Ref must be resolved again every time it is used.
type Ref struct {
	id ID
	w  *World
}

// ID returns the ID of the referenced primitive, or zero for an empty reference.
func (r Ref) ID() ID {
	return r.id
}

// IsZero returns true if the reference was never set.
func (r Ref) IsZero() bool {
	return r.id == 0 || r.w == nil
}

// Valid returns true if the referenced primitive is still present in the world.
func (r Ref) Valid() bool {
	if r.IsZero() {
		return false
	}
	_, ok := r.w.Primitive(r.id)
	return ok
}

// Resolve returns a copy of the current state of the referenced primitive.
func (r Ref) Resolve() (Primitive, bool) {
	if r.IsZero() {
		return Primitive{}, false
	}
	return r.w.Primitive(r.id)
}

func (r Ref) String() string {
	if r.IsZero() {
		return "<none>"
	}
	return fmt.Sprintf("%016x", uint64(r.id))
}
