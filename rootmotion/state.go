package rootmotion

import (
	"fmt"

	"github.com/oomph-ac/traverse/movement"
)

// State is the state of a traversal root motion source.
type State uint8

const (
	// StateAttached is the state of a source that has not produced motion yet.
	StateAttached State = iota
	StateSampling
	StateCompleted
	// StateInvalidated is the state of a source whose target surface disappeared.
	StateInvalidated
)

func (s State) String() string {
	switch s {
	case StateAttached:
		return "attached"
	case StateSampling:
		return "sampling"
	case StateCompleted:
		return "completed"
	case StateInvalidated:
		return "invalidated"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// Driver is a root motion source driving a traversal.
type Driver interface {
	movement.Source
	State() State
	// Invalidate stops the driver because the surface it moves the character onto is gone.
	Invalidate()
	// TargetValid returns true if the surface the driver moves the character onto still exists.
	TargetValid() bool
}
