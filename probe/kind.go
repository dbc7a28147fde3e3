package probe

import "fmt"

// Kind classifies a traversal.
type Kind uint8

const (
	// KindNone is the kind of traversals that are not classified, such as vaults.
	KindNone Kind = iota
	KindLow
	KindHigh
	KindInAir
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindLow:
		return "low"
	case KindHigh:
		return "high"
	case KindInAir:
		return "in_air"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Rejection is the stage at which a probe found a traversal infeasible. The zero value means the
// probe succeeded.
type Rejection uint8

const (
	RejectNone Rejection = iota
	// RejectDirection means the probe direction turned too far from the character's facing.
	RejectDirection
	// RejectNoObstacle means the forward sweep did not hit anything usable.
	RejectNoObstacle
	// RejectObstacleSpeed means the obstacle moves too fast.
	RejectObstacleSpeed
	// RejectNoStepUp means the obstacle does not allow characters onto it.
	RejectNoStepUp
	// RejectWalkableObstacle means the obstacle can simply be walked onto.
	RejectWalkableObstacle
	// RejectNoLedge means the downward sweep found no surface to stand on.
	RejectNoLedge
	// RejectSlope means the surface found is too steep.
	RejectSlope
	// RejectLandingBlocked means there is no room to stand on the surface.
	RejectLandingBlocked
	// RejectPathBlocked means something, such as a low ceiling, is in the way.
	RejectPathBlocked
	// RejectInAir means a grounded-only traversal was probed while airborne.
	RejectInAir
	// RejectNoInput means a traversal that needs movement input was probed without it.
	RejectNoInput
	// RejectNoReleaseSpace means there is too little room past the landing point.
	RejectNoReleaseSpace
	// RejectNoEndLocation means no ground deep enough was found past the obstacle.
	RejectNoEndLocation
	// RejectIncomplete means the probe did not run to completion.
	RejectIncomplete
)

var rejectionNames = [...]string{
	RejectNone:             "none",
	RejectDirection:        "direction",
	RejectNoObstacle:       "no_obstacle",
	RejectObstacleSpeed:    "obstacle_speed",
	RejectNoStepUp:         "no_step_up",
	RejectWalkableObstacle: "walkable_obstacle",
	RejectNoLedge:          "no_ledge",
	RejectSlope:            "slope",
	RejectLandingBlocked:   "landing_blocked",
	RejectPathBlocked:      "path_blocked",
	RejectInAir:            "in_air",
	RejectNoInput:          "no_input",
	RejectNoReleaseSpace:   "no_release_space",
	RejectNoEndLocation:    "no_end_location",
	RejectIncomplete:       "incomplete",
}

func (r Rejection) String() string {
	if int(r) < len(rejectionNames) {
		return rejectionNames[r]
	}
	return fmt.Sprintf("Rejection(%d)", uint8(r))
}

// OK returns true if the probe succeeded.
func (r Rejection) OK() bool {
	return r == RejectNone
}
