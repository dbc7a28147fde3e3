package game

const (
	// MinFloorDist is the smallest gap kept between a standing capsule and the floor under it.
	MinFloorDist = float32(1.9)
	// MaxFloorDist is the largest gap under a capsule that still counts as standing on the floor.
	MaxFloorDist = float32(2.4)

	// WalkableFloorZ is the smallest surface normal Z a character may stand on (about 44 degrees).
	WalkableFloorZ = float32(0.71)

	// DefaultTickRate is the simulation rate used when no explicit step is configured.
	DefaultTickRate = 30
	// DefaultTickDelta is the step in seconds for DefaultTickRate.
	DefaultTickDelta = float32(1) / DefaultTickRate
)
