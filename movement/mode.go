package movement

import "fmt"

// Mode is the movement mode of a character.
type Mode uint8

const (
	ModeNone Mode = iota
	ModeWalking
	ModeFalling
	ModeFlying
	// ModeCustom hands movement over to root motion sources entirely.
	ModeCustom
)

func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case ModeWalking:
		return "walking"
	case ModeFalling:
		return "falling"
	case ModeFlying:
		return "flying"
	case ModeCustom:
		return "custom"
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// NetworkSmoothing is how remote copies of a character are smoothed between updates.
type NetworkSmoothing uint8

const (
	SmoothingDisabled NetworkSmoothing = iota
	SmoothingLinear
	SmoothingExponential
)

func (s NetworkSmoothing) String() string {
	switch s {
	case SmoothingDisabled:
		return "disabled"
	case SmoothingLinear:
		return "linear"
	case SmoothingExponential:
		return "exponential"
	}
	return fmt.Sprintf("NetworkSmoothing(%d)", uint8(s))
}
