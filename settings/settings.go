package settings

import (
	"errors"
	"fmt"
	"os"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"
)

// Settings contains everything that can be configured for traversal.
type Settings struct {
	Mantling Mantling `toml:"mantling"`
	Vaulting Vaulting `toml:"vaulting"`
	Network  Network  `toml:"network"`
	// Clips are clips defined in the settings file. They are added to the clip library when the
	// settings are bound.
	Clips []ClipAsset `toml:"clips,omitempty"`
}

// Range is a closed float range.
type Range struct {
	Min float32 `toml:"min"`
	Max float32 `toml:"max"`
}

// Vec2 returns the range as a vector of (min, max).
func (r Range) Vec2() mgl32.Vec2 {
	return mgl32.Vec2{r.Min, r.Max}
}

// Trace holds the geometry of the sweeps used to look for a ledge.
type Trace struct {
	// LedgeHeight is the range above the feet the top of an obstacle must be in.
	LedgeHeight Range `toml:"ledge_height"`
	// ReachDistance is how far in front of the capsule obstacles are searched for.
	ReachDistance float32 `toml:"reach_distance"`
	// TargetLocationOffset moves the downward sweep from the obstacle face onto the obstacle.
	TargetLocationOffset float32 `toml:"target_location_offset"`
	// StartLocationOffset moves the path clearance check from the obstacle face back towards
	// the character.
	StartLocationOffset float32 `toml:"start_location_offset"`
}

// Collision selects what the probe sweeps collide with.
type Collision struct {
	// Channel is the name of the collision channel the sweeps are issued on.
	Channel string `toml:"channel"`
	// Responses override the query's response per object type, by name.
	Responses map[string]string `toml:"responses,omitempty"`
}

// Network holds the settings of the replication of traversal starts.
type Network struct {
	// ServerStartRate is the amount of start requests per second a client may send.
	ServerStartRate float64 `toml:"server_start_rate"`
	// ServerStartBurst is the amount of start requests a client may send at once.
	ServerStartBurst int `toml:"server_start_burst"`
	// ChannelCapacity is the amount of pending probe results kept per character.
	ChannelCapacity int `toml:"channel_capacity"`
}

// ClipAsset describes a clip in a settings file.
type ClipAsset struct {
	Name      string    `toml:"name"`
	Length    float32   `toml:"length"`
	FrameRate float32   `toml:"frame_rate"`
	RateScale float32   `toml:"rate_scale"`
	Keys      []ClipKey `toml:"keys"`
}

// ClipKey is a root bone key of a ClipAsset.
type ClipKey struct {
	Time float32 `toml:"time"`
	X    float32 `toml:"x"`
	Y    float32 `toml:"y"`
	Z    float32 `toml:"z"`
	Yaw  float32 `toml:"yaw"`
}

// DefaultSettings returns the default settings.
func DefaultSettings() Settings {
	return Settings{
		Mantling: DefaultMantling(),
		Vaulting: DefaultVaulting(),
		Network: Network{
			ServerStartRate:  10,
			ServerStartBurst: 4,
			ChannelCapacity:  8,
		},
	}
}

// Validate returns an error if the settings cannot be used.
func (s Settings) Validate() error {
	var errs []error
	for name, r := range map[string]Range{
		"mantling.grounded_trace.ledge_height": s.Mantling.GroundedTrace.LedgeHeight,
		"mantling.in_air_trace.ledge_height":   s.Mantling.InAirTrace.LedgeHeight,
		"vaulting.trace.ledge_height":          s.Vaulting.Trace.LedgeHeight,
	} {
		if r.Min > r.Max {
			errs = append(errs, fmt.Errorf("%s: min %v is above max %v", name, r.Min, r.Max))
		}
	}
	if s.Mantling.SlopeAngleThreshold < 0 || s.Mantling.SlopeAngleThreshold > 90 {
		errs = append(errs, fmt.Errorf("mantling.slope_angle_threshold: %v is not in [0, 90]", s.Mantling.SlopeAngleThreshold))
	}
	if s.Network.ChannelCapacity <= 0 {
		errs = append(errs, fmt.Errorf("network.channel_capacity: must be positive, got %d", s.Network.ChannelCapacity))
	}
	for i, c := range s.Clips {
		if c.Name == "" || c.Length <= 0 {
			errs = append(errs, fmt.Errorf("clips[%d]: a clip needs a name and a positive length", i))
		}
	}
	return errors.Join(errs...)
}

// SaveDefault will create and save the default settings file. If the file already exists, it will return an error.
func SaveDefault(path string) error {
	s := DefaultSettings()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if data, err := toml.Marshal(s); err != nil {
			return fmt.Errorf("failed encoding default settings: %w", err)
		} else if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed creating settings file: %w", err)
		}
		return nil
	}
	return errors.New("settings file already exists")
}

// Load will load the settings from your settings file. Values missing from the file keep their
// defaults, and a missing file yields the default settings.
func Load(path string) (Settings, error) {
	settings := DefaultSettings()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return settings, nil
	} else if err != nil {
		return Settings{}, fmt.Errorf("error reading settings: %w", err)
	}

	if err = toml.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("error decoding settings: %w", err)
	}
	if err = settings.Validate(); err != nil {
		return Settings{}, fmt.Errorf("invalid settings: %w", err)
	}
	return settings, nil
}

// cosDeg returns the cosine of an angle in degrees.
func cosDeg(deg float32) float32 {
	return math32.Cos(mgl32.DegToRad(deg))
}
