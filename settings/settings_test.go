package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/traverse/anim"
	"github.com/oomph-ac/traverse/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	require.NoError(t, s.Validate())

	assert.Equal(t, float32(110), s.Mantling.TraceAngleThreshold)
	assert.Equal(t, float32(125), s.Mantling.HighHeightThreshold)
	assert.Equal(t, Range{Min: 50, Max: 225}, s.Mantling.GroundedTrace.LedgeHeight)
	assert.Equal(t, Range{Min: 50, Max: 150}, s.Mantling.InAirTrace.LedgeHeight)
	assert.InDelta(t, 0.819, s.Mantling.SlopeAngleThresholdCos(), 1e-3)
	assert.Equal(t, float32(120), s.Vaulting.ReleaseDistance)
	assert.True(t, s.Mantling.Low.AutoStartTime)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
}

func TestSaveDefaultThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traverse.toml")
	require.NoError(t, SaveDefault(path))
	require.Error(t, SaveDefault(path), "saving over an existing file must fail")

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
}

func TestLoadOverridesAndClips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traverse.toml")
	data := `
[mantling]
high_height_threshold = 100

[mantling.grounded_trace.ledge_height]
min = 20
max = 150

[mantling.collision]
channel = "Camera"
[mantling.collision.responses]
Pawn = "Ignore"

[mantling.low]
montage = "LowRise"
auto_start_time = false

[[clips]]
name = "LowRise"
length = 1.0
frame_rate = 30.0
keys = [ { time = 0.0, z = 0.0 }, { time = 1.0, z = 45.0 } ]
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, float32(100), s.Mantling.HighHeightThreshold)
	assert.Equal(t, Range{Min: 20, Max: 150}, s.Mantling.GroundedTrace.LedgeHeight)
	assert.Equal(t, float32(75), s.Mantling.GroundedTrace.ReachDistance, "unset keys keep their defaults")
	assert.False(t, s.Mantling.Low.AutoStartTime)

	q, err := s.Mantling.Collision.Query()
	require.NoError(t, err)
	assert.Equal(t, world.ChannelCamera, q.Channel)
	assert.Equal(t, world.ResponseIgnore, q.Responses.Get(world.ChannelPawn))
	assert.Equal(t, world.ResponseBlock, q.Responses.Get(world.ChannelWorldStatic))

	lib := anim.NewLibrary()
	missing := s.Bind(lib, nil)
	assert.ElementsMatch(t, []string{"MantleHigh", "MantleInAir", "Vault"}, missing)
	require.NotNil(t, s.Mantling.Low.Clip())
	assert.Equal(t, mgl32.Vec3{0, 0, 45}, s.Mantling.Low.Clip().RootLocation(1))
	assert.Nil(t, s.Mantling.High.Clip())
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traverse.toml")
	data := "[vaulting.trace.ledge_height]\nmin = 200\nmax = 100\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestCorrections(t *testing.T) {
	v := MantlingVariant{VerticalCorrection: []anim.CurveKey{{Time: 0, Value: 0}, {Time: 0.5, Value: 1}}}
	h, vert := v.Corrections()
	assert.Nil(t, h)
	require.NotNil(t, vert)
	assert.InDelta(t, 0.5, vert.Eval(0.25), 1e-6)
}
