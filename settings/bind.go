package settings

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/traverse/anim"
)

// Clip converts the asset into a clip.
func (c ClipAsset) Clip() *anim.Clip {
	keys := make([]anim.RootKey, 0, len(c.Keys))
	for _, k := range c.Keys {
		keys = append(keys, anim.RootKey{Time: k.Time, Location: mgl32.Vec3{k.X, k.Y, k.Z}, Yaw: k.Yaw})
	}
	clip := anim.NewClip(c.Name, c.Length, c.FrameRate, keys...)
	if c.RateScale > 0 {
		clip.RateScale = c.RateScale
	}
	return clip
}

// Bind registers the clips of the settings in lib and resolves every montage name against it.
// Names that cannot be resolved are logged and returned. Their variants keep a nil clip, which
// makes starting them fail.
func (s *Settings) Bind(lib *anim.Library, log *slog.Logger) (missing []string) {
	if log == nil {
		log = slog.Default()
	}
	for _, asset := range s.Clips {
		lib.Register(asset.Clip())
	}

	resolve := func(name string) *anim.Clip {
		if name == "" {
			return nil
		}
		c, ok := lib.Clip(name)
		if !ok {
			log.Warn("settings reference an unknown clip", "clip", name)
			missing = append(missing, name)
			return nil
		}
		return c
	}
	for _, v := range []*MantlingVariant{&s.Mantling.Low, &s.Mantling.High, &s.Mantling.InAir} {
		v.clip = resolve(v.Montage)
	}
	s.Vaulting.clip = resolve(s.Vaulting.Montage)
	return missing
}
