package anim

import (
	"log/slog"
)

// MontagePlayer plays one clip at a time on a character, the way a montage slot does.
type MontagePlayer struct {
	log *slog.Logger

	current  *Clip
	position float32
	rate     float32

	// blendOut is the remaining blend out time of a stopped clip.
	blendOut float32
	stopped  bool
}

// NewMontagePlayer returns an idle montage player.
func NewMontagePlayer(log *slog.Logger) *MontagePlayer {
	if log == nil {
		log = slog.Default()
	}
	return &MontagePlayer{log: log}
}

// Play starts playing c from start at the rate passed, interrupting whatever was playing.
// It returns false if the clip cannot be played.
func (m *MontagePlayer) Play(c *Clip, rate, start float32) bool {
	if c == nil || c.Length <= 0 || rate <= 0 || start < 0 || start > c.Length {
		return false
	}
	if m.current != nil && m.current != c {
		m.log.Debug("montage interrupted", "montage", m.current.Name, "by", c.Name)
	}
	m.current, m.position, m.rate = c, start, rate
	m.blendOut, m.stopped = 0, false
	return true
}

// Stop blends out the clip c over blendOut seconds. A nil clip stops whatever is playing.
func (m *MontagePlayer) Stop(blendOut float32, c *Clip) {
	if m.current == nil || (c != nil && m.current != c) || m.stopped {
		return
	}
	m.stopped, m.blendOut = true, max(0, blendOut)
	if m.blendOut == 0 {
		m.current = nil
	}
}

// Tick advances playback.
func (m *MontagePlayer) Tick(dt float32) {
	if m.current == nil {
		return
	}
	if m.stopped {
		if m.blendOut -= dt; m.blendOut <= 0 {
			m.current = nil
		}
		return
	}
	if m.position += dt * m.rate; m.position >= m.current.Length {
		m.position = m.current.Length
		m.current = nil
	}
}

// IsPlaying returns true if c is playing and not blending out. A nil clip matches any clip.
func (m *MontagePlayer) IsPlaying(c *Clip) bool {
	return m.current != nil && !m.stopped && (c == nil || m.current == c)
}

// IsBlendingOut returns true if a stopped clip is still blending out.
func (m *MontagePlayer) IsBlendingOut() bool {
	return m.current != nil && m.stopped
}

// Current returns the clip playing, if any.
func (m *MontagePlayer) Current() *Clip {
	return m.current
}

// Position returns the playback position of the current clip.
func (m *MontagePlayer) Position() float32 {
	return m.position
}
