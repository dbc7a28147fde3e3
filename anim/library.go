package anim

import (
	"github.com/sasha-s/go-deadlock"
)

// Library is a named set of clips shared by every character in a process.
type Library struct {
	clips map[string]*Clip
	mu    deadlock.RWMutex
}

// NewLibrary returns a library holding the clips passed.
func NewLibrary(clips ...*Clip) *Library {
	l := &Library{clips: make(map[string]*Clip, len(clips))}
	for _, c := range clips {
		l.Register(c)
	}
	return l
}

// Register adds a clip to the library, replacing any clip with the same name.
func (l *Library) Register(c *Clip) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.clips[c.Name] = c
}

// Clip returns the clip with the name passed.
func (l *Library) Clip(name string) (*Clip, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	c, ok := l.clips[name]
	return c, ok
}

// Len returns the amount of clips in the library.
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.clips)
}
