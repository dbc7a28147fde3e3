package ability

import (
	"log/slog"
)

// System holds the abilities of one character together with the tags the character holds.
type System struct {
	log *slog.Logger

	tags      Container
	abilities []Ability
}

// NewSystem returns a system without abilities.
func NewSystem(log *slog.Logger) *System {
	if log == nil {
		log = slog.Default()
	}
	return &System{log: log}
}

// Give adds an ability to the system.
func (s *System) Give(a Ability) {
	s.abilities = append(s.abilities, a)
}

// Abilities returns the abilities given to the system.
func (s *System) Abilities() []Ability {
	return s.abilities
}

// AddTags grants tags to the character.
func (s *System) AddTags(tags ...Tag) {
	s.tags.Add(tags...)
}

// RemoveTags revokes tags from the character.
func (s *System) RemoveTags(tags ...Tag) {
	s.tags.Remove(tags...)
}

// HasTag returns true if the character holds a tag matching t.
func (s *System) HasTag(t Tag) bool {
	return s.tags.Has(t)
}

// Tags returns the tags the character holds.
func (s *System) Tags() []Tag {
	return s.tags.Tags()
}

// Blocked returns true if the character holds a tag that blocks a from activating.
func (s *System) Blocked(a Ability) bool {
	return s.tags.HasAny(a.Spec().ActivationBlockedTags...)
}

// CanActivate returns true if a is not running, not blocked, and can activate itself.
func (s *System) CanActivate(a Ability) bool {
	return !a.Active() && !s.Blocked(a) && a.CanActivate()
}

// TryActivate activates a if it may activate, cancelling the abilities it cancels first.
func (s *System) TryActivate(a Ability) bool {
	if !s.CanActivate(a) {
		return false
	}
	spec := a.Spec()
	if len(spec.CancelAbilitiesWithTag) > 0 {
		s.cancel(a, spec.CancelAbilitiesWithTag)
	}
	if !a.Activate() {
		return false
	}
	s.log.Debug("ability activated", "ability", spec.Name)
	return true
}

// TryActivateBySingleTag tries the abilities with a tag matching t in the order they were
// given, and stops at the first that activates.
func (s *System) TryActivateBySingleTag(t Tag) bool {
	for _, a := range s.abilities {
		if a.Spec().HasTag(t) && s.TryActivate(a) {
			return true
		}
	}
	return false
}

// Cancel cancels every active ability with a tag matching any of the tags passed.
func (s *System) Cancel(tags ...Tag) {
	s.cancel(nil, tags)
}

func (s *System) cancel(except Ability, tags []Tag) {
	for _, a := range s.abilities {
		if a == except || !a.Active() {
			continue
		}
		for _, t := range tags {
			if a.Spec().HasTag(t) {
				s.log.Debug("ability cancelled", "ability", a.Spec().Name, "tag", t)
				a.Cancel()
				break
			}
		}
	}
}
