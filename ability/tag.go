package ability

import (
	"slices"
	"strings"
)

// Tag is a dot separated hierarchical name, such as "Als.LocomotionAction.Mantling". A tag
// matches itself and every tag it is nested under.
type Tag string

const (
	TagLocomotionAction = Tag("Als.LocomotionAction")
	TagMantling         = Tag("Als.LocomotionAction.Mantling")
	TagVaulting         = Tag("Als.LocomotionAction.Vaulting")
	TagRolling          = Tag("Als.LocomotionAction.Rolling")
	TagRagdolling       = Tag("Als.LocomotionAction.Ragdolling")
	TagFreeFalling      = Tag("Als.LocomotionAction.FreeFalling")
)

// Matches returns true if t is other or is nested under other.
func (t Tag) Matches(other Tag) bool {
	if other == "" {
		return false
	}
	return t == other || strings.HasPrefix(string(t), string(other)+".")
}

// Parent returns the tag t is nested under, or an empty tag.
func (t Tag) Parent() Tag {
	if i := strings.LastIndexByte(string(t), '.'); i >= 0 {
		return t[:i]
	}
	return ""
}

// Container counts tags. A tag added twice must be removed twice.
type Container struct {
	counts map[Tag]int
}

// Add adds the tags passed.
func (c *Container) Add(tags ...Tag) {
	if c.counts == nil {
		c.counts = make(map[Tag]int, len(tags))
	}
	for _, t := range tags {
		c.counts[t]++
	}
}

// Remove removes the tags passed once. Removing a tag not held does nothing.
func (c *Container) Remove(tags ...Tag) {
	for _, t := range tags {
		if n, ok := c.counts[t]; ok {
			if n <= 1 {
				delete(c.counts, t)
				continue
			}
			c.counts[t] = n - 1
		}
	}
}

// Has returns true if any tag held matches t.
func (c *Container) Has(t Tag) bool {
	for held := range c.counts {
		if held.Matches(t) {
			return true
		}
	}
	return false
}

// HasAny returns true if any tag held matches any of the tags passed.
func (c *Container) HasAny(tags ...Tag) bool {
	return slices.ContainsFunc(tags, c.Has)
}

// Count returns how many times exactly t was added.
func (c *Container) Count(t Tag) int {
	return c.counts[t]
}

// Tags returns the tags held, sorted.
func (c *Container) Tags() []Tag {
	tags := make([]Tag, 0, len(c.counts))
	for t := range c.counts {
		tags = append(tags, t)
	}
	slices.Sort(tags)
	return tags
}

// Len returns the amount of distinct tags held.
func (c *Container) Len() int {
	return len(c.counts)
}
