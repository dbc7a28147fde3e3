package ability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAbility struct {
	spec      Spec
	can       bool
	active    bool
	cancelled int
}

func (a *testAbility) Spec() Spec        { return a.spec }
func (a *testAbility) CanActivate() bool { return a.can }
func (a *testAbility) Activate() bool    { a.active = true; return true }
func (a *testAbility) Active() bool      { return a.active }
func (a *testAbility) Cancel() {
	if a.active {
		a.active = false
		a.cancelled++
	}
}

func TestTagMatches(t *testing.T) {
	assert.True(t, TagMantling.Matches(TagMantling))
	assert.True(t, TagMantling.Matches(TagLocomotionAction))
	assert.False(t, TagLocomotionAction.Matches(TagMantling))
	assert.False(t, Tag("Als.LocomotionActionX").Matches(TagLocomotionAction))
	assert.False(t, TagMantling.Matches(""))
	assert.Equal(t, TagLocomotionAction, TagMantling.Parent())
	assert.Equal(t, Tag(""), Tag("Als").Parent())
}

func TestContainerCounts(t *testing.T) {
	var c Container
	c.Add(TagMantling, TagMantling)
	c.Remove(TagMantling)
	assert.True(t, c.Has(TagLocomotionAction))
	assert.Equal(t, 1, c.Count(TagMantling))

	c.Remove(TagMantling, TagRolling)
	assert.False(t, c.Has(TagMantling))
	assert.Zero(t, c.Len())

	c.Add(TagVaulting, TagRolling)
	assert.Equal(t, []Tag{TagRolling, TagVaulting}, c.Tags())
	assert.True(t, c.HasAny(TagMantling, TagRolling))
}

func TestSystemBlocksAndCancels(t *testing.T) {
	s := NewSystem(nil)
	mantle := &testAbility{can: true, spec: Spec{
		Name:                  "mantling",
		Tags:                  []Tag{TagMantling},
		ActivationBlockedTags: []Tag{TagLocomotionAction},
	}}
	roll := &testAbility{can: true, spec: Spec{
		Name:                   "rolling",
		Tags:                   []Tag{TagRolling},
		CancelAbilitiesWithTag: []Tag{TagMantling},
	}}
	s.Give(mantle)
	s.Give(roll)

	require.True(t, s.TryActivate(mantle))
	assert.False(t, s.TryActivate(mantle), "an active ability cannot activate again")

	s.AddTags(TagMantling)
	mantle.active = false
	assert.True(t, s.Blocked(mantle))
	assert.False(t, s.TryActivate(mantle))
	s.RemoveTags(TagMantling)

	require.True(t, s.TryActivate(mantle))
	require.True(t, s.TryActivate(roll))
	assert.False(t, mantle.Active())
	assert.Equal(t, 1, mantle.cancelled)
}

func TestTryActivateBySingleTag(t *testing.T) {
	s := NewSystem(nil)
	fell := 0
	s.Give(&testAbility{spec: Spec{Name: "unavailable", Tags: []Tag{TagFreeFalling}}})
	s.Give(NewFunc(Spec{Name: "free falling", Tags: []Tag{TagFreeFalling}}, func() bool {
		fell++
		return true
	}))

	assert.True(t, s.TryActivateBySingleTag(TagFreeFalling))
	assert.Equal(t, 1, fell)
	assert.False(t, s.TryActivateBySingleTag(TagRagdolling))
}

func TestCancelByTag(t *testing.T) {
	s := NewSystem(nil)
	a := &testAbility{can: true, spec: Spec{Name: "vaulting", Tags: []Tag{TagVaulting}}}
	s.Give(a)
	require.True(t, s.TryActivate(a))

	s.Cancel(TagMantling)
	assert.True(t, a.Active())
	s.Cancel(TagLocomotionAction)
	assert.False(t, a.Active())
}
