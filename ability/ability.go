package ability

// Ability is something a character can do that excludes or interrupts other abilities through
// tags.
type Ability interface {
	// Spec returns the tags of the ability.
	Spec() Spec
	// CanActivate returns true if the ability may activate right now. It may prepare state that
	// the following Activate call consumes.
	CanActivate() bool
	// Activate starts the ability. It returns false if the ability did not start after all.
	Activate() bool
	// Active returns true while the ability runs.
	Active() bool
	// Cancel ends the ability early. Cancelling an ability that is not active does nothing.
	Cancel()
}

// Spec describes how an ability relates to others through tags.
type Spec struct {
	Name string
	// Tags identify the ability. TryActivateBySingleTag and Cancel select abilities by them.
	Tags []Tag
	// ActivationOwnedTags are held by the character while the ability is active.
	ActivationOwnedTags []Tag
	// ActivationBlockedTags stop the ability from activating while the character holds any.
	ActivationBlockedTags []Tag
	// CancelAbilitiesWithTag lists tags of the abilities cancelled when this ability activates.
	CancelAbilitiesWithTag []Tag
}

// HasTag returns true if any tag of the ability matches t.
func (s Spec) HasTag(t Tag) bool {
	for _, own := range s.Tags {
		if own.Matches(t) {
			return true
		}
	}
	return false
}

// TagOwner grants and revokes tags on a character.
type TagOwner interface {
	AddTags(tags ...Tag)
	RemoveTags(tags ...Tag)
	HasTag(t Tag) bool
}

// Func is an ability that runs a function when activated and is never active afterwards.
type Func struct {
	spec Spec
	f    func() bool
}

// NewFunc returns an instant ability running f.
func NewFunc(spec Spec, f func() bool) *Func {
	return &Func{spec: spec, f: f}
}

// Spec ...
func (a *Func) Spec() Spec { return a.spec }

// CanActivate ...
func (a *Func) CanActivate() bool { return a.f != nil }

// Activate ...
func (a *Func) Activate() bool { return a.f() }

// Active ...
func (a *Func) Active() bool { return false }

// Cancel ...
func (a *Func) Cancel() {}
