package anim

import (
	"sort"
)

// CurveKey is a key of a float curve.
type CurveKey struct {
	Time  float32 `toml:"time"`
	Value float32 `toml:"value"`
}

// Curve is a piecewise linear float curve. Evaluating outside its keys returns the value of the
// nearest key.
type Curve struct {
	Keys []CurveKey
}

// NewCurve returns a curve with the keys passed, sorted by time.
func NewCurve(keys ...CurveKey) *Curve {
	c := &Curve{Keys: keys}
	sort.SliceStable(c.Keys, func(i, j int) bool { return c.Keys[i].Time < c.Keys[j].Time })
	return c
}

// Empty returns true if the curve is nil or has no keys.
func (c *Curve) Empty() bool {
	return c == nil || len(c.Keys) == 0
}

// Eval evaluates the curve at t.
func (c *Curve) Eval(t float32) float32 {
	if c.Empty() {
		return 0
	}
	i := sort.Search(len(c.Keys), func(i int) bool { return c.Keys[i].Time >= t })
	if i == 0 {
		return c.Keys[0].Value
	}
	if i == len(c.Keys) {
		return c.Keys[len(c.Keys)-1].Value
	}
	a, b := c.Keys[i-1], c.Keys[i]
	if b.Time <= a.Time {
		return b.Value
	}
	return a.Value + (b.Value-a.Value)*(t-a.Time)/(b.Time-a.Time)
}
