package traversal

import (
	"fmt"

	"github.com/oomph-ac/traverse/anim"
	"github.com/oomph-ac/traverse/game"
	"github.com/oomph-ac/traverse/movement"
	"github.com/oomph-ac/traverse/oerror"
	"github.com/oomph-ac/traverse/probe"
	"github.com/oomph-ac/traverse/rootmotion"
	"github.com/oomph-ac/traverse/settings"
)

// Action is a kind of traversal.
type Action uint8

const (
	ActionMantling Action = iota
	ActionVaulting
)

func (a Action) String() string {
	switch a {
	case ActionMantling:
		return "mantling"
	case ActionVaulting:
		return "vaulting"
	}
	return fmt.Sprintf("Action(%d)", uint8(a))
}

// plan is everything needed to start a traversal once its target is resolved.
type plan struct {
	driver    rootmotion.Driver
	montage   *anim.Clip
	startTime float32
	playRate  float32
	mode      movement.Mode
}

// action is what differs between traversal kinds: how they are probed for and how their root
// motion is built.
type action interface {
	Action() Action
	Probe(in probe.Input) (probe.Parameters, probe.Rejection)
	Plan(mc *movement.Component, p probe.Parameters, target game.Transform) (plan, error)
	BlendOut() float32
}

type mantle struct {
	prober   *probe.Prober
	settings *settings.Mantling
}

func (mantle) Action() Action {
	return ActionMantling
}

func (a mantle) Probe(in probe.Input) (probe.Parameters, probe.Rejection) {
	return a.prober.Probe(in)
}

func (a mantle) BlendOut() float32 {
	return a.settings.BlendOutDuration
}

func (a mantle) variant(kind probe.Kind) *settings.MantlingVariant {
	switch kind {
	case probe.KindLow:
		return &a.settings.Low
	case probe.KindHigh:
		return &a.settings.High
	case probe.KindInAir:
		return &a.settings.InAir
	}
	return nil
}

func (a mantle) Plan(mc *movement.Component, p probe.Parameters, target game.Transform) (plan, error) {
	v := a.variant(p.Kind)
	if v == nil {
		return plan{}, oerror.Malformed(game.ErrorMissingSettings, "mantling", p.Kind)
	}
	clip := v.Clip()
	if clip == nil {
		return plan{}, oerror.Malformed(game.ErrorMissingMontage, "mantling", p.Kind)
	}
	endZ := clip.RootLocation(clip.Length).Z()
	if game.IsNearlyZero(endZ - clip.RootLocation(0).Z()) {
		return plan{}, oerror.Malformed(game.ErrorDegenerateRootMotion, clip.Name, endZ)
	}

	start := ResolveStartTime(clip, p.Height, *v)
	horizontal, vertical := v.Corrections()
	driver := rootmotion.NewMantling(rootmotion.MantlingConfig{
		Montage:              clip,
		StartTime:            start,
		Target:               p.Target,
		TargetTransform:      p.TargetTransform,
		Relative:             p.Relative,
		ActorFeetOffset:      mc.Feet().Sub(target.Location),
		ActorRotationOffset:  target.Rotation.Inverse().Mul(mc.Rotation()).Normalize(),
		HorizontalCorrection: horizontal,
		VerticalCorrection:   vertical,
	}, target.Rotation)
	return plan{
		driver:    driver,
		montage:   clip,
		startTime: start,
		playRate:  clip.PlayRate(),
		mode:      movement.ModeCustom,
	}, nil
}

type vault struct {
	prober   *probe.VaultProber
	settings *settings.Vaulting
}

func (vault) Action() Action {
	return ActionVaulting
}

func (a vault) Probe(in probe.Input) (probe.Parameters, probe.Rejection) {
	return a.prober.Probe(in)
}

func (a vault) BlendOut() float32 {
	return a.settings.BlendOutDuration
}

func (a vault) Plan(mc *movement.Component, p probe.Parameters, _ game.Transform) (plan, error) {
	clip := a.settings.Clip()
	if clip == nil {
		return plan{}, oerror.Malformed(game.ErrorMissingMontage, "vaulting", p.Kind)
	}
	if clip.Length <= 0 {
		return plan{}, oerror.Malformed(game.ErrorDegenerateRootMotion, clip.Name, clip.RootLocation(0).Z())
	}
	driver := rootmotion.NewWarp(rootmotion.WarpConfig{
		Montage:         clip,
		StartFeet:       mc.Feet(),
		StartRotation:   mc.Rotation(),
		Target:          p.Target,
		TargetTransform: p.TargetTransform,
		Relative:        p.Relative,
		EndLocation:     p.EndLocation,
	})
	return plan{
		driver:   driver,
		montage:  clip,
		playRate: clip.PlayRate(),
		mode:     movement.ModeFlying,
	}, nil
}
