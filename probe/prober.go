package probe

import (
	"fmt"
	"log/slog"

	"github.com/oomph-ac/traverse/settings"
)

// Prober searches for obstacles a character can mantle onto.
type Prober struct {
	world Spatial
	log   *slog.Logger

	highHeightThreshold float32
	grounded, inAir     ledgeConfig
}

// NewProber returns a mantle prober searching w with the settings passed.
func NewProber(w Spatial, s settings.Mantling, log *slog.Logger) (*Prober, error) {
	if log == nil {
		log = slog.Default()
	}
	q, err := s.Collision.Query()
	if err != nil {
		return nil, fmt.Errorf("mantle probe: %w", err)
	}
	cfg := ledgeConfig{
		cone:           cone{angleThreshold: s.TraceAngleThreshold, maxReachAngle: s.MaxReachAngle},
		slopeCos:       s.SlopeAngleThresholdCos(),
		speedThreshold: s.TargetPrimitiveSpeedThreshold,
		query:          q,
	}
	grounded, inAir := cfg, cfg
	grounded.trace, inAir.trace = s.GroundedTrace, s.InAirTrace
	return &Prober{
		world:               w,
		log:                 log,
		highHeightThreshold: s.HighHeightThreshold,
		grounded:            grounded,
		inAir:               inAir,
	}, nil
}

// Probe looks for a mantle from the character pose passed. It has no side effects, so probing
// twice against the same world gives the same result.
func (p *Prober) Probe(in Input) (Parameters, Rejection) {
	cfg := p.grounded
	if !in.Grounded {
		cfg = p.inAir
	}
	cfg.query = withIgnored(cfg.query, in.Ignore)

	l, r := findLedge(p.world, in, cfg)
	if !r.OK() {
		p.log.Debug("mantle probe rejected", "stage", r, "grounded", in.Grounded)
		return Parameters{}, r
	}
	return l.parameters(p.Classify(in.Grounded, l.height)), RejectNone
}

// Classify returns the kind of a mantle of the height passed. Heights above the high height
// threshold are high, a height equal to it is low.
func (p *Prober) Classify(grounded bool, height float32) Kind {
	switch {
	case !grounded:
		return KindInAir
	case height > p.highHeightThreshold:
		return KindHigh
	default:
		return KindLow
	}
}
