package probe

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/traverse/game"
	"github.com/oomph-ac/traverse/movement"
	"github.com/oomph-ac/traverse/settings"
	"github.com/oomph-ac/traverse/world"
)

// VaultProber searches for obstacles a character can vault over.
type VaultProber struct {
	world Spatial
	log   *slog.Logger

	cfg ledgeConfig

	releaseDistance float32
	minimumSpace    float32
	minimumDepth    float32
	maxDropDepth    float32
}

// NewVaultProber returns a vault prober searching w with the settings passed.
func NewVaultProber(w Spatial, s settings.Vaulting, log *slog.Logger) (*VaultProber, error) {
	if log == nil {
		log = slog.Default()
	}
	q, err := s.Collision.Query()
	if err != nil {
		return nil, fmt.Errorf("vault probe: %w", err)
	}
	return &VaultProber{
		world: w,
		log:   log,
		cfg: ledgeConfig{
			cone:           cone{angleThreshold: s.TraceAngleThreshold, maxReachAngle: s.MaxReachAngle},
			slopeCos:       s.SlopeAngleThresholdCos(),
			speedThreshold: s.TargetPrimitiveSpeedThreshold,
			trace:          s.Trace,
			query:          q,
		},
		releaseDistance: s.ReleaseDistance,
		minimumSpace:    s.MinimumSpace,
		minimumDepth:    s.EndLocationMinimumDepth,
		maxDropDepth:    s.MaxDropDepth,
	}, nil
}

// Probe looks for a vault from the character pose passed. Vaults are only possible from the
// ground while the character wants to move.
func (p *VaultProber) Probe(in Input) (Parameters, Rejection) {
	params, r := p.probe(in)
	if !r.OK() {
		p.log.Debug("vault probe rejected", "stage", r)
	}
	return params, r
}

func (p *VaultProber) probe(in Input) (Parameters, Rejection) {
	if !in.Grounded {
		return Parameters{}, RejectInAir
	}
	if !in.Locomotion.HasInput {
		return Parameters{}, RejectNoInput
	}
	cfg := p.cfg
	cfg.query = withIgnored(cfg.query, in.Ignore)

	l, r := findLedge(p.world, in, cfg)
	if !r.OK() {
		return Parameters{}, r
	}

	// Look for room past the landing point.
	scale := in.scale()
	sphere := world.Sphere(l.traceRadius)
	releaseStart := l.location.Add(mgl32.Vec3{0, 0, l.traceRadius + game.MinFloorDist})
	release := releaseStart.Add(l.direction.Mul(p.releaseDistance * scale))
	if hit, ok := p.world.Sweep(releaseStart, release, sphere, cfg.query); ok && hit.Blocking {
		if hit.StartPenetrating || hit.Distance < p.minimumSpace*scale {
			return Parameters{}, RejectNoReleaseSpace
		}
		release = hit.Location
	}

	// Find the ground on the far side. It has to be deep enough below the landing point for
	// the obstacle to be something to vault over rather than to stand on.
	dropEnd := mgl32.Vec3{release.X(), release.Y(), l.feet.Z() - p.maxDropDepth*scale + l.traceRadius}
	ground, ok := p.world.Sweep(release, dropEnd, sphere, cfg.query)
	if !ok || !movement.Walkable(ground, in.floorZ()) {
		return Parameters{}, RejectNoEndLocation
	}
	if l.location.Z()-ground.ImpactPoint.Z() < p.minimumDepth*scale {
		return Parameters{}, RejectNoEndLocation
	}
	end := mgl32.Vec3{ground.Location.X(), ground.Location.Y(), ground.ImpactPoint.Z() + game.MinFloorDist}
	if p.world.Overlap(end.Add(mgl32.Vec3{0, 0, in.HalfHeight}), world.Capsule(in.Radius, in.HalfHeight), cfg.query) {
		return Parameters{}, RejectNoEndLocation
	}

	params := l.parameters(KindNone)
	params.EndLocation = end
	return params, RejectNone
}
