package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/traverse/anim"
	"github.com/oomph-ac/traverse/game"
	"github.com/oomph-ac/traverse/metrics"
	"github.com/oomph-ac/traverse/movement"
	"github.com/oomph-ac/traverse/replication"
	"github.com/oomph-ac/traverse/settings"
	"github.com/oomph-ac/traverse/traversal"
	"github.com/oomph-ac/traverse/world"
	"golang.org/x/sync/errgroup"
)

var (
	settingsPath = flag.String("settings", "traverse.toml", "path of the traversal settings file")
	metricsAddr  = flag.String("metrics", "", "address to serve metrics on, disabled if empty")
	maxTicks     = flag.Int("ticks", 300, "amount of ticks to simulate at most")
)

// The following program runs a server, the client owning a character and a client observing it
// in one process, and has the owner mantle onto a crate.
func main() {
	flag.Parse()
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, log); err != nil {
		log.Error("demo failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger) error {
	s, err := settings.Load(*settingsPath)
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	// The demo crate is 40 high, below the default grounded ledge band.
	s.Mantling.GroundedTrace.LedgeHeight.Min = 20
	if missing := s.Bind(anim.NewLibrary(demoClips()...), log); len(missing) > 0 {
		log.Warn("some traversals cannot start", "missing", missing)
	}

	if os.Getenv("PPROF_ENABLED") != "" {
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr("localhost:8080"))

		mgr := statsview.New()
		go mgr.Start()
		defer mgr.Stop()
	}

	hub := replication.NewHub(s.Network, 64, log)
	server, err := join(hub, "server", replication.RoleAuthority, &s, log)
	if err != nil {
		return err
	}
	owner, err := join(hub, "owner", replication.RoleAutonomousProxy, &s, log)
	if err != nil {
		return err
	}
	observer, err := join(hub, "observer", replication.RoleSimulatedProxy, &s, log)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	simDone := make(chan struct{})

	if *metricsAddr != "" {
		srv := &http.Server{Addr: *metricsAddr, Handler: metrics.Handler()}
		g.Go(func() error {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			select {
			case <-gctx.Done():
			case <-simDone:
			}
			return srv.Shutdown(context.Background())
		})
	}

	g.Go(func() error {
		defer close(simDone)
		return simulate(gctx, log, hub, server, owner, observer)
	})
	return g.Wait()
}

func simulate(ctx context.Context, log *slog.Logger, hub *replication.Hub, nodes ...*traversal.Node) error {
	ticker := time.NewTicker(time.Second / game.DefaultTickRate)
	defer ticker.Stop()

	alice := func(n *traversal.Node) *traversal.Character {
		c, _ := n.Character("alice")
		return c
	}
	if !alice(nodes[1]).TryMantle() {
		return errors.New("owner could not start a mantle")
	}

	for tick := 1; tick <= *maxTicks; tick++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		hub.Flush()
		for _, n := range nodes {
			n.Tick(game.DefaultTickDelta)
		}

		finished := true
		for _, n := range nodes {
			if m := alice(n).Mantling(); m.Phase() != traversal.PhaseIdle || m.LastEnd() == traversal.OutcomeNone {
				finished = false
			}
		}
		if finished {
			for _, n := range nodes {
				c := alice(n)
				log.Info("mantle finished", "role", c.Role(), "outcome", c.Mantling().LastEnd(),
					"feet", c.Movement().Feet(), "mode", c.Movement().Mode(), "ticks", tick)
			}
			return nil
		}
	}
	return fmt.Errorf("mantle did not finish within %d ticks", *maxTicks)
}

// join connects a new node to the hub and adds the demo character to it.
func join(hub *replication.Hub, name string, role replication.Role, s *settings.Settings, log *slog.Logger) (*traversal.Node, error) {
	log = log.With("node", name)
	w := world.New(&log)
	w.Add(world.NewBox("ground", mgl32.Vec3{-1000, -1000, -10}, mgl32.Vec3{1000, 1000, 0}))
	w.Add(world.NewBox("crate", mgl32.Vec3{50, -100, 0}, mgl32.Vec3{150, 100, 40}))

	n := traversal.NewNode(w, log)
	conn := hub.Connect(name, role == replication.RoleAuthority, n)
	c, err := traversal.NewCharacter(traversal.Config{
		Name:       "alice",
		Owner:      "owner",
		World:      w,
		Settings:   s,
		Role:       role,
		Replicator: conn,
		Log:        log,
		Movement: movement.Config{
			Location:   mgl32.Vec3{0, 0, 90},
			Radius:     30,
			HalfHeight: 90,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("creating character on %s: %w", name, err)
	}
	n.Add(c)
	return n, nil
}

func demoClips() []*anim.Clip {
	return []*anim.Clip{
		anim.NewLinearClip("MantleLow", 1, 30, mgl32.Vec3{}, mgl32.Vec3{0, 0, 45}),
		anim.NewLinearClip("MantleHigh", 1.5, 30, mgl32.Vec3{}, mgl32.Vec3{0, 0, 230}),
		anim.NewLinearClip("MantleInAir", 1, 30, mgl32.Vec3{}, mgl32.Vec3{0, 0, 150}),
		anim.NewClip("Vault", 1, 30,
			anim.RootKey{Time: 0},
			anim.RootKey{Time: 0.5, Location: mgl32.Vec3{0, 0, 60}},
			anim.RootKey{Time: 1},
		),
	}
}
