package traversal

import (
	"fmt"
	"log/slog"

	"github.com/oomph-ac/traverse/ability"
	"github.com/oomph-ac/traverse/anim"
	"github.com/oomph-ac/traverse/game"
	"github.com/oomph-ac/traverse/movement"
	"github.com/oomph-ac/traverse/oerror"
	"github.com/oomph-ac/traverse/probe"
	"github.com/oomph-ac/traverse/replication"
	"github.com/oomph-ac/traverse/settings"
	"github.com/oomph-ac/traverse/world"
)

// Config configures a new Character.
type Config struct {
	// Name identifies the character on every machine simulating it.
	Name string
	// Owner is the name of the connection controlling the character. The authority only
	// accepts start requests from it.
	Owner string

	World    *world.World
	Movement movement.Config
	// Settings are the traversal settings, bound to their clips.
	Settings *settings.Settings

	Role       replication.Role
	Replicator Replicator
	Log        *slog.Logger
}

// Character is one copy of a character able to traverse: its movement, montage slot,
// abilities and traversal machines.
type Character struct {
	name, owner string
	log         *slog.Logger
	role        replication.Role
	replicator  Replicator
	settings    *settings.Settings

	movement  *movement.Component
	montage   *anim.MontagePlayer
	abilities *ability.System

	mantling, vaulting *Machine
	freeFalling        *ability.Func
}

// NewCharacter returns a character for the configuration passed.
func NewCharacter(cfg Config) (*Character, error) {
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	if cfg.Settings == nil {
		return nil, oerror.New("character %q has no traversal settings", cfg.Name)
	}
	if cfg.World == nil {
		return nil, oerror.New(game.ErrorInternalNilMovement, cfg.Name)
	}
	log := cfg.Log.With("character", cfg.Name, "role", cfg.Role.String())

	mcfg := cfg.Movement
	mcfg.World, mcfg.Log = cfg.World, log

	c := &Character{
		name:       cfg.Name,
		owner:      cfg.Owner,
		log:        log,
		role:       cfg.Role,
		replicator: cfg.Replicator,
		settings:   cfg.Settings,
		movement:   movement.New(mcfg),
		montage:    anim.NewMontagePlayer(log),
		abilities:  ability.NewSystem(log),
	}

	mantleProber, err := probe.NewProber(cfg.World, cfg.Settings.Mantling, log)
	if err != nil {
		return nil, fmt.Errorf("character %q: %w", cfg.Name, err)
	}
	vaultProber, err := probe.NewVaultProber(cfg.World, cfg.Settings.Vaulting, log)
	if err != nil {
		return nil, fmt.Errorf("character %q: %w", cfg.Name, err)
	}
	capacity := cfg.Settings.Network.ChannelCapacity

	c.mantling = newMachine(c, mantle{prober: mantleProber, settings: &cfg.Settings.Mantling},
		locomotionActionSpec("Mantling", ability.TagMantling), capacity)
	c.vaulting = newMachine(c, vault{prober: vaultProber, settings: &cfg.Settings.Vaulting},
		locomotionActionSpec("Vaulting", ability.TagVaulting), capacity)
	c.freeFalling = ability.NewFunc(ability.Spec{
		Name: "FreeFalling",
		Tags: []ability.Tag{ability.TagFreeFalling},
	}, func() bool {
		c.movement.ForceMode(movement.ModeFalling)
		c.movement.SetBase(world.Ref{})
		return true
	})

	c.abilities.Give(c.mantling)
	c.abilities.Give(c.vaulting)
	c.abilities.Give(c.freeFalling)
	return c, nil
}

// locomotionActionSpec returns the spec of a traversal ability: it holds its own tag while
// active and cannot start during any other locomotion action.
func locomotionActionSpec(name string, tag ability.Tag) ability.Spec {
	return ability.Spec{
		Name:                  name,
		Tags:                  []ability.Tag{tag},
		ActivationOwnedTags:   []ability.Tag{tag},
		ActivationBlockedTags: []ability.Tag{ability.TagLocomotionAction},
	}
}

// Name returns the name of the character.
func (c *Character) Name() string {
	return c.name
}

// Role returns the network role of this copy of the character.
func (c *Character) Role() replication.Role {
	return c.role
}

// Movement returns the movement component of the character.
func (c *Character) Movement() *movement.Component {
	return c.movement
}

// Montage returns the montage slot of the character.
func (c *Character) Montage() *anim.MontagePlayer {
	return c.montage
}

// Abilities returns the ability system of the character.
func (c *Character) Abilities() *ability.System {
	return c.abilities
}

// Mantling returns the machine running mantles.
func (c *Character) Mantling() *Machine {
	return c.mantling
}

// Vaulting returns the machine running vaults.
func (c *Character) Vaulting() *Machine {
	return c.vaulting
}

// Machine returns the machine running the action passed, or nil.
func (c *Character) Machine(a Action) *Machine {
	switch a {
	case ActionMantling:
		return c.mantling
	case ActionVaulting:
		return c.vaulting
	}
	return nil
}

// TryMantle starts a mantle if one is possible.
func (c *Character) TryMantle() bool {
	return c.mantling.TryStart()
}

// TryVault starts a vault if one is possible.
func (c *Character) TryVault() bool {
	return c.vaulting.TryStart()
}

// Tick advances the character by dt seconds. Movement runs first so the machines observe the
// root motion of this tick.
func (c *Character) Tick(dt float32) {
	c.movement.Tick(dt)
	c.montage.Tick(dt)
	for _, m := range [...]*Machine{c.mantling, c.vaulting} {
		// A polled result is only valid for the tick it completed in.
		if done, ok := m.Poll(); done && ok && !c.abilities.TryActivate(m) {
			m.Discard()
		}
		m.Tick()
	}
}
