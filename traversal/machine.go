package traversal

import (
	"fmt"
	"log/slog"

	"github.com/oomph-ac/traverse/ability"
	"github.com/oomph-ac/traverse/anim"
	"github.com/oomph-ac/traverse/assert"
	"github.com/oomph-ac/traverse/game"
	"github.com/oomph-ac/traverse/metrics"
	"github.com/oomph-ac/traverse/movement"
	"github.com/oomph-ac/traverse/probe"
	"github.com/oomph-ac/traverse/replication"
	"github.com/oomph-ac/traverse/rootmotion"
	"github.com/oomph-ac/traverse/worker"
	"github.com/oomph-ac/traverse/world"
)

// Phase is the phase of a traversal machine.
type Phase uint8

const (
	PhaseIdle Phase = iota
	// PhaseProbePending is the phase of a machine holding a probe result that was not started
	// yet.
	PhaseProbePending
	PhaseActive
	// PhaseEnding is only observed while End runs.
	PhaseEnding
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseProbePending:
		return "probe_pending"
	case PhaseActive:
		return "active"
	case PhaseEnding:
		return "ending"
	}
	return fmt.Sprintf("Phase(%d)", uint8(p))
}

// Outcome is how a traversal ended.
type Outcome uint8

const (
	OutcomeNone Outcome = iota
	OutcomeCompleted
	OutcomeCancelled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeCancelled:
		return "cancelled"
	}
	return "none"
}

// Replicator sends traversal starts to the other copies of a character. *replication.Conn
// implements it.
type Replicator interface {
	SendToServer(p replication.Payload) error
	Multicast(p replication.Payload) error
}

// asyncProbe is a probe running on the worker pool. Its result fields are written before done
// is closed. A probe that panics leaves rejection at probe.RejectIncomplete.
type asyncProbe struct {
	done      <-chan struct{}
	params    probe.Parameters
	rejection probe.Rejection
}

// Machine runs one kind of traversal for one character: it probes for it, starts it, follows
// it every tick and ends it. A machine is driven by the tick of its character and is not safe
// for concurrent use.
type Machine struct {
	log       *slog.Logger
	character *Character
	act       action
	spec      ability.Spec

	channel *Channel
	nextKey Key
	pending Key
	// polled marks the pending entry as committed by Poll rather than by CanStart.
	polled bool
	async  *asyncProbe

	phase         Phase
	authoritative bool
	params        probe.Parameters
	sourceID      uint16
	mode          movement.Mode
	montage       *anim.Clip
	lastEnd       Outcome
}

func newMachine(c *Character, act action, spec ability.Spec, capacity int) *Machine {
	return &Machine{
		log:       c.log.With("action", act.Action().String()),
		character: c,
		act:       act,
		spec:      spec,
		channel:   NewChannel(capacity),
	}
}

// Action returns the kind of traversal the machine runs.
func (m *Machine) Action() Action {
	return m.act.Action()
}

// Phase returns the phase of the machine.
func (m *Machine) Phase() Phase {
	return m.phase
}

// Channel returns the channel probe results are passed through.
func (m *Machine) Channel() *Channel {
	return m.channel
}

// PendingKey returns the key of the probe result waiting to be started, or zero.
func (m *Machine) PendingKey() Key {
	return m.pending
}

// SourceID returns the ID of the root motion source of the running traversal, or zero.
func (m *Machine) SourceID() uint16 {
	return m.sourceID
}

// Parameters returns the parameters of the running traversal.
func (m *Machine) Parameters() probe.Parameters {
	return m.params
}

// Authoritative returns true if the running traversal was started or confirmed by the
// authority.
func (m *Machine) Authoritative() bool {
	return m.authoritative
}

// LastEnd returns how the last traversal ended.
func (m *Machine) LastEnd() Outcome {
	return m.lastEnd
}

// Spec ...
func (m *Machine) Spec() ability.Spec {
	return m.spec
}

// CanActivate uses a result committed by Poll if there is one, and probes otherwise.
func (m *Machine) CanActivate() bool {
	if m.polled && m.phase == PhaseProbePending {
		if _, ok := m.channel.TryGet(m.pending); ok {
			return true
		}
	}
	return m.CanStart()
}

// Activate ...
func (m *Machine) Activate() bool {
	return m.Start()
}

// Active ...
func (m *Machine) Active() bool {
	return m.phase == PhaseActive
}

// Cancel ...
func (m *Machine) Cancel() {
	m.End(true)
}

func (m *Machine) input() probe.Input {
	return probe.InputFromMovement(m.character.movement)
}

// CanStart probes for the traversal from the character's current pose. On success the result
// is committed to the channel for Start to consume. On failure nothing changes.
func (m *Machine) CanStart() bool {
	if m.phase == PhaseActive || m.character.role == replication.RoleSimulatedProxy {
		return false
	}
	params, r := m.act.Probe(m.input())
	if !m.record(params, r) {
		return false
	}
	m.commit(params, false)
	return true
}

// record updates the probe metrics and returns true if the probe succeeded.
func (m *Machine) record(params probe.Parameters, r probe.Rejection) bool {
	action := m.act.Action().String()
	if !r.OK() {
		metrics.ProbeRejections.WithLabelValues(action, r.String()).Inc()
		return false
	}
	metrics.ProbeSuccesses.WithLabelValues(action, params.Kind.String()).Inc()
	return true
}

func (m *Machine) commit(params probe.Parameters, polled bool) {
	if m.pending != 0 {
		m.channel.Remove(m.pending)
	}
	m.nextKey++
	m.pending, m.polled = m.nextKey, polled
	m.channel.Commit(m.pending, params)
	m.phase = PhaseProbePending
}

// Discard drops a committed probe result that was not started, so that a later activation
// probes again.
func (m *Machine) Discard() {
	if m.phase != PhaseProbePending {
		return
	}
	m.channel.Remove(m.pending)
	m.pending, m.polled = 0, false
	m.phase = PhaseIdle
}

// QueueCanStart runs the probe on the worker pool against a snapshot of the character's pose.
// The returned channel is closed once the probe finished. Poll commits its result.
func (m *Machine) QueueCanStart() <-chan struct{} {
	if m.async != nil {
		return m.async.done
	}
	in := m.input()
	res := &asyncProbe{rejection: probe.RejectIncomplete}
	res.done = worker.Go(func() {
		res.params, res.rejection = m.act.Probe(in)
	})
	m.async = res
	return res.done
}

// Poll commits the result of a probe queued by QueueCanStart once it finished. done is false
// while no probe finished, and ok is true if the finished probe succeeded.
func (m *Machine) Poll() (done, ok bool) {
	if m.async == nil {
		return false, false
	}
	select {
	case <-m.async.done:
	default:
		return false, false
	}
	res := m.async
	m.async = nil
	if m.phase == PhaseActive || !m.record(res.params, res.rejection) {
		return true, false
	}
	m.commit(res.params, true)
	return true, true
}

// TryStart probes for the traversal and starts it if the character's abilities allow it.
func (m *Machine) TryStart() bool {
	return m.character.abilities.TryActivate(m)
}

// Start consumes the result committed by the last successful CanStart and starts the
// traversal. The authority starts it and tells every client. The owning client starts it
// optimistically and asks the authority to confirm it.
func (m *Machine) Start() bool {
	key := m.pending
	params, ok := m.channel.TryGet(key)
	if !ok {
		return false
	}
	defer m.channel.Remove(key)
	m.pending, m.polled = 0, false
	if m.phase == PhaseProbePending {
		m.phase = PhaseIdle
	}

	c := m.character
	switch c.role {
	case replication.RoleAuthority:
		if !m.start(params, true) {
			return false
		}
		m.multicast(params)
		return true
	case replication.RoleAutonomousProxy:
		if !m.start(params, false) {
			return false
		}
		if c.replicator == nil {
			return true
		}
		if err := c.replicator.SendToServer(m.payload(params)); err != nil {
			m.log.Warn("unable to request traversal start", "err", err)
			m.End(true)
			return false
		}
		return true
	}
	return false
}

// HandleStartRequest handles a start requested by the client named from. The authority checks
// the request the way it would check its own start, and tells every client if it passes.
func (m *Machine) HandleStartRequest(params probe.Parameters, from string) bool {
	c := m.character
	if c.role != replication.RoleAuthority {
		return false
	}
	reason := ""
	switch {
	case from != c.owner:
		reason = "not_owner"
	case m.phase == PhaseActive || c.abilities.Blocked(m):
		reason = "blocked"
	case !params.Target.Valid():
		reason = "invalid_target"
	}
	if reason == "" && !m.start(params, true) {
		reason = "start_failed"
	}
	if reason != "" {
		metrics.DroppedRequests.WithLabelValues(reason).Inc()
		m.log.Warn(fmt.Sprintf(game.ErrorServerStartRejected, m.act.Action(), from), "reason", reason)
		return false
	}
	m.multicast(params)
	return true
}

// HandleMulticast applies a start the authority made. It replaces a start the owning client
// predicted. The authority ignores its own multicasts.
func (m *Machine) HandleMulticast(params probe.Parameters) bool {
	if m.character.role == replication.RoleAuthority {
		return false
	}
	return m.start(params, true)
}

func (m *Machine) payload(params probe.Parameters) replication.Payload {
	return replication.NewPayload(m.character.name, uint8(m.act.Action()), params)
}

func (m *Machine) multicast(params probe.Parameters) {
	if r := m.character.replicator; r != nil {
		if err := r.Multicast(m.payload(params)); err != nil {
			m.log.Warn("unable to replicate traversal start", "err", err)
		}
	}
}

// start attaches the root motion of a traversal and locks the movement mode. Starting again
// while active only happens when the authority overrides a predicted start.
func (m *Machine) start(params probe.Parameters, authoritative bool) bool {
	mc := m.character.movement

	replacing := false
	if m.phase == PhaseActive {
		if !authoritative || m.authoritative {
			m.log.Debug("ignored duplicate traversal start", "authoritative", authoritative)
			return false
		}
		replacing = true
	} else if mc.ModeLocked() {
		m.log.Debug("movement mode is locked by another action", "mode", mc.Mode())
		return false
	}

	target, ok := params.WorldTransform()
	if !ok {
		m.log.Debug(fmt.Sprintf(game.ErrorInvalidTargetSurface, params.Target))
		if replacing {
			m.End(true)
		}
		return false
	}
	p, err := m.act.Plan(mc, params, target)
	if err != nil {
		metrics.ContentErrors.WithLabelValues(m.act.Action().String()).Inc()
		m.log.Warn("unable to start traversal", "kind", params.Kind, "err", err)
		if replacing {
			m.End(true)
		}
		return false
	}

	montage := m.character.montage
	if !montage.Play(p.montage, p.playRate, p.startTime) {
		metrics.ContentErrors.WithLabelValues(m.act.Action().String()).Inc()
		m.log.Warn(fmt.Sprintf(game.ErrorMontagePlayback, p.montage.Name, p.startTime))
		if replacing {
			m.End(true)
		}
		return false
	}

	if replacing {
		mc.RemoveRootMotionSource(m.sourceID)
		mc.SetModeLocked(false)
	} else if !assert.IsTrue(m.sourceID == 0, game.ErrorInternalDoubleAttach, m.sourceID, m.act.Action()) {
		mc.RemoveRootMotionSource(m.sourceID)
	}

	mc.SetNetworkSmoothing(movement.SmoothingDisabled)
	mc.SetMode(p.mode)
	mc.SetModeLocked(true)
	mc.SetBase(params.Target)
	m.sourceID = mc.ApplyRootMotionSource(p.driver)

	if m.pending != 0 {
		// A probe result not started yet is stale once another start went through.
		m.channel.Remove(m.pending)
		m.pending, m.polled = 0, false
	}
	m.params, m.authoritative = params, authoritative
	m.mode, m.montage = p.mode, p.montage
	if !replacing {
		m.character.abilities.AddTags(m.spec.ActivationOwnedTags...)
	}
	m.phase = PhaseActive

	metrics.Starts.WithLabelValues(m.act.Action().String(), m.character.role.String()).Inc()
	m.log.Debug("traversal started", "kind", params.Kind, "height", params.Height, "start", p.startTime,
		"target", params.Target, "authoritative", authoritative, "replaced", replacing)
	return true
}

// Tick follows a running traversal. It ends the traversal once its root motion completed, and
// cancels it if the movement mode was changed from under it or its target disappeared.
func (m *Machine) Tick() {
	if m.phase != PhaseActive {
		return
	}
	mc := m.character.movement
	if mc.Mode() != m.mode {
		m.log.Debug("movement mode changed during traversal", "mode", mc.Mode(), "want", m.mode)
		m.End(true)
		return
	}
	driver, ok := mc.RootMotionSourceByID(m.sourceID).(rootmotion.Driver)
	if !assert.IsTrue(ok, game.ErrorInternalUnknownSource, m.sourceID) {
		m.End(true)
		return
	}

	switch {
	case driver.State() == rootmotion.StateInvalidated || !driver.TargetValid():
		driver.Invalidate()
		m.log.Debug(fmt.Sprintf(game.ErrorInvalidTargetSurface, m.params.Target))
		m.End(true)
		m.fallback()
	case driver.State() == rootmotion.StateCompleted:
		m.End(false)
	}
}

func (m *Machine) fallback() {
	s := m.character.settings.Mantling
	if !s.StartFallbackOnTargetDestruction || s.FallbackTag == "" {
		return
	}
	if !m.character.abilities.TryActivateBySingleTag(ability.Tag(s.FallbackTag)) {
		m.log.Debug("no fallback ability activated", "tag", s.FallbackTag)
	}
}

// End ends the running traversal. Its root motion source is removed on the next movement tick.
// The movement mode is unlocked and becomes walking if there is ground under the character,
// and falling otherwise. Ending a machine that is not active does nothing.
func (m *Machine) End(cancelled bool) {
	if m.phase != PhaseActive {
		return
	}
	m.phase = PhaseEnding
	c := m.character
	mc := c.movement

	mc.RemoveRootMotionSource(m.sourceID)
	m.sourceID = 0
	mc.SetNetworkSmoothing(movement.SmoothingExponential)
	mc.SetModeLocked(false)
	if floor, ok := mc.FindFloor(); ok {
		mc.SetMode(movement.ModeWalking)
		mc.SetBase(floor.Hit.Primitive)
	} else {
		mc.SetMode(movement.ModeFalling)
		mc.SetBase(world.Ref{})
	}

	m.lastEnd = OutcomeCompleted
	if cancelled {
		m.lastEnd = OutcomeCancelled
		c.montage.Stop(m.act.BlendOut(), m.montage)
	}
	c.abilities.RemoveTags(m.spec.ActivationOwnedTags...)

	metrics.Ends.WithLabelValues(m.act.Action().String(), m.lastEnd.String()).Inc()
	m.log.Debug("traversal ended", "outcome", m.lastEnd, "mode", mc.Mode())

	m.params, m.authoritative = probe.Parameters{}, false
	m.mode, m.montage = movement.ModeNone, nil
	m.phase = PhaseIdle
}
