package traversal

import (
	"testing"

	"github.com/oomph-ac/traverse/game"
	"github.com/oomph-ac/traverse/replication"
	"github.com/oomph-ac/traverse/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cluster struct {
	hub                     *replication.Hub
	server, owner, observer *Character
	serverNode              *Node
}

func newCluster(t *testing.T, s *settings.Settings) *cluster {
	hub := replication.NewHub(s.Network, 32, nil)
	join := func(name string, role replication.Role) (*Node, *Character) {
		w, _ := wallWorld()
		n := NewNode(w, nil)
		conn := hub.Connect(name, role == replication.RoleAuthority, n)
		c, err := NewCharacter(characterConfig(w, s, role, conn))
		require.NoError(t, err)
		n.Add(c)
		return n, c
	}
	cl := &cluster{hub: hub}
	cl.serverNode, cl.server = join("server", replication.RoleAuthority)
	_, cl.owner = join("owner", replication.RoleAutonomousProxy)
	_, cl.observer = join("observer", replication.RoleSimulatedProxy)
	return cl
}

func TestReplicatedMantle(t *testing.T) {
	cl := newCluster(t, testSettings(t))

	require.True(t, cl.owner.TryMantle())
	owner := cl.owner.Mantling()
	assert.Equal(t, PhaseActive, owner.Phase())
	assert.False(t, owner.Authoritative(), "the owner's own start is a prediction")
	predicted := owner.SourceID()

	assert.False(t, cl.observer.TryMantle(), "simulated proxies never start on their own")

	// Request to the server, then the server's multicast to both clients.
	assert.Equal(t, 3, cl.hub.Flush())

	for _, c := range []*Character{cl.server, cl.owner, cl.observer} {
		m := c.Mantling()
		require.Equal(t, PhaseActive, m.Phase(), c.Role().String())
		assert.True(t, m.Authoritative(), c.Role().String())
		assert.True(t, c.Movement().ModeLocked(), c.Role().String())
	}
	assert.Equal(t, cl.server.Mantling().Parameters().Target.ID(), cl.observer.Mantling().Parameters().Target.ID())
	assert.InDelta(t, cl.server.Mantling().Parameters().Height, cl.observer.Mantling().Parameters().Height, 0)

	// The authoritative start replaced the predicted source.
	assert.NotEqual(t, predicted, owner.SourceID())
	mc := cl.owner.Movement()
	assert.Equal(t, 2, mc.RootMotionSourceCount())
	assert.True(t, mc.RootMotionSourceByID(predicted).MarkedForRemoval())
	cl.owner.Tick(game.DefaultTickDelta)
	assert.Equal(t, 1, mc.RootMotionSourceCount())
	assert.True(t, cl.owner.Abilities().HasTag(owner.Spec().ActivationOwnedTags[0]))
	assert.Len(t, cl.owner.Abilities().Tags(), 1)

	for _, c := range []*Character{cl.server, cl.owner, cl.observer} {
		require.Positive(t, tickUntilIdle(c, c.Mantling(), 60), c.Role().String())
		assert.Equal(t, OutcomeCompleted, c.Mantling().LastEnd())
	}
	assert.InDelta(t, 0, cl.owner.Movement().Feet().Sub(cl.server.Movement().Feet()).Len(), 1e-2)
	assert.InDelta(t, 0, cl.observer.Movement().Feet().Sub(cl.server.Movement().Feet()).Len(), 1e-2)
}

func TestServerRejectsForeignRequests(t *testing.T) {
	cl := newCluster(t, testSettings(t))
	server := cl.server.Mantling()

	require.True(t, server.CanStart())
	params, ok := server.Channel().TryGet(server.PendingKey())
	require.True(t, ok)
	payload := replication.NewPayload("alice", uint8(ActionMantling), params)

	cl.serverNode.HandleMessage(replication.Message{From: "observer", ToServer: true, Payload: payload})
	assert.NotEqual(t, PhaseActive, server.Phase())

	cl.serverNode.HandleMessage(replication.Message{From: "owner", ToServer: true, Payload: payload})
	assert.Equal(t, PhaseActive, server.Phase())
	id := server.SourceID()

	// A second request while active is blocked.
	assert.False(t, server.HandleStartRequest(params, "owner"))
	assert.Equal(t, id, server.SourceID())

	// Unknown characters and actions are dropped.
	payload.Character = "bob"
	cl.serverNode.HandleMessage(replication.Message{From: "owner", ToServer: true, Payload: payload})
	payload.Character, payload.Action = "alice", 9
	cl.serverNode.HandleMessage(replication.Message{From: "owner", ToServer: true, Payload: payload})
	assert.Equal(t, id, server.SourceID())
}

func TestServerIgnoresMulticasts(t *testing.T) {
	cl := newCluster(t, testSettings(t))
	server := cl.server.Mantling()
	require.True(t, server.CanStart())
	params, _ := server.Channel().TryGet(server.PendingKey())

	assert.False(t, server.HandleMulticast(params))
	assert.NotEqual(t, PhaseActive, server.Phase())
}

func TestRateLimitedRequestCancelsPrediction(t *testing.T) {
	s := testSettings(t)
	s.Network.ServerStartRate = 0.001
	s.Network.ServerStartBurst = 1
	cl := newCluster(t, s)
	owner := cl.owner.Mantling()

	require.True(t, cl.owner.TryMantle())
	owner.End(true)

	assert.False(t, cl.owner.TryMantle())
	assert.Equal(t, PhaseIdle, owner.Phase())
	assert.Equal(t, OutcomeCancelled, owner.LastEnd())
	assert.False(t, cl.owner.Movement().ModeLocked())

	// The first request still reaches the server, whose start the owner then follows.
	assert.Equal(t, 3, cl.hub.Flush())
	assert.Equal(t, PhaseActive, cl.server.Mantling().Phase())
	assert.Equal(t, PhaseActive, owner.Phase())
	assert.True(t, owner.Authoritative())
}
