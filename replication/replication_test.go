package replication

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/traverse/game"
	"github.com/oomph-ac/traverse/oerror"
	"github.com/oomph-ac/traverse/probe"
	"github.com/oomph-ac/traverse/settings"
	"github.com/oomph-ac/traverse/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	msgs []Message
}

func (r *recorder) HandleMessage(msg Message) {
	r.msgs = append(r.msgs, msg)
}

func samplePayload(w *world.World) Payload {
	ref := w.Add(world.NewBox("crate", mgl32.Vec3{50, -100, 0}, mgl32.Vec3{150, 100, 40}))
	return NewPayload("alice", 1, probe.Parameters{
		Target:          ref,
		TargetTransform: game.NewTransform(mgl32.Vec3{65, 0, 41.9}, game.YawQuat(90)),
		Relative:        true,
		Height:          41.9,
		Kind:            probe.KindLow,
		EndLocation:     mgl32.Vec3{185, 0, 1.9},
	})
}

func TestPayloadRoundTrip(t *testing.T) {
	w := world.New(nil)
	p := samplePayload(w)

	got, err := Decode(Encode(p))
	require.NoError(t, err)
	assert.Equal(t, p, got)

	params := got.Parameters(w)
	assert.True(t, params.Target.Valid())
	assert.Equal(t, world.IDFromName("crate"), params.Target.ID())
	assert.Equal(t, probe.KindLow, params.Kind)
	assert.True(t, params.Relative)
}

func TestDecodeMalformed(t *testing.T) {
	data := Encode(samplePayload(world.New(nil)))

	_, err := Decode(data[:len(data)/2])
	require.Error(t, err)
	assert.True(t, oerror.IsKind(err, oerror.KindTransport))

	_, err = Decode(append(data, 0xff))
	assert.True(t, oerror.IsKind(err, oerror.KindTransport))

	bad := append([]byte{}, data...)
	bad[0] = 99
	_, err = Decode(bad)
	assert.True(t, oerror.IsKind(err, oerror.KindTransport))
}

func TestHubDelivery(t *testing.T) {
	hub := NewHub(settings.DefaultSettings().Network, 16, nil)
	server, owner, observer := &recorder{}, &recorder{}, &recorder{}
	sc := hub.Connect("server", true, server)
	oc := hub.Connect("owner", false, owner)
	hub.Connect("observer", false, observer)

	p := samplePayload(world.New(nil))
	require.NoError(t, oc.SendToServer(p))
	require.NoError(t, sc.Multicast(p))
	assert.Empty(t, server.msgs, "nothing is delivered before a flush")
	assert.Equal(t, 3, hub.Pending())

	assert.Equal(t, 3, hub.Flush())
	require.Len(t, server.msgs, 1)
	assert.True(t, server.msgs[0].ToServer)
	assert.Equal(t, "owner", server.msgs[0].From)
	require.Len(t, owner.msgs, 1)
	require.Len(t, observer.msgs, 1)
	assert.False(t, observer.msgs[0].ToServer)
	assert.Equal(t, p, observer.msgs[0].Payload)
}

func TestHubDirectionChecks(t *testing.T) {
	hub := NewHub(settings.Network{}, 4, nil)
	sc := hub.Connect("server", true, nil)
	oc := hub.Connect("owner", false, nil)

	p := samplePayload(world.New(nil))
	assert.True(t, oerror.IsKind(sc.SendToServer(p), oerror.KindInvariant))
	assert.True(t, oerror.IsKind(oc.Multicast(p), oerror.KindInvariant))
}

func TestHubRateLimit(t *testing.T) {
	cfg := settings.Network{ServerStartRate: 0.001, ServerStartBurst: 2}
	hub := NewHub(cfg, 8, nil)
	server := &recorder{}
	hub.Connect("server", true, server)
	oc := hub.Connect("owner", false, nil)
	other := hub.Connect("other", false, nil)

	p := samplePayload(world.New(nil))
	require.NoError(t, oc.SendToServer(p))
	require.NoError(t, oc.SendToServer(p))
	err := oc.SendToServer(p)
	require.Error(t, err)
	assert.True(t, oerror.IsKind(err, oerror.KindTransport))

	// Limits are per client.
	require.NoError(t, other.SendToServer(p))
	assert.Equal(t, 3, hub.Flush())
	assert.Len(t, server.msgs, 3)
}

func TestHubDropsOldest(t *testing.T) {
	hub := NewHub(settings.Network{}, 2, nil)
	server := &recorder{}
	hub.Connect("server", true, server)
	oc := hub.Connect("owner", false, nil)

	w := world.New(nil)
	for i := range 3 {
		p := samplePayload(w)
		p.Height = float32(i)
		require.NoError(t, oc.SendToServer(p))
	}
	assert.Equal(t, 2, hub.Flush())
	require.Len(t, server.msgs, 2)
	assert.Equal(t, float32(1), server.msgs[0].Payload.Height)
	assert.Equal(t, float32(2), server.msgs[1].Payload.Height)
}

type echo struct {
	conn *Conn
	got  int
}

func (e *echo) HandleMessage(msg Message) {
	e.got++
	if msg.ToServer {
		_ = e.conn.Multicast(msg.Payload)
	}
}

func TestHubFlushDeliversReplies(t *testing.T) {
	hub := NewHub(settings.DefaultSettings().Network, 8, nil)
	srv := &echo{}
	srv.conn = hub.Connect("server", true, srv)
	owner := &recorder{}
	oc := hub.Connect("owner", false, owner)

	require.NoError(t, oc.SendToServer(samplePayload(world.New(nil))))
	assert.Equal(t, 2, hub.Flush())
	assert.Equal(t, 1, srv.got)
	require.Len(t, owner.msgs, 1)
	assert.Equal(t, "server", owner.msgs[0].From)
}

func TestRoleString(t *testing.T) {
	assert.Equal(t, "authority", RoleAuthority.String())
	assert.Equal(t, "simulated_proxy", RoleSimulatedProxy.String())
	assert.Equal(t, "Role(9)", Role(9).String())
}
