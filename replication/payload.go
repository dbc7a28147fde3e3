package replication

import (
	"bytes"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/traverse/game"
	"github.com/oomph-ac/traverse/internal"
	"github.com/oomph-ac/traverse/oerror"
	"github.com/oomph-ac/traverse/probe"
	"github.com/oomph-ac/traverse/world"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
)

// payloadVersion is written in front of every payload.
const payloadVersion = 1

// Payload is a traversal start as sent over the network. Clips and settings are shared content
// and never sent.
type Payload struct {
	Character string
	Action    uint8

	Target          world.ID
	TargetTransform game.Transform
	Relative        bool
	Height          float32
	Kind            probe.Kind
	EndLocation     mgl32.Vec3
}

// NewPayload returns the payload of a start of action by character with the parameters passed.
func NewPayload(character string, action uint8, p probe.Parameters) Payload {
	return Payload{
		Character:       character,
		Action:          action,
		Target:          p.Target.ID(),
		TargetTransform: p.TargetTransform,
		Relative:        p.Relative,
		Height:          p.Height,
		Kind:            p.Kind,
		EndLocation:     p.EndLocation,
	}
}

// Parameters rebuilds the probe parameters against the receiving side's world.
func (p Payload) Parameters(w *world.World) probe.Parameters {
	return probe.Parameters{
		Target:          w.Ref(p.Target),
		TargetTransform: p.TargetTransform,
		Relative:        p.Relative,
		Height:          p.Height,
		Kind:            p.Kind,
		EndLocation:     p.EndLocation,
	}
}

// Marshal encodes or decodes the payload, depending on the IO passed.
func (p *Payload) Marshal(io protocol.IO) {
	io.String(&p.Character)
	io.Uint8(&p.Action)

	target := uint64(p.Target)
	io.Uint64(&target)
	p.Target = world.ID(target)

	io.Vec3(&p.TargetTransform.Location)
	io.Float32(&p.TargetTransform.Rotation.W)
	io.Vec3(&p.TargetTransform.Rotation.V)
	io.Vec3(&p.TargetTransform.Scale)
	io.Bool(&p.Relative)
	io.Float32(&p.Height)

	kind := uint8(p.Kind)
	io.Uint8(&kind)
	p.Kind = probe.Kind(kind)

	io.Vec3(&p.EndLocation)
}

// Encode returns the wire form of p.
func Encode(p Payload) []byte {
	buf := internal.BufferPool.Get().(*bytes.Buffer)
	defer internal.BufferPool.Put(buf)
	buf.Reset()

	w := protocol.NewWriter(buf, 0)
	version := uint8(payloadVersion)
	w.Uint8(&version)
	p.Marshal(w)
	return bytes.Clone(buf.Bytes())
}

// Decode reads a payload written by Encode.
func Decode(b []byte) (p Payload, err error) {
	defer func() {
		// The protocol reader panics on short or malformed input.
		if r := recover(); r != nil {
			p, err = Payload{}, oerror.Transport(game.ErrorDecodePayload, r)
		}
	}()

	buf := bytes.NewBuffer(b)
	r := protocol.NewReader(buf, 0, false)
	var version uint8
	r.Uint8(&version)
	if version != payloadVersion {
		return Payload{}, oerror.Transport(game.ErrorDecodePayload, fmt.Sprintf("unknown version %d", version))
	}
	p.Marshal(r)
	if buf.Len() != 0 {
		return Payload{}, oerror.Transport(game.ErrorDecodePayload, "trailing bytes")
	}
	return p, nil
}
