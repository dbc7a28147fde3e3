package world

import (
	"fmt"
	"strings"
)

// Channel is a collision channel. Every primitive has an object type, which is the channel it
// occupies, and a query is issued on a channel.
type Channel uint8

const (
	ChannelWorldStatic Channel = iota
	ChannelWorldDynamic
	ChannelPawn
	ChannelVisibility
	ChannelCamera
	ChannelPhysicsBody
	ChannelVehicle
	ChannelDestructible
	channelCount
)

var channelNames = [channelCount]string{
	"WorldStatic",
	"WorldDynamic",
	"Pawn",
	"Visibility",
	"Camera",
	"PhysicsBody",
	"Vehicle",
	"Destructible",
}

func (c Channel) String() string {
	if c < channelCount {
		return channelNames[c]
	}
	return fmt.Sprintf("Channel(%d)", uint8(c))
}

// ParseChannel returns the channel with the name passed. Names are case-insensitive.
func ParseChannel(name string) (Channel, error) {
	for i, n := range channelNames {
		if strings.EqualFold(n, name) {
			return Channel(i), nil
		}
	}
	return 0, fmt.Errorf("unknown collision channel %q", name)
}

// Response is how something reacts to a channel. The zero value blocks.
type Response uint8

const (
	ResponseBlock Response = iota
	ResponseOverlap
	ResponseIgnore
)

func (r Response) String() string {
	switch r {
	case ResponseBlock:
		return "Block"
	case ResponseOverlap:
		return "Overlap"
	case ResponseIgnore:
		return "Ignore"
	}
	return fmt.Sprintf("Response(%d)", uint8(r))
}

// ParseResponse returns the response with the name passed. Names are case-insensitive.
func ParseResponse(name string) (Response, error) {
	for _, r := range []Response{ResponseBlock, ResponseOverlap, ResponseIgnore} {
		if strings.EqualFold(r.String(), name) {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown collision response %q", name)
}

// Responses holds a response per channel. The zero value blocks every channel.
type Responses [channelCount]Response

// Get returns the response to channel c.
func (r Responses) Get(c Channel) Response {
	if c >= channelCount {
		return ResponseIgnore
	}
	return r[c]
}

// With returns a copy of r with the response to c replaced.
func (r Responses) With(c Channel, resp Response) Responses {
	if c < channelCount {
		r[c] = resp
	}
	return r
}

// Query describes which primitives a sweep or overlap collides with.
type Query struct {
	// Channel is the channel the query is issued on.
	Channel Channel
	// Responses is the query's response to each object type.
	Responses Responses
	// Ignore lists primitives that are never hit.
	Ignore []ID
}

// NewQuery returns a query on channel c that blocks against every object type.
func NewQuery(c Channel) Query {
	return Query{Channel: c}
}

// blocks returns true if the query is blocked by p. Both sides have to block for the query to
// register a blocking hit.
func (q Query) blocks(p *Primitive) bool {
	if q.Responses.Get(p.ObjectType) != ResponseBlock || p.Responses.Get(q.Channel) != ResponseBlock {
		return false
	}
	for _, id := range q.Ignore {
		if id == p.ID {
			return false
		}
	}
	return true
}
