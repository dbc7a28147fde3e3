package traversal

import (
	"fmt"
	"log/slog"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/oomph-ac/traverse/game"
	"github.com/oomph-ac/traverse/replication"
	"github.com/oomph-ac/traverse/world"
	"github.com/sasha-s/go-deadlock"
)

// Node is one machine simulating characters: the server or a client. It routes replicated
// traversal starts to the characters they are for.
type Node struct {
	log   *slog.Logger
	world *world.World

	mu deadlock.Mutex
	// characters is kept in insertion order so characters tick in a stable order.
	characters *orderedmap.OrderedMap[string, *Character]
}

// NewNode returns a node simulating characters in w.
func NewNode(w *world.World, log *slog.Logger) *Node {
	if log == nil {
		log = slog.Default()
	}
	return &Node{log: log, world: w, characters: orderedmap.NewOrderedMap[string, *Character]()}
}

// World returns the world of the node.
func (n *Node) World() *world.World {
	return n.world
}

// Add adds a character to the node. A character with the same name is replaced.
func (n *Node) Add(c *Character) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.characters.Set(c.Name(), c)
}

// Character returns the character with the name passed.
func (n *Node) Character(name string) (*Character, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.characters.Get(name)
}

// Tick ticks every character of the node.
func (n *Node) Tick(dt float32) {
	n.mu.Lock()
	characters := make([]*Character, 0, n.characters.Len())
	for el := n.characters.Front(); el != nil; el = el.Next() {
		characters = append(characters, el.Value)
	}
	n.mu.Unlock()

	n.world.Tick(dt)
	for _, c := range characters {
		c.Tick(dt)
	}
}

// HandleMessage ...
func (n *Node) HandleMessage(msg replication.Message) {
	c, ok := n.Character(msg.Payload.Character)
	if !ok {
		n.log.Warn("traversal start for unknown character", "character", msg.Payload.Character, "from", msg.From)
		return
	}
	m := c.Machine(Action(msg.Payload.Action))
	if m == nil {
		n.log.Warn(fmt.Sprintf(game.ErrorUnknownTraversal, msg.Payload.Action), "from", msg.From)
		return
	}
	params := msg.Payload.Parameters(n.world)
	if msg.ToServer {
		m.HandleStartRequest(params, msg.From)
		return
	}
	m.HandleMulticast(params)
}
