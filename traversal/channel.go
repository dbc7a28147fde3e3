package traversal

import (
	"github.com/elliotchance/orderedmap/v2"
	"github.com/oomph-ac/traverse/probe"
	"github.com/sasha-s/go-deadlock"
)

// Key identifies one pending activation. Keys are handed out by the machine owning the channel
// and never reused by it.
type Key uint64

// Channel carries probe results from the check that found them to the start that consumes them.
// It holds at most a fixed amount of entries and evicts the oldest when a new one does not fit.
type Channel struct {
	capacity int
	entries  *orderedmap.OrderedMap[Key, probe.Parameters]

	mu deadlock.Mutex
}

// NewChannel returns an empty channel holding at most capacity entries.
func NewChannel(capacity int) *Channel {
	return &Channel{
		capacity: max(capacity, 1),
		entries:  orderedmap.NewOrderedMap[Key, probe.Parameters](),
	}
}

// Commit stores the parameters under k, replacing an entry already stored under it.
func (c *Channel) Commit(k Key, p probe.Parameters) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries.Delete(k)
	for c.entries.Len() >= c.capacity {
		c.entries.Delete(c.entries.Front().Key)
	}
	c.entries.Set(k, p)
}

// TryGet returns the parameters stored under k.
func (c *Channel) TryGet(k Key) (probe.Parameters, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Get(k)
}

// Remove drops the entry stored under k, if any.
func (c *Channel) Remove(k Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Delete(k)
}

// Len returns the amount of entries stored.
func (c *Channel) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Len()
}
