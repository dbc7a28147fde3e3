package traversal

import (
	"testing"

	"github.com/oomph-ac/traverse/probe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannel(t *testing.T) {
	c := NewChannel(2)
	c.Commit(1, probe.Parameters{Height: 1})
	c.Commit(2, probe.Parameters{Height: 2})

	p, ok := c.TryGet(1)
	require.True(t, ok)
	assert.Equal(t, float32(1), p.Height)

	c.Remove(1)
	_, ok = c.TryGet(1)
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())

	// Removing twice is harmless.
	c.Remove(1)
	assert.Equal(t, 1, c.Len())
}

func TestChannelEvictsOldest(t *testing.T) {
	c := NewChannel(2)
	c.Commit(1, probe.Parameters{Height: 1})
	c.Commit(2, probe.Parameters{Height: 2})
	// Committing under a present key refreshes it.
	c.Commit(1, probe.Parameters{Height: 10})
	c.Commit(3, probe.Parameters{Height: 3})

	assert.Equal(t, 2, c.Len())
	_, ok := c.TryGet(2)
	assert.False(t, ok, "the oldest entry should have been evicted")

	p, ok := c.TryGet(1)
	require.True(t, ok)
	assert.Equal(t, float32(10), p.Height)
	_, ok = c.TryGet(3)
	assert.True(t, ok)
}
