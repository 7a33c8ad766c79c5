package graph_test

import (
	"testing"

	"github.com/aretw0/flowforge/pkg/domain"
	"github.com/aretw0/flowforge/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLine(t *testing.T) {
	l := newLine(t, "L1", "B1", "B2")

	assert.Equal(t, "L1", l.ID())
	assert.Equal(t, "B1", l.FromID())
	assert.Equal(t, "B2", l.ToID())
	assert.Equal(t, domain.JunctionOff, l.State())
	assert.True(t, l.IsModified())
	assert.False(t, l.Resolved())
	assert.Nil(t, l.From())
	assert.Nil(t, l.To())
	assert.Empty(t, l.ResultText(), "unresolved line has no result")

	for _, args := range [][3]string{{"", "a", "b"}, {"l", " ", "b"}, {"l", "a", ""}} {
		_, err := graph.NewLine(args[0], args[1], args[2])
		assert.ErrorIs(t, err, domain.ErrInvalidArgument, "args %v", args)
	}
}

func TestLine_ResolveBlocks(t *testing.T) {
	b1 := newBlock(t, "B1")
	b2 := newBlock(t, "B2")

	t.Run("Binds both endpoints", func(t *testing.T) {
		l := newLine(t, "L", "B1", "B2")
		require.NoError(t, l.ResolveBlocks([]graph.Block{nil, b2, b1}))

		assert.True(t, l.Resolved())
		assert.Same(t, b1, l.From())
		assert.Same(t, b2, l.To())
	})

	t.Run("Second resolution fails and keeps bindings", func(t *testing.T) {
		other1 := newBlock(t, "B1")
		other2 := newBlock(t, "B2")
		l := newLine(t, "L", "B1", "B2")
		require.NoError(t, l.ResolveBlocks([]graph.Block{b1, b2}))

		err := l.ResolveBlocks([]graph.Block{other1, other2})
		assert.ErrorIs(t, err, domain.ErrConfigurationMismatch)
		assert.Same(t, b1, l.From())
		assert.Same(t, b2, l.To())
	})

	t.Run("First match wins", func(t *testing.T) {
		dup := newBlock(t, "B1")
		l := newLine(t, "L", "B1", "B2")
		require.NoError(t, l.ResolveBlocks([]graph.Block{b1, dup, b2}))
		assert.Same(t, b1, l.From())
	})

	t.Run("Missing endpoint binds nothing", func(t *testing.T) {
		l := newLine(t, "L", "B1", "ghost")
		err := l.ResolveBlocks([]graph.Block{b1, b2})
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
		assert.False(t, l.Resolved())
		assert.Nil(t, l.From())

		// The line stays resolvable once the block exists.
		ghost := newBlock(t, "ghost")
		require.NoError(t, l.ResolveBlocks([]graph.Block{b1, ghost}))
	})

	t.Run("Nil candidate set", func(t *testing.T) {
		l := newLine(t, "L", "B1", "B2")
		assert.ErrorIs(t, l.ResolveBlocks(nil), domain.ErrInvalidArgument)
	})
}

func TestLine_SetState(t *testing.T) {
	l := newLine(t, "L", "a", "b")
	l.ResetModified()

	require.NoError(t, l.SetState(domain.JunctionOff))
	assert.False(t, l.IsModified(), "same state is not a change")

	require.NoError(t, l.SetState(domain.JunctionOn))
	assert.True(t, l.IsModified())
	assert.Equal(t, domain.JunctionOn, l.State())

	l.ResetModified()
	assert.ErrorIs(t, l.SetState(""), domain.ErrInvalidArgument)
	assert.Equal(t, domain.JunctionOn, l.State())
	assert.False(t, l.IsModified())
}

func TestLine_Reset(t *testing.T) {
	l := newLine(t, "L", "a", "b")
	l.ResetModified()

	l.Reset()
	assert.Equal(t, domain.JunctionOff, l.State())
	assert.True(t, l.IsModified(), "reset always marks dirty")

	require.NoError(t, l.SetState(domain.JunctionOn))
	l.ResetModified()
	l.Reset()
	assert.Equal(t, domain.JunctionOff, l.State())
	assert.True(t, l.IsModified())

	l.ResetModified()
	l.SetModified()
	assert.True(t, l.IsModified())
}

func TestLine_ResultText(t *testing.T) {
	from := newBlock(t, "F")
	to := newBlock(t, "T")
	l := newLine(t, "L", "F", "T")
	require.NoError(t, l.ResolveBlocks([]graph.Block{from, to}))

	assert.Empty(t, l.ResultText())
	from.SetResultText("upstream")
	to.SetResultText("downstream")
	assert.Equal(t, "upstream", l.ResultText())
}
