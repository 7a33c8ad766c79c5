package graph_test

import (
	"testing"

	"github.com/aretw0/flowforge/pkg/domain"
	"github.com/aretw0/flowforge/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJunction_Empty(t *testing.T) {
	j := graph.NewJunction()

	assert.False(t, j.HasLines())
	assert.Zero(t, j.Len())
	assert.Empty(t, j.Lines())
	assert.Equal(t, domain.JunctionOff, j.State())
	assert.Equal(t, "", j.ResultString())

	require.NoError(t, j.SetState(domain.JunctionOn))
	assert.Equal(t, domain.JunctionOn, j.State())
}

func TestJunction_AddLine(t *testing.T) {
	j := graph.NewJunction()
	assert.ErrorIs(t, j.AddLine(nil), domain.ErrInvalidArgument)

	l1 := newLine(t, "L1", "a", "b")
	l2 := newLine(t, "L2", "a", "c")
	require.NoError(t, j.AddLine(l1))
	require.NoError(t, j.AddLine(l2))

	assert.True(t, j.HasLines())
	assert.Equal(t, 2, j.Len())
	assert.Equal(t, []*graph.Line{l1, l2}, j.Lines())

	// Lines returns a copy.
	got := j.Lines()
	got[0] = nil
	assert.Same(t, l1, j.Lines()[0])
}

func TestJunction_SetStateBroadcasts(t *testing.T) {
	j := graph.NewJunction()
	l1 := newLine(t, "L1", "a", "b")
	l2 := newLine(t, "L2", "a", "c")
	require.NoError(t, l2.SetState(domain.JunctionOn))
	require.NoError(t, j.AddLine(l1))
	require.NoError(t, j.AddLine(l2))

	require.NoError(t, j.SetState(domain.JunctionOff))
	assert.Equal(t, domain.JunctionOff, l1.State())
	assert.Equal(t, domain.JunctionOff, l2.State(), "individual line state is overwritten")

	require.NoError(t, j.SetState(domain.JunctionOn))
	for _, l := range j.Lines() {
		assert.Equal(t, domain.JunctionOn, l.State())
	}

	assert.ErrorIs(t, j.SetState("MAYBE"), domain.ErrInvalidArgument)
	assert.Equal(t, domain.JunctionOn, j.State())
}

func TestJunction_ResultString(t *testing.T) {
	a := newBlock(t, "A")
	nilResult := newBlock(t, "N")
	empty := newBlock(t, "E")
	b := newBlock(t, "B")
	target := newBlock(t, "T")
	blocks := []graph.Block{a, nilResult, empty, b, target}

	la := newLine(t, "La", "A", "T")
	// Never resolved: its result is absent.
	ln := newLine(t, "Ln", "N", "T")
	le := newLine(t, "Le", "E", "T")
	lb := newLine(t, "Lb", "B", "T")
	for _, l := range []*graph.Line{la, le, lb} {
		require.NoError(t, l.ResolveBlocks(blocks))
	}

	a.SetResultText("a")
	empty.SetResultText("")
	b.SetResultText("b")

	j := graph.NewJunction()
	for _, l := range []*graph.Line{la, ln, le, lb} {
		require.NoError(t, j.AddLine(l))
	}

	assert.Equal(t, "a\nb\n", j.ResultString())

	a.SetResultText("  ")
	assert.Equal(t, "b\n", j.ResultString(), "whitespace-only results are skipped")
}
