package tui

import (
	"strings"
	"testing"

	"github.com/aretw0/flowforge"
	"github.com/aretw0/flowforge/pkg/domain"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var snap = flowforge.Snapshot{
	Name: "demo",
	Blocks: []flowforge.BlockSnapshot{
		{ID: "a", Type: "echo", State: domain.NodeStateDone, Result: "one|two\nthree"},
		{ID: "b", Type: "servicebus", State: domain.NodeStateDone, HasError: true, Error: "timeout"},
		{ID: "c", Type: "context", State: domain.NodeStateReady},
	},
	Lines: []flowforge.LineSnapshot{{ID: "L1", From: "a", To: "b", State: domain.JunctionOn}},
}

func TestStatusMarkdown(t *testing.T) {
	md := StatusMarkdown(snap)

	assert.True(t, strings.HasPrefix(md, "# demo\n"))
	assert.Contains(t, md, `| a | echo | DONE | one\|two three |  |`)
	assert.Contains(t, md, "| b | servicebus | DONE |  | timeout |")
	assert.Contains(t, md, "| L1 | a | b | "+string(domain.JunctionOn)+" |")

	empty := StatusMarkdown(flowforge.Snapshot{})
	assert.True(t, strings.HasPrefix(empty, "# flow\n"))
	assert.NotContains(t, empty, "| Line |")
}

func TestCell_Truncates(t *testing.T) {
	out := cell(strings.Repeat("x", 100))
	assert.Len(t, out, 60)
	assert.True(t, strings.HasSuffix(out, "..."))
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "READY 1  DONE 2", Summary(termenv.Ascii, snap))
	assert.Equal(t, "no blocks", Summary(termenv.Ascii, flowforge.Snapshot{}))

	colored := Summary(termenv.TrueColor, snap)
	assert.Contains(t, colored, "\x1b[")
	assert.Contains(t, colored, "DONE 2")
}

func TestNewRenderer_Plain(t *testing.T) {
	render, err := NewRenderer(termenv.Ascii, 80)
	require.NoError(t, err)

	out, err := render(StatusMarkdown(snap))
	require.NoError(t, err)
	assert.Contains(t, out, "demo")
	assert.Contains(t, out, "servicebus")
}
