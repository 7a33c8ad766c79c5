package blocks

import (
	"context"
	"strings"

	"github.com/aretw0/flowforge/pkg/graph"
)

// TypeEcho is the type id of Echo.
const TypeEcho = "echo"

// Echo forwards what reaches it.
type Echo struct {
	*graph.BlockBase
	cfg EchoConfig
}

// NewEcho creates an echo block.
func NewEcho(base *graph.BlockBase, cfg EchoConfig) *Echo {
	return &Echo{BlockBase: base, cfg: cfg}
}

// Advance implements graph.Advancer.
func (e *Echo) Advance(ctx context.Context) error {
	text := incomingText(e.BlockBase)
	if e.cfg.Upper {
		text = strings.ToUpper(text)
	}
	e.FinishIfRunning(e.cfg.Prefix + text)
	return nil
}

// incomingText is the aggregated upstream text without its trailing separator, or the block's
// own input text when nothing arrived.
func incomingText(b *graph.BlockBase) string {
	text := b.InputJunction().ResultString()
	if strings.TrimSpace(text) == "" {
		return b.InputText()
	}
	return strings.TrimSuffix(text, graph.LineSeparator)
}
