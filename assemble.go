package flowforge

import (
	"context"
	"fmt"

	"github.com/aretw0/flowforge/pkg/domain"
	"github.com/aretw0/flowforge/pkg/graph"
	"github.com/aretw0/flowforge/pkg/registry"
)

// Assemble builds every block through reg and every line of def, resolves them in two phases
// and applies the instance parameters as block input texts.
func Assemble(ctx context.Context, def *domain.GraphDefinition, reg *registry.Registry, params *domain.InstanceParameters) (*graph.Graph, error) {
	if def == nil {
		return nil, fmt.Errorf("%w: graph definition must not be nil", domain.ErrInvalidArgument)
	}
	if reg == nil {
		return nil, fmt.Errorf("%w: registry must not be nil", domain.ErrInvalidArgument)
	}

	blocks := make([]graph.Block, 0, len(def.Blocks))
	for _, bd := range def.Blocks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b, err := reg.Build(bd.Type, bd.ID, bd.DefaultInput, bd.Params)
		if err != nil {
			return nil, fmt.Errorf("block %q: %w", bd.ID, err)
		}
		blocks = append(blocks, b)
	}

	lines := make([]*graph.Line, 0, len(def.Lines))
	for _, ld := range def.Lines {
		l, err := graph.NewLine(ld.ID, ld.From, ld.To)
		if err != nil {
			return nil, fmt.Errorf("line %q: %w", ld.ID, err)
		}
		lines = append(lines, l)
	}

	g, err := graph.Build(blocks, lines)
	if err != nil {
		return nil, err
	}

	for _, p := range params.All() {
		b, ok := g.Block(p.BlockID)
		if !ok {
			return nil, fmt.Errorf("%w: parameter for unknown block %q", domain.ErrInvalidArgument, p.BlockID)
		}
		b.SetInputText(p.Value)
	}
	return g, nil
}
