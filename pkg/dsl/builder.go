package dsl

import (
	"fmt"
	"strings"

	"github.com/aretw0/flowforge/pkg/adapters/memory"
	"github.com/aretw0/flowforge/pkg/domain"
)

// Builder manages the graph construction. Blocks keep the order they were added in.
type Builder struct {
	name   string
	order  []string
	blocks map[string]*NodeBuilder
}

// New creates a new graph builder.
func New(name string) *Builder {
	return &Builder{
		name:   name,
		blocks: make(map[string]*NodeBuilder),
	}
}

// Add creates a new block in the graph.
// If the block already exists, it returns the existing builder.
func (b *Builder) Add(id string) *NodeBuilder {
	if nb, ok := b.blocks[id]; ok {
		return nb
	}
	nb := &NodeBuilder{
		block: domain.BlockDefinition{
			ID: id,
		},
	}
	b.blocks[id] = nb
	b.order = append(b.order, id)
	return nb
}

// Definition assembles the graph definition. Line targets must name blocks of the builder.
func (b *Builder) Definition() (*domain.GraphDefinition, error) {
	def := &domain.GraphDefinition{Name: b.name}

	for _, id := range b.order {
		nb := b.blocks[id]
		if strings.TrimSpace(nb.block.Type) == "" {
			return nil, fmt.Errorf("block %s: missing type", id)
		}
		def.Blocks = append(def.Blocks, nb.block)

		for _, l := range nb.lines {
			if _, ok := b.blocks[l.To]; !ok {
				return nil, fmt.Errorf("line %s: unknown target block %s", l.ID, l.To)
			}
			def.Lines = append(def.Lines, l)
		}
		if nb.value != "" {
			def.Parameters = append(def.Parameters, domain.InstanceParameter{BlockID: id, Value: nb.value})
		}
	}

	return def, nil
}

// Build compiles the graph into a memory loader.
func (b *Builder) Build() (*memory.Loader, error) {
	def, err := b.Definition()
	if err != nil {
		return nil, fmt.Errorf("failed to build graph definition: %w", err)
	}
	return memory.NewLoader(*def), nil
}
