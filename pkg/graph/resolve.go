package graph

import (
	"fmt"

	"github.com/aretw0/flowforge/pkg/domain"
)

// Resolve wires blocks and lines in two phases. Phase 1 binds every line to its endpoint
// blocks; phase 2 registers every line on the junctions of the blocks it touches. Phase 1
// completes for all lines before phase 2 starts for any block. Nil entries are skipped.
func Resolve(blocks []Block, lines []*Line) error {
	if blocks == nil {
		blocks = []Block{}
	}

	for _, line := range lines {
		if line == nil {
			continue
		}
		if err := line.ResolveBlocks(blocks); err != nil {
			return fmt.Errorf("resolve blocks of line %s: %w", line.ID(), err)
		}
	}

	for _, block := range blocks {
		if block == nil {
			continue
		}
		if err := block.ResolveLines(lines); err != nil {
			return fmt.Errorf("resolve lines of block %s: %w", block.ID(), err)
		}
	}

	return nil
}

// Graph indexes a flat set of blocks and lines by id. It owns no state of its own beyond the
// index: blocks and lines keep guarding their fields.
type Graph struct {
	blocks     []Block
	lines      []*Line
	blockIndex map[string]Block
	lineIndex  map[string]*Line
}

// New indexes blocks and lines. Nil entries fail with domain.ErrInvalidArgument, duplicate ids
// with domain.ErrAlreadyExists. The graph is not resolved yet.
func New(blocks []Block, lines []*Line) (*Graph, error) {
	g := &Graph{
		blocks:     make([]Block, 0, len(blocks)),
		lines:      make([]*Line, 0, len(lines)),
		blockIndex: make(map[string]Block, len(blocks)),
		lineIndex:  make(map[string]*Line, len(lines)),
	}

	for i, b := range blocks {
		if b == nil {
			return nil, fmt.Errorf("%w: block #%d is nil", domain.ErrInvalidArgument, i)
		}
		if _, exists := g.blockIndex[b.ID()]; exists {
			return nil, fmt.Errorf("%w: duplicate block id %q", domain.ErrAlreadyExists, b.ID())
		}
		g.blockIndex[b.ID()] = b
		g.blocks = append(g.blocks, b)
	}

	for i, l := range lines {
		if l == nil {
			return nil, fmt.Errorf("%w: line #%d is nil", domain.ErrInvalidArgument, i)
		}
		if _, exists := g.lineIndex[l.ID()]; exists {
			return nil, fmt.Errorf("%w: duplicate line id %q", domain.ErrAlreadyExists, l.ID())
		}
		g.lineIndex[l.ID()] = l
		g.lines = append(g.lines, l)
	}

	return g, nil
}

// Build indexes and resolves in one call.
func Build(blocks []Block, lines []*Line) (*Graph, error) {
	g, err := New(blocks, lines)
	if err != nil {
		return nil, err
	}
	if err := g.Resolve(); err != nil {
		return nil, err
	}
	return g, nil
}

// Resolve runs the two-phase resolution over the indexed blocks and lines.
func (g *Graph) Resolve() error {
	return Resolve(g.blocks, g.lines)
}

// Block looks a block up by id.
func (g *Graph) Block(id string) (Block, bool) {
	b, ok := g.blockIndex[id]
	return b, ok
}

// Line looks a line up by id.
func (g *Graph) Line(id string) (*Line, bool) {
	l, ok := g.lineIndex[id]
	return l, ok
}

// Blocks returns the blocks in insertion order.
func (g *Graph) Blocks() []Block {
	out := make([]Block, len(g.blocks))
	copy(out, g.blocks)
	return out
}

// Lines returns the lines in insertion order.
func (g *Graph) Lines() []*Line {
	out := make([]*Line, len(g.lines))
	copy(out, g.lines)
	return out
}

// Entries returns the blocks without incoming lines.
func (g *Graph) Entries() []Block {
	var out []Block
	for _, b := range g.blocks {
		if !b.InputJunction().HasLines() {
			out = append(out, b)
		}
	}
	return out
}

// Upstream returns the blocks feeding the given block, in input-junction order.
func (g *Graph) Upstream(id string) []Block {
	b, ok := g.blockIndex[id]
	if !ok {
		return nil
	}
	var out []Block
	for _, l := range b.InputJunction().Lines() {
		if from := l.From(); from != nil {
			out = append(out, from)
		}
	}
	return out
}

// Downstream returns the blocks fed by the given block, in output-junction order.
func (g *Graph) Downstream(id string) []Block {
	b, ok := g.blockIndex[id]
	if !ok {
		return nil
	}
	var out []Block
	for _, l := range b.OutputJunction().Lines() {
		if to := l.To(); to != nil {
			out = append(out, to)
		}
	}
	return out
}

// Modified returns the ids of dirty blocks and lines.
func (g *Graph) Modified() (blocks []string, lines []string) {
	for _, b := range g.blocks {
		if b.IsModified() {
			blocks = append(blocks, b.ID())
		}
	}
	for _, l := range g.lines {
		if l.IsModified() {
			lines = append(lines, l.ID())
		}
	}
	return blocks, lines
}

// Acknowledge clears the dirty flag of every block and line.
func (g *Graph) Acknowledge() {
	for _, b := range g.blocks {
		b.ResetModified()
	}
	for _, l := range g.lines {
		l.ResetModified()
	}
}

// ResetAll re-arms the whole graph: every block is reset and every line forced OFF.
func (g *Graph) ResetAll() {
	for _, b := range g.blocks {
		b.Reset()
	}
	for _, l := range g.lines {
		l.Reset()
	}
}

// AddListener registers l on every block and returns a function removing it everywhere.
func (g *Graph) AddListener(l StateListener) func() {
	removers := make([]func(), 0, len(g.blocks))
	for _, b := range g.blocks {
		removers = append(removers, b.AddListener(l))
	}
	return func() {
		for _, remove := range removers {
			remove()
		}
	}
}
