package dsl

import "github.com/aretw0/flowforge/pkg/domain"

// NodeBuilder provides a fluent API for configuring a block and its outgoing lines.
type NodeBuilder struct {
	block domain.BlockDefinition
	lines []domain.LineDefinition
	value string
}

// Type sets the block type id.
func (n *NodeBuilder) Type(typeID string) *NodeBuilder {
	n.block.Type = typeID
	return n
}

// Input sets the default input text.
func (n *NodeBuilder) Input(text string) *NodeBuilder {
	n.block.DefaultInput = text
	return n
}

// Echo is shorthand for an echo block with the given default input.
func (n *NodeBuilder) Echo(text string) *NodeBuilder {
	return n.Type("echo").Input(text)
}

// Param sets one block parameter.
func (n *NodeBuilder) Param(key string, value any) *NodeBuilder {
	if n.block.Params == nil {
		n.block.Params = make(map[string]any)
	}
	n.block.Params[key] = value
	return n
}

// Value sets the instance parameter of the block.
func (n *NodeBuilder) Value(value string) *NodeBuilder {
	n.value = value
	return n
}

// To adds a line to target. The line id is derived from both endpoints.
func (n *NodeBuilder) To(target string) *NodeBuilder {
	return n.Line(n.block.ID+"->"+target, target)
}

// Line adds a line with an explicit id.
func (n *NodeBuilder) Line(id, target string) *NodeBuilder {
	n.lines = append(n.lines, domain.LineDefinition{ID: id, From: n.block.ID, To: target})
	return n
}

// Build returns the underlying block definition.
func (n *NodeBuilder) Build() domain.BlockDefinition {
	return n.block
}
