package ports

import "github.com/aretw0/flowforge/pkg/graph"

// BlockBuilder is the plugin contract: a builder announces the engine version it was written
// against and the block type ids it can instantiate.
type BlockBuilder interface {
	// ExpectedEngineVersion is a semantic version ("v1.2.0" or "1.2.0").
	ExpectedEngineVersion() string

	// SupportedBlockTypeIDs lists the type ids BuildBlock accepts.
	SupportedBlockTypeIDs() []string

	// BuildBlock creates a block of the given type. The meaning of args is defined by the
	// builder; unsupported type ids fail with domain.ErrInvalidArgument.
	BuildBlock(typeID string, args ...any) (graph.Block, error)
}
