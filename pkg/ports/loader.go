package ports

import (
	"context"

	"github.com/aretw0/flowforge/pkg/domain"
)

// DefinitionLoader retrieves a graph definition from its source (file, document repository,
// memory). The storage layer stays decoupled from assembly.
type DefinitionLoader interface {
	Load(ctx context.Context) (*domain.GraphDefinition, error)
}
