package memory

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aretw0/flowforge/pkg/domain"
)

// Loader implements ports.DefinitionLoader from a definition held in memory.
type Loader struct {
	def domain.GraphDefinition
}

// NewLoader creates a loader returning a copy of def on every Load.
func NewLoader(def domain.GraphDefinition) *Loader {
	return &Loader{def: def}
}

// NewFromJSON creates a loader from a JSON encoded definition.
// This improves DX for tests and embedded graphs.
func NewFromJSON(raw string) (*Loader, error) {
	var def domain.GraphDefinition
	if err := json.Unmarshal([]byte(raw), &def); err != nil {
		return nil, fmt.Errorf("failed to decode graph definition: %w", err)
	}
	return &Loader{def: def}, nil
}

// Load returns a copy of the definition.
func (l *Loader) Load(ctx context.Context) (*domain.GraphDefinition, error) {
	def := l.def
	def.Blocks = make([]domain.BlockDefinition, len(l.def.Blocks))
	for i, b := range l.def.Blocks {
		if b.Params != nil {
			params := make(map[string]any, len(b.Params))
			for k, v := range b.Params {
				params[k] = v
			}
			b.Params = params
		}
		def.Blocks[i] = b
	}
	def.Lines = append([]domain.LineDefinition(nil), l.def.Lines...)
	def.Parameters = append([]domain.InstanceParameter(nil), l.def.Parameters...)
	return &def, nil
}
