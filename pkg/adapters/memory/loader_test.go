package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/flowforge/pkg/adapters/memory"
	"github.com/aretw0/flowforge/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_ReturnsCopies(t *testing.T) {
	def := domain.GraphDefinition{
		Name:   "demo",
		Blocks: []domain.BlockDefinition{{ID: "B1", Type: "echo", DefaultInput: "hi", Params: map[string]any{"prefix": ">"}}},
		Lines:  []domain.LineDefinition{{ID: "L1", From: "B1", To: "B1"}},
	}
	loader := memory.NewLoader(def)

	first, err := loader.Load(context.Background())
	require.NoError(t, err)
	first.Blocks[0].Params["prefix"] = "changed"
	first.Lines[0].ID = "changed"

	second, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ">", second.Blocks[0].Params["prefix"])
	assert.Equal(t, "L1", second.Lines[0].ID)
}

func TestNewFromJSON(t *testing.T) {
	loader, err := memory.NewFromJSON(`{
		"name": "demo",
		"blocks": [{"id": "B1", "type": "echo", "default_input": "hi"}],
		"lines": [],
		"parameters": [{"block_id": "B1", "value": "override"}]
	}`)
	require.NoError(t, err)

	def, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "demo", def.Name)
	require.Len(t, def.Blocks, 1)
	assert.Equal(t, "hi", def.Blocks[0].DefaultInput)
	assert.Equal(t, "override", def.Parameters[0].Value)

	_, err = memory.NewFromJSON("{")
	assert.Error(t, err)
}
