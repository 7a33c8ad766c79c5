package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/flowforge/internal/presentation/graph"
	"github.com/aretw0/flowforge/pkg/domain"
)

func TestGenerateMermaid(t *testing.T) {
	blocks := []domain.BlockDefinition{
		{ID: "read", Type: "echo"},
		{ID: "call-api", Type: "servicebus"},
		{ID: "save.ctx", Type: "context"},
		{ID: "tail", Type: "echo"},
	}
	lines := []domain.LineDefinition{
		{ID: "L1", From: "read", To: "call-api"},
		{ID: "L2", From: "call-api", To: "save.ctx"},
		{ID: "L3", From: "save.ctx", To: "tail"},
	}

	tests := []struct {
		name        string
		overlay     *graph.GraphOverlay
		contains    []string
		notContains []string
	}{
		{
			name: "Shapes and Sanitization",
			contains: []string{
				"graph TD",
				"read((\"read <br/> <i>echo</i>\"))",
				"call_api[[\"call-api <br/> <i>servicebus</i>\"]]",
				"save_ctx[(\"save.ctx <br/> <i>context</i>\")]",
				"tail[\"tail <br/> <i>echo</i>\"]",
				"read -->|L1| call_api",
			},
			notContains: []string{"classDef"},
		},
		{
			name: "Overlay",
			overlay: &graph.GraphOverlay{
				States: map[string]domain.NodeState{
					"read":     domain.NodeStateDone,
					"call-api": domain.NodeStateRunning,
					"save.ctx": domain.NodeStateDone,
					"tail":     domain.NodeStateReady,
				},
				Errors:      map[string]bool{"save.ctx": true},
				ActiveLines: map[string]bool{"L1": true},
			},
			contains: []string{
				"read ==>|L1| call_api",
				"call_api -->|L2| save_ctx",
				"class read done;",
				"class call_api running;",
				"class save_ctx failed;",
			},
			notContains: []string{"class tail"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(blocks, lines, tt.overlay)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() missing %q\nGot:\n%s", want, got)
				}
			}
			for _, unwanted := range tt.notContains {
				if strings.Contains(got, unwanted) {
					t.Errorf("GenerateMermaid() should not contain %q\nGot:\n%s", unwanted, got)
				}
			}
		})
	}
}
