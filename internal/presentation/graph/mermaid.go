package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/flowforge/pkg/domain"
)

// GraphOverlay contains dynamic state data to visualize on the graph.
type GraphOverlay struct {
	States      map[string]domain.NodeState
	Errors      map[string]bool
	ActiveLines map[string]bool
}

// GenerateMermaid produces a Mermaid flowchart from block and line definitions.
// It applies semantic styling:
// - Entry (no incoming line): ((Circle))
// - Service bus: [[Subroutine]]
// - Context store: [(Database)]
// - Default: [Rectangle]
// With an overlay, blocks are coloured by state and ON lines are drawn thick.
func GenerateMermaid(blocks []domain.BlockDefinition, lines []domain.LineDefinition, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	hasInput := make(map[string]bool, len(lines))
	for _, l := range lines {
		hasInput[l.To] = true
	}

	for _, b := range blocks {
		safeID := sanitizeMermaidID(b.ID)

		opener, closer := "[", "]"
		switch {
		case !hasInput[b.ID]:
			opener, closer = "((", "))"
		case b.Type == "servicebus":
			opener, closer = "[[", "]]"
		case b.Type == "context":
			opener, closer = "[(", ")]"
		}

		fmt.Fprintf(&sb, "    %s%s\"%s <br/> <i>%s</i>\"%s\n", safeID, opener, b.ID, b.Type, closer)
	}

	for _, l := range lines {
		arrow := "-->"
		if overlay != nil && overlay.ActiveLines[l.ID] {
			arrow = "==>"
		}
		fmt.Fprintf(&sb, "    %s %s|%s| %s\n", sanitizeMermaidID(l.From), arrow, l.ID, sanitizeMermaidID(l.To))
	}

	if overlay != nil {
		writeOverlay(&sb, overlay)
	}

	return sb.String()
}

func writeOverlay(sb *strings.Builder, overlay *GraphOverlay) {
	sb.WriteString("\n    %% Overlay Styles\n")
	// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
	sb.WriteString("    classDef running fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
	sb.WriteString("    classDef done fill:#c8e6c9,stroke:#2e7d32,stroke-width:2px,color:#000;\n")
	sb.WriteString("    classDef stopped fill:#eeeeee,stroke:#616161,stroke-width:2px,color:#000;\n")
	sb.WriteString("    classDef aborted fill:#ffccbc,stroke:#bf360c,stroke-width:2px,color:#000;\n")
	sb.WriteString("    classDef failed fill:#ef9a9a,stroke:#b71c1c,stroke-width:4px,color:#000;\n")

	ids := make([]string, 0, len(overlay.States))
	for id := range overlay.States {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		class := ""
		switch overlay.States[id] {
		case domain.NodeStateRunning:
			class = "running"
		case domain.NodeStateDone:
			class = "done"
		case domain.NodeStateStopped:
			class = "stopped"
		case domain.NodeStateAborted:
			class = "aborted"
		}
		if overlay.Errors[id] {
			class = "failed"
		}
		if class != "" {
			fmt.Fprintf(sb, "    class %s %s;\n", sanitizeMermaidID(id), class)
		}
	}
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, ">", "_")
	s = strings.ReplaceAll(s, "#", "_")
	return s
}
