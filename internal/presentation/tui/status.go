package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/flowforge"
	"github.com/aretw0/flowforge/pkg/domain"
	"github.com/muesli/termenv"
)

var stateColors = map[domain.NodeState]string{
	domain.NodeStateReady:   "#818cf8",
	domain.NodeStateRunning: "#facc15",
	domain.NodeStateDone:    "#4ade80",
	domain.NodeStateStopped: "#fb923c",
	domain.NodeStateAborted: "#f87171",
}

// StatusMarkdown renders the blocks and lines of a snapshot as markdown tables.
func StatusMarkdown(snap flowforge.Snapshot) string {
	var sb strings.Builder

	name := snap.Name
	if name == "" {
		name = "flow"
	}
	fmt.Fprintf(&sb, "# %s\n\n", name)

	sb.WriteString("| Block | Type | State | Result | Error |\n")
	sb.WriteString("|---|---|---|---|---|\n")
	for _, b := range snap.Blocks {
		errText := ""
		if b.HasError {
			errText = b.Error
			if errText == "" {
				errText = "yes"
			}
		}
		fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s |\n", b.ID, b.Type, b.State, cell(b.Result), cell(errText))
	}

	if len(snap.Lines) > 0 {
		sb.WriteString("\n| Line | From | To | Junction |\n")
		sb.WriteString("|---|---|---|---|\n")
		for _, l := range snap.Lines {
			fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n", l.ID, l.From, l.To, l.State)
		}
	}
	return sb.String()
}

// cell keeps multi-line text and pipes from breaking a table row.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) > 60 {
		s = s[:57] + "..."
	}
	return s
}

// Summary counts the blocks per state, colored for the given profile, in lifecycle order.
func Summary(profile termenv.Profile, snap flowforge.Snapshot) string {
	counts := make(map[domain.NodeState]int)
	for _, b := range snap.Blocks {
		counts[b.State]++
	}

	var parts []string
	for _, st := range []domain.NodeState{
		domain.NodeStateReady,
		domain.NodeStateRunning,
		domain.NodeStateDone,
		domain.NodeStateStopped,
		domain.NodeStateAborted,
	} {
		if counts[st] == 0 {
			continue
		}
		label := profile.String(fmt.Sprintf("%s %d", st, counts[st])).Foreground(profile.Color(stateColors[st]))
		if st == domain.NodeStateAborted {
			label = label.Bold()
		}
		parts = append(parts, label.String())
	}
	if len(parts) == 0 {
		return "no blocks"
	}
	return strings.Join(parts, "  ")
}
