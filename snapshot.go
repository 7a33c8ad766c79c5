package flowforge

import (
	presentation "github.com/aretw0/flowforge/internal/presentation/graph"
	"github.com/aretw0/flowforge/pkg/domain"
	"github.com/aretw0/flowforge/pkg/graph"
)

// BlockSnapshot is a point-in-time view of one block.
type BlockSnapshot struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	State    domain.NodeState `json:"state"`
	Input    string           `json:"input"`
	Result   string           `json:"result"`
	HasError bool             `json:"has_error"`
	Error    string           `json:"error,omitempty"`
	Modified bool             `json:"modified"`
}

// LineSnapshot is a point-in-time view of one line.
type LineSnapshot struct {
	ID       string               `json:"id"`
	From     string               `json:"from"`
	To       string               `json:"to"`
	State    domain.JunctionState `json:"state"`
	Modified bool                 `json:"modified"`
}

// Snapshot captures every block and line of a flow.
type Snapshot struct {
	Name   string          `json:"name,omitempty"`
	Blocks []BlockSnapshot `json:"blocks"`
	Lines  []LineSnapshot  `json:"lines"`
}

func snapshotBlock(b graph.Block) BlockSnapshot {
	return BlockSnapshot{
		ID:       b.ID(),
		Type:     b.TypeID(),
		State:    b.State(),
		Input:    b.InputText(),
		Result:   b.ResultText(),
		HasError: b.HasError(),
		Error:    b.ErrorMessage(),
		Modified: b.IsModified(),
	}
}

func snapshotLine(l *graph.Line) LineSnapshot {
	return LineSnapshot{
		ID:       l.ID(),
		From:     l.FromID(),
		To:       l.ToID(),
		State:    l.State(),
		Modified: l.IsModified(),
	}
}

// Snapshot reads the current state of every block and line. Each element is read under its own
// lock; the snapshot as a whole is not atomic.
func (f *Flow) Snapshot() Snapshot {
	s := Snapshot{Name: f.Name}
	for _, b := range f.graph.Blocks() {
		s.Blocks = append(s.Blocks, snapshotBlock(b))
	}
	for _, l := range f.graph.Lines() {
		s.Lines = append(s.Lines, snapshotLine(l))
	}
	return s
}

// BlockSnapshot returns the view of a single block.
func (f *Flow) BlockSnapshot(id string) (BlockSnapshot, bool) {
	b, ok := f.graph.Block(id)
	if !ok {
		return BlockSnapshot{}, false
	}
	return snapshotBlock(b), true
}

// Mermaid renders the graph as a Mermaid flowchart coloured with the current states.
func (f *Flow) Mermaid() string {
	overlay := &presentation.GraphOverlay{
		States:      make(map[string]domain.NodeState),
		Errors:      make(map[string]bool),
		ActiveLines: make(map[string]bool),
	}
	for _, b := range f.graph.Blocks() {
		overlay.States[b.ID()] = b.State()
		if b.HasError() {
			overlay.Errors[b.ID()] = true
		}
	}
	for _, l := range f.graph.Lines() {
		if l.State() == domain.JunctionOn {
			overlay.ActiveLines[l.ID()] = true
		}
	}
	return presentation.GenerateMermaid(f.def.Blocks, f.def.Lines, overlay)
}
