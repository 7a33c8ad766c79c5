package graph

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/flowforge/internal/logging"
	"github.com/aretw0/flowforge/pkg/domain"
)

// Line is a directed edge between two blocks. It is built with the endpoint ids and bound to
// the block instances exactly once by ResolveBlocks.
type Line struct {
	id     string
	fromID string
	toID   string

	mu       sync.Mutex
	from     Block
	to       Block
	state    domain.JunctionState
	modified bool

	logger *slog.Logger
}

// NewLine creates an unresolved line in OFF state with the dirty flag set.
// Blank identifiers fail with domain.ErrInvalidArgument.
func NewLine(id, fromID, toID string, opts ...LineOption) (*Line, error) {
	if isBlank(id) || isBlank(fromID) || isBlank(toID) {
		return nil, fmt.Errorf("%w: line id, from block id and to block id must not be blank", domain.ErrInvalidArgument)
	}

	l := &Line{
		id:       id,
		fromID:   fromID,
		toID:     toID,
		state:    domain.JunctionOff,
		modified: true,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// ID returns the internal line id.
func (l *Line) ID() string { return l.id }

// FromID returns the id of the upstream block.
func (l *Line) FromID() string { return l.fromID }

// ToID returns the id of the downstream block.
func (l *Line) ToID() string { return l.toID }

// ResolveBlocks binds the endpoint ids to blocks of the candidate set (first match wins, nil
// entries are skipped). Both endpoints are bound together or not at all. A second call fails
// with domain.ErrConfigurationMismatch and leaves the first bindings in place.
func (l *Line) ResolveBlocks(blocks []Block) error {
	if blocks == nil {
		return fmt.Errorf("%w: line %s: blocks must not be nil", domain.ErrInvalidArgument, l.id)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.from != nil || l.to != nil {
		return fmt.Errorf("%w: line %s: blocks already resolved", domain.ErrConfigurationMismatch, l.id)
	}

	from := findBlock(blocks, l.fromID)
	if from == nil {
		return fmt.Errorf("%w: line %s: from block %q not found", domain.ErrInvalidArgument, l.id, l.fromID)
	}
	to := findBlock(blocks, l.toID)
	if to == nil {
		return fmt.Errorf("%w: line %s: to block %q not found", domain.ErrInvalidArgument, l.id, l.toID)
	}

	l.from = from
	l.to = to
	l.logger.Debug("line resolved", "line_id", l.id, "from", l.fromID, "to", l.toID)
	return nil
}

func findBlock(blocks []Block, id string) Block {
	for _, b := range blocks {
		if b != nil && b.ID() == id {
			return b
		}
	}
	return nil
}

// From returns the upstream block, or nil before resolution.
func (l *Line) From() Block {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.from
}

// To returns the downstream block, or nil before resolution.
func (l *Line) To() Block {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.to
}

// Resolved reports whether ResolveBlocks succeeded.
func (l *Line) Resolved() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.from != nil && l.to != nil
}

// State returns the activation state.
func (l *Line) State() domain.JunctionState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// SetState updates the activation state; the dirty flag flips only on an actual change.
func (l *Line) SetState(state domain.JunctionState) error {
	if !state.Valid() {
		return fmt.Errorf("%w: line %s: unknown state %q", domain.ErrInvalidArgument, l.id, state)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != state {
		l.modified = true
	}
	l.state = state
	l.logger.Debug("line state changed", "line_id", l.id, "state", state)
	return nil
}

// Reset forces OFF and always marks the line dirty.
func (l *Line) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.state = domain.JunctionOff
	l.modified = true
}

// ResultText returns the upstream block's result text, or "" while unresolved.
func (l *Line) ResultText() string {
	from := l.From()
	if from == nil {
		return ""
	}
	return from.ResultText()
}

// IsModified reports whether anything changed since the last ResetModified.
func (l *Line) IsModified() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.modified
}

// SetModified marks the line dirty.
func (l *Line) SetModified() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.modified = true
}

// ResetModified acknowledges all changes.
func (l *Line) ResetModified() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.modified = false
}
