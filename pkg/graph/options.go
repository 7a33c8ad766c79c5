package graph

import (
	"log/slog"

	"github.com/aretw0/flowforge/pkg/domain"
)

// BlockOption configures a BlockBase at construction.
type BlockOption func(*BlockBase)

// WithLogger sets the structured logger used for state-change records.
func WithLogger(logger *slog.Logger) BlockOption {
	return func(b *BlockBase) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithInitialState forces the state a block starts in. Ordinary blocks start READY; use
// domain.NodeStateNotConfigured for blocks that need explicit configuration before running.
func WithInitialState(state domain.NodeState) BlockOption {
	return func(b *BlockBase) {
		b.state = state
	}
}

// WithListener registers a state listener at construction.
func WithListener(l StateListener) BlockOption {
	return func(b *BlockBase) {
		if l != nil {
			b.listeners.add(l)
		}
	}
}

// LineOption configures a Line at construction.
type LineOption func(*Line)

// WithLineLogger sets the structured logger used by a line.
func WithLineLogger(logger *slog.Logger) LineOption {
	return func(l *Line) {
		if logger != nil {
			l.logger = logger
		}
	}
}
