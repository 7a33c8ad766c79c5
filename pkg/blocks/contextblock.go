package blocks

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/flowforge/pkg/domain"
	"github.com/aretw0/flowforge/pkg/graph"
	"github.com/aretw0/flowforge/pkg/ports"
)

// TypeContext is the type id of ContextWriter.
const TypeContext = "context"

// ContextWriter stores its text in the context store.
type ContextWriter struct {
	*graph.BlockBase
	cfg   ContextConfig
	store ports.ContextStore
}

// NewContextWriter creates a context block. The key is validated up front.
func NewContextWriter(base *graph.BlockBase, cfg ContextConfig, store ports.ContextStore) (*ContextWriter, error) {
	if !domain.ValidContextKey(cfg.Key) {
		return nil, fmt.Errorf("%w: block %s: invalid context key %q", domain.ErrInvalidArgument, base.ID(), cfg.Key)
	}
	if store == nil {
		return nil, fmt.Errorf("%w: block %s: no context store configured", domain.ErrConfigurationMismatch, base.ID())
	}
	return &ContextWriter{BlockBase: base, cfg: cfg, store: store}, nil
}

// writeAttempts bounds the update/put round trips when other writers race on the same key.
const writeAttempts = 3

// Advance implements graph.Advancer. An existing key is updated, a missing one created.
func (c *ContextWriter) Advance(ctx context.Context) error {
	text := incomingText(c.BlockBase)
	if err := c.write(ctx, domain.StringValue(text)); err != nil {
		return c.Fail(err)
	}

	c.FinishIfRunning(text)
	return nil
}

// write upserts value. A Put losing to a concurrent writer falls back to Update.
func (c *ContextWriter) write(ctx context.Context, value domain.Value) error {
	for i := 0; i < writeAttempts; i++ {
		found, err := c.store.Update(ctx, c.cfg.Key, value)
		if err != nil {
			return fmt.Errorf("update context key %s: %w", c.cfg.Key, err)
		}
		if found {
			return nil
		}

		err = c.store.Put(ctx, c.cfg.Key, value)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrAlreadyExists) {
			return fmt.Errorf("put context key %s: %w", c.cfg.Key, err)
		}
	}
	return fmt.Errorf("%w: context key %s kept changing during %d writes", domain.ErrConfigurationMismatch, c.cfg.Key, writeAttempts)
}
