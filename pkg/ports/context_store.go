package ports

import (
	"context"

	"github.com/aretw0/flowforge/pkg/domain"
)

// ContextStore is the key/value store blocks use to share data while a graph runs.
// Keys must satisfy domain.ValidContextKey; violations fail with domain.ErrInvalidArgument.
// Absence is never an error: lookups report it with found=false.
type ContextStore interface {
	// Put stores a new key. An existing key fails with domain.ErrAlreadyExists.
	Put(ctx context.Context, key string, value domain.Value) error

	// Get returns the value stored under key.
	Get(ctx context.Context, key string) (value domain.Value, found bool, err error)

	// Update overwrites an existing key. A missing key stores nothing and reports found=false.
	Update(ctx context.Context, key string, value domain.Value) (found bool, err error)

	// Remove deletes key. A missing key is a no-op.
	Remove(ctx context.Context, key string) error

	// Clear removes every key.
	Clear(ctx context.Context) error

	// PutAll validates every key first, then stores all entries, overwriting existing ones.
	PutAll(ctx context.Context, values map[string]domain.Value) error

	// Snapshot returns an independent copy of the whole store.
	Snapshot(ctx context.Context) (map[string]domain.Value, error)
}
