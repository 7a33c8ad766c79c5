// Package registry keeps the block builders known to the engine, indexed by block type id.
package registry

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/aretw0/flowforge/internal/logging"
	"github.com/aretw0/flowforge/pkg/domain"
	"github.com/aretw0/flowforge/pkg/graph"
	"github.com/aretw0/flowforge/pkg/ports"
	"golang.org/x/mod/semver"
)

// Registry manages the available block builders.
type Registry struct {
	mu            sync.RWMutex
	builders      map[string]ports.BlockBuilder
	engineVersion string
	logger        *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithEngineVersion overrides the engine version builders are checked against.
func WithEngineVersion(v string) Option {
	return func(r *Registry) {
		r.engineVersion = canonical(v)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRegistry creates a new empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		builders:      make(map[string]ports.BlockBuilder),
		engineVersion: domain.EngineVersion,
		logger:        logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func canonical(v string) string {
	v = strings.TrimSpace(v)
	if v != "" && !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}

// Compatible reports whether a builder expecting version expected can run on engine: same
// major version, and not newer than the engine.
func Compatible(expected, engine string) bool {
	expected, engine = canonical(expected), canonical(engine)
	if !semver.IsValid(expected) || !semver.IsValid(engine) {
		return false
	}
	return semver.Major(expected) == semver.Major(engine) && semver.Compare(expected, engine) <= 0
}

// Register adds a builder for every type id it supports. Incompatible builders fail with
// domain.ErrConfigurationMismatch; a type id that is already taken fails with
// domain.ErrAlreadyExists and nothing is registered.
func (r *Registry) Register(b ports.BlockBuilder) error {
	if b == nil {
		return fmt.Errorf("%w: builder must not be nil", domain.ErrInvalidArgument)
	}

	expected := b.ExpectedEngineVersion()
	if !Compatible(expected, r.engineVersion) {
		return fmt.Errorf("%w: builder expects engine %q, running %s",
			domain.ErrConfigurationMismatch, expected, r.engineVersion)
	}

	types := b.SupportedBlockTypeIDs()
	if len(types) == 0 {
		return fmt.Errorf("%w: builder supports no block types", domain.ErrInvalidArgument)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, typeID := range types {
		if strings.TrimSpace(typeID) == "" {
			return fmt.Errorf("%w: blank block type id", domain.ErrInvalidArgument)
		}
		if _, exists := r.builders[typeID]; exists {
			return fmt.Errorf("%w: block type %q", domain.ErrAlreadyExists, typeID)
		}
	}
	for _, typeID := range types {
		r.builders[typeID] = b
	}

	r.logger.Debug("block builder registered", "types", types, "expects", expected)
	return nil
}

// Build looks a builder up by type id and builds a block.
func (r *Registry) Build(typeID string, args ...any) (graph.Block, error) {
	r.mu.RLock()
	b, ok := r.builders[typeID]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: unknown block type %q", domain.ErrInvalidArgument, typeID)
	}
	return b.BuildBlock(typeID, args...)
}

// Supported returns the registered type ids, sorted.
func (r *Registry) Supported() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.builders))
	for id := range r.builders {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// EngineVersion returns the version builders are checked against.
func (r *Registry) EngineVersion() string {
	return r.engineVersion
}
