package flowforge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/flowforge/internal/logging"
	"github.com/aretw0/flowforge/internal/steplock"
	"github.com/aretw0/flowforge/pkg/adapters/file"
	loamAdapter "github.com/aretw0/flowforge/pkg/adapters/loam"
	"github.com/aretw0/flowforge/pkg/adapters/memory"
	"github.com/aretw0/flowforge/pkg/blocks"
	"github.com/aretw0/flowforge/pkg/domain"
	"github.com/aretw0/flowforge/pkg/graph"
	"github.com/aretw0/flowforge/pkg/observability"
	"github.com/aretw0/flowforge/pkg/ports"
	"github.com/aretw0/flowforge/pkg/registry"
)

// Version is the engine version block builders are checked against.
const Version = domain.EngineVersion

// ErrUnknownBlock is returned by the Flow operations addressing a block id the graph does not
// contain.
var ErrUnknownBlock = errors.New("unknown block")

// Flow is a loaded, assembled and resolved graph together with the stores its blocks use.
type Flow struct {
	Name string

	def      *domain.GraphDefinition
	graph    *graph.Graph
	loader   ports.DefinitionLoader
	registry *registry.Registry
	store    ports.ContextStore
	bus      ports.ServiceBus
	locker   ports.DistributedLocker
	lockTTL  time.Duration
	locks    *steplock.Manager
	metrics  *observability.Metrics
	builders []ports.BlockBuilder

	listeners []graph.StateListener
	logger    *slog.Logger
}

// Option defines a functional option for configuring a Flow.
type Option func(*Flow)

// WithLoader injects a custom DefinitionLoader, bypassing the path based loaders.
func WithLoader(l ports.DefinitionLoader) Option {
	return func(f *Flow) {
		f.loader = l
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Flow) {
		f.logger = logger
	}
}

// WithListener registers a state listener on every block of the graph.
func WithListener(l graph.StateListener) Option {
	return func(f *Flow) {
		if l != nil {
			f.listeners = append(f.listeners, l)
		}
	}
}

// WithRegistry replaces the default registry. The built-in block builder is not added to a
// custom registry.
func WithRegistry(r *registry.Registry) Option {
	return func(f *Flow) {
		f.registry = r
	}
}

// WithBuilder registers an extra block builder on the default registry.
func WithBuilder(b ports.BlockBuilder) Option {
	return func(f *Flow) {
		f.builders = append(f.builders, b)
	}
}

// WithStore sets the context store used by context blocks (default: in-memory).
func WithStore(s ports.ContextStore) Option {
	return func(f *Flow) {
		f.store = s
	}
}

// WithBus sets the service bus used by service-bus blocks (default: in-memory).
func WithBus(b ports.ServiceBus) Option {
	return func(f *Flow) {
		f.bus = b
	}
}

// WithMetrics records block transitions and step durations.
func WithMetrics(m *observability.Metrics) Option {
	return func(f *Flow) {
		f.metrics = m
	}
}

// WithLocker serializes Step calls on the same block across processes.
// A zero ttl selects steplock.DefaultTTL.
func WithLocker(l ports.DistributedLocker, ttl time.Duration) Option {
	return func(f *Flow) {
		f.locker = l
		f.lockTTL = ttl
	}
}

// New loads, assembles and resolves a graph.
// The path selects the loader: a .yaml, .yml or .json file is read directly, anything else is
// opened as a loam repository. With WithLoader the path only names the flow.
func New(path string, opts ...Option) (*Flow, error) {
	return NewContext(context.Background(), path, opts...)
}

// NewContext is New with a caller supplied context for the loading phase.
func NewContext(ctx context.Context, path string, opts ...Option) (*Flow, error) {
	f := &Flow{}
	for _, opt := range opts {
		opt(f)
	}

	if f.loader == nil {
		l, err := OpenLoader(path)
		if err != nil {
			return nil, err
		}
		f.loader = l
	}

	if f.logger == nil {
		f.logger = logging.NewNop()
	}
	if f.store == nil {
		f.store = memory.NewStore()
	}
	if f.bus == nil {
		f.bus = memory.NewBus()
	}

	def, err := f.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load graph: %w", err)
	}
	f.def = def

	f.Name = def.Name
	if f.Name == "" && path != "" {
		f.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if f.Name != "" {
		f.logger = f.logger.With("graph", f.Name)
	}

	lockOpts := []steplock.Option{steplock.WithLogger(f.logger)}
	if f.locker != nil {
		lockOpts = append(lockOpts, steplock.WithLocker(f.locker, f.lockTTL))
	}
	f.locks = steplock.NewManager(lockOpts...)

	if f.registry == nil {
		f.registry = registry.NewRegistry(registry.WithLogger(f.logger))
		builtin := blocks.NewBuilder(
			blocks.WithStore(f.store),
			blocks.WithBus(f.bus),
			blocks.WithLogger(f.logger),
		)
		if err := f.registry.Register(builtin); err != nil {
			return nil, err
		}
		for _, b := range f.builders {
			if err := f.registry.Register(b); err != nil {
				return nil, err
			}
		}
	}

	params, err := domain.NewInstanceParameters(def.Parameters)
	if err != nil {
		return nil, err
	}

	g, err := Assemble(ctx, def, f.registry, params)
	if err != nil {
		return nil, err
	}
	f.graph = g

	if f.metrics != nil {
		g.AddListener(f.metrics)
	}
	for _, l := range f.listeners {
		g.AddListener(l)
	}

	f.logger.Info("graph assembled", "blocks", len(def.Blocks), "lines", len(def.Lines))
	return f, nil
}

// OpenLoader picks the loader for path: a .yaml, .yml or .json file is read directly, anything
// else is opened as a loam repository.
func OpenLoader(path string) (ports.DefinitionLoader, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: path is required when no custom loader is provided", domain.ErrInvalidArgument)
	}
	if file.Supported(path) {
		return file.New(path), nil
	}
	l, err := loamAdapter.Open(path)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// Graph returns the resolved graph.
func (f *Flow) Graph() *graph.Graph { return f.graph }

// Definition returns the definition the graph was assembled from.
func (f *Flow) Definition() *domain.GraphDefinition { return f.def }

// Registry returns the registry the blocks were built with.
func (f *Flow) Registry() *registry.Registry { return f.registry }

// Store returns the context store shared by the blocks.
func (f *Flow) Store() ports.ContextStore { return f.store }

// Bus returns the service bus shared by the blocks.
func (f *Flow) Bus() ports.ServiceBus { return f.bus }

func (f *Flow) block(id string) (graph.Block, error) {
	b, ok := f.graph.Block(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBlock, id)
	}
	return b, nil
}

// Step invokes one block: the base run transition, then its own work. Steps on the same block
// never overlap: within the process, and across processes sharing a WithLocker backend.
func (f *Flow) Step(ctx context.Context, id string) error {
	b, err := f.block(id)
	if err != nil {
		return err
	}

	err = f.locks.WithLock(ctx, "step:"+f.Name+":"+id, func(ctx context.Context) error {
		start := time.Now()
		err := graph.Step(ctx, b)
		if f.metrics != nil {
			f.metrics.ObserveStep(b.TypeID(), time.Since(start), err)
		}
		return err
	})
	if err != nil {
		f.logger.Error("block step failed", "block_id", id, "err", err)
		return err
	}

	f.logger.Debug("block stepped", "block_id", id, "state", b.State())
	return nil
}

// Stop forces a block into STOPPED.
func (f *Flow) Stop(id string) error {
	b, err := f.block(id)
	if err != nil {
		return err
	}
	b.Stop()
	return nil
}

// Abort forces a block into ABORTED.
func (f *Flow) Abort(id string) error {
	b, err := f.block(id)
	if err != nil {
		return err
	}
	b.Abort()
	return nil
}

// Ready re-arms a finished block.
func (f *Flow) Ready(id string) error {
	b, err := f.block(id)
	if err != nil {
		return err
	}
	return b.SetReady()
}

// Reset returns a block to its initial configured state.
func (f *Flow) Reset(id string) error {
	b, err := f.block(id)
	if err != nil {
		return err
	}
	b.Reset()
	return nil
}

// ResetAll resets every block and line.
func (f *Flow) ResetAll() {
	f.graph.ResetAll()
}

// Changes returns the ids of the blocks and lines modified since the previous call.
func (f *Flow) Changes() (blocks []string, lines []string) {
	blocks, lines = f.graph.Modified()
	f.graph.Acknowledge()
	return blocks, lines
}
