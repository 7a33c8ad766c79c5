package blocks

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/flowforge/internal/logging"
	"github.com/aretw0/flowforge/pkg/domain"
	"github.com/aretw0/flowforge/pkg/graph"
	"github.com/aretw0/flowforge/pkg/ports"
)

// Builder implements ports.BlockBuilder for the built-in block types.
type Builder struct {
	store     ports.ContextStore
	bus       ports.ServiceBusClient
	logger    *slog.Logger
	listeners []graph.StateListener
}

var _ ports.BlockBuilder = (*Builder)(nil)

// Option configures a Builder.
type Option func(*Builder)

// WithStore sets the context store used by context blocks.
func WithStore(store ports.ContextStore) Option {
	return func(b *Builder) { b.store = store }
}

// WithBus sets the service bus used by servicebus blocks.
func WithBus(bus ports.ServiceBusClient) Option {
	return func(b *Builder) { b.bus = bus }
}

// WithLogger sets the logger handed to every block.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithListener attaches l to every block built.
func WithListener(l graph.StateListener) Option {
	return func(b *Builder) {
		if l != nil {
			b.listeners = append(b.listeners, l)
		}
	}
}

// NewBuilder creates the built-in builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// ExpectedEngineVersion implements ports.BlockBuilder.
func (b *Builder) ExpectedEngineVersion() string {
	return domain.EngineVersion
}

// SupportedBlockTypeIDs implements ports.BlockBuilder.
func (b *Builder) SupportedBlockTypeIDs() []string {
	return []string{TypeContext, TypeEcho, TypeServiceBus}
}

// BuildBlock implements ports.BlockBuilder. args are (id string, defaultInput string) and an
// optional params map[string]any.
func (b *Builder) BuildBlock(typeID string, args ...any) (graph.Block, error) {
	id, defaultInput, params, err := parseArgs(args)
	if err != nil {
		return nil, err
	}

	opts := []graph.BlockOption{graph.WithLogger(b.logger)}
	for _, l := range b.listeners {
		opts = append(opts, graph.WithListener(l))
	}
	base, err := graph.NewBlockBase(id, typeID, defaultInput, opts...)
	if err != nil {
		return nil, err
	}

	switch typeID {
	case TypeEcho:
		var cfg EchoConfig
		if err := decodeParams(params, &cfg); err != nil {
			return nil, fmt.Errorf("block %s: %w", id, err)
		}
		return NewEcho(base, cfg), nil

	case TypeContext:
		var cfg ContextConfig
		if err := decodeParams(params, &cfg); err != nil {
			return nil, fmt.Errorf("block %s: %w", id, err)
		}
		blk, err := NewContextWriter(base, cfg, b.store)
		if err != nil {
			return nil, err
		}
		return blk, nil

	case TypeServiceBus:
		var cfg ServiceBusConfig
		if err := decodeParams(params, &cfg); err != nil {
			return nil, fmt.Errorf("block %s: %w", id, err)
		}
		blk, err := NewServiceCall(base, cfg, b.bus)
		if err != nil {
			return nil, err
		}
		return blk, nil

	default:
		return nil, fmt.Errorf("%w: unsupported block type %q", domain.ErrInvalidArgument, typeID)
	}
}

func parseArgs(args []any) (id, defaultInput string, params map[string]any, err error) {
	if len(args) < 2 || len(args) > 3 {
		return "", "", nil, fmt.Errorf("%w: expected (id, defaultInput[, params]), got %d args", domain.ErrInvalidArgument, len(args))
	}

	var ok bool
	if id, ok = args[0].(string); !ok {
		return "", "", nil, fmt.Errorf("%w: block id must be a string, got %T", domain.ErrInvalidArgument, args[0])
	}
	if defaultInput, ok = args[1].(string); !ok {
		return "", "", nil, fmt.Errorf("%w: default input must be a string, got %T", domain.ErrInvalidArgument, args[1])
	}
	if len(args) == 3 && args[2] != nil {
		if params, ok = args[2].(map[string]any); !ok {
			return "", "", nil, fmt.Errorf("%w: params must be a map, got %T", domain.ErrInvalidArgument, args[2])
		}
	}
	return id, defaultInput, params, nil
}
