package blocks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/flowforge/pkg/domain"
	"github.com/aretw0/flowforge/pkg/graph"
	"github.com/aretw0/flowforge/pkg/ports"
)

// TypeServiceBus is the type id of ServiceCall.
const TypeServiceBus = "servicebus"

// ServiceCall sends its text to a service and finishes with the service's answer.
type ServiceCall struct {
	*graph.BlockBase
	cfg ServiceBusConfig
	bus ports.ServiceBusClient
}

// NewServiceCall creates a servicebus block.
func NewServiceCall(base *graph.BlockBase, cfg ServiceBusConfig, bus ports.ServiceBusClient) (*ServiceCall, error) {
	if strings.TrimSpace(cfg.Service) == "" {
		return nil, fmt.Errorf("%w: block %s: service must not be blank", domain.ErrInvalidArgument, base.ID())
	}
	if bus == nil {
		return nil, fmt.Errorf("%w: block %s: no service bus configured", domain.ErrConfigurationMismatch, base.ID())
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	return &ServiceCall{BlockBase: base, cfg: cfg, bus: bus}, nil
}

// Advance implements graph.Advancer. It polls for the response until one arrives or ctx ends.
// A block stopped or aborted while waiting gives up without finishing; a late response is left
// unread.
func (s *ServiceCall) Advance(ctx context.Context) error {
	id, err := s.bus.SendRequest(ctx, domain.ServiceRequest{
		Service: s.cfg.Service,
		Payload: []byte(incomingText(s.BlockBase)),
	})
	if err != nil {
		return s.Fail(fmt.Errorf("send request to %s: %w", s.cfg.Service, err))
	}

	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	for {
		if s.State() != domain.NodeStateRunning {
			return nil
		}

		resp, found, err := s.bus.Response(ctx, id)
		if err != nil {
			return s.Fail(fmt.Errorf("read response %s: %w", id, err))
		}
		if found {
			if resp.HasError {
				return s.Fail(errors.New(resp.Error))
			}
			s.FinishIfRunning(string(resp.Payload))
			return nil
		}

		select {
		case <-ctx.Done():
			return s.Fail(fmt.Errorf("waiting for %s: %w", s.cfg.Service, ctx.Err()))
		case <-ticker.C:
		}
	}
}
