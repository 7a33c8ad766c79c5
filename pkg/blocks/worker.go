package blocks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/flowforge/internal/logging"
	"github.com/aretw0/flowforge/pkg/domain"
	"github.com/aretw0/flowforge/pkg/ports"
)

// ServiceFunc answers the payload of a service request.
type ServiceFunc func(ctx context.Context, payload []byte) ([]byte, error)

// Worker is the serving side of servicebus blocks: it drains the bus and answers every
// request with the function registered for its service.
type Worker struct {
	bus      ports.ServiceBusHandler
	interval time.Duration
	logger   *slog.Logger

	mu       sync.RWMutex
	services map[string]ServiceFunc

	shutdownCh chan struct{}
	once       sync.Once
}

// NewWorker creates a worker polling bus every interval.
func NewWorker(bus ports.ServiceBusHandler, interval time.Duration, logger *slog.Logger) *Worker {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Worker{
		bus:        bus,
		interval:   interval,
		logger:     logger,
		services:   make(map[string]ServiceFunc),
		shutdownCh: make(chan struct{}),
	}
}

// Handle registers fn for service, replacing any previous function.
func (w *Worker) Handle(service string, fn ServiceFunc) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.services[service] = fn
}

// Drain answers every pending request and returns how many were handled.
func (w *Worker) Drain(ctx context.Context) (int, error) {
	handled := 0
	for {
		req, found, err := w.bus.NextRequest(ctx)
		if err != nil {
			return handled, fmt.Errorf("failed to fetch request: %w", err)
		}
		if !found {
			return handled, nil
		}
		if err := w.bus.SendResponse(ctx, w.answer(ctx, req)); err != nil {
			return handled, fmt.Errorf("failed to answer request %s: %w", req.ID, err)
		}
		handled++
	}
}

func (w *Worker) answer(ctx context.Context, req domain.ServiceRequest) domain.ServiceResponse {
	resp := domain.ServiceResponse{RequestID: req.ID, Completed: true}

	w.mu.RLock()
	fn, ok := w.services[req.Service]
	w.mu.RUnlock()

	if !ok {
		resp.HasError = true
		resp.Error = fmt.Sprintf("unknown service %q", req.Service)
		w.logger.Warn("service request dropped", "request_id", req.ID, "service", req.Service)
		return resp
	}

	payload, err := fn(ctx, req.Payload)
	if err != nil {
		resp.HasError = true
		resp.Error = err.Error()
		w.logger.Warn("service failed", "request_id", req.ID, "service", req.Service, "error", err)
		return resp
	}
	resp.Payload = payload
	return resp
}

// Start polls the bus until ctx ends or Shutdown is called.
func (w *Worker) Start(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.shutdownCh:
			return nil
		case <-ticker.C:
			if _, err := w.Drain(ctx); err != nil && !errors.Is(err, context.Canceled) {
				w.logger.Error("service worker drain failed", "error", err)
			}
		}
	}
}

// Shutdown stops Start.
func (w *Worker) Shutdown() {
	w.once.Do(func() { close(w.shutdownCh) })
}
