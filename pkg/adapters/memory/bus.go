package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/flowforge/pkg/domain"
	"github.com/google/uuid"
)

// Bus implements ports.ServiceBus in memory: a FIFO of pending requests and a map of
// responses waiting to be picked up.
// Safe for concurrent use.
type Bus struct {
	mu        sync.Mutex
	queue     []domain.ServiceRequest
	responses map[string]domain.ServiceResponse
}

// NewBus creates an empty in-memory service bus.
func NewBus() *Bus {
	return &Bus{
		responses: make(map[string]domain.ServiceResponse),
	}
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// SendRequest queues req and returns its id.
func (b *Bus) SendRequest(ctx context.Context, req domain.ServiceRequest) (string, error) {
	if strings.TrimSpace(req.Service) == "" {
		return "", fmt.Errorf("%w: request service must not be blank", domain.ErrInvalidArgument)
	}
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	if req.Timestamp.IsZero() {
		req.Timestamp = time.Now()
	}
	req.Payload = cloneBytes(req.Payload)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.queue = append(b.queue, req)
	return req.ID, nil
}

// Response returns and consumes the response to requestID.
func (b *Bus) Response(ctx context.Context, requestID string) (domain.ServiceResponse, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	resp, ok := b.responses[requestID]
	if !ok {
		return domain.ServiceResponse{}, false, nil
	}
	delete(b.responses, requestID)
	return resp, true, nil
}

// NextRequest dequeues the oldest request.
func (b *Bus) NextRequest(ctx context.Context) (domain.ServiceRequest, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.queue) == 0 {
		return domain.ServiceRequest{}, false, nil
	}
	req := b.queue[0]
	b.queue[0] = domain.ServiceRequest{}
	b.queue = b.queue[1:]
	return req, true, nil
}

// SendResponse stores resp until the client reads it.
func (b *Bus) SendResponse(ctx context.Context, resp domain.ServiceResponse) error {
	if strings.TrimSpace(resp.RequestID) == "" {
		return fmt.Errorf("%w: response request id must not be blank", domain.ErrInvalidArgument)
	}
	resp.Payload = cloneBytes(resp.Payload)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.responses[resp.RequestID] = resp
	return nil
}

// Pending returns the number of queued requests.
func (b *Bus) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queue)
}
