package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/flowforge/pkg/domain"
	"github.com/google/uuid"
	backend "github.com/redis/go-redis/v9"
)

// takeScript reads and deletes a hash field in one step.
var takeScript = backend.NewScript(`
local v = redis.call("HGET", KEYS[1], ARGV[1])
if v then
	redis.call("HDEL", KEYS[1], ARGV[1])
end
return v
`)

// Bus implements ports.ServiceBus with a Redis LIST of pending requests (LPUSH/RPOP gives FIFO)
// and a HASH of responses keyed by request id.
type Bus struct {
	client *backend.Client
	prefix string
}

// NewBus creates a service bus on an existing client.
func NewBus(client *backend.Client, opts ...Option) *Bus {
	// Reuse the store options so both adapters share a namespace.
	cfg := NewFromClient(client, opts...)
	return &Bus{client: client, prefix: cfg.prefix}
}

func (b *Bus) requestsKey() string {
	return b.prefix + "bus:requests"
}

func (b *Bus) responsesKey() string {
	return b.prefix + "bus:responses"
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

	data, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}
	if err := b.client.LPush(ctx, b.requestsKey(), data).Err(); err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	return req.ID, nil
}

// Response returns and consumes the response to requestID.
func (b *Bus) Response(ctx context.Context, requestID string) (domain.ServiceResponse, bool, error) {
	raw, err := takeScript.Run(ctx, b.client, []string{b.responsesKey()}, requestID).Text()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return domain.ServiceResponse{}, false, nil
		}
		return domain.ServiceResponse{}, false, fmt.Errorf("failed to read response: %w", err)
	}

	var resp domain.ServiceResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return domain.ServiceResponse{}, false, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return resp, true, nil
}

// NextRequest dequeues the oldest request.
func (b *Bus) NextRequest(ctx context.Context) (domain.ServiceRequest, bool, error) {
	raw, err := b.client.RPop(ctx, b.requestsKey()).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return domain.ServiceRequest{}, false, nil
		}
		return domain.ServiceRequest{}, false, fmt.Errorf("failed to pop request: %w", err)
	}

	var req domain.ServiceRequest
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		return domain.ServiceRequest{}, false, fmt.Errorf("failed to unmarshal request: %w", err)
	}
	return req, true, nil
}

// SendResponse stores resp until the client reads it.
func (b *Bus) SendResponse(ctx context.Context, resp domain.ServiceResponse) error {
	if strings.TrimSpace(resp.RequestID) == "" {
		return fmt.Errorf("%w: response request id must not be blank", domain.ErrInvalidArgument)
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}
	if err := b.client.HSet(ctx, b.responsesKey(), resp.RequestID, data).Err(); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}
	return nil
}
