package ports

import (
	"context"

	"github.com/aretw0/flowforge/pkg/domain"
)

// ServiceBusClient is the requesting side of the service bus.
type ServiceBusClient interface {
	// SendRequest queues a request and returns its id. An empty id or zero timestamp is
	// assigned by the bus. A blank service fails with domain.ErrInvalidArgument.
	SendRequest(ctx context.Context, req domain.ServiceRequest) (string, error)

	// Response returns the response to a request, if one arrived. A returned response is
	// consumed and will not be returned again.
	Response(ctx context.Context, requestID string) (resp domain.ServiceResponse, found bool, err error)
}

// ServiceBusHandler is the serving side of the service bus.
type ServiceBusHandler interface {
	// NextRequest dequeues the oldest pending request.
	NextRequest(ctx context.Context) (req domain.ServiceRequest, found bool, err error)

	// SendResponse publishes a response. A blank request id fails with
	// domain.ErrInvalidArgument.
	SendResponse(ctx context.Context, resp domain.ServiceResponse) error
}

// ServiceBus is a bus usable from both sides.
type ServiceBus interface {
	ServiceBusClient
	ServiceBusHandler
}
