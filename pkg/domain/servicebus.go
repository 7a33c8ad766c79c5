package domain

import "time"

// ServiceRequest is an asynchronous request put on the service bus.
// Payload is opaque to the bus.
type ServiceRequest struct {
	ID        string    `json:"id"`
	Service   string    `json:"service"`
	Payload   []byte    `json:"payload,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Completed bool      `json:"completed"`
	HasError  bool      `json:"has_error,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// SetError records an error on the request.
func (r *ServiceRequest) SetError(hasError bool, message string) {
	r.HasError = hasError
	r.Error = message
}

// ServiceResponse answers a ServiceRequest by id.
type ServiceResponse struct {
	RequestID string `json:"request_id"`
	Completed bool   `json:"completed"`
	HasError  bool   `json:"has_error,omitempty"`
	Error     string `json:"error,omitempty"`
	Payload   []byte `json:"payload,omitempty"`
}
