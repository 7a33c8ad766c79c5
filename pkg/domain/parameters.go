package domain

import (
	"fmt"
	"strings"
)

// InstanceParameter carries the per-instance value of one block. Every setting of the block
// lives in Value (plain text, a JSON document, ...).
type InstanceParameter struct {
	BlockID string `json:"block_id" yaml:"block_id" mapstructure:"block_id"`
	Value   string `json:"value" yaml:"value" mapstructure:"value"`
}

// NewInstanceParameter validates and builds a parameter.
func NewInstanceParameter(blockID, value string) (InstanceParameter, error) {
	if strings.TrimSpace(blockID) == "" {
		return InstanceParameter{}, fmt.Errorf("%w: block id must not be blank", ErrInvalidArgument)
	}
	if strings.TrimSpace(value) == "" {
		return InstanceParameter{}, fmt.Errorf("%w: parameter value must not be blank", ErrInvalidArgument)
	}
	return InstanceParameter{BlockID: blockID, Value: value}, nil
}

// InstanceParameters is an immutable set of parameters indexed by block id.
type InstanceParameters struct {
	list  []InstanceParameter
	index map[string]InstanceParameter
}

// NewInstanceParameters checks every entry and indexes them by block id.
// Duplicate block ids fail with ErrAlreadyExists.
func NewInstanceParameters(params []InstanceParameter) (*InstanceParameters, error) {
	set := &InstanceParameters{
		list:  make([]InstanceParameter, 0, len(params)),
		index: make(map[string]InstanceParameter, len(params)),
	}
	for i, p := range params {
		if strings.TrimSpace(p.BlockID) == "" || strings.TrimSpace(p.Value) == "" {
			return nil, fmt.Errorf("%w: parameter #%d must have a block id and a value", ErrInvalidArgument, i)
		}
		if _, exists := set.index[p.BlockID]; exists {
			return nil, fmt.Errorf("%w: duplicate parameter for block %q", ErrAlreadyExists, p.BlockID)
		}
		set.index[p.BlockID] = p
		set.list = append(set.list, p)
	}
	return set, nil
}

// Get returns the parameter of a block. A missing parameter is reported with found=false.
func (s *InstanceParameters) Get(blockID string) (InstanceParameter, bool, error) {
	if strings.TrimSpace(blockID) == "" {
		return InstanceParameter{}, false, fmt.Errorf("%w: block id must not be blank", ErrInvalidArgument)
	}
	if s == nil {
		return InstanceParameter{}, false, nil
	}
	p, ok := s.index[blockID]
	return p, ok, nil
}

// All returns the parameters in registration order.
func (s *InstanceParameters) All() []InstanceParameter {
	if s == nil {
		return nil
	}
	out := make([]InstanceParameter, len(s.list))
	copy(out, s.list)
	return out
}

// Len returns the number of parameters.
func (s *InstanceParameters) Len() int {
	if s == nil {
		return 0
	}
	return len(s.list)
}
