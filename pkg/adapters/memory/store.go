package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/flowforge/pkg/domain"
)

// Store implements ports.ContextStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]domain.Value
	mu   sync.RWMutex
}

// NewStore creates a new in-memory context store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]domain.Value),
	}
}

func checkKey(key string) error {
	if !domain.ValidContextKey(key) {
		return fmt.Errorf("%w: invalid context key %q", domain.ErrInvalidArgument, key)
	}
	return nil
}

// cloneValue detaches the JSON payload so callers can't mutate stored values through it.
func cloneValue(v domain.Value) domain.Value {
	if v.Raw != nil {
		raw := make([]byte, len(v.Raw))
		copy(raw, v.Raw)
		v.Raw = raw
	}
	return v
}

// Put stores a new key.
func (s *Store) Put(ctx context.Context, key string, value domain.Value) error {
	if err := checkKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[key]; exists {
		return fmt.Errorf("%w: context key %q", domain.ErrAlreadyExists, key)
	}
	s.data[key] = cloneValue(value)
	return nil
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) (domain.Value, bool, error) {
	if err := checkKey(key); err != nil {
		return domain.Value{}, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return domain.Value{}, false, nil
	}
	return cloneValue(v), true, nil
}

// Update overwrites an existing key.
func (s *Store) Update(ctx context.Context, key string, value domain.Value) (bool, error) {
	if err := checkKey(key); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[key]; !exists {
		return false, nil
	}
	s.data[key] = cloneValue(value)
	return true, nil
}

// Remove deletes key.
func (s *Store) Remove(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Clear removes every key.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string]domain.Value)
	return nil
}

// PutAll stores every entry after validating all keys.
func (s *Store) PutAll(ctx context.Context, values map[string]domain.Value) error {
	for key := range values {
		if err := checkKey(key); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for key, v := range values {
		s.data[key] = cloneValue(v)
	}
	return nil
}

// Snapshot returns a copy of the store.
func (s *Store) Snapshot(ctx context.Context) (map[string]domain.Value, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]domain.Value, len(s.data))
	for k, v := range s.data {
		out[k] = cloneValue(v)
	}
	return out, nil
}
