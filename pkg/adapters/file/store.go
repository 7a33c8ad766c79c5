package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/aretw0/flowforge/pkg/domain"
)

// Store implements ports.ContextStore on a single JSON file, so a context survives between
// runs of the CLI. Every call reads the file and every write replaces it atomically.
// Safe for concurrent use within one process.
type Store struct {
	Path string
	mu   sync.Mutex
}

// NewStore creates a store backed by path.
// If path is empty, it defaults to ".flowforge/context.json".
func NewStore(path string) *Store {
	if path == "" {
		path = filepath.Join(".flowforge", "context.json")
	}
	return &Store{Path: path}
}

func checkKey(key string) error {
	if !domain.ValidContextKey(key) {
		return fmt.Errorf("%w: invalid context key %q", domain.ErrInvalidArgument, key)
	}
	return nil
}

// read loads the whole context. A missing file is an empty context.
func (s *Store) read() (map[string]domain.Value, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]domain.Value), nil
		}
		return nil, fmt.Errorf("failed to read context file: %w", err)
	}

	values := make(map[string]domain.Value)
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to unmarshal context: %w", err)
	}
	return values, nil
}

// write persists values atomically: temp file in the same directory, fsync, rename.
func (s *Store) write(values map[string]domain.Value) error {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to ensure context directory: %w", err)
	}

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal context: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, "tmp-context-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Windows cannot rename an open file.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.Path); err != nil {
		return fmt.Errorf("failed to replace context file: %w", err)
	}
	return nil
}

// modify runs fn on the current context and writes the result back when fn reports a change.
func (s *Store) modify(fn func(values map[string]domain.Value) (bool, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return err
	}
	changed, err := fn(values)
	if err != nil || !changed {
		return err
	}
	return s.write(values)
}

// Put stores a new key.
func (s *Store) Put(ctx context.Context, key string, value domain.Value) error {
	if err := checkKey(key); err != nil {
		return err
	}
	return s.modify(func(values map[string]domain.Value) (bool, error) {
		if _, exists := values[key]; exists {
			return false, fmt.Errorf("%w: context key %q", domain.ErrAlreadyExists, key)
		}
		values[key] = normalize(value)
		return true, nil
	})
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) (domain.Value, bool, error) {
	if err := checkKey(key); err != nil {
		return domain.Value{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return domain.Value{}, false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

// Update replaces an existing key. A missing key is reported with found=false.
func (s *Store) Update(ctx context.Context, key string, value domain.Value) (bool, error) {
	if err := checkKey(key); err != nil {
		return false, err
	}
	var found bool
	err := s.modify(func(values map[string]domain.Value) (bool, error) {
		if _, found = values[key]; !found {
			return false, nil
		}
		values[key] = normalize(value)
		return true, nil
	})
	return found, err
}

// Remove deletes key. Removing a missing key is a no-op.
func (s *Store) Remove(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	return s.modify(func(values map[string]domain.Value) (bool, error) {
		if _, ok := values[key]; !ok {
			return false, nil
		}
		delete(values, key)
		return true, nil
	})
}

// Clear empties the context.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(make(map[string]domain.Value))
}

// PutAll validates every key, then stores all values, overwriting existing ones.
func (s *Store) PutAll(ctx context.Context, in map[string]domain.Value) error {
	for key := range in {
		if err := checkKey(key); err != nil {
			return err
		}
	}
	return s.modify(func(values map[string]domain.Value) (bool, error) {
		for key, v := range in {
			values[key] = normalize(v)
		}
		return len(in) > 0, nil
	})
}

// Snapshot returns an independent copy of the context.
func (s *Store) Snapshot(ctx context.Context) (map[string]domain.Value, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// normalize gives the zero Value an explicit null kind so it round-trips through JSON.
func normalize(v domain.Value) domain.Value {
	if v.Kind == "" {
		return domain.NullValue()
	}
	return v
}
