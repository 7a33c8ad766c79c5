package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/flowforge/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key written by the adapters of this package.
const DefaultPrefix = "flowforge:"

// updateScript overwrites a hash field only when it already exists.
var updateScript = backend.NewScript(`
if redis.call("HEXISTS", KEYS[1], ARGV[1]) == 1 then
	redis.call("HSET", KEYS[1], ARGV[1], ARGV[2])
	return 1
end
return 0
`)

// Store implements ports.ContextStore on a single Redis HASH: one field per context key,
// values JSON encoded.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL expires the whole context after ttl without writes.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix. An empty prefix keeps DefaultPrefix, as NewLocker does.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		if prefix == "" {
			prefix = DefaultPrefix
		}
		s.prefix = prefix
	}
}

// New creates a new Redis context store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis context store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) key() string {
	return s.prefix + "context"
}

func checkKey(key string) error {
	if !domain.ValidContextKey(key) {
		return fmt.Errorf("%w: invalid context key %q", domain.ErrInvalidArgument, key)
	}
	return nil
}

func encodeValue(v domain.Value) (string, error) {
	if v.Kind == "" {
		v = domain.NullValue()
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal value: %w", err)
	}
	return string(data), nil
}

func decodeValue(raw string) (domain.Value, error) {
	var v domain.Value
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return domain.Value{}, fmt.Errorf("failed to unmarshal value: %w", err)
	}
	return v, nil
}

func (s *Store) touch(ctx context.Context) error {
	if s.ttl <= 0 {
		return nil
	}
	return s.client.Expire(ctx, s.key(), s.ttl).Err()
}

// Put stores a new key with HSETNX.
func (s *Store) Put(ctx context.Context, key string, value domain.Value) error {
	if err := checkKey(key); err != nil {
		return err
	}
	data, err := encodeValue(value)
	if err != nil {
		return err
	}

	created, err := s.client.HSetNX(ctx, s.key(), key, data).Result()
	if err != nil {
		return fmt.Errorf("failed to put context key: %w", err)
	}
	if !created {
		return fmt.Errorf("%w: context key %q", domain.ErrAlreadyExists, key)
	}
	return s.touch(ctx)
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) (domain.Value, bool, error) {
	if err := checkKey(key); err != nil {
		return domain.Value{}, false, err
	}

	raw, err := s.client.HGet(ctx, s.key(), key).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return domain.Value{}, false, nil
		}
		return domain.Value{}, false, fmt.Errorf("failed to get context key: %w", err)
	}

	v, err := decodeValue(raw)
	if err != nil {
		return domain.Value{}, false, err
	}
	return v, true, nil
}

// Update overwrites an existing key atomically.
func (s *Store) Update(ctx context.Context, key string, value domain.Value) (bool, error) {
	if err := checkKey(key); err != nil {
		return false, err
	}
	data, err := encodeValue(value)
	if err != nil {
		return false, err
	}

	updated, err := updateScript.Run(ctx, s.client, []string{s.key()}, key, data).Int()
	if err != nil {
		return false, fmt.Errorf("failed to update context key: %w", err)
	}
	if updated == 0 {
		return false, nil
	}
	return true, s.touch(ctx)
}

// Remove deletes key.
func (s *Store) Remove(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := s.client.HDel(ctx, s.key(), key).Err(); err != nil {
		return fmt.Errorf("failed to remove context key: %w", err)
	}
	return nil
}

// Clear removes every key.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key()).Err(); err != nil {
		return fmt.Errorf("failed to clear context: %w", err)
	}
	return nil
}

// PutAll stores every entry in one HSET after validating all keys.
func (s *Store) PutAll(ctx context.Context, values map[string]domain.Value) error {
	fields := make(map[string]any, len(values))
	for key, v := range values {
		if err := checkKey(key); err != nil {
			return err
		}
		data, err := encodeValue(v)
		if err != nil {
			return err
		}
		fields[key] = data
	}
	if len(fields) == 0 {
		return nil
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, s.key(), fields)
	if s.ttl > 0 {
		pipe.Expire(ctx, s.key(), s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to put context keys: %w", err)
	}
	return nil
}

// Snapshot returns a copy of the whole context.
func (s *Store) Snapshot(ctx context.Context) (map[string]domain.Value, error) {
	all, err := s.client.HGetAll(ctx, s.key()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read context: %w", err)
	}

	out := make(map[string]domain.Value, len(all))
	for k, raw := range all {
		v, err := decodeValue(raw)
		if err != nil {
			return nil, fmt.Errorf("context key %q: %w", k, err)
		}
		out[k] = v
	}
	return out, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
