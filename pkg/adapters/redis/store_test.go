package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/flowforge/pkg/adapters/redis"
	"github.com/aretw0/flowforge/pkg/domain"
	"github.com/aretw0/flowforge/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)
	ports.RunContextStoreContract(t, redis.NewFromClient(client))
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newClient(t)
	ctx := context.Background()

	store := redis.NewFromClient(client, redis.WithPrefix("test:"))
	require.NoError(t, store.Put(ctx, "k", domain.StringValue("v")))

	assert.True(t, mr.Exists("test:context"))
	assert.False(t, mr.Exists(redis.DefaultPrefix+"context"))
}

// Store, bus and locker must land in one namespace whatever prefix they are given.
func TestRedis_EmptyPrefixSharesNamespace(t *testing.T) {
	mr, client := newClient(t)
	ctx := context.Background()

	store := redis.NewFromClient(client, redis.WithPrefix(""))
	require.NoError(t, store.Put(ctx, "k", domain.StringValue("v")))

	bus := redis.NewBus(client, redis.WithPrefix(""))
	_, err := bus.SendRequest(ctx, domain.ServiceRequest{Service: "svc"})
	require.NoError(t, err)

	unlock, err := redis.NewLocker(client, "").Lock(ctx, "B1", time.Second)
	require.NoError(t, err)
	defer func() { _ = unlock(ctx) }()

	assert.True(t, mr.Exists(redis.DefaultPrefix+"context"))
	assert.True(t, mr.Exists(redis.DefaultPrefix+"bus:requests"))
	assert.True(t, mr.Exists(redis.DefaultPrefix+"lock:B1"))
	assert.False(t, mr.Exists("context"))
	assert.False(t, mr.Exists("bus:requests"))
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)
	ctx := context.Background()

	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	require.NoError(t, store.Put(ctx, "k", domain.StringValue("v")))

	_, found, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)

	// Fast Forward time in miniredis (for Key Expiration)
	mr.FastForward(2 * time.Second)

	_, found, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisStore_SharedBetweenInstances(t *testing.T) {
	_, client := newClient(t)
	ctx := context.Background()

	a := redis.NewFromClient(client)
	b := redis.NewFromClient(client)

	require.NoError(t, a.Put(ctx, "shared", domain.NumberValue(7)))
	err := b.Put(ctx, "shared", domain.NumberValue(8))
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	v, found, err := b.Get(ctx, "shared")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "7", v.String())
}

func TestRedisStore_BackendDown(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client)
	mr.Close()

	_, _, err := store.Get(context.Background(), "k")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrInvalidArgument)
}
