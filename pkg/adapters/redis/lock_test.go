package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/flowforge/pkg/adapters/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocker(t *testing.T) {
	mr, client := newClient(t)
	locker := redis.NewLocker(client, "")

	unlock, err := locker.Lock(context.Background(), "B1", time.Minute)
	require.NoError(t, err)
	assert.True(t, mr.Exists(redis.DefaultPrefix+"lock:B1"))

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctx, "B1", time.Minute)
	assert.ErrorIs(t, err, redis.ErrLockAcquire)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, unlock(context.Background()))
	assert.False(t, mr.Exists(redis.DefaultPrefix+"lock:B1"))

	unlock, err = locker.Lock(context.Background(), "B1", time.Minute)
	require.NoError(t, err)
	require.NoError(t, unlock(context.Background()))
}

func TestLocker_ExpiredLockIsNotStolenBack(t *testing.T) {
	mr, client := newClient(t)
	locker := redis.NewLocker(client, "p:")

	unlock, err := locker.Lock(context.Background(), "k", time.Second)
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)
	unlockOther, err := locker.Lock(context.Background(), "k", time.Minute)
	require.NoError(t, err)

	// The first holder's token no longer matches.
	require.NoError(t, unlock(context.Background()))
	assert.True(t, mr.Exists("p:lock:k"))

	require.NoError(t, unlockOther(context.Background()))
	assert.False(t, mr.Exists("p:lock:k"))
}
