package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a distributed lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker serializes block invocations when several processes drive the same graph
// definition against shared collaborators.
type DistributedLocker interface {
	// Lock blocks until the lock on key is acquired or ctx ends. The returned UnlockFunc
	// MUST be called to release it.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
