package redis_test

import (
	"context"
	"testing"

	"github.com/aretw0/flowforge/pkg/adapters/redis"
	"github.com/aretw0/flowforge/pkg/domain"
	"github.com/aretw0/flowforge/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisBus_Contract(t *testing.T) {
	_, client := newClient(t)
	ports.RunServiceBusContract(t, redis.NewBus(client))
}

func TestRedisBus_CrossInstance(t *testing.T) {
	_, client := newClient(t)
	ctx := context.Background()

	requester := redis.NewBus(client, redis.WithPrefix("app:"))
	worker := redis.NewBus(client, redis.WithPrefix("app:"))
	other := redis.NewBus(client, redis.WithPrefix("other:"))

	id, err := requester.SendRequest(ctx, domain.ServiceRequest{Service: "upper", Payload: []byte("x")})
	require.NoError(t, err)

	_, found, err := other.NextRequest(ctx)
	require.NoError(t, err)
	assert.False(t, found, "prefixes isolate buses")

	req, found, err := worker.NextRequest(ctx)
	require.NoError(t, err)
	require.True(t, found)
	require.NoError(t, worker.SendResponse(ctx, domain.ServiceResponse{RequestID: req.ID, Completed: true, Payload: []byte("X")}))

	resp, found, err := requester.Response(ctx, id)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("X"), resp.Payload)
}
