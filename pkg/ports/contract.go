package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/flowforge/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunContextStoreContract verifies that a ContextStore implementation honours the interface
// contract. The store must be empty when the suite starts.
func RunContextStoreContract(t *testing.T, store ContextStore) {
	ctx := context.Background()

	t.Run("Put and Get", func(t *testing.T) {
		require.NoError(t, store.Clear(ctx))

		require.NoError(t, store.Put(ctx, "greeting", domain.StringValue("hello")))
		require.NoError(t, store.Put(ctx, "count", domain.NumberValue(42)))
		require.NoError(t, store.Put(ctx, "flag", domain.BoolValue(true)))
		doc, err := domain.JSONValue([]byte(`{"a":[1,2]}`))
		require.NoError(t, err)
		require.NoError(t, store.Put(ctx, "doc", doc))
		require.NoError(t, store.Put(ctx, "nothing", domain.NullValue()))

		v, found, err := store.Get(ctx, "greeting")
		require.NoError(t, err)
		assert.True(t, found)
		assert.True(t, domain.StringValue("hello").Equal(v))

		v, found, err = store.Get(ctx, "count")
		require.NoError(t, err)
		assert.True(t, found)
		n, ok := v.AsNumber()
		assert.True(t, ok)
		assert.Equal(t, 42.0, n)

		v, _, err = store.Get(ctx, "flag")
		require.NoError(t, err)
		assert.True(t, domain.BoolValue(true).Equal(v))

		v, _, err = store.Get(ctx, "doc")
		require.NoError(t, err)
		assert.JSONEq(t, `{"a":[1,2]}`, v.String())

		v, found, err = store.Get(ctx, "nothing")
		require.NoError(t, err)
		assert.True(t, found, "an explicit null is still a stored key")
		assert.True(t, v.IsNull())
	})

	t.Run("Put Existing", func(t *testing.T) {
		require.NoError(t, store.Clear(ctx))
		require.NoError(t, store.Put(ctx, "k", domain.StringValue("first")))

		err := store.Put(ctx, "k", domain.StringValue("second"))
		assert.ErrorIs(t, err, domain.ErrAlreadyExists)

		v, _, err := store.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "first", v.String())
	})

	t.Run("Get Missing", func(t *testing.T) {
		require.NoError(t, store.Clear(ctx))
		_, found, err := store.Get(ctx, "absent")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("Invalid Keys", func(t *testing.T) {
		for _, key := range []string{"", "1abc", "has space", "dash-key"} {
			assert.ErrorIs(t, store.Put(ctx, key, domain.StringValue("v")), domain.ErrInvalidArgument, "put %q", key)
			_, _, err := store.Get(ctx, key)
			assert.ErrorIs(t, err, domain.ErrInvalidArgument, "get %q", key)
			_, err = store.Update(ctx, key, domain.StringValue("v"))
			assert.ErrorIs(t, err, domain.ErrInvalidArgument, "update %q", key)
			assert.ErrorIs(t, store.Remove(ctx, key), domain.ErrInvalidArgument, "remove %q", key)
		}
	})

	t.Run("Update", func(t *testing.T) {
		require.NoError(t, store.Clear(ctx))
		require.NoError(t, store.Put(ctx, "k", domain.StringValue("old")))

		found, err := store.Update(ctx, "k", domain.StringValue("new"))
		require.NoError(t, err)
		assert.True(t, found)
		v, _, _ := store.Get(ctx, "k")
		assert.Equal(t, "new", v.String())

		found, err = store.Update(ctx, "missing", domain.StringValue("x"))
		require.NoError(t, err)
		assert.False(t, found)
		_, found, _ = store.Get(ctx, "missing")
		assert.False(t, found, "update must not create keys")
	})

	t.Run("Remove", func(t *testing.T) {
		require.NoError(t, store.Clear(ctx))
		require.NoError(t, store.Put(ctx, "k", domain.StringValue("v")))

		require.NoError(t, store.Remove(ctx, "k"))
		_, found, _ := store.Get(ctx, "k")
		assert.False(t, found)

		require.NoError(t, store.Remove(ctx, "k"), "removing a missing key is a no-op")
	})

	t.Run("PutAll and Snapshot", func(t *testing.T) {
		require.NoError(t, store.Clear(ctx))
		require.NoError(t, store.Put(ctx, "a", domain.StringValue("old")))

		err := store.PutAll(ctx, map[string]domain.Value{
			"a": domain.StringValue("new"),
			"b": domain.NumberValue(2),
		})
		require.NoError(t, err)

		snap, err := store.Snapshot(ctx)
		require.NoError(t, err)
		assert.Len(t, snap, 2)
		assert.Equal(t, "new", snap["a"].String())
		assert.Equal(t, "2", snap["b"].String())

		snap["c"] = domain.StringValue("local")
		_, found, _ := store.Get(ctx, "c")
		assert.False(t, found, "snapshot must be independent")
	})

	t.Run("PutAll Validates First", func(t *testing.T) {
		require.NoError(t, store.Clear(ctx))

		err := store.PutAll(ctx, map[string]domain.Value{
			"good": domain.StringValue("v"),
			"9bad": domain.StringValue("v"),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)

		snap, err := store.Snapshot(ctx)
		require.NoError(t, err)
		assert.Empty(t, snap)
	})

	t.Run("Clear", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "x", domain.StringValue("v")))
		require.NoError(t, store.Clear(ctx))

		snap, err := store.Snapshot(ctx)
		require.NoError(t, err)
		assert.Empty(t, snap)
	})
}

// RunServiceBusContract verifies that a ServiceBus implementation honours the interface
// contract. The bus must be empty when the suite starts.
func RunServiceBusContract(t *testing.T, bus ServiceBus) {
	ctx := context.Background()

	t.Run("Round Trip", func(t *testing.T) {
		id, err := bus.SendRequest(ctx, domain.ServiceRequest{Service: "upper", Payload: []byte("hi")})
		require.NoError(t, err)
		require.NotEmpty(t, id)

		_, found, err := bus.Response(ctx, id)
		require.NoError(t, err)
		assert.False(t, found, "no response before the handler answers")

		req, found, err := bus.NextRequest(ctx)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, id, req.ID)
		assert.Equal(t, "upper", req.Service)
		assert.Equal(t, []byte("hi"), req.Payload)
		assert.False(t, req.Timestamp.IsZero())

		require.NoError(t, bus.SendResponse(ctx, domain.ServiceResponse{
			RequestID: id,
			Completed: true,
			Payload:   []byte("HI"),
		}))

		resp, found, err := bus.Response(ctx, id)
		require.NoError(t, err)
		require.True(t, found)
		assert.True(t, resp.Completed)
		assert.Equal(t, []byte("HI"), resp.Payload)

		_, found, err = bus.Response(ctx, id)
		require.NoError(t, err)
		assert.False(t, found, "responses are consumed on read")
	})

	t.Run("FIFO", func(t *testing.T) {
		var ids []string
		for _, svc := range []string{"a", "b", "c"} {
			id, err := bus.SendRequest(ctx, domain.ServiceRequest{Service: svc})
			require.NoError(t, err)
			ids = append(ids, id)
		}

		for _, want := range ids {
			req, found, err := bus.NextRequest(ctx)
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, want, req.ID)
		}

		_, found, err := bus.NextRequest(ctx)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("Caller Supplied Id", func(t *testing.T) {
		ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		id, err := bus.SendRequest(ctx, domain.ServiceRequest{ID: "req-1", Service: "s", Timestamp: ts})
		require.NoError(t, err)
		assert.Equal(t, "req-1", id)

		req, found, err := bus.NextRequest(ctx)
		require.NoError(t, err)
		require.True(t, found)
		assert.True(t, ts.Equal(req.Timestamp))
	})

	t.Run("Error Response", func(t *testing.T) {
		require.NoError(t, bus.SendResponse(ctx, domain.ServiceResponse{RequestID: "r", HasError: true, Error: "nope"}))
		resp, found, err := bus.Response(ctx, "r")
		require.NoError(t, err)
		require.True(t, found)
		assert.True(t, resp.HasError)
		assert.Equal(t, "nope", resp.Error)
	})

	t.Run("Invalid Arguments", func(t *testing.T) {
		_, err := bus.SendRequest(ctx, domain.ServiceRequest{Service: " "})
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)

		err = bus.SendResponse(ctx, domain.ServiceResponse{RequestID: ""})
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})
}
