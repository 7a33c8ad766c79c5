package graph_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/flowforge/pkg/domain"
	"github.com/aretw0/flowforge/pkg/graph"
	"github.com/stretchr/testify/require"
)

func newBlock(t *testing.T, id string, opts ...graph.BlockOption) *graph.BlockBase {
	t.Helper()
	b, err := graph.NewBlockBase(id, "test", "default "+id, opts...)
	require.NoError(t, err)
	return b
}

func newLine(t *testing.T, id, from, to string) *graph.Line {
	t.Helper()
	l, err := graph.NewLine(id, from, to)
	require.NoError(t, err)
	return l
}

// upperBlock upper-cases whatever reaches it.
type upperBlock struct {
	*graph.BlockBase
	fail error
}

func newUpper(t *testing.T, id string) *upperBlock {
	t.Helper()
	return &upperBlock{BlockBase: newBlock(t, id)}
}

func (u *upperBlock) Advance(ctx context.Context) error {
	if u.fail != nil {
		return u.fail
	}
	text := u.InputJunction().ResultString()
	if strings.TrimSpace(text) == "" {
		text = u.InputText()
	}
	u.Finish(strings.ToUpper(strings.TrimSpace(text)))
	return nil
}

var errBoom = errors.New("boom")

// recorder collects state events.
type recorder struct {
	events []string
}

func (r *recorder) listener() graph.StateListener {
	return graph.StateListenerFunc(func(e domain.StateChangeEvent) {
		r.events = append(r.events, string(e.State))
	})
}
