package domain_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/aretw0/flowforge/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidContextKey(t *testing.T) {
	valid := []string{"a", "Key", "key_1", "k#2", "A" + strings.Repeat("b", 254)}
	for _, k := range valid {
		assert.True(t, domain.ValidContextKey(k), "key %q", k)
	}

	invalid := []string{"", "1key", "_key", "#k", "with space", "dash-key", "A" + strings.Repeat("b", 255)}
	for _, k := range invalid {
		assert.False(t, domain.ValidContextKey(k), "key %q", k)
	}
}

func TestValueOf(t *testing.T) {
	tests := []struct {
		name string
		in   any
		kind domain.ValueKind
		text string
	}{
		{"nil", nil, domain.KindNull, ""},
		{"string", "hi", domain.KindString, "hi"},
		{"bool", true, domain.KindBool, "true"},
		{"int", 42, domain.KindNumber, "42"},
		{"float", 1.5, domain.KindNumber, "1.5"},
		{"raw", json.RawMessage(`{"a":1}`), domain.KindJSON, `{"a":1}`},
		{"map", map[string]int{"b": 2}, domain.KindJSON, `{"b":2}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := domain.ValueOf(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, v.Kind)
			assert.Equal(t, tt.text, v.String())
		})
	}

	_, err := domain.ValueOf(make(chan int))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestValue_Accessors(t *testing.T) {
	s, ok := domain.StringValue("x").AsString()
	assert.True(t, ok)
	assert.Equal(t, "x", s)

	_, ok = domain.NumberValue(1).AsString()
	assert.False(t, ok)

	n, ok := domain.NumberValue(3).AsNumber()
	assert.True(t, ok)
	assert.Equal(t, 3.0, n)

	b, ok := domain.BoolValue(true).AsBool()
	assert.True(t, ok)
	assert.True(t, b)

	assert.True(t, domain.Value{}.IsNull())
	assert.True(t, domain.NullValue().IsNull())
}

func TestValue_Equal(t *testing.T) {
	assert.True(t, domain.Value{}.Equal(domain.NullValue()))
	assert.True(t, domain.StringValue("a").Equal(domain.StringValue("a")))
	assert.False(t, domain.StringValue("1").Equal(domain.NumberValue(1)))
	assert.False(t, domain.NullValue().Equal(domain.StringValue("")))
	a, err := domain.JSONValue([]byte(`[1]`))
	require.NoError(t, err)
	b, err := domain.JSONValue([]byte(`[1]`))
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
}

func TestJSONValue_Copies(t *testing.T) {
	raw := json.RawMessage(`"abc"`)
	v, err := domain.JSONValue(raw)
	require.NoError(t, err)
	raw[1] = 'z'
	assert.Equal(t, `"abc"`, v.String())
}

func TestJSONValue_RejectsInvalid(t *testing.T) {
	for _, raw := range []string{``, `{"a":`, `not json`, `[1,]`} {
		_, err := domain.JSONValue(json.RawMessage(raw))
		assert.ErrorIs(t, err, domain.ErrInvalidArgument, "input %q", raw)
	}

	_, err := domain.ValueOf(json.RawMessage(`{broken`))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}
