package domain

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
)

// Context key constraints.
const (
	MinContextKeyLength = 1
	MaxContextKeyLength = 255
)

var contextKeyPattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_#]*$`)

// ValidContextKey reports whether key may be used in a context store: it starts with a
// letter, continues with letters, digits, '_' or '#', and is 1..255 characters long.
func ValidContextKey(key string) bool {
	return len(key) >= MinContextKeyLength &&
		len(key) <= MaxContextKeyLength &&
		contextKeyPattern.MatchString(key)
}

// ValueKind tags the variant held by a Value.
type ValueKind string

const (
	KindNull   ValueKind = "null"
	KindString ValueKind = "string"
	KindNumber ValueKind = "number"
	KindBool   ValueKind = "bool"
	KindJSON   ValueKind = "json"
)

// Value is the tagged variant stored in a context store.
// The zero Value is a null.
type Value struct {
	Kind   ValueKind       `json:"kind"`
	Text   string          `json:"text,omitempty"`
	Number float64         `json:"number,omitempty"`
	Flag   bool            `json:"flag,omitempty"`
	Raw    json.RawMessage `json:"raw,omitempty"`
}

// NullValue returns an explicit null.
func NullValue() Value { return Value{Kind: KindNull} }

// StringValue wraps a string.
func StringValue(s string) Value { return Value{Kind: KindString, Text: s} }

// NumberValue wraps a number.
func NumberValue(n float64) Value { return Value{Kind: KindNumber, Number: n} }

// BoolValue wraps a boolean.
func BoolValue(b bool) Value { return Value{Kind: KindBool, Flag: b} }

// JSONValue wraps an already encoded JSON document. Bytes that are not valid JSON fail with
// ErrInvalidArgument.
func JSONValue(raw json.RawMessage) (Value, error) {
	if !json.Valid(raw) {
		return Value{}, fmt.Errorf("%w: not a valid JSON document", ErrInvalidArgument)
	}
	cp := make(json.RawMessage, len(raw))
	copy(cp, raw)
	return Value{Kind: KindJSON, Raw: cp}, nil
}

// IsNull reports whether v holds no value.
func (v Value) IsNull() bool {
	return v.Kind == "" || v.Kind == KindNull
}

// AsString returns the string payload when v is a string.
func (v Value) AsString() (string, bool) {
	return v.Text, v.Kind == KindString
}

// AsNumber returns the numeric payload when v is a number.
func (v Value) AsNumber() (float64, bool) {
	return v.Number, v.Kind == KindNumber
}

// AsBool returns the boolean payload when v is a bool.
func (v Value) AsBool() (bool, bool) {
	return v.Flag, v.Kind == KindBool
}

// Equal compares two values by kind and payload.
func (v Value) Equal(other Value) bool {
	if v.IsNull() || other.IsNull() {
		return v.IsNull() && other.IsNull()
	}
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindString:
		return v.Text == other.Text
	case KindNumber:
		return v.Number == other.Number
	case KindBool:
		return v.Flag == other.Flag
	default:
		return string(v.Raw) == string(other.Raw)
	}
}

// String renders the payload as plain text.
func (v Value) String() string {
	switch v.Kind {
	case KindString:
		return v.Text
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Flag)
	case KindJSON:
		return string(v.Raw)
	default:
		return ""
	}
}

// ValueOf converts a plain Go value into a Value.
// Supported inputs are nil, string, bool, the numeric kinds, json.RawMessage and Value itself;
// anything else is encoded as JSON.
func ValueOf(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return NullValue(), nil
	case Value:
		return t, nil
	case string:
		return StringValue(t), nil
	case bool:
		return BoolValue(t), nil
	case int:
		return NumberValue(float64(t)), nil
	case int32:
		return NumberValue(float64(t)), nil
	case int64:
		return NumberValue(float64(t)), nil
	case float32:
		return NumberValue(float64(t)), nil
	case float64:
		return NumberValue(t), nil
	case json.RawMessage:
		return JSONValue(t)
	default:
		raw, err := json.Marshal(t)
		if err != nil {
			return Value{}, fmt.Errorf("%w: cannot encode %T: %v", ErrInvalidArgument, x, err)
		}
		return JSONValue(raw)
	}
}
