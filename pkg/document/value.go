// SPDX-License-Identifier: MPL-2.0

package document

import "fmt"

type (
	// Member is one key of an Object.
	Member struct {
		Key   string
		Value any
	}

	// Object is a decoded mapping that remembers the order keys appeared in.
	//
	// Decoders produce trees of Object, []any, string, float64, bool and nil.
	Object []Member
)

// Get returns the value stored under key.
func (o Object) Get(key string) (any, bool) {
	for _, m := range o {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// set replaces an existing key in place or appends it, so a duplicated JSON
// key keeps its first position and its last value.
func (o Object) set(key string, value any) Object {
	for i := range o {
		if o[i].Key == key {
			o[i].Value = value
			return o
		}
	}
	return append(o, Member{Key: key, Value: value})
}

// Plain converts a decoded tree into maps and slices, dropping key order.
func Plain(v any) any {
	switch val := v.(type) {
	case Object:
		out := make(map[string]any, len(val))
		for _, m := range val {
			out[m.Key] = Plain(m.Value)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Plain(item)
		}
		return out
	default:
		return v
	}
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case Object:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}
