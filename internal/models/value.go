// Playback QoE - Player-to-Analytics Session Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playbackqoe

package models

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/goccy/go-json"
)

// ValueKind identifies the variant held by a Value.
type ValueKind uint8

// Value kinds.
const (
	KindInvalid ValueKind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindMap
)

// String returns the kind name.
func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindMap:
		return "map"
	default:
		return "invalid"
	}
}

// Value is an immutable variant: string, int64, float64, bool or a nested
// Attributes map. The zero Value is invalid and is dropped on serialization.
type Value struct {
	kind ValueKind
	s    string
	i    int64
	f    float64
	b    bool
	m    Attributes
}

// StringValue wraps a string.
func StringValue(s string) Value { return Value{kind: KindString, s: s} }

// IntValue wraps an integer.
func IntValue(i int64) Value { return Value{kind: KindInt, i: i} }

// FloatValue wraps a float.
func FloatValue(f float64) Value { return Value{kind: KindFloat, f: f} }

// BoolValue wraps a bool.
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// MapValue wraps a nested map. The map is copied.
func MapValue(m Attributes) Value { return Value{kind: KindMap, m: m.Clone()} }

// Kind returns the variant held by v.
func (v Value) Kind() ValueKind { return v.kind }

// IsValid reports whether v holds a value.
func (v Value) IsValid() bool { return v.kind != KindInvalid }

// Str returns the string variant and whether v holds one.
func (v Value) Str() (string, bool) { return v.s, v.kind == KindString }

// Int returns the integer variant and whether v holds one.
func (v Value) Int() (int64, bool) { return v.i, v.kind == KindInt }

// Float returns the float variant and whether v holds one.
func (v Value) Float() (float64, bool) { return v.f, v.kind == KindFloat }

// Bool returns the bool variant and whether v holds one.
func (v Value) Bool() (bool, bool) { return v.b, v.kind == KindBool }

// Map returns a copy of the map variant and whether v holds one.
func (v Value) Map() (Attributes, bool) { return v.m.Clone(), v.kind == KindMap }

// Native converts v into the plain Go shape the analytics sink accepts:
// string, int64, float64, bool or map[string]any. Invalid values yield nil.
func (v Value) Native() any {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindBool:
		return v.b
	case KindMap:
		return v.m.Native()
	default:
		return nil
	}
}

// String formats v for logs.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindMap:
		return fmt.Sprint(v.m.Native())
	default:
		return "<invalid>"
	}
}

// Equal reports deep equality.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.s == o.s
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f
	case KindBool:
		return v.b == o.b
	case KindMap:
		return v.m.Equal(o.m)
	default:
		return true
	}
}

// MarshalJSON encodes the native form.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Native())
}

// UnmarshalJSON decodes any JSON scalar or object.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode value: %w", err)
	}
	decoded, err := FromNative(raw)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}

// maxExactFloatInt is the largest integer a float64 represents exactly.
const maxExactFloatInt = 1 << 53

// FromNative converts a plain Go value into a Value. Integral floats (as
// produced by JSON decoding) become integers.
func FromNative(x any) (Value, error) {
	switch t := x.(type) {
	case Value:
		return t, nil
	case string:
		return StringValue(t), nil
	case bool:
		return BoolValue(t), nil
	case int:
		return IntValue(int64(t)), nil
	case int32:
		return IntValue(int64(t)), nil
	case int64:
		return IntValue(t), nil
	case float32:
		return fromFloat(float64(t)), nil
	case float64:
		return fromFloat(t), nil
	case map[string]any:
		m := make(Attributes, len(t))
		for k, raw := range t {
			val, err := FromNative(raw)
			if err != nil {
				return Value{}, fmt.Errorf("key %q: %w", k, err)
			}
			m[k] = val
		}
		return Value{kind: KindMap, m: m}, nil
	case map[string]string:
		m := make(Attributes, len(t))
		for k, s := range t {
			m[k] = StringValue(s)
		}
		return Value{kind: KindMap, m: m}, nil
	default:
		return Value{}, fmt.Errorf("unsupported value type %T", x)
	}
}

func fromFloat(f float64) Value {
	if f == math.Trunc(f) && math.Abs(f) < maxExactFloatInt {
		return IntValue(int64(f))
	}
	return FloatValue(f)
}

// Attributes is a string-keyed map of Values. Key order is irrelevant.
type Attributes map[string]Value

// Clone returns a shallow copy; nested maps are immutable through Value.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Native converts the map for the analytics sink, dropping invalid values.
func (a Attributes) Native() map[string]any {
	out := make(map[string]any, len(a))
	for k, v := range a {
		if v.IsValid() {
			out[k] = v.Native()
		}
	}
	return out
}

// Equal reports whether both maps hold equal values for the same keys.
func (a Attributes) Equal(o Attributes) bool {
	if len(a) != len(o) {
		return false
	}
	for k, v := range a {
		ov, ok := o[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Keys returns the keys in sorted order.
func (a Attributes) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MergeAttributes returns the union of base and overrides; overrides win on
// key collision. Returns nil when both are empty.
func MergeAttributes(base, overrides Attributes) Attributes {
	if len(base) == 0 && len(overrides) == 0 {
		return nil
	}
	out := make(Attributes, len(base)+len(overrides))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// AttributesFromStrings converts a plain string map.
func AttributesFromStrings(m map[string]string) Attributes {
	if m == nil {
		return nil
	}
	out := make(Attributes, len(m))
	for k, v := range m {
		out[k] = StringValue(v)
	}
	return out
}
