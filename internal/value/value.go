// Package value defines the closed set of values that can be stored as entity
// properties in the model graph.
//
// A Value is a small tagged union. The zero Value is Null and stands for
// "absent"; it can be returned by lookups but never stored.
package value

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrUnsupported is returned when a Go value has no Value representation.
var ErrUnsupported = errors.New("unsupported property value")

// Kind identifies the variant held by a Value.
type Kind int

const (
	// Null is the kind of the zero Value.
	Null Kind = iota
	KindBool
	KindString
	KindInt
	KindFloat
	KindBytes
	// KindList holds a list of non-null scalar values.
	KindList
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBytes:
		return "bytes"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// Value is an immutable property value.
type Value struct {
	kind Kind
	b    bool
	s    string
	i    int64
	f    float64
	raw  []byte
	list []Value
}

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// String returns a string Value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Int returns an integer Value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a floating point Value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Bytes returns a byte array Value. The slice is copied.
func Bytes(p []byte) Value {
	return Value{kind: KindBytes, raw: bytes.Clone(p)}
}

// List returns a list Value. Elements must be non-null scalars.
func List(elems ...Value) (Value, error) {
	list := make([]Value, len(elems))
	for i, e := range elems {
		switch e.kind {
		case Null:
			return Value{}, fmt.Errorf("%w: list element %d is null", ErrUnsupported, i)
		case KindList:
			return Value{}, fmt.Errorf("%w: list element %d is a nested list", ErrUnsupported, i)
		}
		list[i] = e
	}
	return Value{kind: KindList, list: list}, nil
}

// Of converts a native Go value into a Value.
func Of(v any) (Value, error) {
	switch x := v.(type) {
	case Value:
		return x, nil
	case nil:
		return Value{}, fmt.Errorf("%w: nil", ErrUnsupported)
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case int:
		return Int(int64(x)), nil
	case int8:
		return Int(int64(x)), nil
	case int16:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint:
		return fromUint(uint64(x))
	case uint8:
		return Int(int64(x)), nil
	case uint16:
		return Int(int64(x)), nil
	case uint32:
		return Int(int64(x)), nil
	case uint64:
		return fromUint(x)
	case float32:
		return Float(float64(x)), nil
	case float64:
		return Float(x), nil
	case []byte:
		return Bytes(x), nil
	case []string:
		return listOf(x, String)
	case []bool:
		return listOf(x, Bool)
	case []int:
		return listOf(x, func(i int) Value { return Int(int64(i)) })
	case []int64:
		return listOf(x, Int)
	case []float64:
		return listOf(x, Float)
	case []any:
		elems := make([]Value, len(x))
		for i, e := range x {
			ev, err := Of(e)
			if err != nil {
				return Value{}, fmt.Errorf("list element %d: %w", i, err)
			}
			elems[i] = ev
		}
		return List(elems...)
	default:
		return Value{}, fmt.Errorf("%w: %T", ErrUnsupported, v)
	}
}

func fromUint(u uint64) (Value, error) {
	if u > math.MaxInt64 {
		return Value{}, fmt.Errorf("%w: %d overflows int64", ErrUnsupported, u)
	}
	return Int(int64(u)), nil
}

func listOf[T any](in []T, conv func(T) Value) (Value, error) {
	elems := make([]Value, len(in))
	for i, e := range in {
		elems[i] = conv(e)
	}
	return List(elems...)
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the zero Value.
func (v Value) IsNull() bool { return v.kind == Null }

func (v Value) AsBool() (bool, bool)     { return v.b, v.kind == KindBool }
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }
func (v Value) AsInt() (int64, bool)     { return v.i, v.kind == KindInt }
func (v Value) AsFloat() (float64, bool) { return v.f, v.kind == KindFloat }

// AsBytes returns a copy of the byte array held by v.
func (v Value) AsBytes() ([]byte, bool) {
	if v.kind != KindBytes {
		return nil, false
	}
	return bytes.Clone(v.raw), true
}

// AsList returns a copy of the elements held by v.
func (v Value) AsList() ([]Value, bool) {
	if v.kind != KindList {
		return nil, false
	}
	out := make([]Value, len(v.list))
	copy(out, v.list)
	return out, true
}

// Interface returns the native Go representation of v, or nil for Null.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindString:
		return v.s
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindBytes:
		return bytes.Clone(v.raw)
	case KindList:
		out := make([]any, len(v.list))
		for i, e := range v.list {
			out[i] = e.Interface()
		}
		return out
	default:
		return nil
	}
}

// Equal reports whether v and other hold the same variant and contents.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case Null:
		return true
	case KindBool:
		return v.b == other.b
	case KindString:
		return v.s == other.s
	case KindInt:
		return v.i == other.i
	case KindFloat:
		return v.f == other.f
	case KindBytes:
		return bytes.Equal(v.raw, other.raw)
	case KindList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindString:
		return strconv.Quote(v.s)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBytes:
		return fmt.Sprintf("bytes(%d)", len(v.raw))
	case KindList:
		parts := make([]string, len(v.list))
		for i, e := range v.list {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return "null"
	}
}
