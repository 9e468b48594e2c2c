package value

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestOf(t *testing.T) {
	testCases := []struct {
		name     string
		in       any
		expected Value
	}{
		{name: "bool", in: true, expected: Bool(true)},
		{name: "string", in: "foo", expected: String("foo")},
		{name: "int", in: 42, expected: Int(42)},
		{name: "uint8", in: uint8(7), expected: Int(7)},
		{name: "float32", in: float32(0.5), expected: Float(0.5)},
		{name: "bytes", in: []byte{1, 2}, expected: Bytes([]byte{1, 2})},
		{name: "value passthrough", in: String("bar"), expected: String("bar")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := Of(tc.in)
			require.NoError(t, err)
			assert.True(t, tc.expected.Equal(v), "got %s", v)
		})
	}
}

func TestOf_Lists(t *testing.T) {
	v, err := Of([]string{"a", "b"})
	require.NoError(t, err)
	elems, ok := v.AsList()
	require.True(t, ok)
	require.Len(t, elems, 2)
	s, _ := elems[1].AsString()
	assert.Equal(t, "b", s)

	mixed, err := Of([]any{"a", 1, true})
	require.NoError(t, err)
	assert.Equal(t, []any{"a", int64(1), true}, mixed.Interface())
}

func TestOf_Rejects(t *testing.T) {
	testCases := []struct {
		name string
		in   any
	}{
		{name: "nil", in: nil},
		{name: "struct", in: struct{}{}},
		{name: "map", in: map[string]string{}},
		{name: "uint64 overflow", in: uint64(math.MaxUint64)},
		{name: "nested list", in: []any{[]any{"x"}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Of(tc.in)
			assert.ErrorIs(t, err, ErrUnsupported)
		})
	}
}

func TestList_RejectsNull(t *testing.T) {
	_, err := List(String("a"), Value{})
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestZeroValueIsNull(t *testing.T) {
	var v Value
	assert.True(t, v.IsNull())
	assert.Equal(t, Null, v.Kind())
	assert.Nil(t, v.Interface())
	assert.Equal(t, "null", v.String())
	assert.True(t, v.Equal(Value{}))
	assert.False(t, v.Equal(Int(0)))
}

func TestBytesAreCopied(t *testing.T) {
	src := []byte{1, 2, 3}
	v := Bytes(src)
	src[0] = 9

	got, ok := v.AsBytes()
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, got)
}

func TestFromCty(t *testing.T) {
	testCases := []struct {
		name     string
		in       cty.Value
		expected Value
	}{
		{name: "bool", in: cty.True, expected: Bool(true)},
		{name: "string", in: cty.StringVal("cpp"), expected: String("cpp")},
		{name: "whole number", in: cty.NumberIntVal(3), expected: Int(3)},
		{name: "fraction", in: cty.NumberFloatVal(1.5), expected: Float(1.5)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := FromCty(tc.in)
			require.NoError(t, err)
			assert.True(t, tc.expected.Equal(v), "got %s", v)
		})
	}

	list, err := FromCty(cty.TupleVal([]cty.Value{cty.StringVal("a"), cty.NumberIntVal(1)}))
	require.NoError(t, err)
	assert.Equal(t, []any{"a", int64(1)}, list.Interface())

	_, err = FromCty(cty.NullVal(cty.String))
	assert.ErrorIs(t, err, ErrUnsupported)
	_, err = FromCty(cty.UnknownVal(cty.String))
	assert.ErrorIs(t, err, ErrUnsupported)
	_, err = FromCty(cty.ObjectVal(map[string]cty.Value{"a": cty.True}))
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestCty_RoundTripsScalars(t *testing.T) {
	for _, v := range []Value{Bool(false), String("x"), Int(-4), Float(2.25)} {
		back, err := FromCty(v.Cty())
		require.NoError(t, err)
		assert.True(t, v.Equal(back), "%s != %s", v, back)
	}
}
