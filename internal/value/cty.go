package value

import (
	"encoding/base64"
	"fmt"
	"math/big"

	"github.com/zclconf/go-cty/cty"
)

// FromCty converts a known, non-null cty value into a Value. Whole numbers
// that fit in an int64 become Int, other numbers become Float. Lists, sets and
// tuples of primitives become List.
func FromCty(v cty.Value) (Value, error) {
	if v.IsNull() {
		return Value{}, fmt.Errorf("%w: null cty value", ErrUnsupported)
	}
	if !v.IsKnown() {
		return Value{}, fmt.Errorf("%w: unknown cty value", ErrUnsupported)
	}

	ty := v.Type()
	switch {
	case ty == cty.Bool:
		return Bool(v.True()), nil
	case ty == cty.String:
		return String(v.AsString()), nil
	case ty == cty.Number:
		return fromBigFloat(v.AsBigFloat()), nil
	case ty.IsListType(), ty.IsSetType(), ty.IsTupleType():
		var elems []Value
		for i, ev := range v.AsValueSlice() {
			if ev.Type().IsListType() || ev.Type().IsSetType() || ev.Type().IsTupleType() {
				return Value{}, fmt.Errorf("%w: element %d is a nested collection", ErrUnsupported, i)
			}
			conv, err := FromCty(ev)
			if err != nil {
				return Value{}, fmt.Errorf("element %d: %w", i, err)
			}
			elems = append(elems, conv)
		}
		return List(elems...)
	default:
		return Value{}, fmt.Errorf("%w: cty type %s", ErrUnsupported, ty.FriendlyName())
	}
}

func fromBigFloat(bf *big.Float) Value {
	if bf.IsInt() {
		if i, acc := bf.Int64(); acc == big.Exact {
			return Int(i)
		}
	}
	f, _ := bf.Float64()
	return Float(f)
}

// Cty returns the cty representation of v. Byte arrays are encoded as base64
// strings since cty has no binary type.
func (v Value) Cty() cty.Value {
	switch v.kind {
	case KindBool:
		return cty.BoolVal(v.b)
	case KindString:
		return cty.StringVal(v.s)
	case KindInt:
		return cty.NumberIntVal(v.i)
	case KindFloat:
		return cty.NumberFloatVal(v.f)
	case KindBytes:
		return cty.StringVal(base64.StdEncoding.EncodeToString(v.raw))
	case KindList:
		if len(v.list) == 0 {
			return cty.ListValEmpty(cty.DynamicPseudoType)
		}
		elems := make([]cty.Value, len(v.list))
		uniform := true
		for i, e := range v.list {
			elems[i] = e.Cty()
			if !elems[i].Type().Equals(elems[0].Type()) {
				uniform = false
			}
		}
		if uniform {
			return cty.ListVal(elems)
		}
		return cty.TupleVal(elems)
	default:
		return cty.NullVal(cty.DynamicPseudoType)
	}
}
