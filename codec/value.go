package codec

import (
	"math"
	"strconv"
	"strings"
)

type valueKind uint8

const (
	emptyValue valueKind = iota
	intValue
	realValue
	arrayValue
)

// A Value is a token exchanged on a channel: an integer, a real number, or a
// fixed-size array of values. The zero Value is the empty token of dataless
// channels.
//
// Values are immutable.
type Value struct {
	kind  valueKind
	i     int64
	f     float64
	elems []Value
}

// Empty is the token of a dataless channel.
var Empty = Value{}

// IntValue returns an integer token.
func IntValue(v int64) Value {
	return Value{kind: intValue, i: v}
}

// RealValue returns a real token.
func RealValue(v float64) Value {
	return Value{kind: realValue, f: v}
}

// ArrayValue returns an array token holding a copy of elems.
func ArrayValue(elems ...Value) Value {
	cp := make([]Value, len(elems))
	copy(cp, elems)

	return Value{kind: arrayValue, elems: cp}
}

// IntArray returns an array of integer tokens.
func IntArray(vs ...int64) Value {
	elems := make([]Value, len(vs))
	for i, v := range vs {
		elems[i] = IntValue(v)
	}

	return Value{kind: arrayValue, elems: elems}
}

// RealArray returns an array of real tokens.
func RealArray(vs ...float64) Value {
	elems := make([]Value, len(vs))
	for i, v := range vs {
		elems[i] = RealValue(v)
	}

	return Value{kind: arrayValue, elems: elems}
}

// IsEmpty reports whether v is the empty token.
func (v Value) IsEmpty() bool { return v.kind == emptyValue }

// IsArray reports whether v is an array.
func (v Value) IsArray() bool { return v.kind == arrayValue }

// IsReal reports whether v is a real scalar.
func (v Value) IsReal() bool { return v.kind == realValue }

// IsInt reports whether v is an integer scalar.
func (v Value) IsInt() bool { return v.kind == intValue }

// Int returns a scalar as an integer. Reals are floored.
func (v Value) Int() int64 {
	switch v.kind {
	case intValue:
		return v.i
	case realValue:
		return int64(math.Floor(v.f))
	}

	panic("value " + v.String() + " is not a scalar")
}

// Float returns a scalar as a real number.
func (v Value) Float() float64 {
	switch v.kind {
	case intValue:
		return float64(v.i)
	case realValue:
		return v.f
	}

	panic("value " + v.String() + " is not a scalar")
}

// Len returns the number of lanes of an array, 0 for anything else.
func (v Value) Len() int {
	return len(v.elems)
}

// Elem returns lane i of an array.
func (v Value) Elem(i int) Value {
	if v.kind != arrayValue {
		panic("value " + v.String() + " is not an array")
	}

	return v.elems[i]
}

// Elems returns a copy of the lanes of an array.
func (v Value) Elems() []Value {
	cp := make([]Value, len(v.elems))
	copy(cp, v.elems)

	return cp
}

// Equal reports exact equality. Integer and real scalars compare by numeric
// value.
func (v Value) Equal(o Value) bool {
	switch {
	case v.kind == arrayValue || o.kind == arrayValue:
		if v.kind != o.kind || len(v.elems) != len(o.elems) {
			return false
		}

		for i := range v.elems {
			if !v.elems[i].Equal(o.elems[i]) {
				return false
			}
		}

		return true
	case v.kind == emptyValue || o.kind == emptyValue:
		return v.kind == o.kind
	case v.kind == intValue && o.kind == intValue:
		return v.i == o.i
	}

	return v.Float() == o.Float()
}

// String formats the token the way it appears in logs.
func (v Value) String() string {
	switch v.kind {
	case intValue:
		return strconv.FormatInt(v.i, 10)
	case realValue:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case arrayValue:
		parts := make([]string, len(v.elems))
		for i, e := range v.elems {
			parts[i] = e.String()
		}

		return "[" + strings.Join(parts, ", ") + "]"
	}

	return "-"
}

