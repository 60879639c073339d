// Package codec converts between logical token values and raw bit vectors.
//
// The hierarchy is closed: Int, Fixed and Array. Array lanes use any codec,
// including another Array. Bit ranges of wider signals are reached through
// signal.Slice, which is itself a signal and therefore works with every
// codec.
package codec

import (
	"fmt"
	"math/big"
)

// Kind enumerates the codec types.
type Kind int

// Codec kinds.
const (
	KindInt Kind = iota
	KindFixed
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFixed:
		return "fixed"
	case KindArray:
		return "array"
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

// A Codec is a stateless transform between token values and raw bits.
type Codec interface {
	// Kind tells which codec this is.
	Kind() Kind

	// Signed reports whether raw values are two's complement numbers.
	Signed() bool

	// Encode converts a token to raw bits. Negative results stand for their
	// two's complement representation.
	Encode(v Value) *big.Int

	// Decode converts raw bits to a token.
	Decode(raw *big.Int) Value

	// AreEqual compares two tokens with the tolerance of the codec.
	AreEqual(a, b Value) bool
}

// equalLanes applies a scalar comparison, element-wise when both values are
// arrays.
func equalLanes(a, b Value, eq func(a, b Value) bool) bool {
	if a.IsArray() || b.IsArray() {
		if !a.IsArray() || !b.IsArray() || a.Len() != b.Len() {
			return false
		}

		for i := 0; i < a.Len(); i++ {
			if !equalLanes(a.Elem(i), b.Elem(i), eq) {
				return false
			}
		}

		return true
	}

	if a.IsEmpty() || b.IsEmpty() {
		return a.IsEmpty() && b.IsEmpty()
	}

	return eq(a, b)
}

func scalarMustBeGiven(c Codec, v Value) {
	if v.IsArray() || v.IsEmpty() {
		panic(fmt.Sprintf("%s codec cannot encode %s", c.Kind(), v))
	}
}

func decodeToInt64(c Codec, raw *big.Int) int64 {
	if !raw.IsInt64() {
		panic(fmt.Sprintf("%s codec: raw value %s does not fit 64 bits", c.Kind(), raw))
	}

	return raw.Int64()
}
