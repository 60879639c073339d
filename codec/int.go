package codec

import "math/big"

// Int maps integers to raw bits unchanged.
type Int struct {
	signed bool
}

// NewInt returns an unsigned integer codec.
func NewInt() Int {
	return Int{}
}

// NewSignedInt returns a two's complement integer codec.
func NewSignedInt() Int {
	return Int{signed: true}
}

// Kind returns KindInt.
func (c Int) Kind() Kind { return KindInt }

// Signed reports whether raw values are two's complement.
func (c Int) Signed() bool { return c.signed }

// Encode returns the integer value of v.
func (c Int) Encode(v Value) *big.Int {
	scalarMustBeGiven(c, v)
	return big.NewInt(v.Int())
}

// Decode returns raw as an integer token.
func (c Int) Decode(raw *big.Int) Value {
	return IntValue(decodeToInt64(c, raw))
}

// AreEqual compares exactly.
func (c Int) AreEqual(a, b Value) bool {
	return equalLanes(a, b, func(a, b Value) bool {
		return a.Equal(b)
	})
}
