package codec

import (
	"fmt"
	"math/big"

	"github.com/evolvablehardware/PUFFS/signal"
)

// Array packs num lanes of width bits into one raw vector. Lane i occupies
// bits [i*width, (i+1)*width).
type Array struct {
	num   int
	width int
	sub   Codec
}

// NewArray returns an array codec whose lanes use the sub codec.
func NewArray(num, width int, sub Codec) Array {
	if num < 1 {
		panic(fmt.Sprintf("array codec needs at least one lane, got %d", num))
	}

	if width < 1 {
		panic(fmt.Sprintf("array lane width must be positive, got %d", width))
	}

	if sub == nil {
		panic("array codec needs a lane codec")
	}

	return Array{num: num, width: width, sub: sub}
}

// Kind returns KindArray.
func (c Array) Kind() Kind { return KindArray }

// Signed reports whether the lanes are two's complement.
func (c Array) Signed() bool { return c.sub.Signed() }

// Lanes returns the number of lanes.
func (c Array) Lanes() int { return c.num }

// LaneWidth returns the width of one lane.
func (c Array) LaneWidth() int { return c.width }

// Width returns the total number of bits.
func (c Array) Width() int { return c.num * c.width }

// Sub returns the lane codec.
func (c Array) Sub() Codec { return c.sub }

func (c Array) off(lane int) uint {
	return uint(lane * c.width)
}

func (c Array) pack(v *big.Int, lane int) *big.Int {
	p := new(big.Int).And(v, signal.Mask(c.width))
	return p.Lsh(p, c.off(lane))
}

func (c Array) unpack(raw *big.Int, lane int) *big.Int {
	u := new(big.Int).Rsh(raw, c.off(lane))
	u.And(u, signal.Mask(c.width))

	if c.sub.Signed() {
		return signal.SignExtend(u, c.width)
	}

	return u
}

// Encode packs the lanes of v.
func (c Array) Encode(v Value) *big.Int {
	if !v.IsArray() || v.Len() != c.num {
		panic(fmt.Sprintf("array codec expects %d lanes, got %s", c.num, v))
	}

	raw := new(big.Int)
	for i := 0; i < c.num; i++ {
		raw.Or(raw, c.pack(c.sub.Encode(v.Elem(i)), i))
	}

	return raw
}

// Decode unpacks raw into num lanes.
func (c Array) Decode(raw *big.Int) Value {
	elems := make([]Value, c.num)
	for i := range elems {
		elems[i] = c.sub.Decode(c.unpack(raw, i))
	}

	return Value{kind: arrayValue, elems: elems}
}

// AreEqual compares lane by lane with the lane codec.
func (c Array) AreEqual(a, b Value) bool {
	if !a.IsArray() || !b.IsArray() || a.Len() != b.Len() {
		return false
	}

	for i := 0; i < a.Len(); i++ {
		if !c.sub.AreEqual(a.Elem(i), b.Elem(i)) {
			return false
		}
	}

	return true
}
