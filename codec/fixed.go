package codec

import (
	"fmt"
	"math"
	"math/big"
)

// DefaultComparePrecision is the number of fractional bits Fixed.AreEqual
// looks at unless told otherwise.
const DefaultComparePrecision = 5

// Fixed maps real numbers to quantized integers with prec fractional bits in
// a width bit word. Encoding floors and saturates.
type Fixed struct {
	width   int
	prec    int
	cmpPrec int
	signed  bool
}

// NewFixed returns an unsigned fixed-point codec.
func NewFixed(width, prec int) Fixed {
	return newFixed(width, prec, false)
}

// NewSignedFixed returns a two's complement fixed-point codec.
func NewSignedFixed(width, prec int) Fixed {
	return newFixed(width, prec, true)
}

func newFixed(width, prec int, signed bool) Fixed {
	if width < 1 || width > 62 {
		panic(fmt.Sprintf("fixed-point width must be in [1, 62], got %d", width))
	}

	if prec < 0 {
		panic(fmt.Sprintf("fixed-point precision must not be negative, got %d", prec))
	}

	return Fixed{
		width:   width,
		prec:    prec,
		cmpPrec: DefaultComparePrecision,
		signed:  signed,
	}
}

// WithComparePrecision returns a copy that compares to 0.5^prec.
func (c Fixed) WithComparePrecision(prec int) Fixed {
	c.cmpPrec = prec
	return c
}

// Width returns the word width.
func (c Fixed) Width() int { return c.width }

// Precision returns the number of fractional bits.
func (c Fixed) Precision() int { return c.prec }

// Kind returns KindFixed.
func (c Fixed) Kind() Kind { return KindFixed }

// Signed reports whether raw values are two's complement.
func (c Fixed) Signed() bool { return c.signed }

// Encode quantizes v.
func (c Fixed) Encode(v Value) *big.Int {
	scalarMustBeGiven(c, v)

	f := v.Float()
	if math.IsNaN(f) {
		panic("fixed-point codec cannot encode NaN")
	}

	if c.signed {
		return big.NewInt(ToS(f, c.width, c.prec))
	}

	return big.NewInt(ToU(f, c.width, c.prec))
}

// Decode scales raw back to a real token.
func (c Fixed) Decode(raw *big.Int) Value {
	if c.signed {
		return RealValue(SToFloat(decodeToInt64(c, raw), c.prec))
	}

	return RealValue(UToFloat(decodeToInt64(c, raw), c.prec))
}

// AreEqual compares with a tolerance of 0.5^cmpPrec.
func (c Fixed) AreEqual(a, b Value) bool {
	return equalLanes(a, b, func(a, b Value) bool {
		return FloatEqual(a.Float(), b.Float(), c.cmpPrec)
	})
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}

	if v > hi {
		return hi
	}

	return v
}

// ToU quantizes v to an unsigned width bit word with prec fractional bits.
func ToU(v float64, width, prec int) int64 {
	q := math.Floor(v * math.Ldexp(1, prec))
	return int64(Clamp(q, 0, math.Ldexp(1, width)-1))
}

// ToS quantizes v to a signed width bit word with prec fractional bits.
func ToS(v float64, width, prec int) int64 {
	q := math.Floor(v * math.Ldexp(1, prec))
	return int64(Clamp(q, -math.Ldexp(1, width-1), math.Ldexp(1, width-1)-1))
}

// UToFloat converts an unsigned quantized word back to a real number.
func UToFloat(v int64, prec int) float64 {
	return float64(v) / math.Ldexp(1, prec)
}

// SToFloat converts a signed quantized word back to a real number.
func SToFloat(v int64, prec int) float64 {
	return float64(v) / math.Ldexp(1, prec)
}

// UMaxFloat returns the exclusive upper bound of an unsigned format.
func UMaxFloat(width, prec int) float64 {
	return math.Ldexp(1, width-prec)
}

// SMaxFloat returns the exclusive upper bound of a signed format.
func SMaxFloat(width, prec int) float64 {
	return math.Ldexp(1, width-prec-1)
}

// SMinFloat returns the lower bound of a signed format.
func SMinFloat(width, prec int) float64 {
	return -math.Ldexp(1, width-prec-1)
}

// FloatStep returns the quantization step 0.5^prec.
func FloatStep(prec int) float64 {
	return math.Ldexp(1, -prec)
}

// FloatEqual reports whether v0 and v1 are within one step of prec.
func FloatEqual(v0, v1 float64, prec int) bool {
	return math.Abs(v0-v1) <= FloatStep(prec)
}

// UClampFloat limits v to the range of an unsigned format.
func UClampFloat(v float64, width, prec int) float64 {
	return Clamp(v, 0, UMaxFloat(width, prec))
}

// SClampFloat limits v to the range of a signed format.
func SClampFloat(v float64, width, prec int) float64 {
	return Clamp(v, SMinFloat(width, prec), SMaxFloat(width, prec))
}
