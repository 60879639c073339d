package signal

import (
	"math/big"
	"strings"

	"github.com/cockroachdb/errors"
)

// Logic is the state of a single bit.
type Logic byte

// Bit states.
const (
	L0 Logic = iota
	L1
	LX
	LZ
)

const logicChars = "01xz"

// Char returns the character used for the state in bit strings.
func (l Logic) Char() byte {
	return logicChars[l]
}

// Resolved reports whether the state is a 0 or a 1.
func (l Logic) Resolved() bool {
	return l == L0 || l == L1
}

func parseLogic(c byte) (Logic, bool) {
	switch c {
	case '0':
		return L0, true
	case '1':
		return L1, true
	case 'x', 'X':
		return LX, true
	case 'z', 'Z':
		return LZ, true
	}

	return LX, false
}

// A Vector is a 4-state bit vector. Index 0 is the least significant bit.
type Vector []Logic

// NewVector returns a vector of the given width with every bit set to fill.
func NewVector(width int, fill Logic) Vector {
	v := make(Vector, width)
	for i := range v {
		v[i] = fill
	}

	return v
}

// ParseVector parses a bit string, most significant bit first. The accepted
// characters are 0, 1, x and z (either case).
func ParseVector(s string) (Vector, error) {
	v := make(Vector, len(s))
	for i := 0; i < len(s); i++ {
		l, ok := parseLogic(s[len(s)-1-i])
		if !ok {
			return nil, errors.Newf("invalid bit %q in %q", s[len(s)-1-i], s)
		}

		v[i] = l
	}

	return v, nil
}

// MustParseVector is like ParseVector but panics on malformed input.
func MustParseVector(s string) Vector {
	v, err := ParseVector(s)
	if err != nil {
		panic(err)
	}

	return v
}

// FromInt returns the two's complement representation of x truncated to
// width bits.
func FromInt(x *big.Int, width int) Vector {
	m := new(big.Int).And(x, Mask(width))

	v := make(Vector, width)
	for i := range v {
		v[i] = Logic(m.Bit(i))
	}

	return v
}

// Width returns the number of bits.
func (v Vector) Width() int {
	return len(v)
}

// String returns the bit string, most significant bit first.
func (v Vector) String() string {
	var b strings.Builder
	b.Grow(len(v))

	for i := len(v) - 1; i >= 0; i-- {
		b.WriteByte(v[i].Char())
	}

	return b.String()
}

// Resolved reports whether every bit is a 0 or a 1.
func (v Vector) Resolved() bool {
	for _, l := range v {
		if !l.Resolved() {
			return false
		}
	}

	return true
}

// Int returns the unsigned integer value of the vector.
func (v Vector) Int() (*big.Int, error) {
	x := new(big.Int)

	for i, l := range v {
		if !l.Resolved() {
			return nil, errors.Wrapf(ErrUnresolved, "value %s", v)
		}

		if l == L1 {
			x.SetBit(x, i, 1)
		}
	}

	return x, nil
}

// SignedInt returns the two's complement value of the vector.
func (v Vector) SignedInt() (*big.Int, error) {
	x, err := v.Int()
	if err != nil {
		return nil, err
	}

	return SignExtend(x, len(v)), nil
}

// Mask returns 2^width - 1.
func Mask(width int) *big.Int {
	m := new(big.Int).Lsh(big.NewInt(1), uint(width))
	return m.Sub(m, big.NewInt(1))
}

// SignExtend interprets the low width bits of x as a two's complement number.
func SignExtend(x *big.Int, width int) *big.Int {
	u := new(big.Int).And(x, Mask(width))
	if width > 0 && u.Bit(width-1) == 1 {
		u.Sub(u, new(big.Int).Lsh(big.NewInt(1), uint(width)))
	}

	return u
}

// fit right-justifies a bit string to width characters, padding with '0' on
// the left or keeping the rightmost bits.
func fit(s string, width int) string {
	if len(s) >= width {
		return s[len(s)-width:]
	}

	return strings.Repeat("0", width-len(s)) + s
}
