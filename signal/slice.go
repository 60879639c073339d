package signal

import (
	"fmt"
	"math/big"
)

// A Slice is a read/write window over bits [from, to) of a wider signal.
//
// Writing a slice replaces exactly the addressed bits of the backing signal.
// The other bits keep the pattern most recently driven on the signal,
// including unknown and high-impedance bits, so several slices can share one
// signal within a cycle.
type Slice struct {
	sig      Signal
	from, to int
}

// NewSlice creates a view of bits [from, to) of sig.
func NewSlice(sig Signal, from, to int) *Slice {
	if from < 0 || to <= from || to > sig.Width() {
		panic(fmt.Sprintf(
			"invalid slice [%d, %d) of %s with width %d",
			from, to, sig.Name(), sig.Width()))
	}

	return &Slice{sig: sig, from: from, to: to}
}

// NewBit creates a view of a single bit.
func NewBit(sig Signal, index int) *Slice {
	return NewSlice(sig, index, index+1)
}

// Name returns the backing signal name with the bit range, msb first.
func (s *Slice) Name() string {
	if s.to-s.from == 1 {
		return fmt.Sprintf("%s[%d]", s.sig.Name(), s.from)
	}

	return fmt.Sprintf("%s[%d:%d]", s.sig.Name(), s.to-1, s.from)
}

// Width returns the number of bits in the window.
func (s *Slice) Width() int {
	return s.to - s.from
}

// BitString returns the window, right-aligned.
func (s *Slice) BitString() string {
	return s.window(s.sig.BitString())
}

// DrivenBitString returns the window of the value most recently driven on
// the backing signal.
func (s *Slice) DrivenBitString() string {
	return s.window(driven(s.sig))
}

// Integer returns the unsigned value of the window.
func (s *Slice) Integer() (*big.Int, error) {
	v, err := ParseVector(s.BitString())
	if err != nil {
		return nil, err
	}

	return v.Int()
}

// SetInteger writes the two's complement representation of v into the
// window.
func (s *Slice) SetInteger(v *big.Int) {
	s.write(FromInt(v, s.Width()).String())
}

// SetBitString writes a bit pattern into the window.
func (s *Slice) SetBitString(p string) {
	s.write(fit(p, s.Width()))
}

func (s *Slice) window(bits string) string {
	n := len(bits)
	return bits[n-s.to : n-s.from]
}

func (s *Slice) write(bits string) {
	base := driven(s.sig)
	n := len(base)
	s.sig.SetBitString(base[:n-s.to] + bits + base[n-s.from:])
}
