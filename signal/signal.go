package signal

import (
	"math/big"

	"github.com/cockroachdb/errors"
)

// ErrUnresolved is returned when an integer read meets an 'x' or 'z' bit.
var ErrUnresolved = errors.New("signal has unresolved bits")

// A Signal is a raw circuit signal of a fixed bit width.
type Signal interface {
	// Name returns the name of the signal in the circuit.
	Name() string

	// Width returns the number of bits of the signal.
	Width() int

	// Integer returns the unsigned value of the signal. It fails with
	// ErrUnresolved if any bit is 'x' or 'z'.
	Integer() (*big.Int, error)

	// BitString returns the value, most significant bit first, using the
	// characters 0, 1, x and z.
	BitString() string

	// SetInteger drives the two's complement representation of v, truncated
	// to the signal width.
	SetInteger(v *big.Int)

	// SetBitString drives a bit pattern. Short patterns are padded with '0'
	// on the left, long ones keep their rightmost bits.
	SetBitString(s string)
}

// A Driver is a signal that can report the value most recently written to it,
// even when that value is not visible to readers yet.
type Driver interface {
	DrivenBitString() string
}

// SignedInteger returns the two's complement value of sig.
func SignedInteger(sig Signal) (*big.Int, error) {
	x, err := sig.Integer()
	if err != nil {
		return nil, err
	}

	return SignExtend(x, sig.Width()), nil
}

// Bool reads a signal as a flag: false if zero, true otherwise.
func Bool(sig Signal) (bool, error) {
	x, err := sig.Integer()
	if err != nil {
		return false, errors.Wrapf(err, "read %s", sig.Name())
	}

	return x.Sign() != 0, nil
}

// SetBool drives a flag.
func SetBool(sig Signal, b bool) {
	if b {
		sig.SetInteger(big.NewInt(1))
		return
	}

	sig.SetInteger(new(big.Int))
}

// SetInt64 drives a small integer.
func SetInt64(sig Signal, v int64) {
	sig.SetInteger(big.NewInt(v))
}

func driven(sig Signal) string {
	if d, ok := sig.(Driver); ok {
		return d.DrivenBitString()
	}

	return sig.BitString()
}
