package codec

import (
	"fmt"
	"math/big"

	"github.com/cockroachdb/errors"

	"github.com/evolvablehardware/PUFFS/signal"
)

// Write drives v onto sigs through c. With a single signal the whole value is
// encoded into it. With several signals v must be an array with one lane per
// signal. Empty tokens and empty signal lists write nothing.
func Write(c Codec, v Value, sigs ...signal.Signal) {
	if len(sigs) == 0 || v.IsEmpty() {
		return
	}

	if len(sigs) == 1 {
		sigs[0].SetInteger(c.Encode(v))
		return
	}

	if !v.IsArray() || v.Len() != len(sigs) {
		panic(fmt.Sprintf("value %s does not match %d data signals", v, len(sigs)))
	}

	for i, s := range sigs {
		s.SetInteger(c.Encode(v.Elem(i)))
	}
}

// Read decodes the value of sigs through c. Signed scalar codecs read the
// signal as a two's complement number. It fails with signal.ErrUnresolved if
// a signal holds 'x' or 'z' bits.
func Read(c Codec, sigs ...signal.Signal) (Value, error) {
	switch len(sigs) {
	case 0:
		return Empty, nil
	case 1:
		raw, err := readRaw(c, sigs[0])
		if err != nil {
			return Empty, err
		}

		return c.Decode(raw), nil
	}

	elems := make([]Value, len(sigs))
	for i, s := range sigs {
		raw, err := readRaw(c, s)
		if err != nil {
			return Empty, err
		}

		elems[i] = c.Decode(raw)
	}

	return Value{kind: arrayValue, elems: elems}, nil
}

func readRaw(c Codec, sig signal.Signal) (*big.Int, error) {
	var (
		raw *big.Int
		err error
	)

	if c.Signed() && c.Kind() != KindArray {
		raw, err = signal.SignedInteger(sig)
	} else {
		raw, err = sig.Integer()
	}

	if err != nil {
		return nil, errors.Wrapf(err, "read %s", sig.Name())
	}

	return raw, nil
}
