package sim

import (
	"fmt"
	"math"
	"strconv"
)

// Freq is a clock frequency in Hz.
type Freq float64

// Frequency units.
const (
	Hz  Freq = 1
	KHz Freq = 1e3
	MHz Freq = 1e6
	GHz Freq = 1e9
)

// Period returns the duration of one cycle. It panics unless f is positive.
func (f Freq) Period() VTimeInSec {
	if !(f > 0) || math.IsInf(float64(f), 1) {
		panic(fmt.Sprintf("frequency must be positive and finite, got %v", float64(f)))
	}

	return VTimeInSec(1.0 / f)
}

// Cycle converts a time to the number of whole cycles elapsed since time 0,
// rounding to the closest edge.
func (f Freq) Cycle(time VTimeInSec) uint64 {
	return uint64(math.Round(float64(time) * float64(f)))
}

// CycleTime returns the time of the edge that ends the given number of
// cycles.
func (f Freq) CycleTime(cycle uint64) VTimeInSec {
	return VTimeInSec(float64(cycle) / float64(f))
}

func (f Freq) String() string {
	switch {
	case f >= GHz:
		return strconv.FormatFloat(float64(f/GHz), 'g', -1, 64) + "GHz"
	case f >= MHz:
		return strconv.FormatFloat(float64(f/MHz), 'g', -1, 64) + "MHz"
	case f >= KHz:
		return strconv.FormatFloat(float64(f/KHz), 'g', -1, 64) + "kHz"
	}

	return strconv.FormatFloat(float64(f), 'g', -1, 64) + "Hz"
}
