package stimulus

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/evolvablehardware/PUFFS/codec"
)

// IntRange is the half-open range [Lo, Hi).
type IntRange struct {
	Lo, Hi int64
}

// Bounds is the closed range [Lo, Hi].
type Bounds struct {
	Lo, Hi float64
}

// RandomInt draws integers uniformly from [lo, hi). Several ranges produce an
// array with one draw per lane.
type RandomInt struct {
	gate
	ranges []IntRange
	array  bool
}

// NewRandomInt returns a generator of integers in [lo, hi).
func NewRandomInt(rng *rand.Rand, lo, hi int64) *RandomInt {
	r := IntRange{Lo: lo, Hi: hi}
	r.mustBeValid()

	return &RandomInt{gate: newGate(rng), ranges: []IntRange{r}}
}

// NewRandomIntArray returns a generator of integer arrays, one lane per
// range.
func NewRandomIntArray(rng *rand.Rand, ranges ...IntRange) *RandomInt {
	if len(ranges) == 0 {
		panic("integer array generator needs at least one lane")
	}

	for _, r := range ranges {
		r.mustBeValid()
	}

	cp := make([]IntRange, len(ranges))
	copy(cp, ranges)

	return &RandomInt{gate: newGate(rng), ranges: cp, array: true}
}

func (r IntRange) mustBeValid() {
	if r.Hi <= r.Lo {
		panic(fmt.Sprintf("empty integer range [%d, %d)", r.Lo, r.Hi))
	}
}

// WithRate sets the presence probability.
func (g *RandomInt) WithRate(rate float64) *RandomInt {
	g.setRate(rate)
	return g
}

// Next draws the next value.
func (g *RandomInt) Next(force bool) (codec.Value, bool) {
	if !g.present(force) {
		return codec.Empty, false
	}

	if !g.array {
		return codec.IntValue(g.draw(g.ranges[0])), true
	}

	lanes := make([]int64, len(g.ranges))
	for i, r := range g.ranges {
		lanes[i] = g.draw(r)
	}

	return codec.IntArray(lanes...), true
}

// draw uses the unsigned span: Hi-Lo may exceed MaxInt64.
func (g *RandomInt) draw(r IntRange) int64 {
	span := uint64(r.Hi) - uint64(r.Lo)
	return int64(uint64(r.Lo) + g.rng.Uint64n(span))
}

// RandomReal draws real numbers uniformly from [lo, hi]. Several bounds
// produce an array with one draw per lane.
type RandomReal struct {
	gate
	lanes []distuv.Uniform
	array bool
}

// NewRandomReal returns a generator of reals in [lo, hi].
func NewRandomReal(rng *rand.Rand, lo, hi float64) *RandomReal {
	g := &RandomReal{gate: newGate(rng)}
	g.lanes = []distuv.Uniform{g.uniform(Bounds{Lo: lo, Hi: hi})}

	return g
}

// NewRandomRealArray returns a generator of real arrays, one lane per bounds
// entry.
func NewRandomRealArray(rng *rand.Rand, bounds ...Bounds) *RandomReal {
	if len(bounds) == 0 {
		panic("real array generator needs at least one lane")
	}

	g := &RandomReal{gate: newGate(rng), array: true}
	for _, b := range bounds {
		g.lanes = append(g.lanes, g.uniform(b))
	}

	return g
}

func (g *RandomReal) uniform(b Bounds) distuv.Uniform {
	if b.Hi < b.Lo || math.IsNaN(b.Lo) || math.IsNaN(b.Hi) {
		panic(fmt.Sprintf("invalid real range [%v, %v]", b.Lo, b.Hi))
	}

	return distuv.Uniform{Min: b.Lo, Max: b.Hi, Src: g.rng}
}

// WithRate sets the presence probability.
func (g *RandomReal) WithRate(rate float64) *RandomReal {
	g.setRate(rate)
	return g
}

// Next draws the next value.
func (g *RandomReal) Next(force bool) (codec.Value, bool) {
	if !g.present(force) {
		return codec.Empty, false
	}

	if !g.array {
		return codec.RealValue(g.lanes[0].Rand()), true
	}

	lanes := make([]float64, len(g.lanes))
	for i, u := range g.lanes {
		lanes[i] = u.Rand()
	}

	return codec.RealArray(lanes...), true
}

// RandomFixed draws reals that a fixed-point format represents exactly,
// uniformly over its whole range.
type RandomFixed struct {
	gate
	format codec.Fixed
	lanes  int
}

// NewRandomFixed returns a generator of values of the given format.
func NewRandomFixed(rng *rand.Rand, format codec.Fixed) *RandomFixed {
	return &RandomFixed{gate: newGate(rng), format: format}
}

// WithRate sets the presence probability.
func (g *RandomFixed) WithRate(rate float64) *RandomFixed {
	g.setRate(rate)
	return g
}

// WithLanes makes the generator produce arrays of n values.
func (g *RandomFixed) WithLanes(n int) *RandomFixed {
	if n < 1 {
		panic(fmt.Sprintf("lane count must be positive, got %d", n))
	}

	g.lanes = n

	return g
}

// Next draws the next value.
func (g *RandomFixed) Next(force bool) (codec.Value, bool) {
	if !g.present(force) {
		return codec.Empty, false
	}

	if g.lanes == 0 {
		return codec.RealValue(g.draw()), true
	}

	lanes := make([]float64, g.lanes)
	for i := range lanes {
		lanes[i] = g.draw()
	}

	return codec.RealArray(lanes...), true
}

func (g *RandomFixed) draw() float64 {
	w, p := g.format.Width(), g.format.Precision()

	if g.format.Signed() {
		q := g.rng.Int63n(int64(1)<<w) - int64(1)<<(w-1)
		return codec.SToFloat(q, p)
	}

	return codec.UToFloat(g.rng.Int63n(int64(1)<<w), p)
}
