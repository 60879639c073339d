// Package stimulus provides the value generators that drive sources and the
// readiness of sinks.
//
// A generator answers one question per cycle: is there a value, and which.
// Presence is a Bernoulli trial against the generator rate. Callers that
// cannot represent absence, such as a source without a valid signal, force
// presence.
package stimulus

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/evolvablehardware/PUFFS/codec"
)

// A Generator produces stimulus values.
type Generator interface {
	// Next returns the next value, or false if no value is produced this
	// time. With force set a value is always produced.
	Next(force bool) (codec.Value, bool)
}

// NewRand returns a random source for generators.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// gate decides presence.
type gate struct {
	rng   *rand.Rand
	rate  float64
	trial distuv.Bernoulli
}

func newGate(rng *rand.Rand) gate {
	if rng == nil {
		panic("generator needs a random source")
	}

	g := gate{rng: rng}
	g.setRate(1)

	return g
}

func (g *gate) setRate(rate float64) {
	if math.IsNaN(rate) || rate < 0 || rate > 1 {
		panic(fmt.Sprintf("rate must be in [0, 1], got %v", rate))
	}

	g.rate = rate
	g.trial = distuv.Bernoulli{P: rate, Src: g.rng}
}

func (g *gate) present(force bool) bool {
	if force || g.rate == 1 {
		return true
	}

	if g.rate == 0 {
		return false
	}

	return g.trial.Rand() == 1
}

// Rate returns the presence probability.
func (g *gate) Rate() float64 {
	return g.rate
}
