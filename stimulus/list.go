package stimulus

import (
	"golang.org/x/exp/rand"

	"github.com/evolvablehardware/PUFFS/codec"
)

// TokenList replays a fixed list of values, wrapping around at the end. The
// cursor only moves when a value is produced.
type TokenList struct {
	gate
	tokens []codec.Value
	next   int
}

// NewTokenList returns a generator cycling through tokens.
func NewTokenList(rng *rand.Rand, tokens ...codec.Value) *TokenList {
	if len(tokens) == 0 {
		panic("token list must not be empty")
	}

	cp := make([]codec.Value, len(tokens))
	copy(cp, tokens)

	return &TokenList{gate: newGate(rng), tokens: cp}
}

// NewIntList is a shorthand for a list of integer tokens.
func NewIntList(rng *rand.Rand, vs ...int64) *TokenList {
	tokens := make([]codec.Value, len(vs))
	for i, v := range vs {
		tokens[i] = codec.IntValue(v)
	}

	return NewTokenList(rng, tokens...)
}

// WithRate sets the presence probability.
func (g *TokenList) WithRate(rate float64) *TokenList {
	g.setRate(rate)
	return g
}

// Next returns the next token of the list.
func (g *TokenList) Next(force bool) (codec.Value, bool) {
	if !g.present(force) {
		return codec.Empty, false
	}

	v := g.tokens[g.next]
	g.next = (g.next + 1) % len(g.tokens)

	return v, true
}

// Dataless produces the empty token. Sinks use it to decide readiness and
// sources of channels without data use it to decide validity.
type Dataless struct {
	gate
}

// NewDataless returns a presence-only generator.
func NewDataless(rng *rand.Rand) *Dataless {
	return &Dataless{gate: newGate(rng)}
}

// WithRate sets the presence probability.
func (g *Dataless) WithRate(rate float64) *Dataless {
	g.setRate(rate)
	return g
}

// Next returns the empty token when present.
func (g *Dataless) Next(force bool) (codec.Value, bool) {
	if !g.present(force) {
		return codec.Empty, false
	}

	return codec.Empty, true
}
