package handshake

import (
	"fmt"

	"github.com/evolvablehardware/PUFFS/codec"
	"github.com/evolvablehardware/PUFFS/stimulus"
)

// A Sink drives the consumer side of a channel. It accepts a token whenever
// valid was asserted while its own ready was asserted, and checks the
// observed data against the next expected token of the channel.
//
// Readiness driven in one cycle governs the acceptance observed in the next,
// so the sink remembers what it drove.
type Sink struct {
	ch  *Channel
	gen stimulus.Generator
	log Logger

	prevReady   bool
	currReady   bool
	precomputed bool
	captured    []codec.Value
}

// NewSink creates a sink whose readiness is drawn from gen: a produced value
// asserts ready, absence deasserts it. The logger may be nil. A sink with a
// ready signal starts not ready. Without a ready signal it is always ready.
func NewSink(ch *Channel, gen stimulus.Generator, log Logger) *Sink {
	if ch == nil || gen == nil {
		panic("sink needs a channel and a generator")
	}

	s := &Sink{ch: ch, gen: gen, log: log}

	if ch.HasReady() {
		ch.DriveReady(false)
	} else {
		s.prevReady = true
		s.currReady = true
	}

	return s
}

// Channel returns the consumed channel.
func (s *Sink) Channel() *Channel {
	return s.ch
}

// Ready reports the readiness driven most recently.
func (s *Sink) Ready() bool {
	return s.currReady
}

// Captured returns the data observed on every accepted token.
func (s *Sink) Captured() []codec.Value {
	cp := make([]codec.Value, len(s.captured))
	copy(cp, s.captured)

	return cp
}

// PrecomputeReady draws and drives the readiness of this cycle ahead of
// Cycle. Cycle then skips its own draw.
func (s *Sink) PrecomputeReady() {
	s.drawReady()
	s.precomputed = true
}

// Cycle performs one clock cycle.
func (s *Sink) Cycle() {
	if s.prevReady && s.sampleValid() {
		s.accept()
	}

	if !s.precomputed {
		s.drawReady()
	}

	s.prevReady = s.currReady
	s.precomputed = false
}

func (s *Sink) drawReady() {
	if !s.ch.HasReady() {
		return
	}

	_, s.currReady = s.gen.Next(false)
	s.ch.DriveReady(s.currReady)
}

func (s *Sink) sampleValid() bool {
	valid, err := s.ch.ReadValid()
	if err != nil {
		s.error(fmt.Sprintf("cannot sample valid of %s: %v", s.ch.Name(), err))
		return false
	}

	return valid
}

func (s *Sink) accept() {
	expected, ok := s.ch.Recv()

	if !s.ch.HasData() {
		if s.log != nil {
			s.log.Info(fmt.Sprintf("%s?%s", s.ch.Name(), expected))
			s.log.Check(ok, "did not expect valid token in this cycle for "+s.ch.Name())
		}

		return
	}

	observed, err := s.ch.ReadData()
	if err != nil {
		s.error(fmt.Sprintf("cannot sample data of %s: %v", s.ch.Name(), err))
		return
	}

	s.captured = append(s.captured, observed)

	if s.log == nil {
		return
	}

	s.log.Info(fmt.Sprintf("%s?%s", s.ch.Name(), observed))
	s.log.Check(ok, "did not expect valid token in this cycle for "+s.ch.Name())

	if ok {
		s.log.Check(s.ch.Codec().AreEqual(expected, observed),
			fmt.Sprintf("expected %s found %s for %s", expected, observed, s.ch.Name()))
	}
}

func (s *Sink) error(msg string) {
	if s.log != nil {
		s.log.Error(msg)
	}
}
