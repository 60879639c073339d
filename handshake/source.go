package handshake

import (
	"fmt"

	"github.com/evolvablehardware/PUFFS/codec"
	"github.com/evolvablehardware/PUFFS/stimulus"
)

// SourceState tells whether a source currently presents a token.
type SourceState int

// Source states.
const (
	SourceIdle SourceState = iota
	SourceOffering
)

func (s SourceState) String() string {
	if s == SourceOffering {
		return "Offering"
	}

	return "Idle"
}

// A Source drives the producer side of a channel. Once it offers a token it
// keeps data and valid stable until the consumer accepts it.
type Source struct {
	ch  *Channel
	gen stimulus.Generator
	log Logger

	state   SourceState
	offered codec.Value
}

// NewSource creates a source that draws its tokens from gen. The logger may
// be nil. The source starts idle with valid deasserted.
func NewSource(ch *Channel, gen stimulus.Generator, log Logger) *Source {
	if ch == nil || gen == nil {
		panic("source needs a channel and a generator")
	}

	ch.DriveValid(false)

	return &Source{ch: ch, gen: gen, log: log}
}

// Channel returns the driven channel.
func (s *Source) Channel() *Channel {
	return s.ch
}

// State returns the current state.
func (s *Source) State() SourceState {
	return s.state
}

// Offered returns the token currently presented, if any.
func (s *Source) Offered() (codec.Value, bool) {
	return s.offered, s.state == SourceOffering
}

// Cycle performs one clock cycle.
func (s *Source) Cycle() {
	if s.state == SourceOffering && !s.accepted() {
		return
	}

	s.offer()
}

// accepted reports whether the consumer took the current offer at the last
// edge.
func (s *Source) accepted() bool {
	ready, err := s.ch.ReadReady()
	if err != nil {
		s.error(fmt.Sprintf("cannot sample ready of %s: %v", s.ch.Name(), err))
		return false
	}

	return ready
}

func (s *Source) offer() {
	v, ok := s.gen.Next(!s.ch.HasValid())
	if !ok {
		s.ch.DriveValid(false)
		s.state = SourceIdle
		s.offered = codec.Empty

		return
	}

	s.ch.Send(v)
	s.ch.WriteData(v)
	s.ch.DriveValid(true)
	s.state = SourceOffering
	s.offered = v

	if s.log != nil {
		s.log.Info(fmt.Sprintf("%s!%s", s.ch.Name(), v))
	}
}

func (s *Source) error(msg string) {
	if s.log != nil {
		s.log.Error(msg)
	}
}
