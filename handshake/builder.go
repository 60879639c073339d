package handshake

import (
	"github.com/evolvablehardware/PUFFS/codec"
	"github.com/evolvablehardware/PUFFS/signal"
	"github.com/evolvablehardware/PUFFS/sim"
)

// A ChannelBuilder builds channels.
type ChannelBuilder struct {
	codec codec.Codec
	valid signal.Signal
	ready signal.Signal
	data  []signal.Signal
}

// MakeChannelBuilder returns a builder for channels carrying unsigned
// integers.
func MakeChannelBuilder() ChannelBuilder {
	return ChannelBuilder{codec: codec.NewInt()}
}

// WithCodec sets the codec of the data signals.
func (b ChannelBuilder) WithCodec(c codec.Codec) ChannelBuilder {
	b.codec = c
	return b
}

// WithValid binds the valid signal.
func (b ChannelBuilder) WithValid(s signal.Signal) ChannelBuilder {
	b.valid = s
	return b
}

// WithReady binds the ready signal.
func (b ChannelBuilder) WithReady(s signal.Signal) ChannelBuilder {
	b.ready = s
	return b
}

// WithData binds the data signals. With several signals every token is an
// array with one lane per signal.
func (b ChannelBuilder) WithData(s ...signal.Signal) ChannelBuilder {
	b.data = append([]signal.Signal(nil), s...)
	return b
}

// Build creates the channel.
func (b ChannelBuilder) Build(name string) *Channel {
	sim.NameMustBeValid(name)

	if b.codec == nil {
		panic("channel " + name + " needs a codec")
	}

	for _, s := range b.data {
		if s == nil {
			panic("channel " + name + " has a nil data signal")
		}
	}

	return &Channel{
		name:  name,
		codec: b.codec,
		valid: b.valid,
		ready: b.ready,
		data:  b.data,
	}
}
