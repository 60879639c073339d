// Package handshake models valid/ready ports and the drivers that operate
// them.
//
// A Channel is the test-side view of a port: the ordered list of tokens that
// are supposed to cross it, plus optional bindings to the circuit signals. A
// Source offers tokens on a channel, a Sink accepts them and checks them
// against the list. Both are stepped once per clock cycle, sources first.
package handshake

import (
	"github.com/evolvablehardware/PUFFS/codec"
	"github.com/evolvablehardware/PUFFS/signal"
	"github.com/evolvablehardware/PUFFS/sim"
)

// HookPosChanSend marks a token appended to a channel. The hook item is the
// token.
var HookPosChanSend = &sim.HookPos{Name: "Chan Send"}

// HookPosChanRecv marks a token consumed from a channel. The hook item is the
// token.
var HookPosChanRecv = &sim.HookPos{Name: "Chan Recv"}

// A Logger receives the protocol trace and the check results of the drivers.
type Logger interface {
	Info(msg string)
	Error(msg string)
	Check(cond bool, msg string)
}

// A Channel is a token queue attached to a valid/ready port.
type Channel struct {
	sim.HookableBase

	name  string
	codec codec.Codec
	valid signal.Signal
	ready signal.Signal
	data  []signal.Signal

	tokens []codec.Value
	cursor int
}

// Name returns the name of the channel.
func (c *Channel) Name() string {
	return c.name
}

// Codec returns the codec that maps tokens to the data signals.
func (c *Channel) Codec() codec.Codec {
	return c.codec
}

// HasValid reports whether a valid signal is bound.
func (c *Channel) HasValid() bool {
	return c.valid != nil
}

// HasReady reports whether a ready signal is bound.
func (c *Channel) HasReady() bool {
	return c.ready != nil
}

// HasData reports whether data signals are bound.
func (c *Channel) HasData() bool {
	return len(c.data) > 0
}

// Virtual reports whether the channel has no signal at all.
func (c *Channel) Virtual() bool {
	return !c.HasValid() && !c.HasReady() && !c.HasData()
}

// Send appends a token.
func (c *Channel) Send(v codec.Value) {
	c.tokens = append(c.tokens, v)

	if c.NumHooks() > 0 {
		c.InvokeHook(sim.HookCtx{
			Domain: c,
			Pos:    HookPosChanSend,
			Item:   v,
		})
	}
}

// Recv consumes the oldest unread token. It returns false if every token has
// been read.
func (c *Channel) Recv() (codec.Value, bool) {
	if !c.IsValid() {
		return codec.Empty, false
	}

	v := c.tokens[c.cursor]
	c.cursor++

	if c.NumHooks() > 0 {
		c.InvokeHook(sim.HookCtx{
			Domain: c,
			Pos:    HookPosChanRecv,
			Item:   v,
		})
	}

	return v, true
}

// Probe returns the oldest unread token without consuming it.
func (c *Channel) Probe() (codec.Value, bool) {
	if !c.IsValid() {
		return codec.Empty, false
	}

	return c.tokens[c.cursor], true
}

// IsValid reports whether an unread token exists.
func (c *Channel) IsValid() bool {
	return c.cursor < len(c.tokens)
}

// Pending returns the number of unread tokens.
func (c *Channel) Pending() int {
	return len(c.tokens) - c.cursor
}

// Tokens returns every token sent so far, read or not.
func (c *Channel) Tokens() []codec.Value {
	cp := make([]codec.Value, len(c.tokens))
	copy(cp, c.tokens)

	return cp
}

// WriteData drives v onto the data signals. Channels without data ignore it.
func (c *Channel) WriteData(v codec.Value) {
	codec.Write(c.codec, v, c.data...)
}

// ReadData decodes the data signals. Channels without data return the empty
// token.
func (c *Channel) ReadData() (codec.Value, error) {
	return codec.Read(c.codec, c.data...)
}

// DriveValid drives the valid signal if one is bound.
func (c *Channel) DriveValid(b bool) {
	if c.valid != nil {
		signal.SetBool(c.valid, b)
	}
}

// DriveReady drives the ready signal if one is bound.
func (c *Channel) DriveReady(b bool) {
	if c.ready != nil {
		signal.SetBool(c.ready, b)
	}
}

// ReadValid reads the valid signal. An unbound valid is always asserted.
func (c *Channel) ReadValid() (bool, error) {
	if c.valid == nil {
		return true, nil
	}

	return signal.Bool(c.valid)
}

// ReadReady reads the ready signal. An unbound ready is always asserted.
func (c *Channel) ReadReady() (bool, error) {
	if c.ready == nil {
		return true, nil
	}

	return signal.Bool(c.ready)
}
