package diag

import (
	"github.com/evolvablehardware/PUFFS/codec"
	"github.com/evolvablehardware/PUFFS/datarecording"
	"github.com/evolvablehardware/PUFFS/handshake"
	"github.com/evolvablehardware/PUFFS/sim"
)

// Table names used in recordings.
const (
	DiagnosticsTable = "diagnostics"
	TokensTable      = "tokens"
)

// DiagnosticRow is a row of the diagnostics table.
type DiagnosticRow struct {
	Seq      int
	Run      string
	Severity string
	Time     float64
	Msg      string
}

// TokenRow is a row of the tokens table.
type TokenRow struct {
	Channel   string
	Direction string
	Cycle     uint64
	Time      float64
	Value     string
}

// A CycleTeller tells the current cycle and time, as sim.Clock does.
type CycleTeller interface {
	sim.TimeTeller
	CurrentCycle() uint64
}

// TokenTracer is a hook that records the tokens sent to and received from
// channels.
type TokenTracer struct {
	recorder datarecording.DataRecorder
	clock    CycleTeller
}

// NewTokenTracer creates a tracer writing into the tokens table of rec.
func NewTokenTracer(rec datarecording.DataRecorder, clock CycleTeller) *TokenTracer {
	rec.CreateTable(TokensTable, TokenRow{})

	return &TokenTracer{recorder: rec, clock: clock}
}

// Func records send and receive events. Other events are ignored.
func (t *TokenTracer) Func(ctx sim.HookCtx) {
	var dir string

	switch ctx.Pos {
	case handshake.HookPosChanSend:
		dir = "send"
	case handshake.HookPosChanRecv:
		dir = "recv"
	default:
		return
	}

	ch := ctx.Domain.(*handshake.Channel)
	v := ctx.Item.(codec.Value)

	t.recorder.InsertData(TokensTable, TokenRow{
		Channel:   ch.Name(),
		Direction: dir,
		Cycle:     t.clock.CurrentCycle(),
		Time:      float64(t.clock.CurrentTime()),
		Value:     v.String(),
	})
}
