package sim

// HookPosClockEdge marks a clock edge. The hook item is the index of the
// cycle that the edge terminates.
var HookPosClockEdge = &HookPos{Name: "Clock Edge"}

// A Cycler is something that is stepped exactly once per clock cycle.
type Cycler interface {
	Cycle()
}

// CyclerFunc adapts a plain function to the Cycler interface.
type CyclerFunc func()

// Cycle calls f().
func (f CyclerFunc) Cycle() {
	f()
}

// A Clock runs registered cyclers in lock-step. Each Tick calls every cycler
// once, in registration order, and then the edge callbacks, which is where
// signal backends commit the values written during the cycle.
//
// The Clock also tells the simulated time, so that it can timestamp
// diagnostics.
type Clock struct {
	HookableBase

	freq    Freq
	cycle   uint64
	cyclers []Cycler
	edges   []func()
}

// NewClock creates a clock that ticks at the given frequency.
func NewClock(freq Freq) *Clock {
	freq.Period()

	return &Clock{freq: freq}
}

// Register appends cyclers to the per-cycle schedule.
func (c *Clock) Register(cyclers ...Cycler) {
	for _, cy := range cyclers {
		if cy == nil {
			panic("cannot register a nil cycler")
		}

		c.cyclers = append(c.cyclers, cy)
	}
}

// OnEdge registers a callback that runs at the end of every cycle.
func (c *Clock) OnEdge(f func()) {
	c.edges = append(c.edges, f)
}

// Freq returns the clock frequency.
func (c *Clock) Freq() Freq {
	return c.freq
}

// CurrentCycle returns the number of edges seen so far.
func (c *Clock) CurrentCycle() uint64 {
	return c.cycle
}

// CurrentTime returns the simulated time of the current cycle.
func (c *Clock) CurrentTime() VTimeInSec {
	return c.freq.CycleTime(c.cycle)
}

// Tick runs one clock cycle.
func (c *Clock) Tick() {
	for _, cy := range c.cyclers {
		cy.Cycle()
	}

	for _, f := range c.edges {
		f()
	}

	if c.NumHooks() > 0 {
		c.InvokeHook(HookCtx{
			Domain: c,
			Pos:    HookPosClockEdge,
			Item:   c.cycle,
		})
	}

	c.cycle++
}

// Run ticks the clock n times.
func (c *Clock) Run(n int) {
	for i := 0; i < n; i++ {
		c.Tick()
	}
}
