package signal

import (
	"fmt"
	"math/big"
	"sort"
)

// A Board is an in-memory signal backend. It keeps two frames per wire: the
// value readers see and the value most recently driven. Edge copies the
// driven values into the visible frame, the way an HDL simulator makes values
// written between two clock edges visible after the edge.
type Board struct {
	wires map[string]*Wire
	order []*Wire
}

// NewBoard creates an empty board.
func NewBoard() *Board {
	return &Board{wires: make(map[string]*Wire)}
}

// Wire creates a wire of the given width. New wires are undriven, every bit
// reads as 'z'.
func (b *Board) Wire(name string, width int) *Wire {
	if width < 1 {
		panic(fmt.Sprintf("wire %s: width must be positive, got %d", name, width))
	}

	if _, ok := b.wires[name]; ok {
		panic("wire " + name + " already exists")
	}

	w := &Wire{
		name: name,
		cur:  NewVector(width, LZ),
		next: NewVector(width, LZ),
	}
	b.wires[name] = w
	b.order = append(b.order, w)

	return w
}

// Lookup returns the wire with the given name.
func (b *Board) Lookup(name string) (*Wire, bool) {
	w, ok := b.wires[name]
	return w, ok
}

// Names returns the wire names in alphabetical order.
func (b *Board) Names() []string {
	names := make([]string, 0, len(b.order))
	for _, w := range b.order {
		names = append(names, w.name)
	}

	sort.Strings(names)

	return names
}

// Edge makes every driven value visible.
func (b *Board) Edge() {
	for _, w := range b.order {
		if w.dirty {
			copy(w.cur, w.next)
			w.dirty = false
		}
	}
}

// A Wire is a signal on a Board.
type Wire struct {
	name  string
	cur   Vector
	next  Vector
	dirty bool
}

// Name returns the wire name.
func (w *Wire) Name() string {
	return w.name
}

// Width returns the number of bits.
func (w *Wire) Width() int {
	return len(w.cur)
}

// Integer returns the visible unsigned value.
func (w *Wire) Integer() (*big.Int, error) {
	return w.cur.Int()
}

// BitString returns the visible value.
func (w *Wire) BitString() string {
	return w.cur.String()
}

// DrivenBitString returns the value that becomes visible at the next edge.
func (w *Wire) DrivenBitString() string {
	return w.next.String()
}

// SetInteger drives v, visible after the next edge.
func (w *Wire) SetInteger(v *big.Int) {
	w.drive(FromInt(v, w.Width()))
}

// SetBitString drives a bit pattern, visible after the next edge.
func (w *Wire) SetBitString(s string) {
	v, err := ParseVector(fit(s, w.Width()))
	if err != nil {
		panic(fmt.Sprintf("wire %s: %v", w.name, err))
	}

	w.drive(v)
}

// Force sets the visible value immediately, bypassing the edge. Models use it
// to establish reset values.
func (w *Wire) Force(s string) {
	w.SetBitString(s)
	copy(w.cur, w.next)
	w.dirty = false
}

func (w *Wire) drive(v Vector) {
	copy(w.next, v)
	w.dirty = true
}
