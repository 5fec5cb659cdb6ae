// Package forks provides the shared resource table of a dinner: a fixed row
// of independently lockable slots ("forks").
//
// A slot is acquired with Table.Acquire, which blocks until the slot is free
// and hands back a Guard. The Guard is the only way to give the slot back.
// If a holder terminates abnormally it taints the guard before releasing it,
// and the next acquirer is told so through the Tainted status.
package forks // import "github.com/nickng/dinephil/forks"

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// Status is the outcome of an acquisition.
type Status int

const (
	// Acquired means the slot is held and was left clean.
	Acquired Status = iota
	// Tainted means the slot is held but its previous holder terminated
	// abnormally while holding it. The taint is cleared by this acquisition.
	Tainted
	// Unavailable means the slot could not be acquired at all.
	Unavailable
)

func (s Status) String() string {
	switch s {
	case Acquired:
		return "acquired"
	case Tainted:
		return "tainted"
	case Unavailable:
		return "unavailable"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// ErrClosed is returned when acquiring from a closed table.
var ErrClosed = errors.New("forks: table closed")

// IndexError is returned when acquiring a slot outside of the table.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("forks: slot %d out of range [0, %d)", e.Index, e.Len)
}

// Tracer observes slot possession. Both callbacks run while the slot is
// still held by holder, so calls for the same slot never overlap.
type Tracer interface {
	Acquired(index int, holder string, status Status)
	Released(index int, holder string)
}

// Option configures a Table.
type Option func(*Table)

// WithTracer attaches a Tracer to the table.
func WithTracer(t Tracer) Option {
	return func(tbl *Table) { tbl.tracer = t }
}

type slot struct {
	mu      sync.Mutex
	tainted bool // guarded by mu
}

// Table is a fixed row of lockable slots shared by all holders.
type Table struct {
	slots  []slot
	closed atomic.Bool
	tracer Tracer
}

// New creates a table of n unlocked slots.
func New(n int, opts ...Option) *Table {
	if n < 1 {
		panic(fmt.Sprintf("forks: table needs at least one slot, got %d", n))
	}
	t := &Table{slots: make([]slot, n)}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Len returns the number of slots.
func (t *Table) Len() int { return len(t.slots) }

// Acquire blocks until slot index is free and returns a guard for it.
// The guard is nil iff the status is Unavailable.
func (t *Table) Acquire(holder string, index int) (*Guard, Status, error) {
	if index < 0 || index >= len(t.slots) {
		return nil, Unavailable, &IndexError{Index: index, Len: len(t.slots)}
	}
	if t.closed.Load() {
		return nil, Unavailable, ErrClosed
	}
	s := &t.slots[index]
	s.mu.Lock()
	if t.closed.Load() {
		s.mu.Unlock()
		return nil, Unavailable, ErrClosed
	}
	status := Acquired
	if s.tainted {
		status = Tainted
		s.tainted = false
	}
	if t.tracer != nil {
		t.tracer.Acquired(index, holder, status)
	}
	return &Guard{table: t, index: index, holder: holder}, status, nil
}

// Close makes every later Acquire fail with ErrClosed. Slots already held
// stay valid until released.
func (t *Table) Close() {
	t.closed.Store(true)
}

// Closed reports whether Close was called.
func (t *Table) Closed() bool { return t.closed.Load() }

// Guard is one holder's possession of one slot.
type Guard struct {
	table    *Table
	index    int
	holder   string
	tainted  atomic.Bool
	released atomic.Bool
}

// Index returns the slot index held by the guard.
func (g *Guard) Index() int { return g.index }

// Holder returns the name the slot was acquired under.
func (g *Guard) Holder() string { return g.holder }

// Taint marks the slot so that its next acquirer sees Tainted.
// It has no effect after Release.
func (g *Guard) Taint() { g.tainted.Store(true) }

// Release gives the slot back. Only the first call releases; later calls
// return false and leave the slot alone.
func (g *Guard) Release() bool {
	if !g.released.CompareAndSwap(false, true) {
		return false
	}
	s := &g.table.slots[g.index]
	if g.tainted.Load() {
		s.tainted = true
	}
	if g.table.tracer != nil {
		g.table.tracer.Released(g.index, g.holder)
	}
	s.mu.Unlock()
	return true
}
