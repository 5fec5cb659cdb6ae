// Package model exports a dinner to the formal models used by deadlock
// checkers: communicating finite state machines and MiGo types.
//
// In both models a fork is a process that grants itself to one neighbour and
// waits for it to be put back, and a philosopher receives its two forks in
// the order of its acquisition policy before returning them.
package model // import "github.com/nickng/dinephil/model"

import (
	"fmt"
	"io"

	"github.com/nickng/cfsm"
	"github.com/nickng/dinephil/philosopher"
)

// Messages exchanged between forks and philosophers.
const (
	Grant = "grant"
	Put   = "put"
)

// CFSMs is the CFSM system of a dinner.
type CFSMs struct {
	Sys          *cfsm.System
	Forks        []*cfsm.CFSM
	Philosophers map[string]*cfsm.CFSM

	seating []philosopher.Descriptor
}

// NewCFSMs builds one machine per fork and one per philosopher.
func NewCFSMs(seating []philosopher.Descriptor, forks int, order philosopher.Order) *CFSMs {
	sys := &CFSMs{
		Sys:          cfsm.NewSystem(),
		Forks:        make([]*cfsm.CFSM, forks),
		Philosophers: make(map[string]*cfsm.CFSM),
		seating:      seating,
	}
	for i := range sys.Forks {
		m := sys.Sys.NewMachine()
		m.Comment = fmt.Sprintf("fork %d", i)
		sys.Forks[i] = m
	}
	for _, d := range seating {
		m := sys.Sys.NewMachine()
		m.Comment = d.Name
		sys.Philosophers[d.Name] = m
		first, second := order.Sequence(d)
		sys.philosopherToMachine(m, first, second)
	}
	for i, m := range sys.Forks {
		sys.forkToMachine(i, m)
	}
	return sys
}

// philosopherToMachine is a straight line:
// q0 -?grant-> q1 -?grant-> q2 -!put-> q3 -!put-> q4.
func (sys *CFSMs) philosopherToMachine(m *cfsm.CFSM, first, second int) {
	q0 := m.NewState()
	q := q0
	steps := []struct {
		fork int
		send bool
	}{
		{first, false},
		{second, false},
		{first, true},
		{second, true},
	}
	for _, step := range steps {
		next := m.NewState()
		if step.send {
			tr := cfsm.NewSend(sys.Forks[step.fork], Put)
			tr.SetNext(next)
			q.AddTransition(tr)
		} else {
			tr := cfsm.NewRecv(sys.Forks[step.fork], Grant)
			tr.SetNext(next)
			q.AddTransition(tr)
		}
		q = next
	}
	m.Start = q0
}

// forkToMachine loops: q0 -!grant-> q_p -?put-> q0 for each neighbour p.
func (sys *CFSMs) forkToMachine(fork int, m *cfsm.CFSM) {
	q0 := m.NewState()
	for _, d := range sys.seating {
		if d.Left != fork && d.Right != fork {
			continue
		}
		p := sys.Philosophers[d.Name]
		held := m.NewState()
		grant := cfsm.NewSend(p, Grant)
		grant.SetNext(held)
		q0.AddTransition(grant)
		put := cfsm.NewRecv(p, Put)
		put.SetNext(q0)
		held.AddTransition(put)
	}
	m.Start = q0
}

// WriteTo implements io.WriterTo.
func (sys *CFSMs) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write([]byte(sys.Sys.String()))
	return int64(n), err
}

// PrintSummary lists the machines of the system.
func (sys *CFSMs) PrintSummary(w io.Writer) {
	fmt.Fprintf(w, "Total of %d CFSMs (%d are forks)\n",
		len(sys.Forks)+len(sys.Philosophers), len(sys.Forks))
	for i, m := range sys.Forks {
		fmt.Fprintf(w, "\t%d\t= fork %d\n", m.ID, i)
	}
	for _, d := range sys.seating {
		fmt.Fprintf(w, "\t%d\t= %s\n", sys.Philosophers[d.Name].ID, d.Name)
	}
}
