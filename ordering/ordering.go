// Package ordering statically checks a seating plan for circular wait.
//
// Under an acquisition order every philosopher holds its first fork while
// waiting for its second. Drawing an edge first -> second per philosopher
// gives the fork order graph: the dinner can deadlock iff that graph has a
// cycle, since a cycle is exactly a ring of philosophers each waiting for a
// fork held by the next.
package ordering // import "github.com/nickng/dinephil/ordering"

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/fatih/color"
	"github.com/nickng/dinephil/philosopher"
)

// Edge is one philosopher holding From while waiting for To.
type Edge struct {
	From, To    int
	Philosopher string
	Deviates    bool // takes its right fork first
}

func (e Edge) String() string {
	return fmt.Sprintf("%d -[%s]-> %d", e.From, e.Philosopher, e.To)
}

// Graph is the fork order graph of a seating under an order.
type Graph struct {
	Forks int
	Order philosopher.Order
	Edges []Edge

	out map[int][]int // fork -> indexes into Edges
}

// Build creates the fork order graph. The seating is assumed valid.
func Build(seating []philosopher.Descriptor, forks int, order philosopher.Order) *Graph {
	g := &Graph{Forks: forks, Order: order, out: make(map[int][]int)}
	for _, d := range seating {
		first, second := order.Sequence(d)
		g.out[first] = append(g.out[first], len(g.Edges))
		g.Edges = append(g.Edges, Edge{
			From:        first,
			To:          second,
			Philosopher: d.Name,
			Deviates:    philosopher.Deviates(order, d),
		})
	}
	return g
}

// Cycle returns the edges of a cycle in g, or nil if g is acyclic.
func (g *Graph) Cycle() []Edge {
	const (
		white = iota
		grey
		black
	)
	colour := make([]int, g.Forks)
	var path []Edge
	var found []Edge
	var visit func(fork int) bool
	visit = func(fork int) bool {
		colour[fork] = grey
		for _, ei := range g.out[fork] {
			e := g.Edges[ei]
			path = append(path, e)
			switch colour[e.To] {
			case grey:
				// Cut the path back to where the cycle starts.
				for i := range path {
					if path[i].From == e.To {
						found = append([]Edge(nil), path[i:]...)
						return true
					}
				}
			case white:
				if visit(e.To) {
					return true
				}
			}
			path = path[:len(path)-1]
		}
		colour[fork] = black
		return false
	}
	for f := 0; f < g.Forks; f++ {
		if colour[f] == white && visit(f) {
			return found
		}
	}
	return nil
}

// Result is the verdict of Check.
type Result struct {
	Order     string
	Cycle     []Edge
	Deviating []string // philosophers taking their right fork first
}

// DeadlockFree reports whether no circular wait is possible.
func (r *Result) DeadlockFree() bool { return len(r.Cycle) == 0 }

func (r *Result) String() string {
	if r.DeadlockFree() {
		return fmt.Sprintf("%s: no circular wait (%d deviating: %s)",
			r.Order, len(r.Deviating), strings.Join(r.Deviating, ", "))
	}
	names := make([]string, len(r.Cycle))
	for i, e := range r.Cycle {
		names[i] = e.Philosopher
	}
	return fmt.Sprintf("%s: circular wait possible between %s", r.Order, strings.Join(names, " -> "))
}

// Check analyses seating under order and logs a coloured verdict.
func Check(seating []philosopher.Descriptor, forks int, order philosopher.Order, logger *log.Logger) *Result {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	g := Build(seating, forks, order)
	res := &Result{Order: order.String(), Cycle: g.Cycle()}
	for _, e := range g.Edges {
		logger.Printf(" %s", e)
		if e.Deviates {
			res.Deviating = append(res.Deviating, e.Philosopher)
		}
	}
	if res.DeadlockFree() {
		logger.Println(color.GreenString("✓ %s", res))
	} else {
		logger.Println(color.RedString("❌ %s", res))
		for _, e := range res.Cycle {
			logger.Println(color.RedString("   %s holds fork %d, waits for fork %d", e.Philosopher, e.From, e.To))
		}
	}
	return res
}
