package philosopher

import (
	"fmt"
	"strings"
)

// Order decides in which sequence a philosopher takes its two forks.
type Order interface {
	Sequence(d Descriptor) (first, second int)
	String() string
}

type lowestFirst struct{}

func (lowestFirst) Sequence(d Descriptor) (int, int) {
	if d.Right < d.Left {
		return d.Right, d.Left
	}
	return d.Left, d.Right
}

func (lowestFirst) String() string { return "lowest-first" }

type leftFirst struct{}

func (leftFirst) Sequence(d Descriptor) (int, int) { return d.Left, d.Right }

func (leftFirst) String() string { return "left-first" }

var (
	// LowestFirst takes the fork with the lower index first, whichever side
	// it is on. Every philosopher following the same total order over forks
	// rules out circular wait.
	LowestFirst Order = lowestFirst{}

	// LeftFirst takes the left fork, then the right one. On a ring where
	// everybody sits down at once this can deadlock.
	LeftFirst Order = leftFirst{}
)

// Orders lists the known orders by name.
var Orders = map[string]Order{
	LowestFirst.String(): LowestFirst,
	LeftFirst.String():   LeftFirst,
}

// ParseOrder returns the Order called name.
func ParseOrder(name string) (Order, error) {
	if o, ok := Orders[strings.ToLower(strings.TrimSpace(name))]; ok {
		return o, nil
	}
	return nil, fmt.Errorf("unknown order %q (known: %s, %s)", name, LowestFirst, LeftFirst)
}

// Deviates reports whether o makes d take its right fork first.
func Deviates(o Order, d Descriptor) bool {
	first, _ := o.Sequence(d)
	return first != d.Left
}
