package philosopher

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/fatih/color"
	"github.com/nickng/dinephil/forks"
)

// DefaultHold is how long a philosopher eats.
const DefaultHold = 1000 * time.Millisecond

// Table is the set of forks a Runner takes from.
type Table interface {
	Len() int
	Acquire(holder string, index int) (*forks.Guard, forks.Status, error)
}

// Outcome is what happened to one philosopher during a dinner.
type Outcome struct {
	Descriptor `yaml:",inline"`

	First    int       `yaml:"first"`
	Second   int       `yaml:"second"`
	Tainted  []int     `yaml:"tainted,omitempty"`
	Started  time.Time `yaml:"started,omitempty"`
	Finished time.Time `yaml:"finished,omitempty"`
}

// Ate reports whether the philosopher finished eating.
func (o *Outcome) Ate() bool { return !o.Finished.IsZero() }

// Runner seats one philosopher at a time. A Runner may be shared by
// concurrent calls to Dine.
type Runner struct {
	Table  Table
	Order  Order         // Defaults to LowestFirst.
	Hold   time.Duration // Used by the default Eat.
	Out    io.Writer     // Start and done lines.
	Logger *log.Logger   // Warnings and failures.

	// Eat is the critical section, run while both forks are held.
	// Defaults to sleeping for Hold.
	Eat func(d Descriptor)
}

// Dine takes both forks of d, eats, and puts the forks back. The outcome is
// returned even on error.
func (r *Runner) Dine(d Descriptor) (*Outcome, error) {
	order := r.Order
	if order == nil {
		order = LowestFirst
	}
	first, second := order.Sequence(d)
	o := &Outcome{Descriptor: d, First: first, Second: second}

	g1, err := r.take(d, first, o)
	if err != nil {
		return o, err
	}
	defer g1.Release()
	g2, err := r.take(d, second, o)
	if err != nil {
		return o, err
	}
	defer g2.Release()

	return o, r.eat(d, o, g1, g2)
}

func (r *Runner) take(d Descriptor, fork int, o *Outcome) (*forks.Guard, error) {
	g, status, err := r.Table.Acquire(d.Name, fork)
	switch status {
	case forks.Tainted:
		o.Tainted = append(o.Tainted, fork)
		r.logger().Println(color.YellowString("Warning: %s took fork %d after its last holder exited abnormally", d.Name, fork))
	case forks.Unavailable:
		err = &AcquireError{Name: d.Name, Fork: fork, Err: err}
		r.logger().Println(color.RedString("❌ %v", err))
		return nil, err
	}
	return g, nil
}

func (r *Runner) eat(d Descriptor, o *Outcome, held ...*forks.Guard) (err error) {
	defer func() {
		if p := recover(); p != nil {
			for _, g := range held {
				g.Taint()
			}
			err = &AbnormalExitError{Name: d.Name, Cause: p}
			r.logger().Println(color.RedString("❌ %v", err))
		}
	}()
	out := r.Out
	if out == nil {
		out = io.Discard
	}
	o.Started = time.Now()
	fmt.Fprintf(out, "%s is started eating!\n", d.Name)
	if r.Eat != nil {
		r.Eat(d)
	} else {
		time.Sleep(r.Hold)
	}
	fmt.Fprintf(out, "%s is Done eating!\n", d.Name)
	o.Finished = time.Now()
	return nil
}

func (r *Runner) logger() *log.Logger {
	if r.Logger == nil {
		return log.New(io.Discard, "", 0)
	}
	return r.Logger
}
