// Package dinner sets the table and runs all philosophers at once.
//
// A Dinner owns nothing global: each Run builds its own fork table, hands
// every philosopher a copy of its descriptor and a pointer to the table,
// waits for all of them, and only then closes the table.
package dinner // import "github.com/nickng/dinephil/dinner"

import (
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/fatih/color"
	"github.com/nickng/dinephil/forks"
	"github.com/nickng/dinephil/philosopher"
	"golang.org/x/sync/errgroup"
)

// ErrCircularWait is returned by Run for an order that is not deadlock free.
var ErrCircularWait = errors.New("dinner: acquisition order allows circular wait")

// Config describes a dinner.
type Config struct {
	// Names seats philosophers on a ring (Seating takes precedence).
	Names []string
	// Seating is an explicit seating plan.
	Seating []philosopher.Descriptor
	// Forks is the table size. Defaults to the number of seats.
	Forks int
	Hold  time.Duration
	Order philosopher.Order
	// Eat replaces the default critical section (sleep for Hold).
	Eat func(philosopher.Descriptor)
	// Tracer additionally observes every fork hand-over.
	Tracer forks.Tracer
}

// DefaultConfig is the five philosopher dinner.
func DefaultConfig() Config {
	return Config{
		Names: philosopher.DefaultNames,
		Hold:  philosopher.DefaultHold,
		Order: philosopher.LowestFirst,
	}
}

// Dinner is a validated dinner, ready to Run any number of times.
type Dinner struct {
	cfg     Config
	seating []philosopher.Descriptor
	out     io.Writer
	logger  *log.Logger
}

// New validates cfg. No philosopher is started if it fails.
func New(cfg Config, out io.Writer, logger *log.Logger) (*Dinner, error) {
	seating := cfg.Seating
	if seating == nil {
		if len(cfg.Names) == 0 {
			return nil, errors.New("dinner: nobody to seat")
		}
		seating = philosopher.Ring(cfg.Names)
	}
	if cfg.Forks == 0 {
		cfg.Forks = len(seating)
	}
	if cfg.Forks < 2 {
		return nil, fmt.Errorf("dinner: a table needs at least 2 forks, got %d", cfg.Forks)
	}
	if err := philosopher.ValidateRing(seating, cfg.Forks); err != nil {
		return nil, fmt.Errorf("dinner: %w", err)
	}
	if cfg.Order == nil {
		cfg.Order = philosopher.LowestFirst
	}
	if out == nil {
		out = io.Discard
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Dinner{
		cfg:     cfg,
		seating: append([]philosopher.Descriptor(nil), seating...),
		out:     out,
		logger:  logger,
	}, nil
}

// Seating returns a copy of the seating plan.
func (d *Dinner) Seating() []philosopher.Descriptor {
	return append([]philosopher.Descriptor(nil), d.seating...)
}

// Order returns the acquisition order in use.
func (d *Dinner) Order() philosopher.Order { return d.cfg.Order }

// Forks returns the table size.
func (d *Dinner) Forks() int { return d.cfg.Forks }

// Run seats everyone at once and waits for all of them to leave. Runner
// failures do not stop the others; they are joined into the returned error
// once every philosopher is done.
//
// Only a lowest-first dinner can be Run; any other order can end in
// circular wait and fails with ErrCircularWait before anyone is seated.
func (d *Dinner) Run() (*Report, error) {
	if d.cfg.Order != philosopher.LowestFirst {
		return nil, fmt.Errorf("%w: order %s", ErrCircularWait, d.cfg.Order)
	}
	return d.run()
}

func (d *Dinner) run() (*Report, error) {
	mon := newMonitor(d.cfg.Forks, d.cfg.Tracer)
	table := forks.New(d.cfg.Forks, forks.WithTracer(mon))
	runner := &philosopher.Runner{
		Table:  table,
		Order:  d.cfg.Order,
		Hold:   d.cfg.Hold,
		Out:    d.out,
		Logger: d.logger,
		Eat:    d.cfg.Eat,
	}

	outcomes := make([]*philosopher.Outcome, len(d.seating))
	errs := make([]error, len(d.seating))
	start := time.Now()
	var g errgroup.Group
	for i, desc := range d.seating {
		i, desc := i, desc
		g.Go(func() error {
			outcomes[i], errs[i] = runner.Dine(desc)
			return errs[i]
		})
	}
	// errgroup only joins; errs keeps every failure, not just the first.
	g.Wait()
	table.Close()

	report := &Report{
		Order:    d.cfg.Order.String(),
		Hold:     d.cfg.Hold,
		Elapsed:  time.Since(start),
		Outcomes: outcomes,
		Forks:    mon.stats(),
	}
	for _, err := range errs {
		if err != nil {
			report.Failures = append(report.Failures, err.Error())
		}
	}
	if v := report.Violations(); v > 0 {
		errs = append(errs, fmt.Errorf("dinner: %d mutual exclusion violations", v))
	}
	if err := errors.Join(errs...); err != nil {
		d.logger.Println(color.RedString("❌ dinner finished in %s with %d failures", report.Elapsed, len(report.Failures)))
		return report, err
	}
	d.logger.Println(color.GreenString("✓ dinner finished in %s", report.Elapsed))
	return report, nil
}
