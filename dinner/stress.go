package dinner

import (
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/fatih/color"
)

// ErrDeadlock is returned by Stress when a dinner did not finish within its
// time budget.
var ErrDeadlock = errors.New("dinner did not finish in time, probably deadlocked")

// StressResult summarises repeated dinners.
type StressResult struct {
	Iterations int
	Completed  int
	Hangs      int
	Failures   int
	Violations int
	Slowest    time.Duration
}

func (r *StressResult) String() string {
	return fmt.Sprintf("%d/%d dinners completed (%d hung, %d failed, %d violations, slowest %s)",
		r.Completed, r.Iterations, r.Hangs, r.Failures, r.Violations, r.Slowest)
}

// Stress runs the dinner iterations times. A run that takes longer than
// budget counts as a hang. The goroutines of a hung dinner cannot be
// cancelled and stay blocked until the process exits.
//
// Unlike Run, Stress accepts any order, so a left-first dinner can be shown
// to hang.
func Stress(cfg Config, iterations int, budget time.Duration, logger *log.Logger) (*StressResult, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	d, err := New(cfg, nil, logger)
	if err != nil {
		return nil, err
	}
	res := &StressResult{Iterations: iterations}
	for i := 0; i < iterations; i++ {
		type result struct {
			report *Report
			err    error
		}
		done := make(chan result, 1)
		go func() {
			report, err := d.run()
			done <- result{report, err}
		}()
		select {
		case r := <-done:
			res.Completed++
			if r.err != nil {
				res.Failures++
			}
			res.Violations += r.report.Violations()
			if r.report.Elapsed > res.Slowest {
				res.Slowest = r.report.Elapsed
			}
		case <-time.After(budget):
			res.Hangs++
			logger.Println(color.RedString("❌ iteration %d did not finish within %s", i, budget))
		}
	}
	if res.Hangs > 0 {
		return res, fmt.Errorf("%w: %s", ErrDeadlock, res)
	}
	if res.Failures > 0 || res.Violations > 0 {
		return res, fmt.Errorf("stress: %s", res)
	}
	return res, nil
}
