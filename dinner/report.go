package dinner

import (
	"fmt"
	"io"
	"time"

	"github.com/nickng/dinephil/philosopher"
	"gopkg.in/yaml.v3"
)

// ForkStats is the use of one fork during a dinner.
type ForkStats struct {
	Index        int `yaml:"index"`
	Acquisitions int `yaml:"acquisitions"`
	Tainted      int `yaml:"tainted,omitempty"`
	Violations   int `yaml:"violations,omitempty"`
}

// Report summarises one Run.
type Report struct {
	Order    string                 `yaml:"order"`
	Hold     time.Duration          `yaml:"hold"`
	Elapsed  time.Duration          `yaml:"elapsed"`
	Outcomes []*philosopher.Outcome `yaml:"philosophers"`
	Forks    []ForkStats            `yaml:"forks"`
	Failures []string               `yaml:"failures,omitempty"`
}

// Violations is the number of times a fork was seen with two holders.
func (r *Report) Violations() int {
	n := 0
	for _, f := range r.Forks {
		n += f.Violations
	}
	return n
}

// Ate returns the number of philosophers who finished eating.
func (r *Report) Ate() int {
	n := 0
	for _, o := range r.Outcomes {
		if o != nil && o.Ate() {
			n++
		}
	}
	return n
}

// WriteTo writes the report as YAML.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	b, err := yaml.Marshal(r)
	if err != nil {
		return 0, fmt.Errorf("encode report: %w", err)
	}
	n, err := w.Write(b)
	return int64(n), err
}

// ReadReport decodes a report written by WriteTo.
func ReadReport(r io.Reader) (*Report, error) {
	report := new(Report)
	if err := yaml.NewDecoder(r).Decode(report); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return report, nil
}
