package dinner

import (
	"sync"

	"github.com/nickng/dinephil/forks"
)

// monitor counts hand-overs per fork and catches overlapping holders.
type monitor struct {
	mu     sync.Mutex
	forks  []ForkStats
	holder []string
	next   forks.Tracer
}

func newMonitor(n int, next forks.Tracer) *monitor {
	m := &monitor{forks: make([]ForkStats, n), holder: make([]string, n), next: next}
	for i := range m.forks {
		m.forks[i].Index = i
	}
	return m
}

func (m *monitor) Acquired(index int, holder string, status forks.Status) {
	m.mu.Lock()
	f := &m.forks[index]
	f.Acquisitions++
	if status == forks.Tainted {
		f.Tainted++
	}
	if m.holder[index] != "" {
		f.Violations++
	}
	m.holder[index] = holder
	m.mu.Unlock()
	if m.next != nil {
		m.next.Acquired(index, holder, status)
	}
}

func (m *monitor) Released(index int, holder string) {
	m.mu.Lock()
	if m.holder[index] != holder {
		m.forks[index].Violations++
	}
	m.holder[index] = ""
	m.mu.Unlock()
	if m.next != nil {
		m.next.Released(index, holder)
	}
}

func (m *monitor) stats() []ForkStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ForkStats(nil), m.forks...)
}
