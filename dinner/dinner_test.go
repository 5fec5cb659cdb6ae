package dinner

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nickng/dinephil/forks"
	"github.com/nickng/dinephil/philosopher"
)

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// checkOutput verifies that every name started and finished exactly once,
// and started before it finished.
func checkOutput(t *testing.T, out string, names []string) {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2*len(names) {
		t.Fatalf("output: wrong number of lines (got %d, expects %d)\n%s", len(lines), 2*len(names), out)
	}
	for _, name := range names {
		start, done := -1, -1
		for i, line := range lines {
			switch line {
			case name + " is started eating!":
				if start != -1 {
					t.Errorf("%s started twice", name)
				}
				start = i
			case name + " is Done eating!":
				if done != -1 {
					t.Errorf("%s finished twice", name)
				}
				done = i
			}
		}
		if start == -1 || done == -1 || done < start {
			t.Errorf("%s: bad start/done lines (start=%d, done=%d)", name, start, done)
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	d, err := New(DefaultConfig(), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Seating()) != 5 {
		t.Errorf("default dinner: wrong number of seats (got %d, expects 5)", len(d.Seating()))
	}
	if err := philosopher.ValidateRing(d.Seating(), 5); err != nil {
		t.Error(err)
	}
	if d.Order() != philosopher.LowestFirst {
		t.Errorf("default order (got %s, expects %s)", d.Order(), philosopher.LowestFirst)
	}
}

func TestNewRejectsMalformed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seating = []philosopher.Descriptor{{Name: "a", Left: 0, Right: 1}, {Name: "b", Left: 1, Right: 9}}
	_, err := New(cfg, nil, nil)
	var descErr *philosopher.DescriptorError
	if !errors.As(err, &descErr) || descErr.Seat != 1 {
		t.Errorf("expecting DescriptorError at seat 1 (got %v)", err)
	}
	if _, err := New(Config{}, nil, nil); err == nil {
		t.Error("expecting empty dinner to be rejected")
	}
	if _, err := New(Config{Names: []string{"alone"}}, nil, nil); err == nil {
		t.Error("expecting single seat dinner to be rejected")
	}

	spare := DefaultConfig()
	spare.Forks = 7
	if _, err := New(spare, nil, nil); err == nil {
		t.Error("expecting 5 philosophers at a table of 7 forks to be rejected")
	}

	crowded := DefaultConfig()
	crowded.Seating = nil
	for _, name := range philosopher.DefaultNames {
		crowded.Seating = append(crowded.Seating, philosopher.Descriptor{Name: name, Left: 0, Right: 1})
	}
	_, err = New(crowded, nil, nil)
	if !errors.As(err, &descErr) || descErr.Seat != 1 {
		t.Errorf("expecting DescriptorError at seat 1 for a shared link (got %v)", err)
	}

	wrapped := DefaultConfig()
	wrapped.Seating = philosopher.Ring(philosopher.DefaultNames)
	wrapped.Seating[4].Left, wrapped.Seating[4].Right = 0, 4
	if _, err := New(wrapped, nil, nil); err != nil {
		t.Errorf("seat (0,4) closes the ring: %v", err)
	}
}

func TestRunRefusesCircularWait(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Order = philosopher.LeftFirst
	cfg.Eat = func(philosopher.Descriptor) {}
	cfg.Tracer = newBarrier(len(philosopher.DefaultNames))
	out := new(lockedBuffer)
	d, err := New(cfg, out, nil)
	if err != nil {
		t.Fatal(err)
	}
	done := make(chan error, 1)
	go func() {
		report, err := d.Run()
		if report != nil {
			t.Errorf("no report expected for a refused dinner (got %+v)", report)
		}
		done <- err
	}()
	select {
	case err := <-done:
		if !errors.Is(err, ErrCircularWait) {
			t.Errorf("expecting %v (got %v)", ErrCircularWait, err)
		}
	case <-time.After(time.Second):
		t.Fatal("left-first dinner was run and hung")
	}
	if out.String() != "" {
		t.Errorf("nobody should have eaten:\n%s", out.String())
	}
}

func TestScenario(t *testing.T) {
	const hold = 50 * time.Millisecond
	out := new(lockedBuffer)
	cfg := DefaultConfig()
	cfg.Hold = hold
	d, err := New(cfg, out, nil)
	if err != nil {
		t.Fatal(err)
	}
	report, err := d.Run()
	if err != nil {
		t.Fatal(err)
	}
	checkOutput(t, out.String(), philosopher.DefaultNames)
	if report.Ate() != 5 {
		t.Errorf("report: wrong number of fed philosophers (got %d, expects 5)", report.Ate())
	}
	if report.Elapsed > 10*hold {
		t.Errorf("dinner took too long (got %s, budget %s)", report.Elapsed, 10*hold)
	}
	for _, f := range report.Forks {
		if f.Acquisitions != 2 {
			t.Errorf("fork %d: wrong number of hand-overs (got %d, expects 2)", f.Index, f.Acquisitions)
		}
	}
}

func TestScenarioFullHold(t *testing.T) {
	if testing.Short() {
		t.Skip("full length dinner")
	}
	out := new(lockedBuffer)
	d, err := New(DefaultConfig(), out, nil)
	if err != nil {
		t.Fatal(err)
	}
	start := time.Now()
	if _, err := d.Run(); err != nil {
		t.Fatal(err)
	}
	checkOutput(t, out.String(), philosopher.DefaultNames)
	if elapsed := time.Since(start); elapsed > 10*philosopher.DefaultHold {
		t.Errorf("dinner took too long (got %s)", elapsed)
	}
}

func TestRunJoinsAfterFailure(t *testing.T) {
	out := new(lockedBuffer)
	cfg := DefaultConfig()
	cfg.Eat = func(d philosopher.Descriptor) {
		if d.Name == "Karl Marx" {
			panic("choked on dialectics")
		}
		time.Sleep(5 * time.Millisecond)
	}
	d, err := New(cfg, out, nil)
	if err != nil {
		t.Fatal(err)
	}
	report, err := d.Run()
	var exitErr *philosopher.AbnormalExitError
	if !errors.As(err, &exitErr) || exitErr.Name != "Karl Marx" {
		t.Fatalf("expecting AbnormalExitError for Karl Marx (got %v)", err)
	}
	if report.Ate() != 4 {
		t.Errorf("the others should still eat (got %d, expects 4)", report.Ate())
	}
	if len(report.Failures) != 1 {
		t.Errorf("report: wrong number of failures (got %d, expects 1)", len(report.Failures))
	}
	tainted := 0
	for _, f := range report.Forks {
		tainted += f.Tainted
	}
	// Forks 2 and 3 are tainted; whoever takes them next sees it, unless
	// nobody took them after the crash.
	if tainted > 2 {
		t.Errorf("too many tainted hand-overs (got %d)", tainted)
	}
}

type holdTracer struct {
	t       *testing.T
	mu      sync.Mutex
	holders map[int]string
}

func (h *holdTracer) Acquired(index int, holder string, status forks.Status) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if other, held := h.holders[index]; held {
		h.t.Errorf("fork %d taken by %s while held by %s", index, holder, other)
	}
	h.holders[index] = holder
}

func (h *holdTracer) Released(index int, holder string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.holders, index)
}

func TestStress(t *testing.T) {
	iterations := 1000
	if testing.Short() {
		iterations = 100
	}
	cfg := DefaultConfig()
	cfg.Eat = func(philosopher.Descriptor) {}
	cfg.Tracer = &holdTracer{t: t, holders: make(map[int]string)}
	res, err := Stress(cfg, iterations, time.Second, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Completed != iterations || res.Hangs != 0 || res.Violations != 0 {
		t.Errorf("stress: %s", res)
	}
}

func TestStressTimedHold(t *testing.T) {
	const hold = 20 * time.Millisecond
	cfg := DefaultConfig()
	cfg.Hold = hold
	res, err := Stress(cfg, 20, 10*hold, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Slowest > 10*hold {
		t.Errorf("slowest dinner over budget (got %s)", res.Slowest)
	}
}

// barrier holds every philosopher on its first fork until all of them have
// one, which is the worst case for a ring.
type barrier struct {
	mu    sync.Mutex
	seen  map[string]bool
	ready sync.WaitGroup
}

func newBarrier(n int) *barrier {
	b := &barrier{seen: make(map[string]bool)}
	b.ready.Add(n)
	return b
}

func (b *barrier) Acquired(index int, holder string, status forks.Status) {
	b.mu.Lock()
	first := !b.seen[holder]
	b.seen[holder] = true
	b.mu.Unlock()
	if first {
		b.ready.Done()
		b.ready.Wait()
	}
}

func (b *barrier) Released(int, string) {}

func TestStressDetectsLeftFirstDeadlock(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Order = philosopher.LeftFirst
	cfg.Eat = func(philosopher.Descriptor) {}
	cfg.Tracer = newBarrier(len(philosopher.DefaultNames))
	res, err := Stress(cfg, 1, 200*time.Millisecond, nil)
	if !errors.Is(err, ErrDeadlock) {
		t.Fatalf("expecting %v (got %v)", ErrDeadlock, err)
	}
	if res.Hangs != 1 {
		t.Errorf("stress: wrong number of hangs (got %d, expects 1)", res.Hangs)
	}
}

func TestReportRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Hold = time.Millisecond
	d, _ := New(cfg, nil, nil)
	report, err := d.Run()
	if err != nil {
		t.Fatal(err)
	}
	buf := new(bytes.Buffer)
	if _, err := report.WriteTo(buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "order: lowest-first") {
		t.Errorf("report should name the order:\n%s", buf.String())
	}
	back, err := ReadReport(buf)
	if err != nil {
		t.Fatal(err)
	}
	if back.Hold != time.Millisecond || len(back.Outcomes) != 5 || back.Ate() != 5 {
		t.Errorf("report read back wrong: hold=%s outcomes=%d ate=%d", back.Hold, len(back.Outcomes), back.Ate())
	}
	foucault := back.Outcomes[4]
	if foucault.Name != "Michel Foucault" || foucault.First != 0 || foucault.Second != 4 {
		t.Errorf("wrap-around seat read back wrong: %+v", foucault)
	}
}
