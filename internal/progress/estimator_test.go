package progress

import (
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu      sync.Mutex
	updates []Update
}

func (r *recorder) emit(u Update) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, u)
}

func (r *recorder) values() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int, len(r.updates))
	for i, u := range r.updates {
		out[i] = u.Progress
	}
	return out
}

func assertIncreasing(t *testing.T, values []int) {
	t.Helper()
	for i := 1; i < len(values); i++ {
		if values[i] <= values[i-1] {
			t.Fatalf("values not strictly increasing at %d: %v", i, values)
		}
	}
}

func TestScale(t *testing.T) {
	tests := []struct {
		base, share    int
		current, total float64
		want           int
	}{
		{0, 25, 5, 10, 13},
		{0, 25, 0, 10, 0},
		{0, 25, 20, 10, 25},
		{2, 97, 5, 10, 51},
		{25, 70, -1, 10, 25},
		{25, 70, 5, 0, 25},
	}
	for _, tt := range tests {
		if got := Scale(tt.base, tt.share, tt.current, tt.total); got != tt.want {
			t.Errorf("Scale(%d,%d,%v,%v) = %d, want %d", tt.base, tt.share, tt.current, tt.total, got, tt.want)
		}
	}
}

func TestReportIsMonotonic(t *testing.T) {
	rec := &recorder{}
	est := New(rec.emit)
	for _, v := range []int{0, 10, 5, 10, 30, 29, 150} {
		est.Report(v, "step")
	}
	got := rec.values()
	want := []int{0, 10, 30, 100}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if est.Current() != 100 {
		t.Fatalf("Current = %d", est.Current())
	}
}

func TestSimulatedReachesCeilingAndStops(t *testing.T) {
	rec := &recorder{}
	est := New(rec.emit)
	est.StartSimulated(25, 95, 50*time.Millisecond, 5*time.Millisecond, "recognizing")

	deadline := time.Now().Add(2 * time.Second)
	for est.Current() < 95 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if est.Current() != 95 {
		t.Fatalf("expected ceiling 95, got %d", est.Current())
	}
	est.Report(99, "capped")
	if est.Current() != 95 {
		t.Fatalf("report above ceiling should be capped, got %d", est.Current())
	}
	est.Complete("done")
	values := rec.values()
	assertIncreasing(t, values)
	if values[0] != 25 || values[len(values)-1] != 100 {
		t.Fatalf("unexpected bounds %v", values)
	}
}

func TestStopHaltsTicker(t *testing.T) {
	est := New(nil)
	est.StartSimulated(25, 95, time.Hour, 10*time.Millisecond, "")
	est.Stop()
	if est.Running() {
		t.Fatal("expected ticker stopped")
	}
	before := est.Current()
	time.Sleep(40 * time.Millisecond)
	if est.Current() != before {
		t.Fatalf("ticker kept running: %d -> %d", before, est.Current())
	}
	est.Stop()
}

func TestMeasuredBlendsWithSimulated(t *testing.T) {
	rec := &recorder{}
	est := New(rec.emit)
	est.StartSimulated(25, 95, time.Hour, time.Hour, "recognizing")
	est.Measured(25, 70, 5, 10, "segment")
	if est.Current() != 60 {
		t.Fatalf("expected measured value 60, got %d", est.Current())
	}
	est.Measured(25, 70, 4, 10, "older segment")
	if est.Current() != 60 {
		t.Fatalf("progress moved backwards: %d", est.Current())
	}
	est.Complete("done")
	assertIncreasing(t, rec.values())
}

func TestConcurrentReports(t *testing.T) {
	rec := &recorder{}
	est := New(rec.emit)
	var wg sync.WaitGroup
	for w := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for v := w; v <= 100; v += 4 {
				est.Report(v, "")
			}
		}()
	}
	wg.Wait()
	assertIncreasing(t, rec.values())
	if est.Current() != 100 {
		t.Fatalf("expected 100, got %d", est.Current())
	}
}
