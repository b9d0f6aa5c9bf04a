package progress

import (
	"math"
	"sync"
	"time"
)

// Update is one emitted progress value.
type Update struct {
	Progress int
	Message  string
}

// Estimator tracks the highest percentage reported for a job and forwards
// strictly increasing values to emit. It is safe for concurrent use; emit is
// called with the estimator's lock held, so it must not call back into the
// estimator.
type Estimator struct {
	mu      sync.Mutex
	emit    func(Update)
	current int
	started bool
	ceiling int
	stop    chan struct{}
	done    chan struct{}
}

// New returns an estimator that forwards updates to emit. A nil emit is
// allowed; the estimator then only tracks state.
func New(emit func(Update)) *Estimator {
	return &Estimator{emit: emit, current: -1}
}

// Current returns the last emitted value, or 0 before the first emission.
func (e *Estimator) Current() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return max(e.current, 0)
}

// Report emits value when it exceeds everything emitted so far. Values are
// clamped to 0..100. It reports whether an update was emitted.
func (e *Estimator) Report(value int, message string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reportLocked(value, message)
}

func (e *Estimator) reportLocked(value int, message string) bool {
	value = min(max(value, 0), 100)
	if e.started && e.ceiling > 0 && value > e.ceiling && value < 100 {
		value = e.ceiling
	}
	if value <= e.current {
		return false
	}
	e.current = value
	if e.emit != nil {
		e.emit(Update{Progress: value, Message: message})
	}
	return true
}

// Measured maps current/total onto the band [base, base+share] and reports
// it. A non-positive total reports base.
func (e *Estimator) Measured(base, share int, current, total float64, message string) bool {
	return e.Report(Scale(base, share, current, total), message)
}

// Scale returns base + clamp(0, share, round(current/total*share)).
func Scale(base, share int, current, total float64) int {
	if total <= 0 || share <= 0 || math.IsNaN(current) {
		return base
	}
	step := int(math.Round(current / total * float64(share)))
	return base + min(max(step, 0), share)
}

// StartSimulated begins a ticker that spreads (ceiling-base) evenly over
// estimated, emitting at every interval. Values reported meanwhile through
// Report or Measured are capped at ceiling until Stop. Calling it while a
// ticker is already running is a no-op.
func (e *Estimator) StartSimulated(base, ceiling int, estimated, interval time.Duration, message string) {
	e.mu.Lock()
	if e.started {
		e.mu.Unlock()
		return
	}
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	if estimated < interval {
		estimated = interval
	}
	e.started = true
	e.ceiling = ceiling
	e.stop = make(chan struct{})
	e.done = make(chan struct{})
	e.reportLocked(base, message)
	stop, done := e.stop, e.done
	e.mu.Unlock()

	steps := float64(estimated) / float64(interval)
	increment := float64(ceiling-base) / steps
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		value := float64(base)
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				value = math.Min(value+increment, float64(ceiling))
				e.Report(int(value), message)
				if value >= float64(ceiling) {
					return
				}
			}
		}
	}()
}

// Running reports whether a simulated ticker has been started and not stopped.
func (e *Estimator) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.started
}

// Stop halts the simulated ticker, waiting for it to exit. It is safe to
// call when no ticker is running, and more than once.
func (e *Estimator) Stop() {
	e.mu.Lock()
	if !e.started {
		e.mu.Unlock()
		return
	}
	e.started = false
	e.ceiling = 0
	stop, done := e.stop, e.done
	e.mu.Unlock()

	close(stop)
	<-done
}

// Complete stops any ticker and emits 100.
func (e *Estimator) Complete(message string) {
	e.Stop()
	e.Report(100, message)
}
