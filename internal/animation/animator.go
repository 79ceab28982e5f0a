package animation

import (
	"sync"
	"time"
)

// Animator owns at most one in-flight counter run. Starting a new run or
// stopping cancels the previous one, and a generation number keeps a late
// tick from the old run from overwriting the displayed value.
type Animator struct {
	scheduler Scheduler

	mu      sync.Mutex
	gen     uint64
	cancel  CancelFunc
	value   int
	running bool
}

// NewAnimator creates an animator driven by scheduler.
func NewAnimator(scheduler Scheduler) *Animator {
	return &Animator{scheduler: scheduler}
}

// Start reveals counter from zero, calling onValue with every displayed
// value. onValue runs with the animator locked and must not call back into
// it.
func (a *Animator) Start(counter Counter, onValue func(int)) {
	a.mu.Lock()
	a.gen++
	gen := a.gen
	prev := a.cancel
	a.value = 0
	a.running = true
	a.mu.Unlock()

	if prev != nil {
		prev()
	}

	var start time.Time
	cancel := a.scheduler.Schedule(func(now time.Time) bool {
		a.mu.Lock()
		defer a.mu.Unlock()

		if a.gen != gen {
			return false
		}
		if start.IsZero() {
			start = now
		}

		elapsed := now.Sub(start)
		a.value = counter.ValueAt(elapsed)
		done := counter.Done(elapsed)
		if done {
			a.running = false
		}
		if onValue != nil {
			onValue(a.value)
		}
		return !done
	})

	a.mu.Lock()
	if a.gen == gen {
		a.cancel = cancel
		a.mu.Unlock()
		return
	}
	a.mu.Unlock()
	// superseded while scheduling
	cancel()
}

// Stop cancels the in-flight run, if any. The last displayed value is kept.
func (a *Animator) Stop() {
	a.mu.Lock()
	a.gen++
	prev := a.cancel
	a.cancel = nil
	a.running = false
	a.mu.Unlock()

	if prev != nil {
		prev()
	}
}

// Value returns the last displayed value.
func (a *Animator) Value() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.value
}

// Running reports whether a run is in flight.
func (a *Animator) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}
