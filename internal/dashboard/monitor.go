package dashboard

import (
	"fmt"
	"sync"
	"time"

	"ednaviz/internal/animation"
	"ednaviz/internal/logger"
	"ednaviz/internal/models"
)

// DefaultAnalysisDuration is how long a simulated analysis stays processing
const DefaultAnalysisDuration = 5 * time.Second

// AfterFunc runs f once after d and returns a function that prevents the
// call if it has not happened yet. time.AfterFunc satisfies it via
// TimerAfter.
type AfterFunc func(d time.Duration, f func()) (stop func() bool)

// TimerAfter adapts time.AfterFunc
func TimerAfter(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// DefaultClockInterval is the resolution of the monitor clock
const DefaultClockInterval = time.Second

// MonitorConfig configures a MonitorView. Without a Clock scheduler the
// clock is read from Now on demand, truncated to ClockInterval.
type MonitorConfig struct {
	Clock            animation.Scheduler
	ClockInterval    time.Duration
	AnalysisDuration time.Duration
	After            AfterFunc
	Now              func() time.Time
}

// MonitorView owns the live clock, the simulated analysis run and the
// sample selected in the recent analyses table.
type MonitorView struct {
	mu         sync.RWMutex
	now        time.Time
	processing bool
	selected   int // analysis id, 0 when none
	gen        uint64
	stopRun    func() bool
	stopClock  animation.CancelFunc
	closed     bool

	ticking  bool
	interval time.Duration
	nowFn    func() time.Time
	duration time.Duration
	after    AfterFunc
	log      *logger.Logger
}

// NewMonitorView creates the view and, when cfg.Clock is set, starts the
// clock on it
func NewMonitorView(cfg MonitorConfig) *MonitorView {
	if cfg.AnalysisDuration <= 0 {
		cfg.AnalysisDuration = DefaultAnalysisDuration
	}
	if cfg.After == nil {
		cfg.After = TimerAfter
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.ClockInterval <= 0 {
		cfg.ClockInterval = DefaultClockInterval
	}

	v := &MonitorView{
		now:      cfg.Now(),
		ticking:  cfg.Clock != nil,
		interval: cfg.ClockInterval,
		nowFn:    cfg.Now,
		duration: cfg.AnalysisDuration,
		after:    cfg.After,
		log:      logger.Component("monitor"),
	}
	if !v.ticking {
		return v
	}
	v.stopClock = cfg.Clock.Schedule(func(now time.Time) bool {
		v.mu.Lock()
		defer v.mu.Unlock()
		v.now = now
		return !v.closed
	})
	return v
}

// Now returns the last clock tick, or the current time truncated to the
// clock interval when no scheduler drives the clock
func (v *MonitorView) Now() time.Time {
	if !v.ticking {
		return v.nowFn().Truncate(v.interval)
	}
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.now
}

// StartAnalysis marks an analysis as processing. It clears after the
// configured duration; starting again while processing restarts the wait.
func (v *MonitorView) StartAnalysis() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.gen++
	gen := v.gen
	prev := v.stopRun
	v.processing = true
	v.stopRun = v.after(v.duration, func() { v.finish(gen) })
	v.mu.Unlock()

	if prev != nil {
		prev()
	}
	v.log.Debug("analysis started", logger.Fields{"duration": v.duration.String()})
}

func (v *MonitorView) finish(gen uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.gen {
		return
	}
	v.processing = false
	v.stopRun = nil
}

// Processing reports whether a simulated analysis is running
func (v *MonitorView) Processing() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.processing
}

// SelectSample highlights an entry of the recent analyses table
func (v *MonitorView) SelectSample(id int) error {
	found := false
	for _, a := range models.RecentAnalyses() {
		if a.ID == id {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: analysis %d", ErrOutOfRange, id)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.selected = id
	return nil
}

// SelectedSample returns the highlighted analysis id, 0 when none
func (v *MonitorView) SelectedSample() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.selected
}

// Close stops the clock and any pending analysis timer
func (v *MonitorView) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	v.gen++
	stopRun, stopClock := v.stopRun, v.stopClock
	v.stopRun = nil
	v.processing = false
	v.mu.Unlock()

	if stopRun != nil {
		stopRun()
	}
	if stopClock != nil {
		stopClock()
	}
}
