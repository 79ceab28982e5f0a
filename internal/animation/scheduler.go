package animation

import (
	"context"
	"sync"
	"time"
)

// DefaultFrameInterval approximates one display refresh.
const DefaultFrameInterval = 16 * time.Millisecond

// CancelFunc stops a scheduled tick. It is idempotent.
type CancelFunc func()

// Scheduler runs tick repeatedly until tick returns false or the returned
// CancelFunc is called.
type Scheduler interface {
	Schedule(tick func(now time.Time) bool) CancelFunc
}

// TickerScheduler fires ticks from a time.Ticker on its own goroutine.
type TickerScheduler struct {
	interval time.Duration
}

// NewTickerScheduler returns a scheduler ticking every interval.
func NewTickerScheduler(interval time.Duration) *TickerScheduler {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &TickerScheduler{interval: interval}
}

// Interval returns the tick period.
func (s *TickerScheduler) Interval() time.Duration {
	return s.interval
}

// Schedule starts ticking. Once the returned CancelFunc returns, tick is
// never invoked again. The CancelFunc must not be called from inside tick;
// return false instead.
func (s *TickerScheduler) Schedule(tick func(now time.Time) bool) CancelFunc {
	ctx, cancel := context.WithCancel(context.Background())

	// held for the duration of each tick so cancel waits out an in-flight one
	var running sync.Mutex

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				running.Lock()
				if ctx.Err() != nil {
					running.Unlock()
					return
				}
				more := tick(now)
				running.Unlock()
				if !more {
					cancel()
					return
				}
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			running.Lock()
			cancel()
			running.Unlock()
		})
	}
}
