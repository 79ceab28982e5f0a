// Package animation provides the value-reveal counter used by dashboard
// metrics and a cancellable tick scheduler that drives it.
package animation

import (
	"math"
	"time"
)

// EaseOutQuart is 1 - (1-p)^4 with p clamped to [0, 1].
func EaseOutQuart(p float64) float64 {
	p = math.Max(0, math.Min(1, p))
	return 1 - math.Pow(1-p, 4)
}

// Counter reveals an integer from 0 to Target over Duration.
type Counter struct {
	Target   int           `json:"target"`
	Duration time.Duration `json:"duration"`
}

// Progress returns the elapsed fraction clamped to [0, 1].
func (c Counter) Progress(elapsed time.Duration) float64 {
	if c.Duration <= 0 {
		return 1
	}
	return math.Max(0, math.Min(1, float64(elapsed)/float64(c.Duration)))
}

// Done reports whether the counter has reached its target at elapsed.
func (c Counter) Done(elapsed time.Duration) bool {
	return c.Progress(elapsed) >= 1
}

// ValueAt returns the displayed integer after elapsed time.
func (c Counter) ValueAt(elapsed time.Duration) int {
	if c.Done(elapsed) {
		return c.Target
	}
	return int(math.Floor(EaseOutQuart(c.Progress(elapsed)) * float64(c.Target)))
}

// Frame is one sampled counter value.
type Frame struct {
	Elapsed time.Duration `json:"-"`
	Value   int           `json:"value"`
}

// ElapsedMillis is the frame offset in milliseconds.
func (f Frame) ElapsedMillis() int64 {
	return f.Elapsed.Milliseconds()
}

// Frames samples the counter every step from 0 through Duration. The last
// frame always carries the target.
func (c Counter) Frames(step time.Duration) []Frame {
	if step <= 0 || c.Duration <= 0 {
		return []Frame{{Elapsed: 0, Value: c.Target}}
	}

	frames := make([]Frame, 0, int(c.Duration/step)+2)
	for elapsed := time.Duration(0); elapsed < c.Duration; elapsed += step {
		frames = append(frames, Frame{Elapsed: elapsed, Value: c.ValueAt(elapsed)})
	}
	return append(frames, Frame{Elapsed: c.Duration, Value: c.Target})
}
