package speed

import (
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/soocke/pong-tracker-go/domain/ring"
)

// FrameRate estimates the effective frames per second from a rolling window
// of inter-frame intervals.
type FrameRate struct {
	intervals *ring.Buffer[float64]
	last      time.Time
	fps       float64
}

// NewFrameRate returns an estimator averaging the last window intervals.
func NewFrameRate(window int) *FrameRate {
	return &FrameRate{intervals: ring.New[float64](window)}
}

// Tick records a frame timestamp and returns the current estimate. ok is
// false on the first frame and whenever the interval is not positive; such
// intervals are dropped and the previous timestamp is kept.
func (r *FrameRate) Tick(ts time.Time) (fps float64, ok bool) {
	if r.last.IsZero() {
		r.last = ts
		return 0, false
	}
	dt := ts.Sub(r.last).Seconds()
	if dt <= 0 {
		return r.fps, false
	}
	r.last = ts
	r.intervals.Push(dt)
	mean := stat.Mean(r.intervals.Values(), nil)
	if mean <= 0 {
		return r.fps, false
	}
	r.fps = 1 / mean
	return r.fps, true
}

// FPS returns the last estimate, or 0 before two frames were seen.
func (r *FrameRate) FPS() float64 { return r.fps }

// Reset forgets all intervals.
func (r *FrameRate) Reset() {
	r.intervals.Reset()
	r.last = time.Time{}
	r.fps = 0
}
