// Package speed turns pixel velocities into smoothed physical speeds.
package speed

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/soocke/pong-tracker-go/config"
	"github.com/soocke/pong-tracker-go/domain/calibration"
	"github.com/soocke/pong-tracker-go/domain/frame"
	"github.com/soocke/pong-tracker-go/domain/ring"
)

// Sample is one filtered speed reading.
type Sample struct {
	Speed float64
	At    time.Time
}

// Estimator applies a single-pole filter to raw speeds and keeps the session
// maximum and a rolling window for the average. Speeds are in table units
// (the calibration's length unit) per second. Not safe for concurrent use.
type Estimator struct {
	gain     float64
	filtered float64
	max      float64
	window   *ring.Buffer[Sample]
}

// NewEstimator returns an Estimator configured from cfg. If cfg is nil the
// default configuration is used.
func NewEstimator(cfg *config.Config) *Estimator {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	gain := cfg.FilterGain
	if gain <= 0 || gain >= 1 {
		gain = config.DefaultConfig().FilterGain
	}
	return &Estimator{gain: gain, window: ring.New[Sample](cfg.SpeedWindow)}
}

// Raw converts a per-frame pixel displacement to units per second. It
// returns false when the scale or frame rate cannot produce a finite value.
func Raw(v frame.Vector, scale calibration.Scale, fps float64) (float64, bool) {
	if !scale.Valid() || fps <= 0 || math.IsNaN(fps) || math.IsInf(fps, 0) {
		return 0, false
	}
	raw := scale.ToUnits(v.Len()) * fps
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 0, false
	}
	return raw, true
}

// Update feeds one displacement observed at the given time and returns the
// filtered speed. With an unusable scale or frame rate nothing changes and
// false is returned.
func (e *Estimator) Update(v frame.Vector, scale calibration.Scale, fps float64, at time.Time) (float64, bool) {
	raw, ok := Raw(v, scale, fps)
	if !ok {
		return e.filtered, false
	}
	e.filtered += e.gain * (raw - e.filtered)
	if e.filtered > e.max {
		e.max = e.filtered
	}
	e.window.Push(Sample{Speed: e.filtered, At: at})
	return e.filtered, true
}

// Current is the latest filtered speed.
func (e *Estimator) Current() float64 { return e.filtered }

// Max is the highest filtered speed since the last Reset.
func (e *Estimator) Max() float64 { return e.max }

// Average is the mean of the rolling window, or 0 when empty.
func (e *Estimator) Average() float64 {
	if e.window.Len() == 0 {
		return 0
	}
	samples := e.window.Values()
	speeds := make([]float64, len(samples))
	for i, s := range samples {
		speeds[i] = s.Speed
	}
	return stat.Mean(speeds, nil)
}

// Samples returns the rolling window oldest first.
func (e *Estimator) Samples() []Sample { return e.window.Values() }

// Reset clears the filter, the maximum and the window.
func (e *Estimator) Reset() {
	e.filtered = 0
	e.max = 0
	e.window.Reset()
}
