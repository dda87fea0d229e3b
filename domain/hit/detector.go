// Package hit turns the filtered speed stream into debounced paddle-hit
// events and keeps the per-player shot log.
package hit

import (
	"log/slog"
	"math"
	"time"

	"github.com/soocke/pong-tracker-go/config"
)

// State is the detector state at a point in time.
type State int

const (
	// Idle accepts a new hit.
	Idle State = iota
	// Armed is the refractory window after a confirmed hit.
	Armed
)

func (s State) String() string {
	if s == Armed {
		return "armed"
	}
	return "idle"
}

// Detector confirms a hit when the filtered speed departs from its rolling
// average by more than the change threshold while inside the plausible
// speed band. Not safe for concurrent use.
type Detector struct {
	cooldown  time.Duration
	threshold float64
	minSpeed  float64
	maxSpeed  float64
	logger    *slog.Logger

	lastHit time.Time
	hasHit  bool
}

// NewDetector returns a Detector configured from cfg. If cfg is nil the
// default configuration is used.
func NewDetector(cfg *config.Config, logger *slog.Logger) *Detector {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Detector{
		cooldown:  time.Duration(cfg.HitCooldownMilli) * time.Millisecond,
		threshold: cfg.ChangeThreshold,
		minSpeed:  cfg.MinSpeed,
		maxSpeed:  cfg.MaxSpeed,
		logger:    logger,
	}
}

// State reports whether at falls inside the cooldown of the last hit.
func (d *Detector) State(at time.Time) State {
	if d.hasHit && at.Sub(d.lastHit) < d.cooldown {
		return Armed
	}
	return Idle
}

// Qualifies applies the change-threshold and band checks without touching
// the cooldown.
func (d *Detector) Qualifies(speed, average float64) bool {
	if math.IsNaN(speed) || math.IsNaN(average) {
		return false
	}
	return math.Abs(speed-average) > d.threshold && speed > d.minSpeed && speed < d.maxSpeed
}

// Observe evaluates one filtered speed sample taken at time at. A confirmed
// hit arms the cooldown and returns true.
func (d *Detector) Observe(speed, average float64, at time.Time) bool {
	if d.State(at) == Armed {
		return false
	}
	if !d.Qualifies(speed, average) {
		return false
	}
	d.lastHit = at
	d.hasHit = true
	if d.logger != nil {
		d.logger.Debug("hit confirmed", "speed", speed, "average", average, "cooldown", d.cooldown)
	}
	return true
}

// LastHit returns the time of the last confirmed hit.
func (d *Detector) LastHit() (time.Time, bool) { return d.lastHit, d.hasHit }

// Reset clears the cooldown.
func (d *Detector) Reset() {
	d.lastHit = time.Time{}
	d.hasHit = false
}
