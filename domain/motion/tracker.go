// Package motion gates detected positions against jitter and attributes
// movement to a player.
package motion

import (
	"github.com/soocke/pong-tracker-go/config"
	"github.com/soocke/pong-tracker-go/domain/frame"
	"github.com/soocke/pong-tracker-go/domain/ring"
)

// Tracker keeps a short history of observed positions and of positions that
// passed the jitter gate. Not safe for concurrent use.
type Tracker struct {
	jitter   float64
	observed *ring.Buffer[frame.Position]
	accepted *ring.Buffer[frame.Position]
}

// NewTracker returns a Tracker configured from cfg. If cfg is nil the default
// configuration is used.
func NewTracker(cfg *config.Config) *Tracker {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	size := cfg.HistorySize
	if size < 2 {
		size = 2
	}
	return &Tracker{
		jitter:   cfg.JitterThresholdPx,
		observed: ring.New[frame.Position](size),
		accepted: ring.New[frame.Position](size),
	}
}

// Observe records p and reports whether it moved farther than the jitter
// threshold from the previous observation. On significant motion both the
// previous and the new observation are accepted; the previous one only if
// it is not already the newest accepted position.
func (t *Tracker) Observe(p frame.Position) bool {
	t.observed.Push(p)
	if !t.HasSignificantMotion() {
		return false
	}
	prev, _ := t.observed.Recent(1)
	if last, ok := t.accepted.Recent(0); !ok || last != prev {
		t.accepted.Push(prev)
	}
	t.accepted.Push(p)
	return true
}

// HasSignificantMotion reports whether the latest two observations are more
// than the jitter threshold apart.
func (t *Tracker) HasSignificantMotion() bool {
	cur, ok1 := t.observed.Recent(0)
	prev, ok2 := t.observed.Recent(1)
	if !ok1 || !ok2 {
		return false
	}
	return cur.Dist(prev) > t.jitter
}

// Velocity is the displacement between the two newest accepted positions.
func (t *Tracker) Velocity() (frame.Vector, bool) {
	cur, ok1 := t.accepted.Recent(0)
	prev, ok2 := t.accepted.Recent(1)
	if !ok1 || !ok2 {
		return frame.Vector{}, false
	}
	return cur.Sub(prev), true
}

// Latest returns the newest observation.
func (t *Tracker) Latest() (frame.Position, bool) { return t.observed.Recent(0) }

// LatestAccepted returns the newest position that passed the jitter gate.
func (t *Tracker) LatestAccepted() (frame.Position, bool) { return t.accepted.Recent(0) }

// Reset clears both histories.
func (t *Tracker) Reset() {
	t.observed.Reset()
	t.accepted.Reset()
}
