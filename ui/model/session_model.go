package model

import (
	"time"
)

// SessionModel times tracking runs: the current run and the total tracked
// time of the session. Presenters poll Values and push them to views.
// The zero value is ready to use.
type SessionModel struct {
	active   bool
	runStart time.Time
	lastRun  time.Duration
	total    time.Duration
}

// NewSessionModel returns a pointer to a ready-to-use SessionModel.
func NewSessionModel() *SessionModel { return &SessionModel{} }

// OnTick advances the timers given whether tracking is active at now.
func (m *SessionModel) OnTick(tracking bool, now time.Time) {
	if m == nil {
		return
	}
	switch {
	case tracking && !m.active:
		m.active = true
		m.runStart = now
		m.lastRun = 0
	case tracking:
		m.lastRun = now.Sub(m.runStart)
	case m.active:
		m.lastRun = now.Sub(m.runStart)
		m.total += m.lastRun
		m.active = false
	}
}

// Values returns the current (or last) run duration and the session total,
// which includes the ongoing run.
func (m *SessionModel) Values() (run, total time.Duration) {
	if m == nil {
		return 0, 0
	}
	run, total = m.lastRun, m.total
	if m.active {
		total += run
	}
	return run, total
}

// Reset clears both timers, e.g. when the tracking session is reset.
func (m *SessionModel) Reset() {
	if m == nil {
		return
	}
	*m = SessionModel{}
}
