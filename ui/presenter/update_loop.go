package presenter

import "time"

// Loop aggregates feature presenters and drives periodic updates.
//
// It calls Tick/ProcessFrame on the sub-presenters and invokes a
// scheduler callback. The zero value is usable (methods are nil-safe).
type Loop struct {
	Session  *SessionPresenter
	Mode     *ModePresenter
	Tracking *TrackingPresenter
	Stall    *StallWatcher
	Schedule func()
}

func NewLoop(sess *SessionPresenter, mode *ModePresenter, tracking *TrackingPresenter, stall *StallWatcher, schedule func()) *Loop {
	return &Loop{Session: sess, Mode: mode, Tracking: tracking, Stall: stall, Schedule: schedule}
}

func (l *Loop) Tick() {
	if l == nil {
		return
	}
	now := time.Now()
	// Results first so the mode label and timers see this tick's state.
	if l.Tracking != nil {
		l.Tracking.ProcessFrame()
	}
	if l.Mode != nil {
		l.Mode.Tick(now)
	}
	if l.Session != nil {
		l.Session.Tick(now)
	}
	if l.Stall != nil {
		l.Stall.Tick(now)
	}
	if l.Schedule != nil {
		l.Schedule()
	}
}
