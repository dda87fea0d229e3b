package presenter

import (
	"time"

	"github.com/soocke/pong-tracker-go/ui/model"
)

// TrackingStateModel reports whether the session is tracking.
type TrackingStateModel interface{ Tracking() bool }

// SessionView displays the current run and total tracked durations.
type SessionView interface {
	SetSession(run, total time.Duration)
}

// SessionPresenter times tracking runs and pushes durations to the view.
type SessionPresenter struct {
	sess     *model.SessionModel
	tracking TrackingStateModel
	view     SessionView
}

// NewSessionPresenter returns a new SessionPresenter.
func NewSessionPresenter(sess *model.SessionModel, tracking TrackingStateModel, view SessionView) *SessionPresenter {
	return &SessionPresenter{sess: sess, tracking: tracking, view: view}
}

// Tick advances the session model and pushes values to the view.
func (p *SessionPresenter) Tick(now time.Time) {
	if p == nil || p.sess == nil || p.tracking == nil || p.view == nil {
		return
	}
	p.sess.OnTick(p.tracking.Tracking(), now)
	run, total := p.sess.Values()
	p.view.SetSession(run, total)
}

// Reset zeroes the timers.
func (p *SessionPresenter) Reset() {
	if p != nil {
		p.sess.Reset()
	}
}
