package presenter

import (
	"time"

	"github.com/soocke/pong-tracker-go/domain/tracker"
)

// ModeView sets the mode label in the view.
type ModeView interface{ SetModeLabel(string) }

// ModePresenter reflects session mode changes in the mode label. Modes are
// queued by the tracking presenter and flushed on Tick.
type ModePresenter struct {
	view    ModeView
	latest  tracker.Mode
	shown   bool
	pending []tracker.Mode
}

func NewModePresenter(view ModeView) *ModePresenter {
	return &ModePresenter{view: view}
}

// OnMode queues m; the latest queued mode is shown on the next Tick.
func (p *ModePresenter) OnMode(m tracker.Mode) {
	if p == nil {
		return
	}
	p.pending = append(p.pending, m)
}

// Tick shows the most recent queued mode if it differs from the label.
func (p *ModePresenter) Tick(now time.Time) {
	if p == nil || p.view == nil || len(p.pending) == 0 {
		return
	}
	last := p.pending[len(p.pending)-1]
	p.pending = p.pending[:0]
	if p.shown && last == p.latest {
		return
	}
	p.latest, p.shown = last, true
	p.view.SetModeLabel("Mode: " + last.String())
}
