package presenter

import (
	"log/slog"
	"time"

	"github.com/soocke/pong-tracker-go/domain/capture"
)

// StatsSource exposes capture instrumentation.
type StatsSource interface {
	Running() bool
	Stats() capture.CaptureStats
}

// StatusView shows a one-line status message.
type StatusView interface{ SetStatus(string) }

// StallWatcher notices when a running capture stops delivering frames, e.g.
// a camera unplugged or a replay directory emptied, and reports it once per
// stall.
type StallWatcher struct {
	Source    StatsSource
	View      StatusView
	Logger    *slog.Logger
	OnStall   func()
	threshold time.Duration
	interval  time.Duration
	lastPoll  time.Time
	stalled   bool
	lastSeq   uint64
	lastMove  time.Time
}

// NewStallWatcher reports a stall when no new frame arrived for threshold.
func NewStallWatcher(src StatsSource, view StatusView, logger *slog.Logger, threshold time.Duration) *StallWatcher {
	if threshold <= 0 {
		threshold = 2 * time.Second
	}
	return &StallWatcher{Source: src, View: view, Logger: logger, threshold: threshold, interval: 250 * time.Millisecond}
}

// Tick polls the source at most once per interval.
func (w *StallWatcher) Tick(now time.Time) {
	if w == nil || w.Source == nil {
		return
	}
	if !w.lastPoll.IsZero() && now.Sub(w.lastPoll) < w.interval {
		return
	}
	w.lastPoll = now
	if !w.Source.Running() {
		w.stalled = false
		w.lastMove = time.Time{}
		return
	}
	seq := w.Source.Stats().Sequence
	if w.lastMove.IsZero() || seq != w.lastSeq {
		w.lastSeq, w.lastMove = seq, now
		if w.stalled {
			w.stalled = false
			w.status("Capture resumed")
		}
		return
	}
	if w.stalled || now.Sub(w.lastMove) < w.threshold {
		return
	}
	w.stalled = true
	if w.Logger != nil {
		w.Logger.Warn("capture stalled", "since", now.Sub(w.lastMove), "sequence", seq)
	}
	w.status("Capture stalled: no new frames")
	if w.OnStall != nil {
		w.OnStall()
	}
}

// Stalled reports whether the last poll saw a stall.
func (w *StallWatcher) Stalled() bool { return w != nil && w.stalled }

func (w *StallWatcher) status(s string) {
	if w.View != nil {
		w.View.SetStatus(s)
	}
}
