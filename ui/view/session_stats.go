package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/soocke/pong-tracker-go/domain/motion"
	"github.com/soocke/pong-tracker-go/ui/model"

	//lint:ignore ST1001 Dot import for concise Tk widget DSL.
	. "modernc.org/tk9.0"
)

// SessionStats shows tracking durations, speeds and the recent shots of
// each player.
type SessionStats interface {
	SetSession(run, total time.Duration)
	SetSpeeds(r model.SpeedReadout)
	SetShots(p motion.Player, lines []string)
}

type sessionStats struct {
	runLbl     *LabelWidget
	totalLbl   *LabelWidget
	currentLbl *LabelWidget
	maxLbl     *LabelWidget
	avgLbl     *LabelWidget
	lastLbl    *LabelWidget
	fpsLbl     *LabelWidget
	shotLbls   map[motion.Player]*LabelWidget
}

// NewSessionStats lays the labels out in parent: timers on row 0, speeds on
// row 1, per-player shot lists on row 2.
func NewSessionStats(parent *FrameWidget) SessionStats {
	s := &sessionStats{shotLbls: make(map[motion.Player]*LabelWidget)}
	place := func(w *LabelWidget, row, col int) {
		Grid(w, In(parent), Row(row), Column(col), Sticky("w"), Padx("0.2m"))
	}
	s.runLbl = Label(Width(14), Txt("Run: 00:00"))
	s.totalLbl = Label(Width(14), Txt("Total: 00:00"))
	place(s.runLbl, 0, 0)
	place(s.totalLbl, 0, 1)

	s.currentLbl = Label(Width(18), Txt("Speed: -"))
	s.maxLbl = Label(Width(18), Txt("Max: -"))
	s.avgLbl = Label(Width(18), Txt("Avg: -"))
	s.lastLbl = Label(Width(16), Txt("Last hit: -"))
	s.fpsLbl = Label(Width(10), Txt("FPS: -"))
	for i, w := range []*LabelWidget{s.currentLbl, s.maxLbl, s.avgLbl, s.lastLbl, s.fpsLbl} {
		place(w, 1, i)
	}

	for i, p := range []motion.Player{motion.Player1, motion.Player2} {
		lbl := Label(Anchor("nw"), Justify("left"), Width(24), Txt(shotsText(p, nil)))
		Grid(lbl, In(parent), Row(2), Column(i*2), Columnspan(2), Sticky("w"), Padx("0.2m"))
		s.shotLbls[p] = lbl
	}
	return s
}

func mmss(d time.Duration) string {
	seconds := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func (s *sessionStats) SetSession(run, total time.Duration) {
	if s == nil {
		return
	}
	s.runLbl.Configure(Txt("Run: " + mmss(run)))
	s.totalLbl.Configure(Txt("Total: " + mmss(total)))
}

func (s *sessionStats) SetSpeeds(r model.SpeedReadout) {
	if s == nil {
		return
	}
	s.currentLbl.Configure(Txt("Speed: " + r.Current))
	s.maxLbl.Configure(Txt("Max: " + r.Max))
	s.avgLbl.Configure(Txt("Avg: " + r.Average))
	s.lastLbl.Configure(Txt("Last hit: " + r.LastPlayer))
	s.fpsLbl.Configure(Txt("FPS: " + r.FPS))
}

func (s *sessionStats) SetShots(p motion.Player, lines []string) {
	if s == nil {
		return
	}
	if lbl := s.shotLbls[p]; lbl != nil {
		lbl.Configure(Txt(shotsText(p, lines)))
	}
}

func shotsText(p motion.Player, lines []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s last shots:", p)
	if len(lines) == 0 {
		b.WriteString("\n  -")
	}
	for _, l := range lines {
		b.WriteString("\n  " + l)
	}
	return b.String()
}
