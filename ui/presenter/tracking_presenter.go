package presenter

import (
	"context"
	"errors"
	"fmt"
	"image"
	imgcolor "image/color"
	"log/slog"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/soocke/pong-tracker-go/config"
	"github.com/soocke/pong-tracker-go/domain/capture"
	"github.com/soocke/pong-tracker-go/domain/hit"
	"github.com/soocke/pong-tracker-go/domain/motion"
	"github.com/soocke/pong-tracker-go/domain/tracker"
	"github.com/soocke/pong-tracker-go/domain/units"
	"github.com/soocke/pong-tracker-go/ui/images"
	"github.com/soocke/pong-tracker-go/ui/model"
)

const (
	// Preview bounds; clicks on the preview are mapped back through them.
	PreviewMaxW = 480
	PreviewMaxH = 300

	closeUpSize = 48
	closeUpZoom = 3
)

var markerColor = imgcolor.RGBA{R: 0, G: 255, B: 80, A: 255}

// TrackingView describes the UI surface updated by the presenter.
type TrackingView interface {
	UpdateCapture(img image.Image)
	UpdateCloseUp(img image.Image)
	SetSpeeds(r model.SpeedReadout)
	SetShots(p motion.Player, lines []string)
	SetStatus(text string)
}

// Exporter writes a report for a session's shots and returns a short
// description of where it went.
type Exporter func(session uuid.UUID, shots []hit.ShotRecord) (string, error)

type command struct {
	name string
	run  func(s *tracker.Session) (string, error)
}

type resultKind int

const (
	resultFrame resultKind = iota + 1
	resultCommand
	resultExport
	resultReconfigure
)

type trackingResult struct {
	kind     resultKind
	name     string
	frame    tracker.FrameResult
	state    tracker.State
	preview  image.Image
	closeUp  image.Image
	bounds   image.Rectangle
	recent   map[motion.Player][]hit.ShotRecord
	message  string
	err      error
	sequence uint64
	units    [2]string // length, display; set on reconfigure
}

// TrackingPresenter feeds captured frames to a tracker.Session and relays
// results to the view. One worker goroutine owns the Session; frames and UI
// commands reach it through channels so the Tk thread never blocks on the
// pipeline.
type TrackingPresenter struct {
	Enabled func() bool
	Source  capture.FrameSource
	View    TrackingView
	Model   *model.TrackingModel
	Modes   *ModePresenter
	Export  Exporter
	cfg     *config.Config
	logger  *slog.Logger

	session   *tracker.Session
	listeners []tracker.ShotListener

	workerOnce sync.Once
	closeOnce  sync.Once
	ctx        context.Context
	cancel     context.CancelFunc
	done       chan struct{}
	frames     chan capture.FrameSnapshot
	commands   chan command
	results    chan trackingResult

	// Tk thread only.
	pendingCfg  *config.Config
	lengthUnit  string
	displayUnit string
	lastSeq     uint64
	previewSize image.Point
	frameBounds image.Rectangle
}

// NewTrackingPresenter wraps session. listeners are subscribed to confirmed
// hits on the worker goroutine and must not block.
func NewTrackingPresenter(enabled func() bool, source capture.FrameSource, view TrackingView, m *model.TrackingModel, modes *ModePresenter, session *tracker.Session, cfg *config.Config, logger *slog.Logger, listeners ...tracker.ShotListener) *TrackingPresenter {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if session == nil {
		session = tracker.New(cfg, logger)
	}
	if m == nil {
		m = model.NewTrackingModel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &TrackingPresenter{
		Enabled:     enabled,
		Source:      source,
		View:        view,
		Model:       m,
		Modes:       modes,
		cfg:         cfg,
		lengthUnit:  cfg.LengthUnit,
		displayUnit: cfg.DisplayUnit,
		logger:      logger,
		session:     session,
		listeners:   listeners,
		ctx:         ctx,
		cancel:      cancel,
		done:        make(chan struct{}),
		frames:      make(chan capture.FrameSnapshot, 1),
		commands:    make(chan command, 16),
		results:     make(chan trackingResult, 32),
	}
}

// Tracking reports whether the last published state was tracking.
func (p *TrackingPresenter) Tracking() bool { return p != nil && p.Model.Tracking() }

// ProcessFrame applies finished worker results and hands the newest capture
// to the worker. Call it from the UI tick.
func (p *TrackingPresenter) ProcessFrame() {
	if p == nil {
		return
	}
	p.ensureWorker()

	for drained := false; !drained; {
		select {
		case res := <-p.results:
			p.handleResult(res)
		default:
			drained = true
		}
	}
	p.flushReconfigure()

	if p.Source == nil || (p.Enabled != nil && !p.Enabled()) || !p.Source.Running() {
		return
	}
	snap := p.Source.LatestFrame()
	if snap.Empty() || snap.Sequence == p.lastSeq {
		return
	}
	p.lastSeq = snap.Sequence
	// drop the pending frame if the worker has not picked it up yet
	select {
	case p.frames <- snap:
	default:
		select {
		case <-p.frames:
		default:
		}
		select {
		case p.frames <- snap:
		default:
		}
	}
}

// Close stops the worker and waits for it to exit.
func (p *TrackingPresenter) Close() {
	if p == nil {
		return
	}
	p.closeOnce.Do(func() {
		p.cancel()
		// never started: nothing will close done otherwise
		p.workerOnce.Do(func() { close(p.done) })
		<-p.done
	})
}

// StartColorCalibration begins ball color picks.
func (p *TrackingPresenter) StartColorCalibration() {
	p.submit("start color calibration", func(s *tracker.Session) (string, error) {
		if err := s.StartColorCalibration(); err != nil {
			return "", err
		}
		return fmt.Sprintf("Click the ball (0/%d)", p.cfg.RequiredColorSamples), nil
	})
}

// FinishColorCalibration ends color picks early.
func (p *TrackingPresenter) FinishColorCalibration() {
	p.submit("finish color calibration", func(s *tracker.Session) (string, error) {
		if err := s.FinishColorCalibration(); err != nil {
			return "", err
		}
		return "Ball color calibrated: " + s.ColorRange().String(), nil
	})
}

// StartTableCalibration begins the two table-end picks.
func (p *TrackingPresenter) StartTableCalibration() {
	p.submit("start table calibration", func(s *tracker.Session) (string, error) {
		if err := s.StartTableCalibration(); err != nil {
			return "", err
		}
		return "Click both ends of the table (0/2)", nil
	})
}

// CalibrateTableFromFraction assumes the table spans the configured share
// of the frame width.
func (p *TrackingPresenter) CalibrateTableFromFraction() {
	p.submit("table from fraction", func(s *tracker.Session) (string, error) {
		if err := s.CalibrateTableFromFraction(p.cfg.TableFraction); err != nil {
			return "", err
		}
		return "Table calibrated: " + s.Scale().String(), nil
	})
}

// StartTracking starts the pipeline.
func (p *TrackingPresenter) StartTracking() {
	p.submit("start tracking", func(s *tracker.Session) (string, error) {
		if err := s.StartTracking(); err != nil {
			return "", err
		}
		return "Tracking", nil
	})
}

// StopTracking stops the pipeline. Safe to call when not tracking.
func (p *TrackingPresenter) StopTracking() {
	p.submit("stop tracking", func(s *tracker.Session) (string, error) {
		if s.Mode() != tracker.ModeTracking {
			return "", nil
		}
		s.StopTracking()
		return "Tracking stopped", nil
	})
}

// Reset starts a new session keeping calibrations.
func (p *TrackingPresenter) Reset() {
	p.submit("reset", func(s *tracker.Session) (string, error) {
		s.Reset()
		return "Session reset", nil
	})
}

// Reconfigure replaces the session with one built from cfg. Calibrations
// and the shot log do not carry over; the new session gets a new ID. It
// never blocks: when the worker queue is full the request waits for the next
// ProcessFrame tick, and a newer request replaces an unsent one.
func (p *TrackingPresenter) Reconfigure(cfg config.Config) {
	if p == nil {
		return
	}
	p.pendingCfg = &cfg
	p.ensureWorker()
	p.flushReconfigure()
}

func (p *TrackingPresenter) flushReconfigure() {
	if p.pendingCfg == nil {
		return
	}
	cfg := *p.pendingCfg
	cmd := command{name: "reconfigure", run: func(*tracker.Session) (string, error) {
		if err := cfg.Validate(); err != nil {
			return "", err
		}
		p.cfg = &cfg
		p.session = tracker.New(p.cfg, p.logger)
		p.subscribe(p.session)
		return "Settings applied: calibrate again", nil
	}}
	select {
	case p.commands <- cmd:
		p.pendingCfg = nil
	default:
		p.setStatus("Busy, applying settings shortly")
	}
}

// Click handles a click at (px, py) on the preview. Depending on the
// session mode it becomes a color pick or a table point.
func (p *TrackingPresenter) Click(px, py int) {
	if p == nil {
		return
	}
	pt, ok := images.PreviewToFrame(image.Pt(px, py), p.previewSize, p.frameBounds)
	if !ok {
		return
	}
	pt = pt.Sub(p.frameBounds.Min)
	p.submit("pick", func(s *tracker.Session) (string, error) {
		switch s.Mode() {
		case tracker.ModeCalibratingColor:
			n, err := s.AddColorCalibrationSample(pt.X, pt.Y)
			if err != nil {
				return "", err
			}
			if s.Mode() != tracker.ModeCalibratingColor {
				return "Ball color calibrated: " + s.ColorRange().String(), nil
			}
			return fmt.Sprintf("Click the ball (%d/%d)", n, p.cfg.RequiredColorSamples), nil
		case tracker.ModeCalibratingTable:
			n, err := s.AddTableCalibrationPoint(pt.X, pt.Y)
			if err != nil {
				return "", err
			}
			if n == 2 {
				return "Table calibrated: " + s.Scale().String(), nil
			}
			return fmt.Sprintf("Click both ends of the table (%d/2)", n), nil
		default:
			return "", nil
		}
	})
}

// ExportReport writes a report of the current session via Export. The file
// work runs off the worker goroutine.
func (p *TrackingPresenter) ExportReport() {
	if p == nil || p.Export == nil {
		return
	}
	p.submit("export", func(s *tracker.Session) (string, error) {
		id, shots := s.ID(), s.ShotLog().All()
		if len(shots) == 0 {
			return "", errors.New("no shots to export")
		}
		go func() {
			msg, err := p.Export(id, shots)
			p.post(trackingResult{kind: resultExport, name: "export", message: msg, err: err}, true)
		}()
		return fmt.Sprintf("Exporting %d shots...", len(shots)), nil
	})
}

func (p *TrackingPresenter) submit(name string, run func(s *tracker.Session) (string, error)) {
	if p == nil {
		return
	}
	p.ensureWorker()
	select {
	case p.commands <- command{name: name, run: run}:
	default:
		if p.logger != nil {
			p.logger.Warn("tracking command dropped", "command", name)
		}
		p.setStatus("Busy, try again")
	}
}

func (p *TrackingPresenter) ensureWorker() {
	p.workerOnce.Do(func() {
		go p.runWorker()
	})
}

func (p *TrackingPresenter) runWorker() {
	defer close(p.done)
	defer func() {
		if r := recover(); r != nil && p.logger != nil {
			p.logger.Error("tracking worker panic", "error", r, "stack", string(debug.Stack()))
		}
	}()
	p.subscribe(p.session)
	for {
		select {
		case <-p.ctx.Done():
			return
		case cmd := <-p.commands:
			p.execCommand(cmd)
		case snap := <-p.frames:
			p.execFrame(snap)
		}
	}
}

func (p *TrackingPresenter) subscribe(s *tracker.Session) {
	for _, l := range p.listeners {
		s.Subscribe(l)
	}
}

func (p *TrackingPresenter) execCommand(cmd command) {
	msg, err := cmd.run(p.session)
	if err != nil && p.logger != nil {
		p.logger.Info("tracking command rejected", "command", cmd.name, "error", err)
	}
	res := trackingResult{
		kind:    resultCommand,
		name:    cmd.name,
		message: msg,
		err:     err,
		state:   p.session.State(),
		recent:  p.recent(),
	}
	if cmd.name == "reconfigure" && err == nil {
		res.kind = resultReconfigure
		res.units = [2]string{p.cfg.LengthUnit, p.cfg.DisplayUnit}
	}
	p.post(res, true)
}

func (p *TrackingPresenter) execFrame(snap capture.FrameSnapshot) {
	res := p.session.ProcessFrame(snap.Frame(), snap.CapturedAt)
	out := trackingResult{
		kind:     resultFrame,
		frame:    res,
		state:    p.session.State(),
		bounds:   snap.Image.Bounds(),
		sequence: snap.Sequence,
	}
	out.preview = p.renderPreview(snap.Image, res)
	if res.Detected {
		cx, cy := res.Position.Round()
		b := snap.Image.Bounds().Min
		if img, _, err := images.CloseUp(snap.Image, b.X+cx, b.Y+cy, closeUpSize, closeUpZoom); err == nil {
			out.closeUp = img
		}
	}
	if res.Hit != nil {
		out.recent = p.recent()
	}
	// hits must reach the UI; plain frames may be dropped
	p.post(out, res.Hit != nil)
}

func (p *TrackingPresenter) renderPreview(img *image.RGBA, res tracker.FrameResult) image.Image {
	scaled := images.ScaleToFit(img, PreviewMaxW, PreviewMaxH)
	if !res.Detected {
		return scaled
	}
	rgba, ok := scaled.(*image.RGBA)
	if !ok {
		return scaled
	}
	sb, fb := rgba.Bounds(), img.Bounds()
	x := sb.Min.X + int(res.Position.X*float64(sb.Dx())/float64(fb.Dx()))
	y := sb.Min.Y + int(res.Position.Y*float64(sb.Dy())/float64(fb.Dy()))
	return images.Crosshair(rgba, x, y, 6, markerColor)
}

func (p *TrackingPresenter) recent() map[motion.Player][]hit.ShotRecord {
	return map[motion.Player][]hit.ShotRecord{
		motion.Player1: p.session.RecentShots(motion.Player1, model.RecentShotCount),
		motion.Player2: p.session.RecentShots(motion.Player2, model.RecentShotCount),
	}
}

func (p *TrackingPresenter) post(res trackingResult, must bool) {
	if must {
		select {
		case p.results <- res:
		case <-p.ctx.Done():
		}
		return
	}
	select {
	case p.results <- res:
	default:
	}
}

func (p *TrackingPresenter) handleResult(res trackingResult) {
	switch res.kind {
	case resultExport:
		if res.err != nil {
			if p.logger != nil {
				p.logger.Error("report export", "error", res.err)
			}
			p.setStatus("Export failed: " + res.err.Error())
			return
		}
		p.setStatus(res.message)
		return
	case resultReconfigure:
		p.lengthUnit, p.displayUnit = res.units[0], res.units[1]
		p.setStatus(res.message)
	case resultCommand:
		if res.err != nil {
			p.setStatus(describeError(res.name, res.err))
		} else if res.message != "" {
			p.setStatus(res.message)
		}
	case resultFrame:
		p.frameBounds = res.bounds
		if res.preview != nil {
			p.previewSize = res.preview.Bounds().Size()
			if p.View != nil {
				p.View.UpdateCapture(res.preview)
			}
		}
		if res.closeUp != nil && p.View != nil {
			p.View.UpdateCloseUp(res.closeUp)
		}
		if res.frame.Hit != nil {
			h := res.frame.Hit
			p.setStatus(fmt.Sprintf("Hit by %s at %s", h.Player, p.formatSpeed(h.Speed)))
		}
	}
	p.Model.SetState(res.state)
	if p.Modes != nil {
		p.Modes.OnMode(res.state.Mode)
	}
	if res.recent != nil {
		for pl, shots := range res.recent {
			p.Model.SetRecent(pl, shots)
		}
		p.pushShots()
	}
	p.pushSpeeds(res.state)
}

func (p *TrackingPresenter) pushSpeeds(s tracker.State) {
	if p.View == nil {
		return
	}
	last := "-"
	if s.LastPlayer != motion.PlayerNone {
		last = s.LastPlayer.String()
	}
	p.View.SetSpeeds(model.SpeedReadout{
		Current:    p.formatSpeed(s.CurrentSpeed),
		Max:        p.formatSpeed(s.MaxSpeed),
		Average:    p.formatSpeed(s.AverageSpeed),
		LastPlayer: last,
		FPS:        fmt.Sprintf("%.1f", s.FPS),
	})
}

func (p *TrackingPresenter) pushShots() {
	if p.View == nil {
		return
	}
	for _, pl := range []motion.Player{motion.Player1, motion.Player2} {
		shots := p.Model.Recent(pl)
		lines := make([]string, 0, len(shots))
		for _, s := range shots {
			lines = append(lines, p.formatSpeed(s.Speed))
		}
		p.View.SetShots(pl, lines)
	}
}

func (p *TrackingPresenter) formatSpeed(v float64) string {
	d := units.ToDisplay(v, p.lengthUnit, p.displayUnit)
	return fmt.Sprintf("%.1f %s", d, units.Label(p.displayUnit))
}

func (p *TrackingPresenter) setStatus(s string) {
	p.Model.SetStatus(s)
	if p.View != nil {
		p.View.SetStatus(s)
	}
}

func describeError(name string, err error) string {
	switch {
	case errors.Is(err, tracker.ErrNotCalibrated):
		return "Calibrate the ball color and the table first"
	case errors.Is(err, tracker.ErrTrackingActive):
		return "Stop tracking before calibrating"
	case errors.Is(err, tracker.ErrCalibrationActive):
		return "Finish the current calibration first"
	case errors.Is(err, tracker.ErrNoFrame):
		return "No frame yet: start capture first"
	}
	msg := err.Error()
	if i := strings.LastIndex(msg, ": "); i >= 0 && strings.HasPrefix(msg, "tracker") {
		msg = msg[i+2:]
	}
	return fmt.Sprintf("%s: %s", name, msg)
}
