// Package tracker runs the per-frame ball tracking pipeline for one session:
// calibration, segmentation, motion gating, speed estimation and hit
// attribution.
package tracker

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/soocke/pong-tracker-go/config"
	"github.com/soocke/pong-tracker-go/domain/calibration"
	"github.com/soocke/pong-tracker-go/domain/color"
	"github.com/soocke/pong-tracker-go/domain/frame"
	"github.com/soocke/pong-tracker-go/domain/hit"
	"github.com/soocke/pong-tracker-go/domain/motion"
	"github.com/soocke/pong-tracker-go/domain/segment"
	"github.com/soocke/pong-tracker-go/domain/speed"
)

// ShotListener receives confirmed hits synchronously from ProcessFrame.
// Listeners must not block.
type ShotListener func(hit.ShotRecord)

type subscription struct {
	id int
	fn ShotListener
}

// Session owns all tracking state for one table. It is not safe for
// concurrent use: a single driver goroutine calls ProcessFrame once per frame
// and serializes UI commands with it.
type Session struct {
	cfg    *config.Config
	logger *slog.Logger
	id     uuid.UUID

	model     *color.Model
	segmenter *segment.Segmenter
	motion    *motion.Tracker
	attr      *motion.Attributor
	rate      *speed.FrameRate
	speed     *speed.Estimator
	detector  *hit.Detector
	shots     *hit.Log

	mode         Mode
	colorDone    bool
	tableDone    bool
	colorSamples []color.HSV
	tablePoints  []frame.Position
	scale        calibration.Scale

	last        frame.Frame
	hasFrame    bool
	position    frame.Position
	hasPosition bool

	subs   []subscription
	nextID int
}

// New returns an idle, uncalibrated session. If cfg is nil the default
// configuration is used.
func New(cfg *config.Config, logger *slog.Logger) *Session {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	s := &Session{
		cfg:       cfg,
		logger:    logger,
		id:        uuid.New(),
		model:     color.NewModelFromConfig(cfg, logger),
		segmenter: segment.New(cfg, logger),
		motion:    motion.NewTracker(cfg),
		attr:      motion.NewAttributor(0),
		rate:      speed.NewFrameRate(cfg.FrameRateWindow),
		speed:     speed.NewEstimator(cfg),
		detector:  hit.NewDetector(cfg, logger),
		shots:     hit.NewLog(),
	}
	return s
}

// ID identifies the session in persisted shot records.
func (s *Session) ID() uuid.UUID { return s.id }

// Mode returns the current mode.
func (s *Session) Mode() Mode { return s.mode }

// Subscribe registers fn for every confirmed hit and returns a function that
// removes it. Cancelling from inside a listener is allowed; the hit being
// dispatched still reaches every listener registered when it fired.
func (s *Session) Subscribe(fn ShotListener) (cancel func()) {
	if fn == nil {
		return func() {}
	}
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	return func() {
		for i, sub := range s.subs {
			if sub.id == id {
				// copy: ProcessFrame may be ranging over the old slice
				s.subs = slices.Delete(slices.Clone(s.subs), i, i+1)
				return
			}
		}
	}
}

// StartColorCalibration begins collecting ball color picks.
func (s *Session) StartColorCalibration() error {
	switch s.mode {
	case ModeTracking:
		return ErrTrackingActive
	case ModeCalibratingTable:
		return ErrCalibrationActive
	}
	s.mode = ModeCalibratingColor
	s.colorSamples = s.colorSamples[:0]
	s.info("color calibration started", "required", s.cfg.RequiredColorSamples)
	return nil
}

// AddColorCalibrationSample averages the pixels around (x, y) of the last
// processed frame and adds the result as a pick. Calibration finishes on its
// own once the required number of picks is reached. It returns the number of
// picks collected so far.
func (s *Session) AddColorCalibrationSample(x, y int) (int, error) {
	if s.mode == ModeTracking {
		return len(s.colorSamples), ErrTrackingActive
	}
	if s.mode != ModeCalibratingColor {
		return len(s.colorSamples), ErrNotCalibrating
	}
	if !s.hasFrame {
		return len(s.colorSamples), ErrNoFrame
	}
	hsv, err := color.AverageWindow(s.last, x, y, s.cfg.SampleWindowPx)
	if err != nil {
		return len(s.colorSamples), fmt.Errorf("color pick at (%d,%d): %w", x, y, err)
	}
	s.colorSamples = append(s.colorSamples, hsv)
	n := len(s.colorSamples)
	s.debug("color sample added", "x", x, "y", y, "h", hsv.H, "s", hsv.S, "v", hsv.V, "count", n)
	if n >= s.cfg.RequiredColorSamples {
		if err := s.FinishColorCalibration(); err != nil {
			return n, err
		}
	}
	return n, nil
}

// FinishColorCalibration derives the color range from the picks collected so
// far. Without picks the range is left unchanged, calibration stays active
// and color.ErrNoData is returned.
func (s *Session) FinishColorCalibration() error {
	if s.mode != ModeCalibratingColor {
		return ErrNotCalibrating
	}
	if err := s.model.Calibrate(s.colorSamples); err != nil {
		return fmt.Errorf("finish color calibration: %w", err)
	}
	s.colorDone = true
	s.mode = ModeIdle
	s.info("color calibration completed", "samples", len(s.colorSamples), "range", s.model.Range().String())
	s.colorSamples = s.colorSamples[:0]
	return nil
}

// StartTableCalibration begins collecting the two table-end picks.
func (s *Session) StartTableCalibration() error {
	switch s.mode {
	case ModeTracking:
		return ErrTrackingActive
	case ModeCalibratingColor:
		return ErrCalibrationActive
	}
	s.mode = ModeCalibratingTable
	s.tablePoints = s.tablePoints[:0]
	s.info("table calibration started")
	return nil
}

// AddTableCalibrationPoint records one end of the table. The second point
// completes the calibration; a degenerate pair is rejected and both points
// are discarded so the user can pick again. It returns the number of points
// held after the call.
func (s *Session) AddTableCalibrationPoint(x, y int) (int, error) {
	if s.mode == ModeTracking {
		return len(s.tablePoints), ErrTrackingActive
	}
	if s.mode != ModeCalibratingTable {
		return len(s.tablePoints), ErrNotCalibrating
	}
	if s.hasFrame && !s.last.In(x, y) {
		return len(s.tablePoints), fmt.Errorf("table point (%d,%d): %w", x, y, ErrOutOfFrame)
	}
	s.tablePoints = append(s.tablePoints, frame.Pt(x, y))
	if len(s.tablePoints) < 2 {
		s.debug("table point added", "x", x, "y", y)
		return 1, nil
	}
	sc, err := calibration.FromTwoPoints(s.tablePoints[0], s.tablePoints[1], s.cfg.TableLength)
	s.tablePoints = s.tablePoints[:0]
	if err != nil {
		return 0, err
	}
	s.completeTable(sc)
	return 2, nil
}

// CalibrateTableFromFraction completes the table step assuming the table
// spans fraction of the last frame's width.
func (s *Session) CalibrateTableFromFraction(fraction float64) error {
	switch s.mode {
	case ModeTracking:
		return ErrTrackingActive
	case ModeCalibratingColor:
		return ErrCalibrationActive
	}
	if !s.hasFrame {
		return ErrNoFrame
	}
	sc, err := calibration.FromFraction(s.last.Width, fraction, s.cfg.TableLength)
	if err != nil {
		return err
	}
	s.completeTable(sc)
	return nil
}

func (s *Session) completeTable(sc calibration.Scale) {
	s.scale = sc
	s.tableDone = true
	s.tablePoints = s.tablePoints[:0]
	s.mode = ModeIdle
	s.info("table calibration completed", "scale", sc.String())
}

// StartTracking begins processing frames. Both calibrations must be complete
// and none may be in progress.
func (s *Session) StartTracking() error {
	switch s.mode {
	case ModeTracking:
		return nil
	case ModeCalibratingColor, ModeCalibratingTable:
		return ErrCalibrationActive
	}
	if !s.colorDone || !s.tableDone {
		return ErrNotCalibrated
	}
	s.motion.Reset()
	s.rate.Reset()
	s.hasPosition = false
	s.mode = ModeTracking
	s.info("tracking started", "session", s.id.String(), "range", s.model.Range().String(), "scale", s.scale.PixelsPerUnit)
	return nil
}

// StopTracking stops the pipeline. Frames are still retained for picks.
func (s *Session) StopTracking() {
	if s.mode != ModeTracking {
		return
	}
	s.mode = ModeIdle
	s.info("tracking stopped", "maxSpeed", s.speed.Max(), "shots", s.shots.Len())
}

// Reset starts a new session: speeds, maximum, history, attribution, cooldown
// and the shot log are cleared and a new session ID is issued. Completed
// calibrations are kept; any calibration or tracking in progress is ended.
func (s *Session) Reset() {
	s.mode = ModeIdle
	s.colorSamples = s.colorSamples[:0]
	s.tablePoints = s.tablePoints[:0]
	s.motion.Reset()
	s.attr.Reset()
	s.rate.Reset()
	s.speed.Reset()
	s.detector.Reset()
	s.shots.Reset()
	s.hasPosition = false
	s.id = uuid.New()
	s.info("session reset", "session", s.id.String())
}

// ProcessFrame runs one synchronous pipeline pass over f captured at ts.
// Outside tracking it only retains f for calibration picks. f is kept until
// the next call and must not be mutated meanwhile.
func (s *Session) ProcessFrame(f frame.Frame, ts time.Time) (res FrameResult) {
	start := time.Now()
	res.At = ts
	if !f.Valid() {
		s.debug("frame rejected", "width", f.Width, "height", f.Height, "channels", f.Channels)
		return res
	}
	if !s.hasFrame || f.Width != s.last.Width {
		s.attr.SetMidline(float64(f.Width) * s.cfg.MidlineFraction)
	}
	s.last, s.hasFrame = f, true
	if s.mode != ModeTracking {
		return res
	}
	defer func() { res.Elapsed = time.Since(start) }()

	fps, fpsOK := s.rate.Tick(ts)
	res.FPS = fps

	blob, ok := s.segmenter.Detect(f, s.model)
	res.Stats = s.segmenter.Stats()
	if !ok {
		return res
	}
	pos := segment.Refine(f, s.model, blob.Centroid, s.cfg.RefineRadiusPx)
	res.Detected, res.Blob, res.Position = true, blob, pos
	s.position, s.hasPosition = pos, true

	if !s.motion.Observe(pos) {
		return res
	}
	res.Moving = true
	v, ok := s.motion.Velocity()
	if !ok {
		return res
	}
	res.Velocity = v

	player, changed := s.attr.Attribute(pos, v)
	res.Player, res.PlayerChanged = player, changed
	if changed {
		s.debug("player attributed", "player", player.String(), "x", pos.X, "dx", v.DX)
	}

	if !fpsOK {
		s.debug("speed update skipped", "reason", "frame interval", "fps", fps)
		return res
	}
	spd, ok := s.speed.Update(v, s.scale, fps, ts)
	if !ok {
		return res
	}
	res.SpeedUpdated, res.Speed = true, spd

	if player == motion.PlayerNone {
		if s.detector.Qualifies(spd, s.speed.Average()) {
			s.debug("hit suppressed", "reason", "no player attributed", "speed", spd)
		}
		return res
	}
	if !s.detector.Observe(spd, s.speed.Average(), ts) {
		return res
	}
	rec := hit.NewShotRecord(s.id, player, spd, ts, pos)
	s.shots.Append(rec)
	res.Hit = &rec
	s.info("hit detected", "player", player.String(), "speed", spd, "average", s.speed.Average(), "x", pos.X, "y", pos.Y)
	for _, sub := range s.subs {
		sub.fn(rec)
	}
	return res
}

// CurrentPosition is the last refined ball position of this tracking run.
func (s *Session) CurrentPosition() (frame.Position, bool) { return s.position, s.hasPosition }

// Velocity is the displacement between the two newest accepted positions.
func (s *Session) Velocity() (frame.Vector, bool) { return s.motion.Velocity() }

// CurrentSpeed is the latest filtered speed in table units per second.
func (s *Session) CurrentSpeed() float64 { return s.speed.Current() }

// MaxSpeed is the session maximum.
func (s *Session) MaxSpeed() float64 { return s.speed.Max() }

// AverageSpeed is the rolling average used for hit detection.
func (s *Session) AverageSpeed() float64 { return s.speed.Average() }

// LastHitPlayer is the player the ball's motion was last attributed to.
func (s *Session) LastHitPlayer() motion.Player { return s.attr.Last() }

// Shots returns p's shots in the order they happened.
func (s *Session) Shots(p motion.Player) []hit.ShotRecord { return s.shots.Shots(p) }

// RecentShots returns up to n of p's shots, most recent first.
func (s *Session) RecentShots(p motion.Player, n int) []hit.ShotRecord { return s.shots.Recent(p, n) }

// ShotLog exposes the shot log for concurrent readers.
func (s *Session) ShotLog() *hit.Log { return s.shots }

// ColorRange is the current acceptance range.
func (s *Session) ColorRange() color.Range { return s.model.Range() }

// Scale is the current pixels-per-unit calibration.
func (s *Session) Scale() calibration.Scale { return s.scale }

// State returns a snapshot of the session.
func (s *Session) State() State {
	v, hasV := s.motion.Velocity()
	return State{
		SessionID:            s.id,
		Mode:                 s.mode,
		ColorCalibrated:      s.colorDone,
		TableCalibrated:      s.tableDone,
		ColorSamples:         len(s.colorSamples),
		RequiredColorSamples: s.cfg.RequiredColorSamples,
		TablePoints:          len(s.tablePoints),
		Range:                s.model.Range(),
		Scale:                s.scale,
		LastPlayer:           s.attr.Last(),
		CurrentSpeed:         s.speed.Current(),
		MaxSpeed:             s.speed.Max(),
		AverageSpeed:         s.speed.Average(),
		FPS:                  s.rate.FPS(),
		Position:             s.position,
		HasPosition:          s.hasPosition,
		Velocity:             v,
		HasVelocity:          hasV,
		Shots:                s.shots.Len(),
	}
}

func (s *Session) info(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}

func (s *Session) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
