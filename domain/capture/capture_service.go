package capture

import (
	"image"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"
)

const (
	captureStatsLogInterval = 5 * time.Second
	errorBackoff            = 50 * time.Millisecond
)

// CaptureService acquires frames from a Grabber and exposes the latest
// capture alongside instrumentation data. Use NewCaptureService to construct
// an instance.
type CaptureService interface {
	Start()
	Stop()
	LatestFrame() FrameSnapshot
	Running() bool
	SetSelectionProvider(func() *image.Rectangle)
	Stats() CaptureStats
}

type captureService struct {
	running      atomic.Bool
	latest       atomic.Pointer[FrameSnapshot]
	grabber      Grabber
	selMu        sync.RWMutex
	selFn        func() *image.Rectangle // user selection rectangle (optional)
	logger       *slog.Logger
	done         chan struct{}
	captures     atomic.Uint64
	skipped      atomic.Uint64
	captureNanos atomic.Uint64
	sequence     atomic.Uint64
	pause        time.Duration
}

func newCaptureService(logger *slog.Logger, g Grabber, selectionFn func() *image.Rectangle) *captureService {
	if g == nil {
		g = NewScreenGrabber()
	}
	return &captureService{grabber: g, selFn: selectionFn, logger: logger, pause: 200 * time.Microsecond}
}

// NewCaptureService constructs a capture service that polls g. A nil g
// captures the screen.
func NewCaptureService(logger *slog.Logger, g Grabber, selectionFn func() *image.Rectangle) CaptureService {
	return newCaptureService(logger, g, selectionFn)
}

func (s *captureService) SetSelectionProvider(fn func() *image.Rectangle) {
	s.selMu.Lock()
	s.selFn = fn
	s.selMu.Unlock()
}

func (s *captureService) selection() *image.Rectangle {
	s.selMu.RLock()
	fn := s.selFn
	s.selMu.RUnlock()
	if fn == nil {
		return nil
	}
	return fn()
}

func (s *captureService) LatestFrame() FrameSnapshot {
	snap := s.latest.Load()
	if snap == nil {
		return FrameSnapshot{}
	}
	return *snap
}

func (s *captureService) Running() bool { return s.running.Load() }

func (s *captureService) Stats() CaptureStats {
	captures := s.captures.Load()
	skipped := s.skipped.Load()
	total := s.captureNanos.Load()
	var avg time.Duration
	avgMicros := 0.0
	if captures > 0 && total > 0 {
		avg = time.Duration(total / captures)
		avgMicros = float64(avg) / float64(time.Microsecond)
	}
	snapshot := s.LatestFrame()
	age := time.Duration(0)
	if !snapshot.CapturedAt.IsZero() {
		age = time.Since(snapshot.CapturedAt)
	}
	return CaptureStats{
		Source:           s.grabber.Name(),
		Captures:         captures,
		Skipped:          skipped,
		AvgCapture:       avg,
		AvgCaptureMicros: avgMicros,
		LastCapture:      snapshot.CapturedAt,
		LatestFrameAge:   age,
		Sequence:         snapshot.Sequence,
	}
}

func (s *captureService) Start() {
	if !s.running.CompareAndSwap(false, true) {
		return
	}
	s.done = make(chan struct{})
	go s.loop(s.done)
}

// Stop ends the loop and waits for the in-flight grab to finish.
func (s *captureService) Stop() {
	if !s.running.CompareAndSwap(true, false) {
		return
	}
	if s.done != nil {
		<-s.done
	}
}

func (s *captureService) loop(done chan struct{}) {
	defer close(done)
	defer func() {
		if r := recover(); r != nil {
			s.running.Store(false)
			if s.logger != nil {
				s.logger.Error("capture panic", "error", r, "stack", string(debug.Stack()))
			}
		}
	}()
	logTicker := time.NewTicker(captureStatsLogInterval)
	defer logTicker.Stop()
	for s.running.Load() {
		start := time.Now()
		img, err := s.grabber.Grab(s.selection())
		if err != nil || img == nil {
			s.skipped.Add(1)
			if err != nil && s.logger != nil {
				s.logger.Error("capture grab", "source", s.grabber.Name(), "error", err)
			}
			time.Sleep(errorBackoff)
			continue
		}

		elapsed := time.Since(start)
		s.captureNanos.Add(uint64(elapsed.Nanoseconds()))
		s.captures.Add(1)
		seq := s.sequence.Add(1)
		s.latest.Store(&FrameSnapshot{Image: img, CapturedAt: time.Now(), Sequence: seq})

		select {
		case <-logTicker.C:
			s.logStats()
		default:
		}

		time.Sleep(s.pause)
	}
}

func (s *captureService) logStats() {
	if s.logger == nil {
		return
	}
	stats := s.Stats()
	s.logger.Debug("capture.stats",
		"source", stats.Source,
		"captures", stats.Captures,
		"skipped", stats.Skipped,
		"avg_capture", stats.AvgCapture,
		"age", stats.LatestFrameAge,
	)
}
