package tracker

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/soocke/pong-tracker-go/domain/calibration"
	"github.com/soocke/pong-tracker-go/domain/color"
	"github.com/soocke/pong-tracker-go/domain/frame"
	"github.com/soocke/pong-tracker-go/domain/hit"
	"github.com/soocke/pong-tracker-go/domain/motion"
	"github.com/soocke/pong-tracker-go/domain/segment"
)

var (
	// ErrNotCalibrated is returned by StartTracking before both the color and
	// the table calibration completed.
	ErrNotCalibrated = errors.New("tracker: calibration incomplete")
	// ErrTrackingActive rejects calibration input while tracking.
	ErrTrackingActive = errors.New("tracker: tracking active")
	// ErrCalibrationActive rejects starting tracking or a second calibration
	// while one is in progress.
	ErrCalibrationActive = errors.New("tracker: calibration in progress")
	// ErrNotCalibrating is returned for calibration input outside the matching
	// calibration step.
	ErrNotCalibrating = errors.New("tracker: not calibrating")
	// ErrNoFrame is returned when a pick needs a frame and none was processed yet.
	ErrNoFrame = errors.New("tracker: no frame available")
	// ErrOutOfFrame is returned for picks outside the last frame.
	ErrOutOfFrame = errors.New("tracker: point outside frame")
)

// Mode is the coarse session mode shown to the user.
type Mode int

const (
	ModeIdle Mode = iota
	ModeCalibratingColor
	ModeCalibratingTable
	ModeTracking
)

func (m Mode) String() string {
	switch m {
	case ModeCalibratingColor:
		return "calibrating ball"
	case ModeCalibratingTable:
		return "calibrating table"
	case ModeTracking:
		return "tracking"
	default:
		return "idle"
	}
}

// State is a snapshot of the session, safe to hand to other goroutines.
type State struct {
	SessionID uuid.UUID
	Mode      Mode

	ColorCalibrated      bool
	TableCalibrated      bool
	ColorSamples         int
	RequiredColorSamples int
	TablePoints          int
	Range                color.Range
	Scale                calibration.Scale

	LastPlayer   motion.Player
	CurrentSpeed float64
	MaxSpeed     float64
	AverageSpeed float64
	FPS          float64

	Position    frame.Position
	HasPosition bool
	Velocity    frame.Vector
	HasVelocity bool
	Shots       int
}

// Tracking reports whether frames are being tracked.
func (s State) Tracking() bool { return s.Mode == ModeTracking }

// Calibrated reports whether tracking may start.
func (s State) Calibrated() bool { return s.ColorCalibrated && s.TableCalibrated }

// FrameResult describes one ProcessFrame pass.
type FrameResult struct {
	At time.Time
	// Detected is false when no blob qualified this frame.
	Detected bool
	Position frame.Position
	Blob     segment.Blob
	// Moving is set when the position passed the jitter gate.
	Moving   bool
	Velocity frame.Vector
	// SpeedUpdated is false on timing anomalies and before a frame rate is known.
	SpeedUpdated  bool
	Speed         float64
	FPS           float64
	Player        motion.Player
	PlayerChanged bool
	Hit           *hit.ShotRecord
	Stats         segment.Stats
	Elapsed       time.Duration
}
