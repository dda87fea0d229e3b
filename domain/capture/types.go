package capture

import (
	"image"
	"time"

	"github.com/soocke/pong-tracker-go/domain/frame"
)

// FrameSource provides read-only access to captured frames.
// LatestFrame returns the freshest snapshot while Running reports activity.
type FrameSource interface {
	LatestFrame() FrameSnapshot
	Running() bool
}

// FrameSnapshot carries the latest captured frame and metadata. Image is
// never written after publication.
type FrameSnapshot struct {
	Image      *image.RGBA
	CapturedAt time.Time
	Sequence   uint64
}

// Empty reports whether the snapshot holds no image.
func (s FrameSnapshot) Empty() bool { return s.Image == nil }

// Frame wraps the image for the tracking pipeline without copying.
func (s FrameSnapshot) Frame() frame.Frame { return frame.FromRGBA(s.Image) }

// CaptureStats summarises capture loop behaviour for instrumentation.
type CaptureStats struct {
	Source           string
	Captures         uint64
	Skipped          uint64
	AvgCapture       time.Duration
	AvgCaptureMicros float64
	LastCapture      time.Time
	LatestFrameAge   time.Duration
	Sequence         uint64
}
