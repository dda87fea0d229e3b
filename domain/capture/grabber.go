package capture

import (
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/soocke/pong-tracker-go/config"
)

var (
	// ErrSourceUnavailable is returned when the configured source cannot be
	// opened in this build or on this machine.
	ErrSourceUnavailable = errors.New("capture: source unavailable")
	// ErrNoFrames is returned by a replay source without images.
	ErrNoFrames = errors.New("capture: no frames")
)

// Grabber produces one frame per call. sel, when non-nil and non-empty,
// restricts the frame to that rectangle of the source.
type Grabber interface {
	Grab(sel *image.Rectangle) (*image.RGBA, error)
	Name() string
	Close() error
}

// NewGrabber opens the source named by cfg.Source.
func NewGrabber(cfg *config.Config, logger *slog.Logger) (Grabber, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	switch cfg.Source {
	case config.SourceCamera:
		g, err := NewCameraGrabber(cfg.CameraID)
		if err != nil {
			return nil, fmt.Errorf("open camera %d: %w", cfg.CameraID, err)
		}
		return g, nil
	case config.SourceReplay:
		g, err := NewReplayGrabber(cfg.ReplayDir, defaultReplayFPS)
		if err != nil {
			return nil, fmt.Errorf("open replay %q: %w", cfg.ReplayDir, err)
		}
		if logger != nil {
			logger.Info("replay source opened", "dir", cfg.ReplayDir, "frames", g.Len())
		}
		return g, nil
	default:
		return NewScreenGrabber(), nil
	}
}

// crop restricts img to sel when sel overlaps it. The result shares pixels
// with img.
func crop(img *image.RGBA, sel *image.Rectangle) *image.RGBA {
	if img == nil || sel == nil || sel.Empty() {
		return img
	}
	r := sel.Intersect(img.Bounds())
	if r.Empty() {
		return img
	}
	return img.SubImage(r).(*image.RGBA)
}
