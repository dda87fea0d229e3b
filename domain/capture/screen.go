package capture

import (
	"fmt"
	"image"

	"github.com/vova616/screenshot"
)

// ScreenGrabber captures the primary screen or a selection of it.
type ScreenGrabber struct{}

// NewScreenGrabber returns a screen source.
func NewScreenGrabber() *ScreenGrabber { return &ScreenGrabber{} }

func (*ScreenGrabber) Name() string { return "screen" }

// Grab captures sel when set, otherwise the whole screen.
func (*ScreenGrabber) Grab(sel *image.Rectangle) (*image.RGBA, error) {
	if sel != nil && !sel.Empty() {
		img, err := screenshot.CaptureRect(*sel)
		if err != nil {
			return nil, fmt.Errorf("capture selection %v: %w", *sel, err)
		}
		return img, nil
	}
	img, err := screenshot.CaptureScreen()
	if err != nil {
		return nil, fmt.Errorf("capture screen: %w", err)
	}
	return img, nil
}

func (*ScreenGrabber) Close() error { return nil }
