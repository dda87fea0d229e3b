//go:build !gocv

package capture

import (
	"fmt"
	"image"
)

// CameraGrabber is unavailable without the gocv build tag.
type CameraGrabber struct{}

// NewCameraGrabber reports ErrSourceUnavailable; build with -tags gocv and an
// OpenCV installation to read cameras.
func NewCameraGrabber(id int) (*CameraGrabber, error) {
	return nil, fmt.Errorf("%w: camera %d requires -tags gocv", ErrSourceUnavailable, id)
}

func (*CameraGrabber) Name() string { return "camera" }

func (*CameraGrabber) Grab(*image.Rectangle) (*image.RGBA, error) { return nil, ErrSourceUnavailable }

func (*CameraGrabber) Close() error { return nil }
