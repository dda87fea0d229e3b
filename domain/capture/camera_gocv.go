//go:build gocv

package capture

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// CameraGrabber reads frames from a local video device through OpenCV.
type CameraGrabber struct {
	mu   sync.Mutex
	id   int
	cam  *gocv.VideoCapture
	bgr  gocv.Mat
	rgba gocv.Mat
}

// NewCameraGrabber opens device id.
func NewCameraGrabber(id int) (*CameraGrabber, error) {
	cam, err := gocv.VideoCaptureDevice(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	cam.Set(gocv.VideoCaptureBufferSize, 1)
	return &CameraGrabber{id: id, cam: cam, bgr: gocv.NewMat(), rgba: gocv.NewMat()}, nil
}

func (c *CameraGrabber) Name() string { return fmt.Sprintf("camera:%d", c.id) }

// Grab reads the next frame and converts it to RGBA.
func (c *CameraGrabber) Grab(sel *image.Rectangle) (*image.RGBA, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cam == nil {
		return nil, ErrSourceUnavailable
	}
	if ok := c.cam.Read(&c.bgr); !ok || c.bgr.Empty() {
		return nil, errors.New("camera: empty read")
	}
	if c.bgr.Channels() != 3 {
		return nil, fmt.Errorf("camera: unexpected channel count %d", c.bgr.Channels())
	}
	gocv.CvtColor(c.bgr, &c.rgba, gocv.ColorBGRToRGBA)
	w, h := c.rgba.Cols(), c.rgba.Rows()
	img := &image.RGBA{Pix: c.rgba.ToBytes(), Stride: w * 4, Rect: image.Rect(0, 0, w, h)}
	return crop(img, sel), nil
}

// Close releases the device.
func (c *CameraGrabber) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cam == nil {
		return nil
	}
	c.bgr.Close()
	c.rgba.Close()
	err := c.cam.Close()
	c.cam = nil
	return err
}
