// Package frame holds the pixel-buffer view and geometry shared by the
// tracking pipeline.
package frame

import (
	"image"
	"math"
)

// Frame is a read-only view over an RGB or RGBA pixel buffer with the origin
// at the top-left corner. Channels is 3 or 4; Stride is bytes per row.
type Frame struct {
	Pix      []byte
	Width    int
	Height   int
	Stride   int
	Channels int
}

// FromRGBA wraps img without copying. The frame addresses img.Bounds()
// relative to its Min point.
func FromRGBA(img *image.RGBA) Frame {
	if img == nil {
		return Frame{}
	}
	b := img.Bounds()
	return Frame{Pix: img.Pix, Width: b.Dx(), Height: b.Dy(), Stride: img.Stride, Channels: 4}
}

// FromRGB wraps a tightly packed 3-channel buffer.
func FromRGB(pix []byte, width, height int) Frame {
	return Frame{Pix: pix, Width: width, Height: height, Stride: width * 3, Channels: 3}
}

// Valid reports whether the buffer is large enough for the declared geometry.
func (f Frame) Valid() bool {
	if f.Width <= 0 || f.Height <= 0 || (f.Channels != 3 && f.Channels != 4) {
		return false
	}
	if f.Stride < f.Width*f.Channels {
		return false
	}
	return len(f.Pix) >= (f.Height-1)*f.Stride+f.Width*f.Channels
}

// In reports whether (x, y) addresses a pixel of the frame.
func (f Frame) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < f.Width && y < f.Height
}

// RGBA returns the pixel at (x, y). Alpha is 255 for 3-channel frames.
// The caller must ensure In(x, y).
func (f Frame) RGBA(x, y int) (r, g, b, a uint8) {
	i := y*f.Stride + x*f.Channels
	if f.Channels == 4 {
		return f.Pix[i], f.Pix[i+1], f.Pix[i+2], f.Pix[i+3]
	}
	return f.Pix[i], f.Pix[i+1], f.Pix[i+2], 255
}

// Position is a point in pixel-buffer coordinates.
type Position struct {
	X, Y float64
}

// Pt builds a Position from integer pixel coordinates.
func Pt(x, y int) Position { return Position{X: float64(x), Y: float64(y)} }

// Sub returns the displacement from q to p.
func (p Position) Sub(q Position) Vector { return Vector{DX: p.X - q.X, DY: p.Y - q.Y} }

// Dist is the Euclidean distance between p and q.
func (p Position) Dist(q Position) float64 { return p.Sub(q).Len() }

// Round returns the nearest integer pixel.
func (p Position) Round() (int, int) {
	return int(math.Round(p.X)), int(math.Round(p.Y))
}

// Vector is a pixel displacement between two positions.
type Vector struct {
	DX, DY float64
}

// Len is the Euclidean length of v.
func (v Vector) Len() float64 { return math.Hypot(v.DX, v.DY) }
