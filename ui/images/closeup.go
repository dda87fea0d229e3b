package images

import (
	"errors"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// CloseUp crops a size x size square centred on (cx, cy), clamped to the
// frame, and enlarges it by zoom with nearest-neighbour sampling so single
// pixels stay visible. It returns the enlarged image and the crop rectangle
// in frame coordinates.
func CloseUp(frame *image.RGBA, cx, cy, size, zoom int) (*image.RGBA, image.Rectangle, error) {
	if frame == nil {
		return nil, image.Rectangle{}, errors.New("nil frame")
	}
	if size < 1 {
		size = 1
	}
	if zoom < 1 {
		zoom = 1
	}
	b := frame.Bounds()
	x0 := max(cx-size/2, b.Min.X)
	y0 := max(cy-size/2, b.Min.Y)
	x1 := min(x0+size, b.Max.X)
	y1 := min(y0+size, b.Max.Y)
	if x1 <= x0 {
		x0, x1 = max(b.Max.X-1, b.Min.X), b.Max.X
	}
	if y1 <= y0 {
		y0, y1 = max(b.Max.Y-1, b.Min.Y), b.Max.Y
	}
	rect := image.Rect(x0, y0, x1, y1)
	out := image.NewRGBA(image.Rect(0, 0, rect.Dx()*zoom, rect.Dy()*zoom))
	draw.NearestNeighbor.Scale(out, out.Bounds(), frame, rect, draw.Src, nil)
	return out, rect, nil
}

// Crosshair draws a crosshair of the given arm length at (x, y) into a copy
// of src and returns the copy.
func Crosshair(src *image.RGBA, x, y, arm int, c color.RGBA) *image.RGBA {
	if src == nil {
		return nil
	}
	out := image.NewRGBA(src.Bounds())
	draw.Copy(out, out.Bounds().Min, src, src.Bounds(), draw.Src, nil)
	for d := -arm; d <= arm; d++ {
		if p := image.Pt(x+d, y); p.In(out.Bounds()) {
			out.SetRGBA(p.X, p.Y, c)
		}
		if p := image.Pt(x, y+d); p.In(out.Bounds()) {
			out.SetRGBA(p.X, p.Y, c)
		}
	}
	return out
}
