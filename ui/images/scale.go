package images

import (
	"bytes"
	"image"
	"image/png"

	"golang.org/x/image/draw"
)

// EncodePNG encodes an image to PNG bytes. Errors are ignored and may return an empty slice.
func EncodePNG(img image.Image) []byte {
	if img == nil {
		return nil
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

// FitSize returns the largest size with src's aspect ratio that fits within
// maxW x maxH. Sources that already fit keep their size.
func FitSize(src image.Rectangle, maxW, maxH int) image.Point {
	w, h := src.Dx(), src.Dy()
	if w <= 0 || h <= 0 {
		return image.Point{}
	}
	if w <= maxW && h <= maxH {
		return image.Pt(w, h)
	}
	if maxW < 1 {
		maxW = 1
	}
	if maxH < 1 {
		maxH = 1
	}
	ratio := min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	return image.Pt(max(1, int(float64(w)*ratio+0.5)), max(1, int(float64(h)*ratio+0.5)))
}

// ScaleToFit scales src to fit within maxW x maxH preserving aspect ratio. If
// the source already fits, the original is returned.
func ScaleToFit(src image.Image, maxW, maxH int) image.Image {
	if src == nil {
		return nil
	}
	b := src.Bounds()
	size := FitSize(b, maxW, maxH)
	if size == (image.Point{}) || size == b.Size() {
		return src
	}
	dst := image.NewRGBA(image.Rectangle{Max: size})
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// PreviewToFrame maps a point on a preview of size preview back to the
// source frame src. ok is false when the point lies outside the preview.
func PreviewToFrame(pt image.Point, preview image.Point, src image.Rectangle) (image.Point, bool) {
	if preview.X <= 0 || preview.Y <= 0 || src.Empty() {
		return image.Point{}, false
	}
	if pt.X < 0 || pt.Y < 0 || pt.X >= preview.X || pt.Y >= preview.Y {
		return image.Point{}, false
	}
	x := src.Min.X + pt.X*src.Dx()/preview.X
	y := src.Min.Y + pt.Y*src.Dy()/preview.Y
	return image.Pt(x, y), true
}
