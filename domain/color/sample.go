package color

import (
	"math"

	"github.com/soocke/pong-tracker-go/domain/frame"
)

// AverageWindow averages the non-transparent pixels in a size x size window
// centered on (x, y), clamped to the frame, and returns the HSV of the mean
// color.
func AverageWindow(f frame.Frame, x, y, size int) (HSV, error) {
	if !f.Valid() || !f.In(x, y) {
		return HSV{}, ErrOutOfBounds
	}
	if size < 1 {
		size = 1
	}
	half := size / 2
	x0, y0 := max(0, x-half), max(0, y-half)
	x1, y1 := min(f.Width, x0+size), min(f.Height, y0+size)

	var sr, sg, sb, n int
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			r, g, b, a := f.RGBA(px, py)
			if a == 0 {
				continue
			}
			sr += int(r)
			sg += int(g)
			sb += int(b)
			n++
		}
	}
	if n == 0 {
		return HSV{}, ErrNoData
	}
	avg := func(sum int) uint8 { return uint8(math.Round(float64(sum) / float64(n))) }
	return RGBToHSV(avg(sr), avg(sg), avg(sb)), nil
}
