package segment

import (
	"github.com/soocke/pong-tracker-go/domain/frame"
)

// Refine returns the mean coordinate of the matching pixels inside the square
// window of the given radius around candidate, clamped to the frame. With no
// matching pixel the candidate is returned unchanged.
func Refine(f frame.Frame, m Matcher, candidate frame.Position, radius int) frame.Position {
	if m == nil || !f.Valid() || radius < 0 {
		return candidate
	}
	cx, cy := candidate.Round()
	x0, y0 := max(0, cx-radius), max(0, cy-radius)
	x1, y1 := min(f.Width-1, cx+radius), min(f.Height-1, cy+radius)

	var sumX, sumY, n int
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if matches(f, m, x, y) {
				sumX += x
				sumY += y
				n++
			}
		}
	}
	if n == 0 {
		return candidate
	}
	return frame.Position{X: float64(sumX) / float64(n), Y: float64(sumY) / float64(n)}
}
