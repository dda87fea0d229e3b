// Package calibration maps a known real-world reference length to a
// pixels-per-unit scale.
package calibration

import (
	"errors"
	"fmt"
	"math"

	"github.com/soocke/pong-tracker-go/domain/frame"
)

// TableLength is the length of a regulation table in feet.
const TableLength = 9.0

// ErrDegenerate is returned when the reference measures zero pixels or a
// non-positive real length.
var ErrDegenerate = errors.New("calibration: degenerate reference")

// Scale is a pixels-per-unit-length ratio.
type Scale struct {
	PixelsPerUnit float64
	// PixelLength is the measured reference in pixels.
	PixelLength float64
	RealLength  float64
}

// Valid reports whether s can convert distances.
func (s Scale) Valid() bool {
	return s.PixelsPerUnit > 0 && !math.IsInf(s.PixelsPerUnit, 0) && !math.IsNaN(s.PixelsPerUnit)
}

// ToUnits converts a pixel distance to real units. It returns 0 for an
// invalid scale.
func (s Scale) ToUnits(px float64) float64 {
	if !s.Valid() {
		return 0
	}
	return px / s.PixelsPerUnit
}

func (s Scale) String() string {
	return fmt.Sprintf("%.2f px/unit (%.1f px over %.2f)", s.PixelsPerUnit, s.PixelLength, s.RealLength)
}

// FromTwoPoints derives the scale from two picks spanning realLength.
func FromTwoPoints(p1, p2 frame.Position, realLength float64) (Scale, error) {
	d := p1.Dist(p2)
	if d == 0 {
		return Scale{}, fmt.Errorf("two-point calibration: identical points %v: %w", p1, ErrDegenerate)
	}
	return newScale(d, realLength)
}

// FromFraction assumes the reference spans fraction of the frame width.
func FromFraction(totalWidth int, fraction, realLength float64) (Scale, error) {
	if totalWidth <= 0 || fraction <= 0 || fraction > 1 {
		return Scale{}, fmt.Errorf("fraction calibration: width %d fraction %.2f: %w", totalWidth, fraction, ErrDegenerate)
	}
	return newScale(float64(totalWidth)*fraction, realLength)
}

func newScale(px, realLength float64) (Scale, error) {
	if realLength <= 0 || math.IsNaN(realLength) || math.IsInf(realLength, 0) {
		return Scale{}, fmt.Errorf("real length %.2f: %w", realLength, ErrDegenerate)
	}
	return Scale{PixelsPerUnit: px / realLength, PixelLength: px, RealLength: realLength}, nil
}
