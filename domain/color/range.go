package color

import "fmt"

// Interval is a closed range [Min, Max].
type Interval struct {
	Min, Max float64
}

// Contains reports whether v lies in the closed interval.
func (i Interval) Contains(v float64) bool { return v >= i.Min && v <= i.Max }

// Range is the HSV acceptance range of the tracked object.
type Range struct {
	H, S, V Interval
}

// DefaultRange is the wide orange/red range used before any calibration.
var DefaultRange = Range{
	H: Interval{Min: 0, Max: 60},
	S: Interval{Min: 20, Max: 255},
	V: Interval{Min: 20, Max: 255},
}

// Matches reports whether c is inside the range. Hue accepts the direct
// interval or its mirror [360-max, 360-min] so red/orange hues near either
// end of the wheel are caught.
func (r Range) Matches(c HSV) bool {
	hueOK := r.H.Contains(c.H) || (c.H >= 360-r.H.Max && c.H <= 360-r.H.Min)
	return hueOK && r.S.Contains(c.S) && r.V.Contains(c.V)
}

// MatchesRGB classifies an 8-bit pixel.
func (r Range) MatchesRGB(red, green, blue uint8) bool {
	return r.Matches(RGBToHSV(red, green, blue))
}

func (r Range) String() string {
	return fmt.Sprintf("h[%.0f,%.0f] s[%.0f,%.0f] v[%.0f,%.0f]", r.H.Min, r.H.Max, r.S.Min, r.S.Max, r.V.Min, r.V.Max)
}
