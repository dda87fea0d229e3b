package color

import "math"

// HSV is a color in hue/saturation/value space. H is in degrees [0,360);
// S and V are scaled to [0,255] to match 8-bit channel math.
type HSV struct {
	H, S, V float64
}

// RGBToHSV converts 8-bit RGB to HSV. Hue is 0 when r == g == b.
func RGBToHSV(r, g, b uint8) HSV {
	rf := float64(r) / 255.0
	gf := float64(g) / 255.0
	bf := float64(b) / 255.0

	maxC := math.Max(rf, math.Max(gf, bf))
	minC := math.Min(rf, math.Min(gf, bf))
	delta := maxC - minC

	var h float64
	switch {
	case delta == 0:
		h = 0
	case maxC == rf:
		h = 60 * math.Mod((gf-bf)/delta, 6)
	case maxC == gf:
		h = 60 * ((bf-rf)/delta + 2)
	default:
		h = 60 * ((rf-gf)/delta + 4)
	}
	if h < 0 {
		h += 360
	}

	var s float64
	if maxC > 0 {
		s = delta / maxC
	}
	return HSV{H: h, S: s * 255, V: maxC * 255}
}

// HSVToRGB is the inverse of RGBToHSV, rounding each channel to the nearest
// 8-bit value.
func HSVToRGB(c HSV) (r, g, b uint8) {
	h := math.Mod(c.H, 360)
	if h < 0 {
		h += 360
	}
	s := clamp(c.S, 0, 255) / 255
	v := clamp(c.V, 0, 255) / 255

	chroma := v * s
	x := chroma * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - chroma

	var rf, gf, bf float64
	switch {
	case h < 60:
		rf, gf, bf = chroma, x, 0
	case h < 120:
		rf, gf, bf = x, chroma, 0
	case h < 180:
		rf, gf, bf = 0, chroma, x
	case h < 240:
		rf, gf, bf = 0, x, chroma
	case h < 300:
		rf, gf, bf = x, 0, chroma
	default:
		rf, gf, bf = chroma, 0, x
	}
	return to8(rf + m), to8(gf + m), to8(bf + m)
}

func to8(f float64) uint8 {
	return uint8(clamp(math.Round(f*255), 0, 255))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
