package color

import (
	"image"
	imgcolor "image/color"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soocke/pong-tracker-go/config"
	"github.com/soocke/pong-tracker-go/domain/frame"
)

func TestRGBToHSV_KnownColors(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		want    HSV
	}{
		{"red", 255, 0, 0, HSV{H: 0, S: 255, V: 255}},
		{"green", 0, 255, 0, HSV{H: 120, S: 255, V: 255}},
		{"blue", 0, 0, 255, HSV{H: 240, S: 255, V: 255}},
		{"orange", 255, 128, 0, HSV{H: 30.1176, S: 255, V: 255}},
		{"magenta-ish", 255, 0, 128, HSV{H: 329.8824, S: 255, V: 255}},
		{"gray", 128, 128, 128, HSV{H: 0, S: 0, V: 128}},
		{"black", 0, 0, 0, HSV{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RGBToHSV(tt.r, tt.g, tt.b)
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateApprox(0, 1e-3)); diff != "" {
				t.Fatalf("RGBToHSV(%d,%d,%d) mismatch (-want +got):\n%s", tt.r, tt.g, tt.b, diff)
			}
		})
	}
}

func TestHSVRoundTripPreservesHue(t *testing.T) {
	for r := 0; r < 256; r += 15 {
		for g := 0; g < 256; g += 15 {
			for b := 0; b < 256; b += 15 {
				hsv := RGBToHSV(uint8(r), uint8(g), uint8(b))
				// hue is only well defined with real chroma
				if hsv.S < 40 || hsv.V < 40 {
					continue
				}
				rr, gg, bb := HSVToRGB(hsv)
				back := RGBToHSV(rr, gg, bb)
				d := math.Abs(back.H - hsv.H)
				d = math.Min(d, 360-d)
				require.LessOrEqualf(t, d, 2.0, "rgb(%d,%d,%d) hue %.2f -> %.2f", r, g, b, hsv.H, back.H)
			}
		}
	}
}

func TestRangeMatches_MirrorHue(t *testing.T) {
	rng := DefaultRange

	assert.True(t, rng.Matches(HSV{H: 30, S: 200, V: 200}), "direct interval")
	assert.True(t, rng.Matches(HSV{H: 340, S: 200, V: 200}), "mirrored interval")
	assert.False(t, rng.Matches(HSV{H: 180, S: 200, V: 200}), "cyan must not match")
	assert.False(t, rng.Matches(HSV{H: 30, S: 10, V: 200}), "low saturation")
	assert.False(t, rng.Matches(HSV{H: 30, S: 200, V: 10}), "low value")

	assert.True(t, rng.MatchesRGB(255, 120, 0))
	assert.False(t, rng.MatchesRGB(0, 0, 255))
}

func TestModelCalibrate_MultiPoint(t *testing.T) {
	m := NewModel(PolicyMultiPoint, DefaultMargins(PolicyMultiPoint), nil)
	err := m.Calibrate([]HSV{
		{H: 25, S: 200, V: 210},
		{H: 35, S: 180, V: 240},
		{H: 30, S: 240, V: 250},
	})
	require.NoError(t, err)

	want := Range{
		H: Interval{Min: 5, Max: 55},
		S: Interval{Min: 150, Max: 255},
		V: Interval{Min: 180, Max: 255},
	}
	if diff := cmp.Diff(want, m.Range()); diff != "" {
		t.Fatalf("range mismatch (-want +got):\n%s", diff)
	}
}

func TestModelCalibrate_SinglePointClampsToDomain(t *testing.T) {
	m := NewModel(PolicySinglePoint, DefaultMargins(PolicySinglePoint), nil)
	require.NoError(t, m.Calibrate([]HSV{{H: 4, S: 250, V: 20}}))

	want := Range{
		H: Interval{Min: 0, Max: 14},
		S: Interval{Min: 210, Max: 255},
		V: Interval{Min: 0, Max: 60},
	}
	if diff := cmp.Diff(want, m.Range()); diff != "" {
		t.Fatalf("range mismatch (-want +got):\n%s", diff)
	}
}

func TestModelCalibrate_NoSamplesLeavesRange(t *testing.T) {
	m := NewModel(PolicyMultiPoint, DefaultMargins(PolicyMultiPoint), nil)
	require.NoError(t, m.Calibrate([]HSV{{H: 200, S: 200, V: 200}}))
	before := m.Range()

	err := m.Calibrate(nil)
	require.ErrorIs(t, err, ErrNoData)
	assert.Equal(t, before, m.Range())

	m.Reset()
	assert.Equal(t, DefaultRange, m.Range())
}

func solidRGBA(w, h int, c imgcolor.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestAverageWindow(t *testing.T) {
	img := solidRGBA(50, 50, imgcolor.RGBA{R: 255, G: 128, A: 255})
	// a transparent blue pixel inside the window must be ignored
	img.SetRGBA(10, 10, imgcolor.RGBA{B: 255})

	got, err := AverageWindow(frame.FromRGBA(img), 10, 10, 20)
	require.NoError(t, err)
	assert.InDelta(t, 30.1, got.H, 0.1)
	assert.InDelta(t, 255, got.S, 0.01)
}

func TestAverageWindow_Errors(t *testing.T) {
	transparent := frame.FromRGBA(image.NewRGBA(image.Rect(0, 0, 30, 30)))

	_, err := AverageWindow(transparent, 5, 5, 20)
	require.ErrorIs(t, err, ErrNoData)

	_, err = AverageWindow(transparent, 40, 5, 20)
	require.ErrorIs(t, err, ErrOutOfBounds)

	_, err = AverageWindow(frame.Frame{}, 0, 0, 20)
	require.ErrorIs(t, err, ErrOutOfBounds)
}

func TestNewModelFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ColorPolicy = config.ColorPolicySinglePoint
	cfg.HueMargin = 5
	m := NewModelFromConfig(cfg, nil)
	assert.Equal(t, PolicySinglePoint, m.Policy())
	assert.Equal(t, DefaultRange, m.Range())

	require.NoError(t, m.Calibrate([]HSV{{H: 100, S: 100, V: 100}}))
	assert.Equal(t, Interval{Min: 95, Max: 105}, m.Range().H)

	assert.Equal(t, PolicyMultiPoint, NewModelFromConfig(nil, nil).Policy())
}
