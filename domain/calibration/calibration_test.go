package calibration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soocke/pong-tracker-go/domain/frame"
)

func TestFromTwoPoints(t *testing.T) {
	s, err := FromTwoPoints(frame.Position{}, frame.Position{X: 300}, TableLength)
	require.NoError(t, err)
	assert.InDelta(t, 33.333, s.PixelsPerUnit, 0.001)
	assert.True(t, s.Valid())
	assert.InDelta(t, 9.0, s.ToUnits(300), 1e-9)
}

func TestFromTwoPoints_Diagonal(t *testing.T) {
	s, err := FromTwoPoints(frame.Position{X: 10, Y: 10}, frame.Position{X: 40, Y: 50}, 5)
	require.NoError(t, err)
	assert.InDelta(t, 10, s.PixelsPerUnit, 1e-9)
}

func TestFromTwoPoints_Degenerate(t *testing.T) {
	p := frame.Position{X: 42, Y: 7}
	_, err := FromTwoPoints(p, p, TableLength)
	require.ErrorIs(t, err, ErrDegenerate)

	_, err = FromTwoPoints(frame.Position{}, frame.Position{X: 10}, 0)
	require.ErrorIs(t, err, ErrDegenerate)
}

func TestFromFraction(t *testing.T) {
	s, err := FromFraction(640, 0.8, TableLength)
	require.NoError(t, err)
	assert.InDelta(t, 56.889, s.PixelsPerUnit, 0.001)

	for _, tc := range []struct {
		width int
		frac  float64
	}{{0, 0.8}, {640, 0}, {640, 1.5}} {
		_, err := FromFraction(tc.width, tc.frac, TableLength)
		assert.ErrorIs(t, err, ErrDegenerate)
	}
}

func TestZeroScaleIsInvalid(t *testing.T) {
	var s Scale
	assert.False(t, s.Valid())
	assert.Zero(t, s.ToUnits(100))
}
