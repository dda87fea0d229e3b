package motion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soocke/pong-tracker-go/domain/frame"
)

func TestTracker_JitterGate(t *testing.T) {
	tr := NewTracker(nil)
	assert.False(t, tr.Observe(frame.Position{X: 10, Y: 10}))
	assert.False(t, tr.HasSignificantMotion(), "single observation")

	assert.False(t, tr.Observe(frame.Position{X: 13, Y: 12}))
	assert.False(t, tr.HasSignificantMotion())
	_, ok := tr.Velocity()
	assert.False(t, ok)

	assert.True(t, tr.Observe(frame.Position{X: 23, Y: 12}))
	assert.True(t, tr.HasSignificantMotion())
	v, ok := tr.Velocity()
	require.True(t, ok)
	assert.Equal(t, frame.Vector{DX: 10, DY: 0}, v)
}

func TestTracker_ExactlyThresholdIsNotSignificant(t *testing.T) {
	tr := NewTracker(nil)
	tr.Observe(frame.Position{X: 0, Y: 0})
	tr.Observe(frame.Position{X: 3, Y: 4})
	assert.False(t, tr.HasSignificantMotion())
}

func TestTracker_ContinuousMotionGivesPerFrameVelocity(t *testing.T) {
	tr := NewTracker(nil)
	for i := 0; i < 6; i++ {
		tr.Observe(frame.Position{X: float64(100 + 20*i), Y: 50})
	}
	v, ok := tr.Velocity()
	require.True(t, ok)
	assert.Equal(t, frame.Vector{DX: 20}, v)

	p, ok := tr.LatestAccepted()
	require.True(t, ok)
	assert.Equal(t, frame.Position{X: 200, Y: 50}, p)
}

func TestTracker_StationaryAfterMoveKeepsLastVelocity(t *testing.T) {
	tr := NewTracker(nil)
	tr.Observe(frame.Position{X: 0})
	tr.Observe(frame.Position{X: 30})
	tr.Observe(frame.Position{X: 31})

	assert.False(t, tr.HasSignificantMotion())
	v, ok := tr.Velocity()
	require.True(t, ok)
	assert.Equal(t, 30.0, v.DX)

	latest, _ := tr.Latest()
	assert.Equal(t, 31.0, latest.X)

	tr.Reset()
	_, ok = tr.Latest()
	assert.False(t, ok)
	_, ok = tr.Velocity()
	assert.False(t, ok)
}

func TestAttributor(t *testing.T) {
	a := NewAttributor(320)

	p, changed := a.Attribute(frame.Position{X: 200}, frame.Vector{DX: 15})
	assert.Equal(t, Player1, p)
	assert.True(t, changed)

	p, changed = a.Attribute(frame.Position{X: 250}, frame.Vector{DX: 15})
	assert.Equal(t, Player1, p)
	assert.False(t, changed, "same direction must not re-fire")

	// rightward motion past the midline carries no new attribution
	p, changed = a.Attribute(frame.Position{X: 400}, frame.Vector{DX: 15})
	assert.Equal(t, Player1, p)
	assert.False(t, changed)

	p, changed = a.Attribute(frame.Position{X: 400}, frame.Vector{DX: -15})
	assert.Equal(t, Player2, p)
	assert.True(t, changed)

	a.Reset()
	assert.Equal(t, PlayerNone, a.Last())
	assert.Equal(t, "none", a.Last().String())
}
