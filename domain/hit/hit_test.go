package hit

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soocke/pong-tracker-go/domain/frame"
	"github.com/soocke/pong-tracker-go/domain/motion"
)

func TestDetector_CooldownSuppressesSecondSpike(t *testing.T) {
	d := NewDetector(nil, nil)
	t0 := time.Unix(1000, 0)

	assert.True(t, d.Observe(20, 5, t0))
	assert.Equal(t, Armed, d.State(t0.Add(100*time.Millisecond)))
	assert.False(t, d.Observe(25, 5, t0.Add(300*time.Millisecond)), "inside cooldown")
	assert.Equal(t, Idle, d.State(t0.Add(500*time.Millisecond)))
}

func TestDetector_SpikesOutsideCooldownBothFire(t *testing.T) {
	d := NewDetector(nil, nil)
	t0 := time.Unix(1000, 0)
	hits := 0
	for _, at := range []time.Time{t0, t0.Add(600 * time.Millisecond)} {
		if d.Observe(20, 5, at) {
			hits++
		}
	}
	assert.Equal(t, 2, hits)
}

func TestDetector_BandAndThreshold(t *testing.T) {
	d := NewDetector(nil, nil)
	tests := []struct {
		name           string
		speed, average float64
		want           bool
	}{
		{"small change", 10, 7, false},
		{"qualifying jump", 12, 6, true},
		{"drop also counts", 6, 12, true},
		{"below min speed", 0.4, 6, false},
		{"above max speed", 60, 10, false},
		{"at max speed", 50, 10, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.Qualifies(tt.speed, tt.average))
		})
	}
}

func TestDetector_Reset(t *testing.T) {
	d := NewDetector(nil, nil)
	t0 := time.Unix(0, 0)
	require.True(t, d.Observe(20, 5, t0))
	d.Reset()
	_, ok := d.LastHit()
	assert.False(t, ok)
	assert.True(t, d.Observe(20, 5, t0.Add(time.Millisecond)))
}

func TestLog_RecentIsMostRecentFirst(t *testing.T) {
	l := NewLog()
	session := uuid.New()
	t0 := time.Unix(0, 0)
	for i := 0; i < 5; i++ {
		l.Append(NewShotRecord(session, motion.Player1, float64(10+i), t0.Add(time.Duration(i)*time.Second), frame.Position{}))
	}
	l.Append(NewShotRecord(session, motion.Player2, 7, t0, frame.Position{}))

	recent := l.Recent(motion.Player1, 3)
	require.Len(t, recent, 3)
	assert.Equal(t, []float64{14, 13, 12}, []float64{recent[0].Speed, recent[1].Speed, recent[2].Speed})

	assert.Len(t, l.Shots(motion.Player1), 5)
	assert.Len(t, l.Recent(motion.Player2, 3), 1)
	assert.Nil(t, l.Recent(motion.PlayerNone, 3))
	assert.Equal(t, 6, l.Len())

	last, ok := l.Last(motion.Player2)
	require.True(t, ok)
	assert.Equal(t, session, last.SessionID)
	assert.NotEqual(t, uuid.Nil, last.ID)

	l.Reset()
	assert.Zero(t, l.Len())
	_, ok = l.Last(motion.Player1)
	assert.False(t, ok)
}
