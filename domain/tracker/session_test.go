package tracker

import (
	"image"
	imgcolor "image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soocke/pong-tracker-go/config"
	"github.com/soocke/pong-tracker-go/domain/calibration"
	"github.com/soocke/pong-tracker-go/domain/color"
	"github.com/soocke/pong-tracker-go/domain/frame"
	"github.com/soocke/pong-tracker-go/domain/hit"
	"github.com/soocke/pong-tracker-go/domain/motion"
)

const (
	frameW = 640
	frameH = 480
	ballY  = 240
	ballR  = 8
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func ballFrame(cx, cy int) frame.Frame {
	img := image.NewRGBA(image.Rect(0, 0, frameW, frameH))
	gray := imgcolor.RGBA{R: 128, G: 128, B: 128, A: 255}
	orange := imgcolor.RGBA{R: 255, G: 120, B: 0, A: 255}
	for y := 0; y < frameH; y++ {
		for x := 0; x < frameW; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= ballR*ballR {
				img.SetRGBA(x, y, orange)
			} else {
				img.SetRGBA(x, y, gray)
			}
		}
	}
	return frame.FromRGBA(img)
}

func emptyFrame() frame.Frame { return ballFrame(-100, -100) }

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.SampleWindowPx = 4
	// 600 px between the picks over 6 units gives 100 px/unit
	cfg.TableLength = 6
	return cfg
}

// calibrated returns a session whose color range was picked from the ball at
// (x, y) and whose scale is 100 px/unit.
func calibrated(t *testing.T, cfg *config.Config, x, y int) *Session {
	t.Helper()
	s := New(cfg, nil)
	s.ProcessFrame(ballFrame(x, y), t0.Add(-time.Second))

	require.NoError(t, s.StartColorCalibration())
	n, err := s.AddColorCalibrationSample(x, y)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.NoError(t, s.FinishColorCalibration())

	require.NoError(t, s.StartTableCalibration())
	_, err = s.AddTableCalibrationPoint(10, 10)
	require.NoError(t, err)
	n, err = s.AddTableCalibrationPoint(610, 10)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.InDelta(t, 100, s.Scale().PixelsPerUnit, 1e-9)
	return s
}

func TestSession_EndToEndLinearMotion(t *testing.T) {
	cfg := testConfig()
	// at a steady 9.9 units/s the filtered speed trails the window average by
	// at most ~2.5, so the default threshold of 5 never fires here
	cfg.ChangeThreshold = 2
	s := calibrated(t, cfg, 100, ballY)
	require.NoError(t, s.StartTracking())

	var notified []hit.ShotRecord
	s.Subscribe(func(r hit.ShotRecord) { notified = append(notified, r) })

	changes, hits := 0, 0
	var hitFrame int
	for i := 0; i < 10; i++ {
		x := 100 + 33*i
		res := s.ProcessFrame(ballFrame(x, ballY), t0.Add(time.Duration(i)*time.Second/30))
		require.True(t, res.Detected, "frame %d", i)
		assert.InDelta(t, float64(x), res.Position.X, 0.5, "frame %d", i)
		if res.PlayerChanged {
			changes++
		}
		if res.Hit != nil {
			hits++
			hitFrame = i
		}
	}

	assert.Equal(t, 1, changes, "attribution flips once")
	assert.Equal(t, 1, hits, "one hit inside the cooldown")
	assert.Equal(t, 5, hitFrame)
	assert.Equal(t, motion.Player1, s.LastHitPlayer())

	require.Len(t, notified, 1)
	assert.Equal(t, motion.Player1, notified[0].Player)
	assert.Equal(t, s.ID(), notified[0].SessionID)
	assert.Len(t, s.Shots(motion.Player1), 1)
	assert.Empty(t, s.Shots(motion.Player2))

	// 33 px/frame at 30 fps over 100 px/unit is 9.9 units/s
	assert.Greater(t, s.CurrentSpeed(), 8.0)
	assert.Less(t, s.CurrentSpeed(), 9.9)
	assert.InDelta(t, s.CurrentSpeed(), s.MaxSpeed(), 1e-9)

	v, ok := s.Velocity()
	require.True(t, ok)
	assert.InDelta(t, 33, v.DX, 0.5)

	st := s.State()
	assert.True(t, st.Tracking())
	assert.Equal(t, 1, st.Shots)
	assert.InDelta(t, 30, st.FPS, 0.01)
}

func TestSession_EndToEndLinearMotionDefaultThreshold(t *testing.T) {
	cfg := testConfig()
	require.InDelta(t, 5, cfg.ChangeThreshold, 1e-9)
	s := calibrated(t, cfg, 100, ballY)
	require.NoError(t, s.StartTracking())

	changes, hits := 0, 0
	maxGap := 0.0
	for i := 0; i < 10; i++ {
		res := s.ProcessFrame(ballFrame(100+33*i, ballY), t0.Add(time.Duration(i)*time.Second/30))
		require.True(t, res.Detected, "frame %d", i)
		if res.PlayerChanged {
			changes++
		}
		if res.Hit != nil {
			hits++
		}
		if res.SpeedUpdated {
			if gap := res.Speed - s.AverageSpeed(); gap > maxGap {
				maxGap = gap
			}
		}
	}

	assert.Equal(t, 1, changes)
	assert.Zero(t, hits, "steady motion stays under the default change threshold")
	assert.Less(t, maxGap, cfg.ChangeThreshold)
	assert.Empty(t, s.Shots(motion.Player1))
	assert.Greater(t, s.CurrentSpeed(), 8.0)
}

func TestSession_StartTrackingRequiresBothCalibrations(t *testing.T) {
	s := New(testConfig(), nil)
	require.ErrorIs(t, s.StartTracking(), ErrNotCalibrated)

	s.ProcessFrame(ballFrame(200, 200), t0)
	require.NoError(t, s.CalibrateTableFromFraction(0.8))
	assert.InDelta(t, 640*0.8/6, s.Scale().PixelsPerUnit, 1e-9)
	require.ErrorIs(t, s.StartTracking(), ErrNotCalibrated)

	require.NoError(t, s.StartColorCalibration())
	require.ErrorIs(t, s.StartTracking(), ErrCalibrationActive)
	_, err := s.AddColorCalibrationSample(200, 200)
	require.NoError(t, err)
	require.NoError(t, s.FinishColorCalibration())
	require.NoError(t, s.StartTracking())
	assert.Equal(t, ModeTracking, s.Mode())
}

func TestSession_CalibrationRejectedWhileTracking(t *testing.T) {
	s := calibrated(t, testConfig(), 100, ballY)
	require.NoError(t, s.StartTracking())

	assert.ErrorIs(t, s.StartColorCalibration(), ErrTrackingActive)
	assert.ErrorIs(t, s.StartTableCalibration(), ErrTrackingActive)
	_, err := s.AddColorCalibrationSample(100, ballY)
	assert.ErrorIs(t, err, ErrTrackingActive)
	_, err = s.AddTableCalibrationPoint(5, 5)
	assert.ErrorIs(t, err, ErrTrackingActive)
	assert.ErrorIs(t, s.CalibrateTableFromFraction(0.8), ErrTrackingActive)

	s.StopTracking()
	assert.Equal(t, ModeIdle, s.Mode())
	assert.NoError(t, s.StartTableCalibration())
}

func TestSession_CalibrationStepsAreExclusive(t *testing.T) {
	s := New(testConfig(), nil)
	require.NoError(t, s.StartTableCalibration())
	assert.ErrorIs(t, s.StartColorCalibration(), ErrCalibrationActive)
	_, err := s.AddColorCalibrationSample(1, 1)
	assert.ErrorIs(t, err, ErrNotCalibrating)
	assert.ErrorIs(t, s.FinishColorCalibration(), ErrNotCalibrating)
}

func TestSession_ColorCalibrationAutoFinishes(t *testing.T) {
	cfg := testConfig()
	cfg.RequiredColorSamples = 2
	s := New(cfg, nil)

	_, err := s.AddColorCalibrationSample(0, 0)
	require.ErrorIs(t, err, ErrNotCalibrating)

	require.NoError(t, s.StartColorCalibration())
	_, err = s.AddColorCalibrationSample(0, 0)
	require.ErrorIs(t, err, ErrNoFrame)

	s.ProcessFrame(ballFrame(300, 200), t0)
	n, err := s.AddColorCalibrationSample(300, 200)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, ModeCalibratingColor, s.Mode())
	assert.Equal(t, 1, s.State().ColorSamples)

	_, err = s.AddColorCalibrationSample(900, 200)
	require.ErrorIs(t, err, color.ErrOutOfBounds)

	n, err = s.AddColorCalibrationSample(302, 201)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, ModeIdle, s.Mode())
	assert.True(t, s.State().ColorCalibrated)
	assert.True(t, s.ColorRange().MatchesRGB(255, 120, 0))
	assert.False(t, s.ColorRange().MatchesRGB(128, 128, 128))
}

func TestSession_FinishWithoutSamplesKeepsCalibrating(t *testing.T) {
	s := New(testConfig(), nil)
	require.NoError(t, s.StartColorCalibration())
	err := s.FinishColorCalibration()
	require.ErrorIs(t, err, color.ErrNoData)
	assert.Equal(t, ModeCalibratingColor, s.Mode())
	assert.Equal(t, color.DefaultRange, s.ColorRange())
}

func TestSession_DegenerateTablePointsCanBeRetried(t *testing.T) {
	s := New(testConfig(), nil)
	s.ProcessFrame(emptyFrame(), t0)
	require.NoError(t, s.StartTableCalibration())

	_, err := s.AddTableCalibrationPoint(50, 50)
	require.NoError(t, err)
	n, err := s.AddTableCalibrationPoint(50, 50)
	require.ErrorIs(t, err, calibration.ErrDegenerate)
	assert.Zero(t, n)
	assert.Equal(t, ModeCalibratingTable, s.Mode())

	_, err = s.AddTableCalibrationPoint(700, 50)
	require.ErrorIs(t, err, ErrOutOfFrame)

	_, err = s.AddTableCalibrationPoint(50, 50)
	require.NoError(t, err)
	_, err = s.AddTableCalibrationPoint(350, 50)
	require.NoError(t, err)
	assert.True(t, s.State().TableCalibrated)
	assert.InDelta(t, 50, s.Scale().PixelsPerUnit, 1e-9)
}

func TestSession_FractionNeedsFrame(t *testing.T) {
	s := New(testConfig(), nil)
	assert.ErrorIs(t, s.CalibrateTableFromFraction(0.8), ErrNoFrame)
	s.ProcessFrame(emptyFrame(), t0)
	assert.ErrorIs(t, s.CalibrateTableFromFraction(0), calibration.ErrDegenerate)
}

func TestSession_NoDetectionIsNotAnError(t *testing.T) {
	s := calibrated(t, testConfig(), 100, ballY)
	require.NoError(t, s.StartTracking())

	res := s.ProcessFrame(emptyFrame(), t0)
	assert.False(t, res.Detected)
	assert.Nil(t, res.Hit)
	_, ok := s.CurrentPosition()
	assert.False(t, ok)

	res = s.ProcessFrame(frame.Frame{}, t0.Add(time.Second))
	assert.False(t, res.Detected)
}

func TestSession_TimingAnomalySkipsSpeed(t *testing.T) {
	s := calibrated(t, testConfig(), 100, ballY)
	require.NoError(t, s.StartTracking())

	s.ProcessFrame(ballFrame(100, ballY), t0)
	res := s.ProcessFrame(ballFrame(150, ballY), t0)
	assert.True(t, res.Moving)
	assert.False(t, res.SpeedUpdated)
	assert.Zero(t, s.CurrentSpeed())

	res = s.ProcessFrame(ballFrame(200, ballY), t0.Add(time.Second/30))
	assert.True(t, res.SpeedUpdated)
	assert.Positive(t, res.Speed)
}

func TestSession_StationaryBallProducesNoSpeed(t *testing.T) {
	s := calibrated(t, testConfig(), 100, ballY)
	require.NoError(t, s.StartTracking())
	for i := 0; i < 5; i++ {
		res := s.ProcessFrame(ballFrame(300+i%2, ballY), t0.Add(time.Duration(i)*time.Second/30))
		assert.True(t, res.Detected)
		assert.False(t, res.Moving)
	}
	assert.Zero(t, s.MaxSpeed())
	_, ok := s.Velocity()
	assert.False(t, ok)
}

func TestSession_ResetKeepsCalibration(t *testing.T) {
	cfg := testConfig()
	cfg.ChangeThreshold = 2
	s := calibrated(t, cfg, 100, ballY)
	require.NoError(t, s.StartTracking())
	for i := 0; i < 10; i++ {
		s.ProcessFrame(ballFrame(100+33*i, ballY), t0.Add(time.Duration(i)*time.Second/30))
	}
	require.Positive(t, s.MaxSpeed())
	oldID := s.ID()

	s.Reset()
	assert.NotEqual(t, oldID, s.ID())
	assert.Equal(t, ModeIdle, s.Mode())
	assert.Zero(t, s.MaxSpeed())
	assert.Zero(t, s.CurrentSpeed())
	assert.Equal(t, motion.PlayerNone, s.LastHitPlayer())
	assert.Empty(t, s.ShotLog().All())
	assert.True(t, s.State().Calibrated())
	assert.NoError(t, s.StartTracking())
}

func TestSession_SubscribeCancel(t *testing.T) {
	cfg := testConfig()
	cfg.ChangeThreshold = 2
	s := calibrated(t, cfg, 100, ballY)
	require.NoError(t, s.StartTracking())

	calls := 0
	cancel := s.Subscribe(func(hit.ShotRecord) { calls++ })
	cancel()
	for i := 0; i < 10; i++ {
		s.ProcessFrame(ballFrame(100+33*i, ballY), t0.Add(time.Duration(i)*time.Second/30))
	}
	assert.Zero(t, calls)
	assert.Len(t, s.Shots(motion.Player1), 1)
}

func TestSession_CancelDuringDispatch(t *testing.T) {
	cfg := testConfig()
	cfg.ChangeThreshold = 2
	s := calibrated(t, cfg, 100, ballY)
	require.NoError(t, s.StartTracking())

	var first, second, third int
	var cancelFirst func()
	cancelFirst = s.Subscribe(func(hit.ShotRecord) {
		first++
		cancelFirst()
	})
	s.Subscribe(func(hit.ShotRecord) { second++ })
	s.Subscribe(func(hit.ShotRecord) { third++ })

	for i := 0; i < 10; i++ {
		s.ProcessFrame(ballFrame(100+33*i, ballY), t0.Add(time.Duration(i)*time.Second/30))
	}
	require.Len(t, s.Shots(motion.Player1), 1)
	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second, "a listener after the cancelled one is not skipped")
	assert.Equal(t, 1, third, "no listener runs twice")
	assert.Len(t, s.subs, 2)
}
