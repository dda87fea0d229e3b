package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soocke/pong-tracker-go/config"
	"github.com/soocke/pong-tracker-go/domain/frame"
	"github.com/soocke/pong-tracker-go/domain/hit"
	"github.com/soocke/pong-tracker-go/domain/motion"
)

func openTest(t *testing.T) (*Store, *config.Config) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.DatabasePath = filepath.Join(t.TempDir(), "shots.db")
	s, err := Open(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, cfg
}

func TestOpen_AppliesMigrations(t *testing.T) {
	s, cfg := openTest(t)
	version, dirty, err := s.Version()
	require.NoError(t, err)
	assert.EqualValues(t, 2, version)
	assert.False(t, dirty)

	require.NoError(t, s.Close())
	again, err := Open(cfg, nil)
	require.NoError(t, err, "reopening must be a no-op migration")
	require.NoError(t, again.Close())
}

func TestRecordAndShots(t *testing.T) {
	s, _ := openTest(t)
	ctx := context.Background()
	session := uuid.New()
	other := uuid.New()
	t0 := time.Unix(1_700_000_000, 0)

	want := []hit.ShotRecord{
		hit.NewShotRecord(session, motion.Player1, 12.5, t0, frame.Position{X: 100, Y: 200}),
		hit.NewShotRecord(session, motion.Player2, 15.25, t0.Add(800*time.Millisecond), frame.Position{X: 400, Y: 210}),
	}
	for _, r := range want {
		require.NoError(t, s.Record(ctx, r))
	}
	require.NoError(t, s.Record(ctx, want[0]), "duplicate is ignored")
	require.NoError(t, s.Record(ctx, hit.NewShotRecord(other, motion.Player1, 3, t0, frame.Position{})))

	got, err := s.Shots(ctx, session)
	require.NoError(t, err)
	require.Len(t, got, 2)
	records := []hit.ShotRecord{got[0].ShotRecord, got[1].ShotRecord}
	if diff := cmp.Diff(want, records, cmpopts.EquateApproxTime(0)); diff != "" {
		t.Fatalf("shots mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "ft", got[0].LengthUnit)
}

func TestSessions(t *testing.T) {
	s, _ := openTest(t)
	ctx := context.Background()
	older, newer := uuid.New(), uuid.New()
	t0 := time.Unix(1_700_000_000, 0)

	require.NoError(t, s.Record(ctx, hit.NewShotRecord(older, motion.Player1, 10, t0, frame.Position{})))
	require.NoError(t, s.Record(ctx, hit.NewShotRecord(older, motion.Player2, 20, t0.Add(time.Second), frame.Position{})))
	require.NoError(t, s.Record(ctx, hit.NewShotRecord(newer, motion.Player1, 5, t0.Add(time.Hour), frame.Position{})))

	sessions, err := s.Sessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, newer, sessions[0].SessionID)
	assert.Equal(t, older, sessions[1].SessionID)
	assert.Equal(t, 2, sessions[1].Shots)
	assert.InDelta(t, 20, sessions[1].MaxSpeed, 1e-9)
	assert.True(t, sessions[1].First.Equal(t0))
	assert.True(t, sessions[1].Last.Equal(t0.Add(time.Second)))
}

func TestRecorder_FlushesOnClose(t *testing.T) {
	s, _ := openTest(t)
	ctx := context.Background()
	session := uuid.New()

	rec := s.Recorder(ctx, nil)
	for i := 0; i < 10; i++ {
		rec.Record(hit.NewShotRecord(session, motion.Player1, float64(i), time.Unix(int64(i), 0), frame.Position{}))
	}
	rec.Close()
	rec.Close()
	rec.Record(hit.NewShotRecord(session, motion.Player1, 99, time.Unix(99, 0), frame.Position{}))

	got, err := s.Shots(ctx, session)
	require.NoError(t, err)
	assert.Len(t, got, 10)
}
