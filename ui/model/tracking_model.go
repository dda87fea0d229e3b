package model

import (
	"sync"

	"github.com/soocke/pong-tracker-go/domain/hit"
	"github.com/soocke/pong-tracker-go/domain/motion"
	"github.com/soocke/pong-tracker-go/domain/tracker"
)

// RecentShotCount is how many shots per player the UI lists.
const RecentShotCount = 3

// TrackingModel mirrors the tracker state for the UI. The tracking worker
// owns the real Session; it publishes snapshots here and the Tk thread reads
// them.
type TrackingModel struct {
	mu     sync.RWMutex
	state  tracker.State
	recent map[motion.Player][]hit.ShotRecord
	status string
}

// NewTrackingModel returns an empty model.
func NewTrackingModel() *TrackingModel {
	return &TrackingModel{recent: make(map[motion.Player][]hit.ShotRecord)}
}

// SetState stores the latest session snapshot.
func (m *TrackingModel) SetState(s tracker.State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

// State returns the latest snapshot.
func (m *TrackingModel) State() tracker.State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// SetRecent replaces p's recent shots (most recent first), keeping at most
// RecentShotCount.
func (m *TrackingModel) SetRecent(p motion.Player, shots []hit.ShotRecord) {
	if len(shots) > RecentShotCount {
		shots = shots[:RecentShotCount]
	}
	m.mu.Lock()
	m.recent[p] = append([]hit.ShotRecord(nil), shots...)
	m.mu.Unlock()
}

// PushShot prepends r to its player's recent list.
func (m *TrackingModel) PushShot(r hit.ShotRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := append([]hit.ShotRecord{r}, m.recent[r.Player]...)
	if len(list) > RecentShotCount {
		list = list[:RecentShotCount]
	}
	m.recent[r.Player] = list
}

// Recent returns p's recent shots, most recent first.
func (m *TrackingModel) Recent(p motion.Player) []hit.ShotRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]hit.ShotRecord(nil), m.recent[p]...)
}

// ClearShots empties every recent list.
func (m *TrackingModel) ClearShots() {
	m.mu.Lock()
	m.recent = make(map[motion.Player][]hit.ShotRecord)
	m.mu.Unlock()
}

// SetStatus stores the last user-facing status line.
func (m *TrackingModel) SetStatus(s string) {
	m.mu.Lock()
	m.status = s
	m.mu.Unlock()
}

// Status returns the last status line.
func (m *TrackingModel) Status() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Tracking reports whether the last snapshot was tracking.
func (m *TrackingModel) Tracking() bool { return m.State().Tracking() }

// SpeedReadout is the formatted speed panel content.
type SpeedReadout struct {
	Current    string
	Max        string
	Average    string
	LastPlayer string
	FPS        string
}
