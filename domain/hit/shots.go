package hit

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/soocke/pong-tracker-go/domain/frame"
	"github.com/soocke/pong-tracker-go/domain/motion"
)

// ShotRecord is one confirmed hit.
type ShotRecord struct {
	ID        uuid.UUID
	SessionID uuid.UUID
	Player    motion.Player
	Speed     float64
	At        time.Time
	Position  frame.Position
}

// NewShotRecord stamps a record with a fresh ID.
func NewShotRecord(session uuid.UUID, p motion.Player, speed float64, at time.Time, pos frame.Position) ShotRecord {
	return ShotRecord{ID: uuid.New(), SessionID: session, Player: p, Speed: speed, At: at, Position: pos}
}

// Log is the append-only per-player shot list. It is safe for concurrent
// use so the UI can read while the pipeline appends.
type Log struct {
	mu    sync.RWMutex
	shots map[motion.Player][]ShotRecord
	all   []ShotRecord
}

// NewLog returns an empty log.
func NewLog() *Log {
	return &Log{shots: make(map[motion.Player][]ShotRecord)}
}

// Append records r under its player.
func (l *Log) Append(r ShotRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.shots[r.Player] = append(l.shots[r.Player], r)
	l.all = append(l.all, r)
}

// Shots returns a copy of p's shots in the order they happened.
func (l *Log) Shots(p motion.Player) []ShotRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.shots[p])
}

// Recent returns up to n of p's shots, most recent first.
func (l *Log) Recent(p motion.Player, n int) []ShotRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	src := l.shots[p]
	if n > len(src) {
		n = len(src)
	}
	if n <= 0 {
		return nil
	}
	out := slices.Clone(src[len(src)-n:])
	slices.Reverse(out)
	return out
}

// Last returns p's most recent shot.
func (l *Log) Last(p motion.Player) (ShotRecord, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	src := l.shots[p]
	if len(src) == 0 {
		return ShotRecord{}, false
	}
	return src[len(src)-1], true
}

// All returns every shot in the order they happened.
func (l *Log) All() []ShotRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.all)
}

// Len is the total number of shots.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.all)
}

// Reset empties the log.
func (l *Log) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.shots = make(map[motion.Player][]ShotRecord)
	l.all = nil
}
