package store

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/soocke/pong-tracker-go/domain/hit"
)

const recorderBuffer = 64

// Recorder writes shots on its own goroutine so the frame pipeline never
// waits on disk.
type Recorder struct {
	store  *Store
	logger *slog.Logger
	ch     chan hit.ShotRecord
	wg     sync.WaitGroup
	once   sync.Once
	mu     sync.RWMutex
	closed bool
}

// Recorder starts a background writer bound to ctx. Call Close to flush.
func (s *Store) Recorder(ctx context.Context, logger *slog.Logger) *Recorder {
	r := &Recorder{store: s, logger: logger, ch: make(chan hit.ShotRecord, recorderBuffer)}
	r.wg.Add(1)
	go r.run(ctx)
	return r
}

// Record queues rec. It never blocks; when the queue is full the shot is
// dropped and logged. The signature matches tracker.ShotListener.
func (r *Recorder) Record(rec hit.ShotRecord) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return
	}
	select {
	case r.ch <- rec:
	default:
		if r.logger != nil {
			r.logger.Warn("shot dropped", "reason", "recorder queue full", "shot", rec.ID.String())
		}
	}
}

// Close stops accepting shots and waits until queued ones are written.
func (r *Recorder) Close() {
	r.once.Do(func() {
		r.mu.Lock()
		r.closed = true
		close(r.ch)
		r.mu.Unlock()
	})
	r.wg.Wait()
}

func (r *Recorder) run(ctx context.Context) {
	defer r.wg.Done()
	defer func() {
		if rec := recover(); rec != nil && r.logger != nil {
			r.logger.Error("recorder panic", "error", rec, "stack", string(debug.Stack()))
		}
	}()
	for rec := range r.ch {
		if err := r.store.Record(ctx, rec); err != nil {
			if r.logger != nil {
				r.logger.Error("record shot", "error", err)
			}
			continue
		}
		if r.logger != nil {
			r.logger.Debug("shot recorded", "shot", rec.ID.String(), "player", rec.Player.String(), "speed", rec.Speed)
		}
	}
}
