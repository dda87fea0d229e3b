package presenter

import (
	"testing"
	"time"

	"github.com/soocke/pong-tracker-go/domain/capture"
)

type fakeStats struct {
	running bool
	seq     uint64
}

func (f *fakeStats) Running() bool               { return f.running }
func (f *fakeStats) Stats() capture.CaptureStats { return capture.CaptureStats{Sequence: f.seq} }

type statusRecorder struct{ msgs []string }

func (s *statusRecorder) SetStatus(m string) { s.msgs = append(s.msgs, m) }

func TestStallWatcher_FiresOncePerStall(t *testing.T) {
	src := &fakeStats{running: true, seq: 1}
	view := &statusRecorder{}
	w := NewStallWatcher(src, view, nil, time.Second)
	fired := 0
	w.OnStall = func() { fired++ }
	base := time.Unix(0, 0)

	w.Tick(base)
	w.Tick(base.Add(500 * time.Millisecond))
	if w.Stalled() {
		t.Fatalf("should not stall before threshold")
	}
	w.Tick(base.Add(1500 * time.Millisecond))
	w.Tick(base.Add(2500 * time.Millisecond))
	if !w.Stalled() || fired != 1 {
		t.Fatalf("expected one stall, stalled=%v fired=%d", w.Stalled(), fired)
	}

	src.seq = 2
	w.Tick(base.Add(3 * time.Second))
	if w.Stalled() {
		t.Fatalf("new frame should clear the stall")
	}
	if len(view.msgs) != 2 || view.msgs[1] != "Capture resumed" {
		t.Fatalf("unexpected status messages %v", view.msgs)
	}
}

func TestStallWatcher_IgnoresStoppedCapture(t *testing.T) {
	src := &fakeStats{running: false}
	w := NewStallWatcher(src, nil, nil, time.Millisecond)
	base := time.Unix(0, 0)
	for i := 0; i < 10; i++ {
		w.Tick(base.Add(time.Duration(i) * time.Second))
	}
	if w.Stalled() {
		t.Fatalf("stopped capture must not stall")
	}
}

func TestStallWatcher_ThrottlesPolls(t *testing.T) {
	src := &fakeStats{running: true, seq: 1}
	w := NewStallWatcher(src, nil, nil, 100*time.Millisecond)
	base := time.Unix(0, 0)
	w.Tick(base)
	// inside the poll interval: ignored even though past the threshold
	w.Tick(base.Add(200 * time.Millisecond))
	if w.Stalled() {
		t.Fatalf("tick inside poll interval should be ignored")
	}
	w.Tick(base.Add(300 * time.Millisecond))
	if !w.Stalled() {
		t.Fatalf("expected stall after interval")
	}
}
