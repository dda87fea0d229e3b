package model

import (
	"testing"
	"time"
)

func TestSessionModel_BasicLifecycle(t *testing.T) {
	m := NewSessionModel()
	base := time.Unix(0, 0)

	m.OnTick(true, base)
	m.OnTick(true, base.Add(5*time.Second))
	run, total := m.Values()
	if run != 5*time.Second || total != 5*time.Second {
		t.Fatalf("expected 5s run & total; got run=%v total=%v", run, total)
	}

	m.OnTick(false, base.Add(5*time.Second))
	m.OnTick(false, base.Add(7*time.Second))
	run, total = m.Values()
	if run != 5*time.Second || total != 5*time.Second {
		t.Fatalf("idle ticks should not change durations: run=%v total=%v", run, total)
	}

	m.OnTick(true, base.Add(10*time.Second))
	m.OnTick(true, base.Add(13*time.Second))
	run, total = m.Values()
	if run != 3*time.Second || total != 8*time.Second {
		t.Fatalf("second run expected 3s / 8s, got run=%v total=%v", run, total)
	}

	m.OnTick(false, base.Add(13*time.Second))
	if _, total = m.Values(); total != 8*time.Second {
		t.Fatalf("final total expected 8s got %v", total)
	}

	m.Reset()
	if run, total = m.Values(); run != 0 || total != 0 {
		t.Fatalf("reset expected zero, got run=%v total=%v", run, total)
	}
}

func TestCaptureModel_SetEnabled(t *testing.T) {
	var m CaptureModel
	if !m.SetEnabled(true) || !m.Enabled() {
		t.Fatalf("enable should report a change")
	}
	if m.SetEnabled(true) {
		t.Fatalf("second enable should be a no-op")
	}
	var nilModel *CaptureModel
	if nilModel.Enabled() || nilModel.SetEnabled(true) {
		t.Fatalf("nil model must be inert")
	}
}
