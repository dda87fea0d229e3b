package model

import (
	"sync/atomic"
)

// CaptureModel tracks whether frame capture is enabled. The zero value is
// disabled and usable. Tk callbacks and the presenter tick both read it.
type CaptureModel struct{ enabled atomic.Bool }

// Enabled reports whether capture is currently enabled.
func (m *CaptureModel) Enabled() bool {
	if m == nil {
		return false
	}
	return m.enabled.Load()
}

// SetEnabled stores the enabled flag and reports whether it changed.
func (m *CaptureModel) SetEnabled(b bool) bool {
	if m == nil {
		return false
	}
	return m.enabled.Swap(b) != b
}
