package segment

import (
	"sort"

	"github.com/soocke/pong-tracker-go/config"
)

// StridePolicy maps the largest blob found so far in a frame to the scan
// stride. Steps are sorted by MinBlob; a step applies once the largest blob
// has at least MinBlob pixels.
type StridePolicy struct {
	steps []config.StrideStep
}

// DefaultStridePolicy scans every 2nd pixel and widens to every 4th once a
// 50 pixel blob has been found.
func DefaultStridePolicy() StridePolicy {
	return NewStridePolicy(config.DefaultConfig().StrideSchedule)
}

// NewStridePolicy copies steps, drops invalid entries and sorts the rest.
func NewStridePolicy(steps []config.StrideStep) StridePolicy {
	out := make([]config.StrideStep, 0, len(steps))
	for _, s := range steps {
		if s.Stride > 0 && s.MinBlob >= 0 {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].MinBlob < out[j].MinBlob })
	return StridePolicy{steps: out}
}

// Stride returns the scan stride for the given largest-blob size. It is
// never below 1.
func (p StridePolicy) Stride(largest int) int {
	stride := 1
	for _, s := range p.steps {
		if largest < s.MinBlob {
			break
		}
		stride = s.Stride
	}
	return stride
}
