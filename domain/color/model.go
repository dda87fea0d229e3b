// Package color classifies pixels against a calibrated HSV acceptance range.
package color

import (
	"errors"
	"log/slog"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/soocke/pong-tracker-go/config"
)

var (
	// ErrNoData is returned when a calibration input holds no usable pixels.
	ErrNoData = errors.New("color: no valid samples")
	// ErrOutOfBounds is returned when a pick lies outside the frame.
	ErrOutOfBounds = errors.New("color: sample outside frame")
)

// Policy selects how calibration samples become a Range.
type Policy int

const (
	// PolicyMultiPoint spans min..max of all samples with wide margins.
	PolicyMultiPoint Policy = iota
	// PolicySinglePoint centers on the averaged sample with symmetric margins.
	PolicySinglePoint
)

func (p Policy) String() string {
	switch p {
	case PolicyMultiPoint:
		return "multi_point"
	case PolicySinglePoint:
		return "single_point"
	default:
		return "unknown"
	}
}

// Margins widen the calibrated range per channel.
type Margins struct {
	H, S, V float64
}

// DefaultMargins returns the margins associated with p.
func DefaultMargins(p Policy) Margins {
	if p == PolicySinglePoint {
		return Margins{H: 10, S: 40, V: 40}
	}
	return Margins{H: 20, S: 30, V: 30}
}

// Model owns the acceptance range. It is mutated only by Calibrate and read
// on every frame. Not safe for concurrent use.
type Model struct {
	policy  Policy
	margins Margins
	rng     Range
	logger  *slog.Logger
}

// NewModel returns a model holding DefaultRange.
func NewModel(policy Policy, margins Margins, logger *slog.Logger) *Model {
	return &Model{policy: policy, margins: margins, rng: DefaultRange, logger: logger}
}

// NewModelFromConfig builds a model from the configured policy and margins.
// If cfg is nil the default configuration is used.
func NewModelFromConfig(cfg *config.Config, logger *slog.Logger) *Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	policy := PolicyMultiPoint
	if cfg.ColorPolicy == config.ColorPolicySinglePoint {
		policy = PolicySinglePoint
	}
	return NewModel(policy, Margins{H: cfg.HueMargin, S: cfg.SaturationMargin, V: cfg.ValueMargin}, logger)
}

// Policy reports the fixed calibration policy.
func (m *Model) Policy() Policy { return m.policy }

// Range returns the current acceptance range.
func (m *Model) Range() Range { return m.rng }

// Matches classifies c against the current range.
func (m *Model) Matches(c HSV) bool { return m.rng.Matches(c) }

// MatchesRGB classifies an 8-bit pixel against the current range.
func (m *Model) MatchesRGB(r, g, b uint8) bool { return m.rng.MatchesRGB(r, g, b) }

// Reset restores DefaultRange.
func (m *Model) Reset() { m.rng = DefaultRange }

// Calibrate derives a new range from samples. With no samples the range is
// left unchanged and ErrNoData is returned.
func (m *Model) Calibrate(samples []HSV) error {
	if len(samples) == 0 {
		return ErrNoData
	}
	hs := make([]float64, len(samples))
	ss := make([]float64, len(samples))
	vs := make([]float64, len(samples))
	for i, s := range samples {
		hs[i], ss[i], vs[i] = s.H, s.S, s.V
	}

	var next Range
	switch m.policy {
	case PolicySinglePoint:
		h, s, v := stat.Mean(hs, nil), stat.Mean(ss, nil), stat.Mean(vs, nil)
		next = Range{
			H: widen(h, h, m.margins.H, 360),
			S: widen(s, s, m.margins.S, 255),
			V: widen(v, v, m.margins.V, 255),
		}
	default:
		next = Range{
			H: widen(floats.Min(hs), floats.Max(hs), m.margins.H, 360),
			S: widen(floats.Min(ss), floats.Max(ss), m.margins.S, 255),
			V: widen(floats.Min(vs), floats.Max(vs), m.margins.V, 255),
		}
	}
	m.rng = next
	if m.logger != nil {
		m.logger.Info("color range calibrated", "policy", m.policy.String(), "samples", len(samples), "range", next.String())
	}
	return nil
}

func widen(lo, hi, margin, limit float64) Interval {
	return Interval{Min: clamp(lo-margin, 0, limit), Max: clamp(hi+margin, 0, limit)}
}
