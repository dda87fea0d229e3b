package config

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/soocke/pong-tracker-go/domain/units"
)

// Color calibration policies. A deployment picks one; it is not switched at runtime.
const (
	ColorPolicyMultiPoint  = "multi_point"
	ColorPolicySinglePoint = "single_point"
)

// Frame sources understood by capture.NewGrabber.
const (
	SourceScreen = "screen"
	SourceCamera = "camera"
	SourceReplay = "replay"
)

// StrideStep widens the segmentation scan stride once a blob of at least
// MinBlob pixels has been found in the current frame.
type StrideStep struct {
	MinBlob int `json:"min_blob"`
	Stride  int `json:"stride"`
}

// Config holds runtime configuration for tracking and app behavior.
// Fields may be loaded from a JSON file and overridden by command-line flags.
type Config struct {
	Debug bool `json:"debug"`

	// Color calibration
	ColorPolicy          string  `json:"color_policy"`
	HueMargin            float64 `json:"hue_margin"`
	SaturationMargin     float64 `json:"saturation_margin"`
	ValueMargin          float64 `json:"value_margin"`
	SampleWindowPx       int     `json:"sample_window_px"`
	RequiredColorSamples int     `json:"required_color_samples"`

	// Segmentation
	StrideSchedule []StrideStep `json:"stride_schedule"`
	MinBlobPixels  int          `json:"min_blob_pixels"`
	MaxBlobPixels  int          `json:"max_blob_pixels"`
	RefineRadiusPx int          `json:"refine_radius_px"`

	// Motion
	JitterThresholdPx float64 `json:"jitter_threshold_px"`
	HistorySize       int     `json:"history_size"`
	MidlineFraction   float64 `json:"midline_fraction"`

	// Speed
	FilterGain       float64 `json:"filter_gain"`
	SpeedWindow      int     `json:"speed_window"`
	FrameRateWindow  int     `json:"frame_rate_window"`
	TableLength      float64 `json:"table_length"`
	TableFraction    float64 `json:"table_fraction"`
	LengthUnit       string  `json:"length_unit"`
	DisplayUnit      string  `json:"display_unit"`
	ChangeThreshold  float64 `json:"change_threshold"`
	MinSpeed         float64 `json:"min_speed"`
	MaxSpeed         float64 `json:"max_speed"`
	HitCooldownMilli int     `json:"hit_cooldown_ms"`

	// Capture
	Source    string `json:"source"`
	CameraID  int    `json:"camera_id"`
	ReplayDir string `json:"replay_dir"`

	// Selection rectangle persistence
	SelectionX int `json:"selection_x"`
	SelectionY int `json:"selection_y"`
	SelectionW int `json:"selection_w"`
	SelectionH int `json:"selection_h"`

	// Output
	DatabasePath string `json:"database_path"`
	ReportDir    string `json:"report_dir"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:                false,
		ColorPolicy:          ColorPolicyMultiPoint,
		HueMargin:            20,
		SaturationMargin:     30,
		ValueMargin:          30,
		SampleWindowPx:       20,
		RequiredColorSamples: 5,
		StrideSchedule:       []StrideStep{{MinBlob: 0, Stride: 2}, {MinBlob: 50, Stride: 4}},
		MinBlobPixels:        4,
		MaxBlobPixels:        16384,
		RefineRadiusPx:       15,
		JitterThresholdPx:    5,
		HistorySize:          10,
		MidlineFraction:      0.5,
		FilterGain:           0.2,
		SpeedWindow:          10,
		FrameRateWindow:      10,
		TableLength:          9,
		TableFraction:        0.8,
		LengthUnit:           units.Feet,
		DisplayUnit:          units.FPS,
		ChangeThreshold:      5,
		MinSpeed:             0.5,
		MaxSpeed:             50,
		HitCooldownMilli:     500,
		Source:               SourceScreen,
		CameraID:             0,
		ReplayDir:            "",
		DatabasePath:         "shots.db",
		ReportDir:            "reports",
	}
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	d := DefaultConfig()
	if c.ColorPolicy != ColorPolicyMultiPoint && c.ColorPolicy != ColorPolicySinglePoint {
		c.ColorPolicy = d.ColorPolicy
	}
	if c.HueMargin < 0 || c.HueMargin > 180 {
		c.HueMargin = d.HueMargin
	}
	if c.SaturationMargin < 0 || c.SaturationMargin > 255 {
		c.SaturationMargin = d.SaturationMargin
	}
	if c.ValueMargin < 0 || c.ValueMargin > 255 {
		c.ValueMargin = d.ValueMargin
	}
	if c.SampleWindowPx <= 0 {
		c.SampleWindowPx = d.SampleWindowPx
	}
	if c.RequiredColorSamples <= 0 {
		c.RequiredColorSamples = d.RequiredColorSamples
	}
	c.StrideSchedule = normalizeSchedule(c.StrideSchedule, d.StrideSchedule)
	if c.MinBlobPixels <= 0 {
		c.MinBlobPixels = d.MinBlobPixels
	}
	if c.MaxBlobPixels < c.MinBlobPixels {
		c.MaxBlobPixels = d.MaxBlobPixels
	}
	if c.RefineRadiusPx <= 0 {
		c.RefineRadiusPx = d.RefineRadiusPx
	}
	if c.JitterThresholdPx < 0 {
		c.JitterThresholdPx = d.JitterThresholdPx
	}
	if c.HistorySize < 2 || c.HistorySize > 10 {
		c.HistorySize = d.HistorySize
	}
	if c.MidlineFraction <= 0 || c.MidlineFraction >= 1 {
		c.MidlineFraction = d.MidlineFraction
	}
	if c.FilterGain <= 0 || c.FilterGain >= 1 {
		c.FilterGain = d.FilterGain
	}
	if c.SpeedWindow < 5 || c.SpeedWindow > 10 {
		c.SpeedWindow = d.SpeedWindow
	}
	if c.FrameRateWindow <= 0 || c.FrameRateWindow > 10 {
		c.FrameRateWindow = d.FrameRateWindow
	}
	if c.TableLength <= 0 {
		c.TableLength = d.TableLength
	}
	if c.TableFraction <= 0 || c.TableFraction > 1 {
		c.TableFraction = d.TableFraction
	}
	if !units.IsValidLength(c.LengthUnit) {
		c.LengthUnit = d.LengthUnit
	}
	if !units.IsValidDisplay(c.DisplayUnit) {
		c.DisplayUnit = d.DisplayUnit
	}
	if c.ChangeThreshold <= 0 {
		c.ChangeThreshold = d.ChangeThreshold
	}
	if c.MinSpeed < 0 {
		c.MinSpeed = d.MinSpeed
	}
	if c.MaxSpeed <= c.MinSpeed {
		c.MaxSpeed = d.MaxSpeed
	}
	if c.HitCooldownMilli < 0 {
		c.HitCooldownMilli = d.HitCooldownMilli
	}
	switch c.Source {
	case SourceScreen, SourceCamera, SourceReplay:
	default:
		c.Source = d.Source
	}
	if c.CameraID < 0 {
		c.CameraID = 0
	}
	if c.DatabasePath == "" {
		c.DatabasePath = d.DatabasePath
	}
	if c.ReportDir == "" {
		c.ReportDir = d.ReportDir
	}
	return nil
}

// normalizeSchedule drops non-positive strides and sorts by MinBlob. The first
// step always starts at zero so every frame has a stride.
func normalizeSchedule(in, fallback []StrideStep) []StrideStep {
	out := make([]StrideStep, 0, len(in))
	for _, s := range in {
		if s.Stride > 0 && s.MinBlob >= 0 {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return append([]StrideStep(nil), fallback...)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].MinBlob < out[j].MinBlob })
	out[0].MinBlob = 0
	return out
}

// Load attempts to read configuration from the given JSON file path. If the file does not
// exist it returns DefaultConfig(). On JSON error it returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return DefaultConfig(), err
	}
	_ = cfg.Validate()
	return cfg, nil
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
