package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/soocke/pong-tracker-go/config"
)

// ConfigField is one editable row of the config panel.
type ConfigField struct {
	ID    string
	Label string
	get   func(c *config.Config) string
	set   func(c *config.Config, v string) bool
}

// Value formats the field's current value in c.
func (f ConfigField) Value(c *config.Config) string { return f.get(c) }

func floatField(id, label, format string, ptr func(c *config.Config) *float64) ConfigField {
	return ConfigField{
		ID: id, Label: label,
		get: func(c *config.Config) string { return fmt.Sprintf(format, *ptr(c)) },
		set: func(c *config.Config, v string) bool {
			f, ok := parseFloatField(v)
			if ok {
				*ptr(c) = f
			}
			return ok
		},
	}
}

func intField(id, label string, ptr func(c *config.Config) *int) ConfigField {
	return ConfigField{
		ID: id, Label: label,
		get: func(c *config.Config) string { return strconv.Itoa(*ptr(c)) },
		set: func(c *config.Config, v string) bool {
			i, ok := parseIntField(v)
			if ok {
				*ptr(c) = i
			}
			return ok
		},
	}
}

func stringField(id, label string, ptr func(c *config.Config) *string) ConfigField {
	return ConfigField{
		ID: id, Label: label,
		get: func(c *config.Config) string { return *ptr(c) },
		set: func(c *config.Config, v string) bool {
			if v == "" {
				return false
			}
			*ptr(c) = v
			return true
		},
	}
}

func boolField(id, label string, ptr func(c *config.Config) *bool) ConfigField {
	return ConfigField{
		ID: id, Label: label,
		get: func(c *config.Config) string { return strconv.FormatBool(*ptr(c)) },
		set: func(c *config.Config, v string) bool {
			b, ok := parseBoolLoose(v)
			if ok {
				*ptr(c) = b
			}
			return ok
		},
	}
}

// ConfigFields lists the panel rows in display order.
var ConfigFields = []ConfigField{
	stringField("colorPolicy", "Color Policy (multi_point/single_point)", func(c *config.Config) *string { return &c.ColorPolicy }),
	floatField("hueMargin", "Hue Margin", "%.1f", func(c *config.Config) *float64 { return &c.HueMargin }),
	floatField("saturationMargin", "Saturation Margin", "%.1f", func(c *config.Config) *float64 { return &c.SaturationMargin }),
	floatField("valueMargin", "Value Margin", "%.1f", func(c *config.Config) *float64 { return &c.ValueMargin }),
	intField("sampleWindowPx", "Color Pick Window Px", func(c *config.Config) *int { return &c.SampleWindowPx }),
	intField("requiredColorSamples", "Color Picks Required", func(c *config.Config) *int { return &c.RequiredColorSamples }),
	intField("minBlobPixels", "Min Blob Px", func(c *config.Config) *int { return &c.MinBlobPixels }),
	intField("maxBlobPixels", "Max Blob Px", func(c *config.Config) *int { return &c.MaxBlobPixels }),
	intField("refineRadiusPx", "Refine Radius Px", func(c *config.Config) *int { return &c.RefineRadiusPx }),
	floatField("jitterThresholdPx", "Jitter Threshold Px", "%.1f", func(c *config.Config) *float64 { return &c.JitterThresholdPx }),
	floatField("midlineFraction", "Midline (0-1)", "%.2f", func(c *config.Config) *float64 { return &c.MidlineFraction }),
	floatField("filterGain", "Speed Filter Gain (0-1)", "%.2f", func(c *config.Config) *float64 { return &c.FilterGain }),
	floatField("tableLength", "Table Length", "%.2f", func(c *config.Config) *float64 { return &c.TableLength }),
	floatField("tableFraction", "Table Width Fraction", "%.2f", func(c *config.Config) *float64 { return &c.TableFraction }),
	stringField("lengthUnit", "Length Unit (ft/m)", func(c *config.Config) *string { return &c.LengthUnit }),
	stringField("displayUnit", "Display Unit", func(c *config.Config) *string { return &c.DisplayUnit }),
	floatField("changeThreshold", "Hit Change Threshold", "%.2f", func(c *config.Config) *float64 { return &c.ChangeThreshold }),
	floatField("minSpeed", "Hit Min Speed", "%.2f", func(c *config.Config) *float64 { return &c.MinSpeed }),
	floatField("maxSpeed", "Hit Max Speed", "%.2f", func(c *config.Config) *float64 { return &c.MaxSpeed }),
	intField("hitCooldownMs", "Hit Cooldown ms", func(c *config.Config) *int { return &c.HitCooldownMilli }),
	stringField("source", "Source (screen/camera/replay)", func(c *config.Config) *string { return &c.Source }),
	intField("cameraID", "Camera ID", func(c *config.Config) *int { return &c.CameraID }),
	stringField("replayDir", "Replay Dir", func(c *config.Config) *string { return &c.ReplayDir }),
	stringField("reportDir", "Report Dir", func(c *config.Config) *string { return &c.ReportDir }),
	boolField("debug", "Debug (true/false)", func(c *config.Config) *bool { return &c.Debug }),
}

// ApplyConfigValues parses values (keyed by field ID) over a copy of cfg and
// returns the validated result. Unparseable entries keep the old value and
// are reported in rejected.
func ApplyConfigValues(cfg *config.Config, values map[string]string) (out config.Config, rejected []string) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	out = *cfg
	out.StrideSchedule = append([]config.StrideStep(nil), cfg.StrideSchedule...)
	for _, f := range ConfigFields {
		v, ok := values[f.ID]
		if !ok {
			continue
		}
		if !f.set(&out, strings.TrimSpace(v)) {
			rejected = append(rejected, f.ID)
		}
	}
	_ = out.Validate()
	return out, rejected
}

func parseFloatField(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func parseIntField(s string) (int, bool) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return i, true
}

func parseBoolLoose(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y", "on", "t":
		return true, true
	case "false", "0", "no", "n", "off", "f":
		return false, true
	default:
		return false, false
	}
}
