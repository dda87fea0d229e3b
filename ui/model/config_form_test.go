package model

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/soocke/pong-tracker-go/config"
)

func TestApplyConfigValues(t *testing.T) {
	cfg := config.DefaultConfig()
	out, rejected := ApplyConfigValues(cfg, map[string]string{
		"hueMargin":       " 12.5 ",
		"hitCooldownMs":   "750",
		"displayUnit":     "mph",
		"debug":           "yes",
		"tableLength":     "abc",
		"midlineFraction": "1.5", // out of range, reset by Validate
	})
	assert.Equal(t, []string{"tableLength"}, rejected)
	assert.InDelta(t, 12.5, out.HueMargin, 1e-9)
	assert.Equal(t, 750, out.HitCooldownMilli)
	assert.Equal(t, "mph", out.DisplayUnit)
	assert.True(t, out.Debug)
	assert.InDelta(t, cfg.TableLength, out.TableLength, 1e-9)
	assert.InDelta(t, 0.5, out.MidlineFraction, 1e-9)
	assert.InDelta(t, 20, cfg.HueMargin, 1e-9, "input config must not change")
}

func TestConfigFieldsRoundTripDefaults(t *testing.T) {
	cfg := config.DefaultConfig()
	values := make(map[string]string, len(ConfigFields))
	seen := make(map[string]bool)
	for _, f := range ConfigFields {
		assert.False(t, seen[f.ID], "duplicate field %s", f.ID)
		seen[f.ID] = true
		values[f.ID] = f.Value(cfg)
	}
	out, rejected := ApplyConfigValues(cfg, values)
	// empty replay dir is left as is
	assert.Equal(t, []string{"replayDir"}, rejected)
	assert.Equal(t, cfg.SampleWindowPx, out.SampleWindowPx)
	assert.Equal(t, cfg.Source, out.Source)
	assert.InDelta(t, cfg.FilterGain, out.FilterGain, 1e-9)
}

func TestParseBoolLoose(t *testing.T) {
	for in, want := range map[string]bool{"on": true, "OFF": false, "t": true, "0": false} {
		got, ok := parseBoolLoose(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := parseBoolLoose("maybe")
	assert.False(t, ok)
}
