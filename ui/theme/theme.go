// Package theme holds the palette and ttk styles of the tracker window.
package theme

import (
	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// PaletteSnapshot lists the semantic colors of one mode.
type PaletteSnapshot struct {
	AppBg   string
	Surface string
	Primary string
	Danger  string
	Accent  string
	Text    string
}

var (
	light = PaletteSnapshot{AppBg: "#f7f9fb", Surface: "#ffffff", Primary: "#2563eb", Danger: "#dc2626", Accent: "#10b981", Text: "#1e293b"}
	dark  = PaletteSnapshot{AppBg: "#0f172a", Surface: "#1e293b", Primary: "#3b82f6", Danger: "#ef4444", Accent: "#10b981", Text: "#f1f5f9"}
)

// style names used with Style(...)
const (
	StylePrimaryButton = "primary.TButton"
	StyleDangerButton  = "danger.TButton"
	StyleModeLabel     = "mode.TLabel"
	StyleSpeedLabel    = "speed.TLabel"
)

var darkMode bool

// Current returns the palette of the active mode.
func Current() PaletteSnapshot {
	if darkMode {
		return dark
	}
	return light
}

// InitStyles (re)applies styles for the current mode.
func InitStyles() { applyStyles(Current()) }

// ToggleDark flips dark mode and reapplies styles. Returns the new mode.
func ToggleDark() bool {
	darkMode = !darkMode
	applyStyles(Current())
	return darkMode
}

// IsDark reports the current mode.
func IsDark() bool { return darkMode }

func applyStyles(p PaletteSnapshot) {
	_ = ActivateTheme("azure light") // baseline metrics
	App.Configure(Background(p.AppBg))

	StyleConfigure(StylePrimaryButton, Background(p.Primary), Foreground("white"), Padding("4p 3p"), Borderwidth(1), Relief("ridge"))
	StyleConfigure(StyleDangerButton, Background(p.Danger), Foreground("white"), Padding("4p 3p"), Borderwidth(1), Relief("ridge"))
	StyleConfigure(StyleModeLabel, Foreground("white"), Background(p.Accent), Padding("4p 2p"), Borderwidth(1), Relief("groove"))
	StyleConfigure(StyleSpeedLabel, Foreground(p.Primary), Background(p.Surface), Padding("2p 1p"))
}
