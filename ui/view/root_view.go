package view

import (
	"image"
	"log/slog"
	"time"

	"github.com/soocke/pong-tracker-go/config"
	"github.com/soocke/pong-tracker-go/domain/motion"
	"github.com/soocke/pong-tracker-go/ui/model"
	"github.com/soocke/pong-tracker-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// Handlers are the user actions the root view forwards. A nil entry leaves
// its button inert.
type Handlers struct {
	ToggleCapture  func()
	SelectionGrid  func()
	StartColor     func()
	FinishColor    func()
	StartTable     func()
	TableFromWidth func()
	StartTracking  func()
	StopTracking   func()
	Reset          func()
	Export         func()
	Exit           func()
	ConfigApplied  func(*config.Config)
	PreviewClick   func(x, y int)
}

// RootView composes the top-level application layout and implements the
// view contracts of the presenters.
type RootView struct {
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger

	// Subviews
	Stats       SessionStats
	ConfigPanel ConfigPanel
	CapturePrev CapturePreview

	ModeLabel   *TLabelWidget
	StatusLabel *LabelWidget
}

func NewRootView(cfg *config.Config, cfgPath string, logger *slog.Logger) *RootView {
	return &RootView{cfg: cfg, cfgPath: cfgPath, logger: logger}
}

func call(fn func()) func() {
	return func() {
		if fn != nil {
			fn()
		}
	}
}

// Build constructs the layout. It must run on the Tk thread.
func (rv *RootView) Build(h Handlers) {
	if rv == nil {
		return
	}
	// Row 0: mode and status
	rv.ModeLabel = TLabel(Txt("Mode: idle"), Style(theme.StyleModeLabel))
	Grid(rv.ModeLabel, Row(0), Column(0), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	rv.StatusLabel = Label(Txt("Start capture, then calibrate the ball color and the table"), Anchor("w"), Borderwidth(1), Relief("ridge"))
	Grid(rv.StatusLabel, Row(0), Column(1), Columnspan(4), Sticky("we"), Padx("0.4m"), Pady("0.3m"))

	// Row 1: timers, speeds and recent shots
	statsFrame := Frame()
	Grid(statsFrame, Row(1), Column(0), Columnspan(5), Sticky("we"), Padx("0.3m"), Pady("0.3m"))
	rv.Stats = NewSessionStats(statsFrame)

	// Row 2: capture preview and close-up
	rv.CapturePrev = NewCapturePreview(2, h.PreviewClick)

	// Row 3: configuration
	cfgFrame := Frame()
	Grid(cfgFrame, Row(3), Column(0), Columnspan(5), Sticky("we"), Padx("0.3m"), Pady("0.3m"))
	rv.ConfigPanel = NewConfigPanel(rv.cfg, rv.cfgPath, rv.logger, h.ConfigApplied)
	rv.ConfigPanel.Build(cfgFrame)

	// Column 5: actions
	btnFrame := Frame()
	Grid(btnFrame, Row(0), Column(5), Rowspan(4), Sticky("ne"), Padx("0.3m"), Pady("0.3m"))
	buttons := []struct {
		txt   string
		style string
		fn    func()
	}{
		{"Toggle Capture", theme.StylePrimaryButton, h.ToggleCapture},
		{"Selection Grid", "", h.SelectionGrid},
		{"Calibrate Color", "", h.StartColor},
		{"Finish Color", "", h.FinishColor},
		{"Pick Table Ends", "", h.StartTable},
		{"Table = Frame Width", "", h.TableFromWidth},
		{"Start Tracking", theme.StylePrimaryButton, h.StartTracking},
		{"Stop Tracking", "", h.StopTracking},
		{"Reset", theme.StyleDangerButton, h.Reset},
		{"Export Report", "", h.Export},
		{"Dark Mode", "", func() { theme.ToggleDark() }},
		{"Exit", theme.StyleDangerButton, h.Exit},
	}
	for i, b := range buttons {
		opts := []Opt{Txt(b.txt), Command(call(b.fn))}
		if b.style != "" {
			opts = append(opts, Style(b.style))
		}
		Grid(TButton(opts...), In(btnFrame), Row(i), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	}
}

func (rv *RootView) ready() bool { return rv != nil && rv.CapturePrev != nil }

// SetModeLabel shows the tracker mode.
func (rv *RootView) SetModeLabel(text string) {
	if rv != nil && rv.ModeLabel != nil {
		rv.ModeLabel.Configure(Txt(text))
	}
}

// SetStatus shows a one-line message to the user.
func (rv *RootView) SetStatus(text string) {
	if rv != nil && rv.StatusLabel != nil {
		rv.StatusLabel.Configure(Txt(text))
	}
}

func (rv *RootView) UpdateCapture(img image.Image) {
	if rv.ready() {
		rv.CapturePrev.UpdateCapture(img)
	}
}

func (rv *RootView) UpdateCloseUp(img image.Image) {
	if rv.ready() {
		rv.CapturePrev.UpdateCloseUp(img)
	}
}

func (rv *RootView) SetSession(run, total time.Duration) {
	if rv != nil && rv.Stats != nil {
		rv.Stats.SetSession(run, total)
	}
}

func (rv *RootView) SetSpeeds(r model.SpeedReadout) {
	if rv != nil && rv.Stats != nil {
		rv.Stats.SetSpeeds(r)
	}
}

func (rv *RootView) SetShots(p motion.Player, lines []string) {
	if rv != nil && rv.Stats != nil {
		rv.Stats.SetShots(p, lines)
	}
}

// PreviewReset clears the capture preview.
func (rv *RootView) PreviewReset() {
	if rv.ready() {
		rv.CapturePrev.Reset()
	}
}

// ConfigEditable toggles config panel editability.
func (rv *RootView) ConfigEditable(b bool) {
	if rv != nil && rv.ConfigPanel != nil {
		rv.ConfigPanel.SetEditable(b)
	}
}
