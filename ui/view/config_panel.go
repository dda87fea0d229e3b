package view

import (
	"log/slog"
	"strings"

	"github.com/soocke/pong-tracker-go/config"
	"github.com/soocke/pong-tracker-go/ui/model"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// ConfigPanel encapsulates the configuration form widgets and apply logic.
// It owns its widgets and writes back into *config.Config on ApplyChanges.
type ConfigPanel interface {
	Build(parent *FrameWidget) // constructs one row per model.ConfigFields entry
	SetEditable(enabled bool)
	ApplyChanges() // parses widget text into underlying config and persists
}

type configPanel struct {
	cfg      *config.Config
	cfgPath  string
	logger   *slog.Logger
	onApply  func(*config.Config)
	applyBtn *ButtonWidget
	widgets  map[string]*TextWidget // keyed by field id
}

// NewConfigPanel creates the view bound to cfg. onApply runs after a
// successful apply so dependents can pick up the new values.
func NewConfigPanel(cfg *config.Config, cfgPath string, logger *slog.Logger, onApply func(*config.Config)) ConfigPanel {
	return &configPanel{cfg: cfg, cfgPath: cfgPath, logger: logger, onApply: onApply, widgets: make(map[string]*TextWidget)}
}

func (v *configPanel) Build(parent *FrameWidget) {
	// two columns of label/entry pairs keep the panel short
	half := (len(model.ConfigFields) + 1) / 2
	for i, f := range model.ConfigFields {
		row, col := i%half, (i/half)*2
		lbl := Label(Txt(f.Label), Anchor("w"))
		Grid(lbl, In(parent), Row(row), Column(col), Sticky("w"), Padx("0.4m"), Pady("0.15m"))
		w := Text(Height(1), Width(16))
		Grid(w, In(parent), Row(row), Column(col+1), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
		w.Insert("1.0", f.Value(v.cfg))
		v.widgets[f.ID] = w
	}
	v.applyBtn = Button(Txt("Apply Changes"), Command(func() { v.ApplyChanges() }))
	Grid(v.applyBtn, In(parent), Row(half), Column(0), Columnspan(4), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
}

func (v *configPanel) SetEditable(enabled bool) {
	state := "disabled"
	if enabled {
		state = "normal"
	}
	for _, w := range v.widgets {
		if w != nil {
			w.Configure(State(state))
		}
	}
	if v.applyBtn != nil {
		v.applyBtn.Configure(State(state))
	}
}

func (v *configPanel) text(w *TextWidget) string {
	if w == nil {
		return ""
	}
	return strings.Join(w.Get("1.0", END), "")
}

func (v *configPanel) ApplyChanges() {
	if v.cfg == nil {
		return
	}
	values := make(map[string]string, len(v.widgets))
	for id, w := range v.widgets {
		values[id] = v.text(w)
	}
	cfg, rejected := model.ApplyConfigValues(v.cfg, values)
	if len(rejected) > 0 && v.logger != nil {
		v.logger.Warn("config fields ignored", "fields", rejected)
	}
	*v.cfg = cfg
	v.refresh()
	if err := v.cfg.Save(v.cfgPath); err != nil {
		if v.logger != nil {
			v.logger.Error("config save failed", "error", err)
		}
	} else if v.logger != nil {
		v.logger.Info("config saved", "path", v.cfgPath)
	}
	if v.onApply != nil {
		v.onApply(v.cfg)
	}
}

// refresh shows the validated values, so clamped input is visible.
func (v *configPanel) refresh() {
	for _, f := range model.ConfigFields {
		if w := v.widgets[f.ID]; w != nil {
			w.Delete("1.0", END)
			w.Insert("1.0", f.Value(v.cfg))
		}
	}
}
