package view

import (
	"fmt"
	"image"
	"log/slog"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/soocke/pong-tracker-go/config"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders
	. "modernc.org/tk9.0"
)

// SelectionOverlay manages the see-through window used to restrict screen
// capture to the part of the display showing the table.
type SelectionOverlay interface {
	OpenOrFocus()
	Clear()
	// SelectionRect returns the confirmed rectangle or nil. Safe to call
	// from the capture goroutine.
	SelectionRect() *image.Rectangle
}

const overlayKey = "#008080"

type selectionOverlay struct {
	logger    *slog.Logger
	cfg       *config.Config
	cfgPath   string
	selection atomic.Value // image.Rectangle
	win       *ToplevelWidget
}

// NewSelectionOverlay restores the last confirmed selection from cfg.
func NewSelectionOverlay(cfg *config.Config, cfgPath string, logger *slog.Logger) SelectionOverlay {
	v := &selectionOverlay{logger: logger, cfg: cfg, cfgPath: cfgPath}
	if cfg != nil && cfg.SelectionW > 0 && cfg.SelectionH > 0 {
		v.selection.Store(image.Rect(cfg.SelectionX, cfg.SelectionY, cfg.SelectionX+cfg.SelectionW, cfg.SelectionY+cfg.SelectionH))
	}
	return v
}

func (v *selectionOverlay) OpenOrFocus() {
	if v.win != nil {
		return
	}
	win := App.Toplevel(Borderwidth(2), Background(overlayKey))
	win.WmTitle("Table Selection")
	v.win = win
	WmGeometry(win.Window, v.initialGeometry())
	WmAttributes(win.Window, "-topmost", 1)
	if runtime.GOOS == "windows" {
		WmAttributes(win.Window, "-toolwindow", true)
		WmAttributes(win.Window, "-transparentcolor", overlayKey)
	} else {
		WmAttributes(win.Window, "-alpha", 0.4)
	}
	GridRowConfigure(win.Window, 0, Weight(1))
	GridColumnConfigure(win.Window, 1, Weight(1))
	left := win.Frame(Width(4), Background("#FFFFFF"))
	Grid(left, Row(0), Column(0), Sticky("ns"))
	center := win.Frame(Background(overlayKey))
	Grid(center, Row(0), Column(1), Sticky("nsew"))
	right := win.Frame(Width(4), Background("#FFFFFF"))
	Grid(right, Row(0), Column(2), Sticky("ns"))
	controls := win.Frame()
	Grid(controls, Row(1), Column(0), Columnspan(3), Sticky("we"))
	for i, b := range []struct {
		txt string
		fn  func()
	}{{"Confirm [Enter]", v.confirm}, {"Cancel [Esc]", v.destroy}, {"Clear", v.Clear}} {
		btn := win.Button(Txt(b.txt), Command(b.fn))
		Grid(btn, In(controls), Row(0), Column(i), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	}
	Bind(win, "<Return>", Command(v.confirm))
	Bind(win, "<Escape>", Command(v.destroy))
	WmProtocol(win.Window, "WM_DELETE_WINDOW", v.destroy)
}

// initialGeometry reopens over the previous selection, or centres a
// window of a 1080p screen.
func (v *selectionOverlay) initialGeometry() string {
	if r := v.SelectionRect(); r != nil {
		return fmt.Sprintf("%dx%d+%d+%d", r.Dx(), r.Dy(), r.Min.X, r.Min.Y)
	}
	const screenW, screenH = 1920, 1080
	w, h := screenW*2/3, screenH*5/9
	return fmt.Sprintf("%dx%d+%d+%d", w, h, (screenW-w)/2, (screenH-h)/2)
}

func (v *selectionOverlay) Clear() {
	v.selection.Store(image.Rectangle{})
	if v.cfg != nil {
		v.cfg.SelectionW, v.cfg.SelectionH = 0, 0
		v.save()
	}
}

func (v *selectionOverlay) confirm() {
	if v.win == nil {
		return
	}
	if rect, ok := parseGeometry(WmGeometry(v.win.Window)); ok {
		v.selection.Store(rect)
		if v.cfg != nil {
			v.cfg.SelectionX, v.cfg.SelectionY = rect.Min.X, rect.Min.Y
			v.cfg.SelectionW, v.cfg.SelectionH = rect.Dx(), rect.Dy()
			v.save()
		}
		if v.logger != nil {
			v.logger.Info("capture selection set", "rect", rect.String())
		}
	}
	v.destroy()
}

func (v *selectionOverlay) save() {
	if err := v.cfg.Save(v.cfgPath); err != nil && v.logger != nil {
		v.logger.Error("config save failed", "error", err)
	}
}

func (v *selectionOverlay) destroy() {
	if v.win != nil {
		Destroy(v.win)
		v.win = nil
	}
}

func (v *selectionOverlay) SelectionRect() *image.Rectangle {
	r, ok := v.selection.Load().(image.Rectangle)
	if !ok || r.Empty() {
		return nil
	}
	return &r
}

// geomRe matches Tk geometry strings "WIDTHxHEIGHT+X+Y".
var geomRe = regexp.MustCompile(`^(\d+)x(\d+)\+(-?\d+)\+(-?\d+)$`)

func parseGeometry(g string) (image.Rectangle, bool) {
	m := geomRe.FindStringSubmatch(strings.TrimSpace(g))
	if len(m) != 5 {
		return image.Rectangle{}, false
	}
	w, _ := strconv.Atoi(m[1])
	h, _ := strconv.Atoi(m[2])
	x, _ := strconv.Atoi(m[3])
	y, _ := strconv.Atoi(m[4])
	if w <= 0 || h <= 0 {
		return image.Rectangle{}, false
	}
	return image.Rect(x, y, x+w, y+h), true
}
