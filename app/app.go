// Package app wires the tracker pipeline to the Tk window.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/soocke/pong-tracker-go/config"
	"github.com/soocke/pong-tracker-go/debug"
	"github.com/soocke/pong-tracker-go/ui/presenter"
	"github.com/soocke/pong-tracker-go/ui/theme"
	"github.com/soocke/pong-tracker-go/ui/view"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

const (
	tick          = 30 * time.Millisecond
	debugInterval = 10 * time.Second
)

// app owns the Tk main window and the update loop.
type app struct {
	title   string
	width   int
	height  int
	logger  *slog.Logger
	c       *AppContainer
	ctx     context.Context
	cancel  context.CancelFunc
	afterID string
	closed  bool
}

// NewApp builds the container. The window appears on Start.
func NewApp(title string, width, height int, cfg *config.Config, cfgPath string, logger *slog.Logger) (*app, error) {
	ctx, cancel := context.WithCancel(context.Background())
	c, err := BuildContainer(ctx, cfg, cfgPath, logger)
	if err != nil {
		cancel()
		return nil, err
	}
	return &app{title: title, width: width, height: height, logger: logger, c: c, ctx: ctx, cancel: cancel}, nil
}

// Start builds the window and blocks until it is closed.
func (a *app) Start() {
	App.WmTitle(a.title)
	WmProtocol(App, "WM_DELETE_WINDOW", a.exitHandler)
	WmGeometry(App, fmt.Sprintf("%dx%d+100+100", a.width, a.height))
	theme.InitStyles()

	c := a.c
	tp := c.TrackingPresenter
	c.RootView.Build(view.Handlers{
		ToggleCapture:  c.CapturePresenter.Toggle,
		SelectionGrid:  c.Selection.OpenOrFocus,
		StartColor:     tp.StartColorCalibration,
		FinishColor:    tp.FinishColorCalibration,
		StartTable:     tp.StartTableCalibration,
		TableFromWidth: tp.CalibrateTableFromFraction,
		StartTracking:  tp.StartTracking,
		StopTracking:   tp.StopTracking,
		Reset: func() {
			tp.Reset()
			c.SessionPresenter.Reset()
		},
		Export:        tp.ExportReport,
		Exit:          a.exitHandler,
		ConfigApplied: c.ApplyConfig,
		PreviewClick:  tp.Click,
	})
	c.Loop = presenter.NewLoop(c.SessionPresenter, c.ModePresenter, tp, c.StallWatcher, a.scheduleUpdate)

	if c.Config.Debug {
		debug.StartGoroutineLogger(a.ctx, debugInterval, a.logger)
		debug.StartMemLogger(a.ctx, debugInterval, a.logger)
	}
	if a.logger != nil {
		a.logger.Info("tracker started", "source", c.Config.Source, "database", c.Config.DatabasePath)
	}

	a.scheduleUpdate()
	App.Wait()
	a.shutdown()
}

func (a *app) scheduleUpdate() {
	// TclAfter keeps every widget update on Tk's event loop thread.
	a.afterID = TclAfter(tick, func() { a.c.Loop.Tick() })
}

func (a *app) exitHandler() {
	if a.afterID != "" {
		TclAfterCancel(a.afterID)
	}
	a.shutdown()
	Destroy(App)
}

func (a *app) shutdown() {
	if a.closed {
		return
	}
	a.closed = true
	a.c.Close()
	a.cancel()
	if a.logger != nil {
		a.logger.Info("tracker stopped")
	}
}
