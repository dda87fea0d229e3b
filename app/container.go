package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/soocke/pong-tracker-go/config"
	"github.com/soocke/pong-tracker-go/domain/capture"
	"github.com/soocke/pong-tracker-go/domain/hit"
	"github.com/soocke/pong-tracker-go/domain/tracker"
	"github.com/soocke/pong-tracker-go/report"
	"github.com/soocke/pong-tracker-go/store"
	"github.com/soocke/pong-tracker-go/ui/model"
	"github.com/soocke/pong-tracker-go/ui/presenter"
	"github.com/soocke/pong-tracker-go/ui/view"
)

// AppContainer assembles services, models, presenters and the root view.
type AppContainer struct {
	Config  *config.Config
	CfgPath string
	Logger  *slog.Logger

	Grabber    capture.Grabber
	CaptureSvc capture.CaptureService
	Store      *store.Store // nil when the database could not be opened
	Recorder   *store.Recorder

	Capture  *model.CaptureModel
	Session  *model.SessionModel
	Tracking *model.TrackingModel

	RootView  *view.RootView
	Selection view.SelectionOverlay

	// Presenters
	TrackingPresenter *presenter.TrackingPresenter
	CapturePresenter  *presenter.CapturePresenter
	SessionPresenter  *presenter.SessionPresenter
	ModePresenter     *presenter.ModePresenter
	StallWatcher      *presenter.StallWatcher
	Loop              *presenter.Loop

	exportSettings atomic.Pointer[exportSettings]
}

// exportSettings is the part of the config read by report exports, which
// run off the Tk thread.
type exportSettings struct {
	dir         string
	lengthUnit  string
	displayUnit string
}

// BuildContainer constructs all components. Nothing here touches Tk
// widgets; the root view is built later on the Tk thread. A failing shot
// store is logged and the tracker runs without persistence.
func BuildContainer(ctx context.Context, cfg *config.Config, cfgPath string, logger *slog.Logger) (*AppContainer, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	c := &AppContainer{Config: cfg, CfgPath: cfgPath, Logger: logger}

	g, err := capture.NewGrabber(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("frame source: %w", err)
	}
	c.Grabber = g
	c.Selection = view.NewSelectionOverlay(cfg, cfgPath, logger)
	c.CaptureSvc = capture.NewCaptureService(logger, g, c.Selection.SelectionRect)

	var listeners []tracker.ShotListener
	if st, err := store.Open(cfg, logger); err != nil {
		if logger != nil {
			logger.Error("shot store unavailable, shots will not be saved", "path", cfg.DatabasePath, "error", err)
		}
	} else {
		c.Store = st
		c.Recorder = st.Recorder(ctx, logger)
		listeners = append(listeners, c.Recorder.Record)
	}

	c.Capture = &model.CaptureModel{}
	c.Session = model.NewSessionModel()
	c.Tracking = model.NewTrackingModel()
	c.RootView = view.NewRootView(cfg, cfgPath, logger)

	// the worker goroutine gets its own copy; panel edits reach it through
	// Reconfigure
	trackCfg := *cfg
	c.ModePresenter = presenter.NewModePresenter(c.RootView)
	c.TrackingPresenter = presenter.NewTrackingPresenter(
		c.Capture.Enabled, c.CaptureSvc, c.RootView, c.Tracking, c.ModePresenter,
		nil, &trackCfg, logger, listeners...)
	c.TrackingPresenter.Export = c.exportReport
	c.CapturePresenter = presenter.NewCapturePresenter(c.Capture, c.CaptureSvc, c.TrackingPresenter, c.RootView)
	c.SessionPresenter = presenter.NewSessionPresenter(c.Session, c.Tracking, c.RootView)
	c.StallWatcher = presenter.NewStallWatcher(c.CaptureSvc, c.RootView, logger, 0)
	c.storeExportSettings(cfg)
	return c, nil
}

// ApplyConfig hands edited settings to the tracker and the exporter. Call it
// on the Tk thread after the config panel changed c.Config.
func (c *AppContainer) ApplyConfig(cfg *config.Config) {
	if c == nil || cfg == nil {
		return
	}
	c.TrackingPresenter.Reconfigure(*cfg)
	c.SessionPresenter.Reset()
	c.storeExportSettings(cfg)
}

func (c *AppContainer) storeExportSettings(cfg *config.Config) {
	c.exportSettings.Store(&exportSettings{dir: cfg.ReportDir, lengthUnit: cfg.LengthUnit, displayUnit: cfg.DisplayUnit})
}

// exportReport writes the HTML and PNG charts for a session. It runs off
// the Tk thread.
func (c *AppContainer) exportReport(session uuid.UUID, shots []hit.ShotRecord) (string, error) {
	es := c.exportSettings.Load()
	htmlPath, pngPath, err := report.Export(es.dir, session, shots, report.Options{
		Title:       "Session " + session.String()[:8],
		LengthUnit:  es.lengthUnit,
		DisplayUnit: es.displayUnit,
	})
	if err != nil {
		return "", err
	}
	if c.Logger != nil {
		c.Logger.Info("report exported", "html", htmlPath, "png", pngPath, "shots", len(shots))
	}
	return "Report written to " + htmlPath, nil
}

// Close stops the pipeline and releases resources in dependency order:
// no shots are produced once the presenter is closed, so the recorder can
// flush before the store closes.
func (c *AppContainer) Close() {
	if c == nil {
		return
	}
	c.TrackingPresenter.Close()
	if c.CaptureSvc != nil {
		c.CaptureSvc.Stop()
	}
	if c.Grabber != nil {
		if err := c.Grabber.Close(); err != nil && c.Logger != nil {
			c.Logger.Warn("frame source close", "error", err)
		}
	}
	if c.Recorder != nil {
		c.Recorder.Close()
	}
	if c.Store != nil {
		if err := c.Store.Close(); err != nil && c.Logger != nil {
			c.Logger.Warn("shot store close", "error", err)
		}
	}
}
