package presenter

import (
	"github.com/soocke/pong-tracker-go/domain/capture"
)

// CaptureModel provides enabled state access.
type CaptureModel interface {
	Enabled() bool
	SetEnabled(bool) bool
}

// LifecycleContract narrows what presenter needs from the capture layer.
type LifecycleContract interface {
	Start()
	Stop()
}

// TrackingControl is the part of the tracking presenter that must react
// when frames stop flowing.
type TrackingControl interface {
	StopTracking()
}

// CaptureView updates UI elements affected by capture toggling.
type CaptureView interface {
	PreviewReset()
	ConfigEditable(bool)
}

// CapturePresenter owns presentation logic for toggling capture state.
type CapturePresenter struct {
	model    CaptureModel
	service  LifecycleContract // narrowed from full capture.CaptureService
	tracking TrackingControl
	view     CaptureView
}

func NewCapturePresenter(model CaptureModel, service capture.CaptureService, tracking TrackingControl, view CaptureView) *CapturePresenter {
	return &CapturePresenter{model: model, service: service, tracking: tracking, view: view}
}

func (c *CapturePresenter) ready() bool {
	return c != nil && c.model != nil && c.service != nil && c.view != nil
}

// Enable starts the capture service and locks the config panel. Idempotent.
func (c *CapturePresenter) Enable() {
	if !c.ready() || c.model.Enabled() {
		return
	}
	c.service.Start()
	c.model.SetEnabled(true)
	c.view.ConfigEditable(false)
}

// Disable stops tracking and the capture service and resets the preview.
// Idempotent.
func (c *CapturePresenter) Disable() {
	if !c.ready() || !c.model.Enabled() {
		return
	}
	if c.tracking != nil {
		c.tracking.StopTracking()
	}
	c.service.Stop()
	c.model.SetEnabled(false)
	c.view.PreviewReset()
	c.view.ConfigEditable(true)
}

// Toggle flips enabled state delegating to Enable/Disable.
func (c *CapturePresenter) Toggle() {
	if !c.ready() {
		return
	}
	if c.model.Enabled() {
		c.Disable()
		return
	}
	c.Enable()
}
