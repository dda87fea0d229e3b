package view

import (
	"image"

	"github.com/soocke/pong-tracker-go/ui/images"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// CapturePreview shows the (already scaled) capture frame with the ball
// marker and a zoomed close-up of the ball. Clicks on the frame are
// reported in preview pixel coordinates.
type CapturePreview interface {
	UpdateCapture(img image.Image)
	UpdateCloseUp(img image.Image)
	Reset()
}

// previewInset is the label border plus its internal padding; click
// coordinates are relative to the label, not the image.
const previewInset = 2

type capturePreview struct {
	captureLabel     *LabelWidget
	closeUpLabel     *LabelWidget
	prevCapturePhoto *Img // last Tk photo image instance for capture
	prevCloseUpPhoto *Img
}

// NewCapturePreview creates the preview labels on row and binds onClick to
// left clicks on the capture.
func NewCapturePreview(row int, onClick func(x, y int)) CapturePreview {
	pngBytes := placeholderPNG()
	capPhoto := NewPhoto(Data(pngBytes))
	closePhoto := NewPhoto(Data(pngBytes))
	capture := Label(Image(capPhoto), Borderwidth(1), Relief("sunken"), Cursor("crosshair"))
	closeUp := Label(Image(closePhoto), Borderwidth(1), Relief("sunken"))
	Grid(capture, Row(row), Column(0), Columnspan(4), Sticky("nw"), Padx("0.4m"), Pady("0.4m"))
	Grid(closeUp, Row(row), Column(4), Sticky("n"), Padx("0.4m"), Pady("0.4m"))
	if onClick != nil {
		Bind(capture, "<Button-1>", Command(func(e *Event) {
			onClick(e.X-previewInset, e.Y-previewInset)
		}))
	}
	return &capturePreview{captureLabel: capture, closeUpLabel: closeUp, prevCapturePhoto: capPhoto, prevCloseUpPhoto: closePhoto}
}

func placeholderPNG() []byte {
	return images.EncodePNG(image.NewRGBA(image.Rect(0, 0, 200, 120)))
}

// replace swaps the label's photo, deleting the old one so off-screen pixel
// data does not pile up in the Tcl interpreter.
func replace(label *LabelWidget, prev **Img, pngBytes []byte) {
	if label == nil {
		return
	}
	if *prev != nil {
		(*prev).Delete()
	}
	*prev = NewPhoto(Data(pngBytes))
	label.Configure(Image(*prev))
}

func (v *capturePreview) UpdateCapture(img image.Image) {
	if img == nil {
		return
	}
	replace(v.captureLabel, &v.prevCapturePhoto, images.EncodePNG(img))
}

func (v *capturePreview) UpdateCloseUp(img image.Image) {
	if img == nil {
		return
	}
	replace(v.closeUpLabel, &v.prevCloseUpPhoto, images.EncodePNG(img))
}

func (v *capturePreview) Reset() {
	pngBytes := placeholderPNG()
	replace(v.captureLabel, &v.prevCapturePhoto, pngBytes)
	replace(v.closeUpLabel, &v.prevCloseUpPhoto, pngBytes)
}
