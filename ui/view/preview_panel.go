package view

import (
	"image"

	"github.com/adlift/mockup-studio/ui/images"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// PreviewPanel shows the remote test-composite result next to the canvas.
type PreviewPanel interface {
	UpdatePreview(img image.Image)
	SetPreviewStatus(text string)
	Reset()
}

type previewPanel struct {
	previewLabel *LabelWidget
	statusLabel  *LabelWidget
	prevPhoto    *Img // last Tk photo image instance
	maxW, maxH   int
}

// NewPreviewPanel creates the preview label and its status line at the given
// grid position.
func NewPreviewPanel(row, col, maxW, maxH int) PreviewPanel {
	if maxW <= 0 || maxH <= 0 {
		maxW, maxH = 360, 240
	}
	placeholder := image.NewRGBA(image.Rect(0, 0, maxW/2, maxH/2))
	photo := NewPhoto(Data(images.EncodePNG(placeholder)))
	label := Label(Image(photo), Borderwidth(1), Relief("sunken"))
	Grid(label, Row(row), Column(col), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.4m"))
	status := Label(Txt(""), Anchor("w"))
	Grid(status, Row(row+1), Column(col), Columnspan(2), Sticky("we"), Padx("0.4m"))
	return &previewPanel{previewLabel: label, statusLabel: status, prevPhoto: photo, maxW: maxW, maxH: maxH}
}

// UpdatePreview scales the composite for display and swaps the Tk photo,
// deleting the previous instance so obsolete pixel data is not retained.
func (v *previewPanel) UpdatePreview(img image.Image) {
	if v == nil || v.previewLabel == nil || img == nil {
		return
	}
	scaled := images.ScaleToFit(img, v.maxW, v.maxH)
	pngBytes := images.EncodePNG(scaled)
	if v.prevPhoto != nil {
		v.prevPhoto.Delete()
	}
	v.prevPhoto = NewPhoto(Data(pngBytes))
	v.previewLabel.Configure(Image(v.prevPhoto))
}

// SetPreviewStatus updates the status line under the preview.
func (v *previewPanel) SetPreviewStatus(text string) {
	if v == nil || v.statusLabel == nil {
		return
	}
	v.statusLabel.Configure(Txt(text))
}

// Reset restores the placeholder.
func (v *previewPanel) Reset() {
	if v == nil || v.previewLabel == nil {
		return
	}
	placeholder := image.NewRGBA(image.Rect(0, 0, v.maxW/2, v.maxH/2))
	if v.prevPhoto != nil {
		v.prevPhoto.Delete()
	}
	v.prevPhoto = NewPhoto(Data(images.EncodePNG(placeholder)))
	v.previewLabel.Configure(Image(v.prevPhoto))
	v.SetPreviewStatus("")
}
