package images

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/adlift/mockup-studio/domain/frame"
)

// ApproximateAppearance applies the creative's appearance settings locally so
// the canvas can hint at the final look before the remote composite returns.
// Only the channel-wise adjustments are approximated; perspective warping,
// lighting direction and shadows are left to the compositor service.
func ApproximateAppearance(src image.Image, app frame.Appearance) image.Image {
	if src == nil {
		return nil
	}
	out := imaging.Clone(src)
	if pct := toPercent(app.Brightness); pct != 0 {
		out = imaging.AdjustBrightness(out, pct)
	}
	if pct := toPercent(app.Contrast); pct != 0 {
		out = imaging.AdjustContrast(out, pct)
	}
	if pct := toPercent(app.Saturation); pct != 0 {
		out = imaging.AdjustSaturation(out, pct)
	}
	if app.ImageBlur > 0 {
		out = imaging.Blur(out, app.ImageBlur)
	}
	if app.Sharpening > 0 {
		out = imaging.Sharpen(out, app.Sharpening)
	}
	if app.OverlayOpacity >= 0 && app.OverlayOpacity < 1 {
		out = imaging.AdjustFunc(out, opacityScale(app.OverlayOpacity))
	}
	return out
}

// opacityScale multiplies the alpha channel by the overlay opacity.
func opacityScale(opacity float64) func(color.NRGBA) color.NRGBA {
	return func(c color.NRGBA) color.NRGBA {
		c.A = uint8(float64(c.A) * opacity)
		return c
	}
}

// toPercent maps a 1.0-centered multiplier to the -100..100 percentage range
// the imaging adjustments take.
func toPercent(mult float64) float64 {
	pct := (mult - 1) * 100
	if pct > 100 {
		pct = 100
	}
	if pct < -100 {
		pct = -100
	}
	return pct
}
