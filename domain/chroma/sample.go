package chroma

import (
	"fmt"
	"image"
	"image/color"

	"github.com/adlift/mockup-studio/domain/geometry"
)

// SampleColor reads the single pixel under the image-space point and returns
// it as a hex string for use as the next detection's target. ok is false when
// the point lies outside the photo.
func SampleColor(img *image.RGBA, p geometry.Point) (string, bool) {
	if img == nil {
		return "", false
	}
	x, y := int(p.X), int(p.Y)
	if !(image.Point{X: x, Y: y}).In(img.Bounds()) {
		return "", false
	}
	c := img.RGBAAt(x, y)
	return FormatHex(c), true
}

// FormatHex renders a color as "#rrggbb".
func FormatHex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseHex parses "#rrggbb" or "rrggbb" into an opaque RGBA color.
func ParseHex(s string) (color.RGBA, error) {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("chroma: invalid hex color %q", s)
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{}, fmt.Errorf("chroma: invalid hex color %q", s)
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}
