package assets

import (
	"bytes"
	_ "embed"
	"fmt"
	"image"
	"image/png"
)

// PlaceholderCreativePNG contains the raw PNG bytes of the placeholder
// creative shown before an operator uploads one.
//
//go:embed placeholder_creative.png
var PlaceholderCreativePNG []byte

// PlaceholderCreativeImage decodes the embedded PNG into an image.Image.
func PlaceholderCreativeImage() (image.Image, error) {
	if len(PlaceholderCreativePNG) == 0 {
		return nil, fmt.Errorf("embedded placeholder_creative.png is empty")
	}
	img, err := png.Decode(bytes.NewReader(PlaceholderCreativePNG))
	if err != nil {
		return nil, err
	}
	return img, nil
}
