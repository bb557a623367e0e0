package photo

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"

	"github.com/disintegration/imaging"

	// Registered for template photos served as webp.
	_ "golang.org/x/image/webp"
)

// AssetLoadError reports bytes that failed to decode as an image. The editor
// state is left unchanged when it occurs.
type AssetLoadError struct {
	Kind string // "photo" or "creative"
	Err  error
}

func (e *AssetLoadError) Error() string {
	return fmt.Sprintf("%s bytes failed to decode: %v", e.Kind, e.Err)
}

func (e *AssetLoadError) Unwrap() error { return e.Err }

// Photo is a decoded image buffer plus its natural size. The RGBA buffer is
// pooled; call Release when the photo is superseded.
type Photo struct {
	RGBA   *image.RGBA
	Width  int
	Height int
}

// Load decodes raw image bytes (png, jpeg, gif, tiff, bmp via imaging; webp
// via x/image) into a pooled RGBA buffer. kind names the asset in errors.
func Load(data []byte, kind string) (*Photo, error) {
	src, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &AssetLoadError{Kind: kind, Err: err}
	}
	b := src.Bounds()
	dst := AcquireRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return &Photo{RGBA: dst, Width: b.Dx(), Height: b.Dy()}, nil
}

// Release returns the pixel buffer to the pool. The photo must not be used
// afterwards.
func (p *Photo) Release() {
	if p == nil || p.RGBA == nil {
		return
	}
	RecycleRGBA(p.RGBA)
	p.RGBA = nil
}
