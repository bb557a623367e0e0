package photo

import (
	"image"
	"sync"
)

// Reusable pixel-buffer pools. Decoded billboard photos and detector masks are
// large and short-lived across repeated load/detect cycles; pooling keeps the
// backing slices from accumulating as long-lived heap churn. If consumers
// never recycle, behavior degrades gracefully to plain allocation.

var rgbaPool sync.Pool // stores *image.RGBA

// AcquireRGBA returns a reusable RGBA image sized to rect. The returned Pix
// length exactly matches rect area * 4, and Stride is width*4.
func AcquireRGBA(rect image.Rectangle) *image.RGBA {
	w, h := rect.Dx(), rect.Dy()
	if w <= 0 || h <= 0 {
		return &image.RGBA{Rect: rect}
	}
	needed := w * h * 4
	var img *image.RGBA
	if v := rgbaPool.Get(); v != nil {
		img = v.(*image.RGBA)
	}
	if img == nil || cap(img.Pix) < needed {
		img = &image.RGBA{Pix: make([]byte, needed), Stride: w * 4, Rect: rect}
	} else {
		img.Stride = w * 4
		img.Rect = rect
		img.Pix = img.Pix[:needed]
	}
	return img
}

// RecycleRGBA returns the image to the pool for potential reuse. The image
// must no longer be accessed by the caller after recycling.
func RecycleRGBA(img *image.RGBA) {
	if img == nil || img.Pix == nil {
		return
	}
	rgbaPool.Put(img)
}

var maskPool sync.Pool // stores []byte

// AcquireMask returns a zeroed byte mask of at least n entries, length n.
func AcquireMask(n int) []byte {
	if n <= 0 {
		return nil
	}
	if v := maskPool.Get(); v != nil {
		m := v.([]byte)
		if cap(m) >= n {
			m = m[:n]
			for i := range m {
				m[i] = 0
			}
			return m
		}
	}
	return make([]byte, n)
}

// RecycleMask returns a mask to the pool.
func RecycleMask(m []byte) {
	if m == nil {
		return
	}
	maskPool.Put(m[:0])
}
