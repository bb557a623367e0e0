package preview

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"sync"

	"github.com/adlift/mockup-studio/remote"
)

// Compositor narrows the remote client to what the bridge needs.
type Compositor interface {
	Render(ctx context.Context, req remote.RenderRequest) (image.Image, error)
}

// ErrPreviewInFlight rejects a preview request while another is outstanding;
// only one preview renders at a time.
var ErrPreviewInFlight = errors.New("preview: a request is already in flight")

// DoneFunc receives the rendered preview or the failure. It runs on the
// bridge's fetch goroutine; callers marshal onto their own loop as needed.
type DoneFunc func(key string, img image.Image, err error)

// Bridge submits the active frame to the remote compositor and caches the
// returned preview per frame key. Completion results are discarded when the
// session generation has moved on (photo changed, session closed) so stale
// renders never overwrite fresher state.
type Bridge struct {
	comp   Compositor
	cache  *Cache
	logger *slog.Logger

	mu         sync.Mutex
	inFlight   bool
	generation uint64
}

// NewBridge wires the bridge to a compositor and a cache.
func NewBridge(comp Compositor, cache *Cache, logger *slog.Logger) *Bridge {
	return &Bridge{comp: comp, cache: cache, logger: logger}
}

// Cached returns the cached preview for key without issuing a request.
func (b *Bridge) Cached(key string) (image.Image, bool) {
	return b.cache.Get(key)
}

// Request renders a preview for key. A cache hit completes synchronously.
// Otherwise the render is issued in the background and done is called when it
// finishes; requesting while a render is outstanding fails with
// ErrPreviewInFlight.
func (b *Bridge) Request(ctx context.Context, key string, req remote.RenderRequest, done DoneFunc) error {
	if img, ok := b.cache.Get(key); ok {
		if done != nil {
			done(key, img, nil)
		}
		return nil
	}

	b.mu.Lock()
	if b.inFlight {
		b.mu.Unlock()
		return ErrPreviewInFlight
	}
	b.inFlight = true
	gen := b.generation
	b.mu.Unlock()

	go func() {
		img, err := b.comp.Render(ctx, req)

		b.mu.Lock()
		b.inFlight = false
		stale := gen != b.generation
		b.mu.Unlock()

		if stale {
			// Best-effort cancellation: the result arrives after the photo
			// or session it belongs to is gone, so it is dropped.
			if b.logger != nil {
				b.logger.Debug("stale preview discarded", "key", key)
			}
			return
		}
		if err == nil {
			b.cache.Set(key, img)
		} else if b.logger != nil {
			b.logger.Warn("preview render failed", "key", key, "error", err)
		}
		if done != nil {
			done(key, img, err)
		}
	}()
	return nil
}

// Invalidate bumps the generation: any in-flight render completes into the
// void, and the cache is cleared.
func (b *Bridge) Invalidate() {
	b.mu.Lock()
	b.generation++
	b.mu.Unlock()
	b.cache.Clear()
}

// InFlight reports whether a render is outstanding.
func (b *Bridge) InFlight() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.inFlight
}
