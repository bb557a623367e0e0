package preview

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/adlift/mockup-studio/remote"
)

type fakeCompositor struct {
	calls   atomic.Int32
	release chan struct{} // render blocks until closed when non-nil
	err     error
}

func (f *fakeCompositor) Render(ctx context.Context, req remote.RenderRequest) (image.Image, error) {
	f.calls.Add(1)
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	return image.NewRGBA(image.Rect(0, 0, 4, 4)), nil
}

func waitDone(t *testing.T, ch chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for preview completion")
	}
}

func TestCache_InvalidateFromShiftsIndexKeys(t *testing.T) {
	c, err := NewCache(8)
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	for i := 0; i < 4; i++ {
		c.Set(KeyForFrame(i), img)
	}
	c.Set(KeyDraft, img)

	// Removing frame 2 stales keys 2 and 3 plus the draft; 0 and 1 survive.
	c.InvalidateFrom(2)
	for _, key := range []string{KeyForFrame(2), KeyForFrame(3), KeyDraft} {
		if _, ok := c.Get(key); ok {
			t.Fatalf("%s should be invalidated", key)
		}
	}
	for _, key := range []string{KeyForFrame(0), KeyForFrame(1)} {
		if _, ok := c.Get(key); !ok {
			t.Fatalf("%s should survive", key)
		}
	}
}

func TestBridge_SingleInFlight(t *testing.T) {
	comp := &fakeCompositor{release: make(chan struct{})}
	cache, _ := NewCache(8)
	b := NewBridge(comp, cache, nil)

	done := make(chan struct{})
	err := b.Request(context.Background(), KeyForFrame(0), remote.RenderRequest{}, func(string, image.Image, error) {
		close(done)
	})
	if err != nil {
		t.Fatalf("first request: %v", err)
	}
	if err := b.Request(context.Background(), KeyForFrame(1), remote.RenderRequest{}, nil); !errors.Is(err, ErrPreviewInFlight) {
		t.Fatalf("expected ErrPreviewInFlight, got %v", err)
	}
	close(comp.release)
	waitDone(t, done)
	if _, ok := b.Cached(KeyForFrame(0)); !ok {
		t.Fatalf("completed render should be cached")
	}
}

func TestBridge_CacheHitCompletesWithoutRender(t *testing.T) {
	comp := &fakeCompositor{}
	cache, _ := NewCache(8)
	cache.Set(KeyDraft, image.NewRGBA(image.Rect(0, 0, 2, 2)))
	b := NewBridge(comp, cache, nil)

	var hit image.Image
	err := b.Request(context.Background(), KeyDraft, remote.RenderRequest{}, func(_ string, img image.Image, err error) {
		hit = img
	})
	if err != nil || hit == nil {
		t.Fatalf("cache hit should complete synchronously: err=%v img=%v", err, hit)
	}
	if comp.calls.Load() != 0 {
		t.Fatalf("cache hit must not call the compositor")
	}
}

func TestBridge_DeletionMakesNextRequestFresh(t *testing.T) {
	comp := &fakeCompositor{}
	cache, _ := NewCache(8)
	b := NewBridge(comp, cache, nil)
	key := KeyForFrame(0)

	done := make(chan struct{})
	if err := b.Request(context.Background(), key, remote.RenderRequest{}, func(string, image.Image, error) { close(done) }); err != nil {
		t.Fatalf("request: %v", err)
	}
	waitDone(t, done)

	// Frame deleted: its cache entry is released.
	cache.InvalidateFrom(0)
	if _, ok := b.Cached(key); ok {
		t.Fatalf("deleted frame's preview should be released")
	}

	// The same key now renders again instead of hitting a stale entry.
	done = make(chan struct{})
	if err := b.Request(context.Background(), key, remote.RenderRequest{}, func(string, image.Image, error) { close(done) }); err != nil {
		t.Fatalf("second request: %v", err)
	}
	waitDone(t, done)
	if got := comp.calls.Load(); got != 2 {
		t.Fatalf("expected a fresh render after deletion, calls=%d", got)
	}
}

func TestBridge_StaleResultDiscarded(t *testing.T) {
	comp := &fakeCompositor{release: make(chan struct{})}
	cache, _ := NewCache(8)
	b := NewBridge(comp, cache, nil)

	var delivered atomic.Int32
	if err := b.Request(context.Background(), KeyDraft, remote.RenderRequest{}, func(string, image.Image, error) {
		delivered.Add(1)
	}); err != nil {
		t.Fatalf("request: %v", err)
	}

	// Photo changes while the render is outstanding.
	b.Invalidate()
	close(comp.release)

	deadline := time.Now().Add(2 * time.Second)
	for b.InFlight() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if delivered.Load() != 0 {
		t.Fatalf("stale result must be discarded, delivered=%d", delivered.Load())
	}
	if _, ok := b.Cached(KeyDraft); ok {
		t.Fatalf("stale result must not be cached")
	}
}

type fakeFetcher struct {
	mu    sync.Mutex
	calls int
	data  []byte
}

func (f *fakeFetcher) FetchPhoto(ctx context.Context, company, filename string) ([]byte, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.data, nil
}

func TestThumbnails_BatchAndCache(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 400, 300))); err != nil {
		t.Fatalf("encode: %v", err)
	}
	fetcher := &fakeFetcher{data: buf.Bytes()}
	th, err := NewThumbnails(fetcher, 16, 120, 90, nil)
	if err != nil {
		t.Fatalf("new thumbnails: %v", err)
	}

	var mu sync.Mutex
	got := map[string]image.Image{}
	deliver := func(name string, img image.Image) {
		mu.Lock()
		got[name] = img
		mu.Unlock()
	}
	th.FetchBatch(context.Background(), "acme", []string{"a.png", "b.png"}, deliver)
	if len(got) != 2 {
		t.Fatalf("expected 2 thumbnails, got %d", len(got))
	}
	if b := got["a.png"].Bounds(); b.Dx() > 120 || b.Dy() > 90 {
		t.Fatalf("thumbnail not scaled: %v", b)
	}

	// Second batch for the same files is served from cache.
	th.FetchBatch(context.Background(), "acme", []string{"a.png", "b.png"}, deliver)
	if fetcher.calls != 2 {
		t.Fatalf("expected cached batch, fetch calls=%d", fetcher.calls)
	}

	// Reset forces refetch.
	th.Reset()
	th.FetchBatch(context.Background(), "acme", []string{"a.png"}, deliver)
	if fetcher.calls != 3 {
		t.Fatalf("expected refetch after reset, calls=%d", fetcher.calls)
	}
}
