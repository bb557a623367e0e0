package preview

import (
	"context"
	"image"
	"log/slog"
	"sync"

	"github.com/disintegration/imaging"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/adlift/mockup-studio/domain/photo"
)

// PhotoFetcher narrows the template store to what the thumbnail loader needs.
type PhotoFetcher interface {
	FetchPhoto(ctx context.Context, company, filename string) ([]byte, error)
}

// Thumbnails fetches and downscales template photos concurrently for the
// template picker. Fetches for one batch are order-independent; results
// arriving after Reset are discarded so a torn-down picker never receives
// stale images.
type Thumbnails struct {
	fetch  PhotoFetcher
	logger *slog.Logger
	maxW   int
	maxH   int

	cache *lru.Cache[string, image.Image]

	mu         sync.Mutex
	generation uint64
}

// NewThumbnails returns a loader keeping up to capacity scaled thumbnails.
func NewThumbnails(fetch PhotoFetcher, capacity, maxW, maxH int, logger *slog.Logger) (*Thumbnails, error) {
	if capacity <= 0 {
		capacity = 64
	}
	cache, err := lru.New[string, image.Image](capacity)
	if err != nil {
		return nil, err
	}
	return &Thumbnails{fetch: fetch, logger: logger, maxW: maxW, maxH: maxH, cache: cache}, nil
}

// DeliverFunc receives one finished thumbnail. It may be called from multiple
// goroutines.
type DeliverFunc func(filename string, img image.Image)

// FetchBatch resolves each filename, from cache where possible, fetching and
// scaling the rest concurrently. Blocks until the batch settles.
func (t *Thumbnails) FetchBatch(ctx context.Context, company string, filenames []string, deliver DeliverFunc) {
	t.mu.Lock()
	gen := t.generation
	t.mu.Unlock()

	var wg sync.WaitGroup
	for _, name := range filenames {
		if img, ok := t.cache.Get(name); ok {
			if deliver != nil {
				deliver(name, img)
			}
			continue
		}
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			data, err := t.fetch.FetchPhoto(ctx, company, name)
			if err != nil {
				if t.logger != nil {
					t.logger.Warn("thumbnail fetch failed", "file", name, "error", err)
				}
				return
			}
			p, err := photo.Load(data, "photo")
			if err != nil {
				if t.logger != nil {
					t.logger.Warn("thumbnail decode failed", "file", name, "error", err)
				}
				return
			}
			thumb := imaging.Fit(p.RGBA, t.maxW, t.maxH, imaging.Lanczos)
			p.Release()

			t.mu.Lock()
			stale := gen != t.generation
			t.mu.Unlock()
			if stale {
				return
			}
			t.cache.Add(name, thumb)
			if deliver != nil {
				deliver(name, thumb)
			}
		}(name)
	}
	wg.Wait()
}

// Reset discards the cache and marks any outstanding fetches stale; called
// when a save invalidates the template list or the picker is torn down.
func (t *Thumbnails) Reset() {
	t.mu.Lock()
	t.generation++
	t.mu.Unlock()
	t.cache.Purge()
}
