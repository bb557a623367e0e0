package preview

import (
	"image"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// KeyDraft keys the in-progress quadrilateral's preview.
const KeyDraft = "draft"

// KeyForFrame keys a committed frame's preview by its store index.
func KeyForFrame(i int) string { return "frame-" + strconv.Itoa(i) }

// Cache holds rendered preview images per frame key. It is an explicit
// session-owned object with delete-on-frame-removal and clear-on-photo-change
// eviction, not ambient shared state.
type Cache struct {
	entries *lru.Cache[string, image.Image]
}

// NewCache returns a cache bounded to capacity entries.
func NewCache(capacity int) (*Cache, error) {
	if capacity <= 0 {
		capacity = 16
	}
	entries, err := lru.New[string, image.Image](capacity)
	if err != nil {
		return nil, err
	}
	return &Cache{entries: entries}, nil
}

// Get returns the cached preview for key.
func (c *Cache) Get(key string) (image.Image, bool) {
	return c.entries.Get(key)
}

// Set stores a rendered preview.
func (c *Cache) Set(key string, img image.Image) {
	c.entries.Add(key, img)
}

// Invalidate releases the entry for key.
func (c *Cache) Invalidate(key string) {
	c.entries.Remove(key)
}

// InvalidateFrom releases the draft entry and every committed-frame entry at
// or above index i. Index keys shift when a frame is removed, so everything
// from the removal point on is stale, not just the removed frame's key.
func (c *Cache) InvalidateFrom(i int) {
	c.entries.Remove(KeyDraft)
	for _, key := range c.entries.Keys() {
		idx, ok := frameIndex(key)
		if ok && idx >= i {
			c.entries.Remove(key)
		}
	}
}

// Clear releases every entry; used on photo change and session teardown.
func (c *Cache) Clear() {
	c.entries.Purge()
}

// Len returns the number of cached previews.
func (c *Cache) Len() int { return c.entries.Len() }

func frameIndex(key string) (int, bool) {
	rest, ok := strings.CutPrefix(key, "frame-")
	if !ok {
		return 0, false
	}
	idx, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return idx, true
}
