package model

import "image"

// TemplateItem is one stored template prepared for display in the picker:
// its photo identifier, a downscaled thumbnail (nil when the fetch failed)
// and the metadata shown next to it.
type TemplateItem struct {
	Photo      string
	Thumbnail  image.Image
	TimeOfDay  string
	Side       string
	FrameCount int
}
