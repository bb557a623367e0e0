package editor

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"github.com/google/uuid"

	"github.com/adlift/mockup-studio/config"
	"github.com/adlift/mockup-studio/domain/chroma"
	"github.com/adlift/mockup-studio/domain/frame"
	"github.com/adlift/mockup-studio/domain/geometry"
	"github.com/adlift/mockup-studio/domain/gesture"
	"github.com/adlift/mockup-studio/domain/photo"
	"github.com/adlift/mockup-studio/domain/viewport"
	"github.com/adlift/mockup-studio/preview"
	"github.com/adlift/mockup-studio/remote"
)

// MissingPrerequisiteError blocks an operation whose preconditions are not
// met (adding a frame without 4 points, previewing without a creative or an
// active frame). The operation is not attempted.
type MissingPrerequisiteError struct {
	Op   string
	Need string
}

func (e *MissingPrerequisiteError) Error() string {
	return fmt.Sprintf("%s requires %s", e.Op, e.Need)
}

// TemplateSaver narrows the template store to the session's save path.
type TemplateSaver interface {
	Save(ctx context.Context, req remote.SaveRequest) error
}

// Session owns one editing session: the billboard photo and creative, the
// viewport, the frame store, the gesture machine and the preview caches. All
// geometry mutation happens synchronously inside pointer handlers; only image
// decodes and remote calls complete asynchronously.
type Session struct {
	ID     string
	logger *slog.Logger
	cfg    *config.Config

	photo    *photo.Photo
	creative *photo.Photo

	view    *viewport.View
	store   *frame.Store
	machine *gesture.Machine

	cache  *preview.Cache
	bridge *preview.Bridge
	thumbs *preview.Thumbnails
	saver  TemplateSaver

	targetColor color.RGBA
	lastSample  string
}

// NewSession assembles an empty session. comp and fetch may be the concrete
// remote clients or test doubles.
func NewSession(cfg *config.Config, comp preview.Compositor, saver TemplateSaver, fetch preview.PhotoFetcher, logger *slog.Logger) (*Session, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	_ = cfg.Validate()

	view := viewport.New(viewport.Fit{Scale: 1}, cfg.MinZoom, cfg.MaxZoom)
	store := frame.NewStore()
	machine := gesture.NewMachine(view, store, cfg.HitRadius, cfg.PanThreshold, logger)

	cache, err := preview.NewCache(16)
	if err != nil {
		return nil, err
	}
	thumbs, err := preview.NewThumbnails(fetch, 64, 160, 100, logger)
	if err != nil {
		return nil, err
	}

	target, err := chroma.ParseHex(cfg.TargetColor)
	if err != nil {
		target = color.RGBA{0, 177, 64, 255}
	}

	s := &Session{
		ID:          uuid.NewString(),
		logger:      logger,
		cfg:         cfg,
		view:        view,
		store:       store,
		machine:     machine,
		cache:       cache,
		bridge:      preview.NewBridge(comp, cache, logger),
		thumbs:      thumbs,
		saver:       saver,
		targetColor: target,
	}
	machine.OnSample(func(canvas geometry.Point) { s.sampleAt(canvas) })
	return s, nil
}

// Accessors for the presenter and the draw loop.
func (s *Session) View() *viewport.View            { return s.view }
func (s *Session) Store() *frame.Store             { return s.store }
func (s *Session) Machine() *gesture.Machine       { return s.machine }
func (s *Session) Photo() *photo.Photo             { return s.photo }
func (s *Session) Creative() *photo.Photo          { return s.creative }
func (s *Session) Thumbnails() *preview.Thumbnails { return s.thumbs }

// LoadPhoto decodes new billboard photo bytes, resets the view to
// {zoom 1, pan 0}, clears all frames and releases every cached preview and
// the previous photo buffer.
func (s *Session) LoadPhoto(data []byte) error {
	p, err := photo.Load(data, "photo")
	if err != nil {
		return err
	}
	if s.photo != nil {
		s.photo.Release()
	}
	s.photo = p
	s.machine.Cancel()
	s.store.Clear()
	s.bridge.Invalidate()
	s.view.SetFit(viewport.FitImage(
		float64(p.Width), float64(p.Height),
		float64(s.cfg.CanvasWidth), float64(s.cfg.CanvasHeight),
	))
	if s.logger != nil {
		s.logger.Info("photo loaded", "width", p.Width, "height", p.Height)
	}
	return nil
}

// LoadCreative decodes candidate creative bytes, releasing any previous one.
func (s *Session) LoadCreative(data []byte) error {
	c, err := photo.Load(data, "creative")
	if err != nil {
		return err
	}
	if s.creative != nil {
		s.creative.Release()
	}
	s.creative = c
	return nil
}

// AddFrame commits the in-progress quadrilateral as a frame.
func (s *Session) AddFrame() (int, error) {
	idx, err := s.store.Add()
	if errors.Is(err, frame.ErrIncompleteDraft) {
		return -1, &MissingPrerequisiteError{Op: "add frame", Need: "a drawn or detected quadrilateral with 4 points"}
	}
	return idx, err
}

// RemoveFrame deletes a committed frame and releases its cached preview;
// index keys above it shift, so those entries go too.
func (s *Session) RemoveFrame(i int) bool {
	if !s.store.Remove(i) {
		return false
	}
	s.cache.InvalidateFrom(i)
	return true
}

// ClearFrames removes every frame and releases all cached previews.
func (s *Session) ClearFrames() {
	s.store.Clear()
	s.cache.Clear()
}

// SetTargetColor sets the chroma target from a hex string.
func (s *Session) SetTargetColor(hex string) error {
	c, err := chroma.ParseHex(hex)
	if err != nil {
		return err
	}
	s.targetColor = c
	return nil
}

// TargetColor returns the current chroma target as hex.
func (s *Session) TargetColor() string { return chroma.FormatHex(s.targetColor) }

// LastSample returns the most recent color-sample result ("" when none).
func (s *Session) LastSample() string { return s.lastSample }

func (s *Session) sampleAt(canvas geometry.Point) {
	if s.photo == nil {
		return
	}
	hex, ok := chroma.SampleColor(s.photo.RGBA, s.view.ToImage(canvas))
	if !ok {
		return
	}
	s.lastSample = hex
	s.targetColor, _ = chroma.ParseHex(hex)
	if s.logger != nil {
		s.logger.Debug("color sampled", "color", hex)
	}
}

// DetectRegion runs chroma-key detection against the loaded photo, excluding
// every committed frame, and injects a found quadrilateral into the draft
// slot exactly as a manual draw would. A prior draft is discarded either way.
func (s *Session) DetectRegion() (chroma.Result, error) {
	if s.photo == nil {
		return chroma.Result{}, &MissingPrerequisiteError{Op: "detect", Need: "a loaded photo"}
	}
	depth := frame.DefaultAppearance().DepthMultiplier
	if app := s.store.ActiveAppearance(); app != nil {
		depth = app.DepthMultiplier
	}
	excluded := make([]geometry.Quad, 0, s.store.Len())
	for _, f := range s.store.Frames() {
		excluded = append(excluded, f.Quad)
	}
	s.store.ClearDraft()
	res := chroma.Detect(s.photo.RGBA, excluded, chroma.Options{
		Target:          s.targetColor,
		Tolerance:       s.cfg.Tolerance,
		MinPixels:       s.cfg.MinPixels,
		DilationRadius:  s.cfg.DilationRadius,
		DepthMultiplier: depth,
	})
	if res.Found {
		s.store.SetDraft(res.Quad)
	}
	if s.logger != nil {
		s.logger.Info("chroma detection", "found", res.Found, "matched", res.Matched, "dur", res.Dur)
	}
	return res, nil
}

// activeKey maps the selection to its preview cache key.
func (s *Session) activeKey() (string, bool) {
	switch ref := s.store.Active(); {
	case ref == frame.ActiveDraft:
		return preview.KeyDraft, true
	case ref >= 0:
		return preview.KeyForFrame(ref), true
	}
	return "", false
}

// RequestPreview submits the active frame and the uploaded creative to the
// remote compositor. The cached image for the active frame's key is reused
// when present; a second request while one is outstanding fails.
func (s *Session) RequestPreview(ctx context.Context, timeOfDay string, done preview.DoneFunc) error {
	if s.creative == nil {
		return &MissingPrerequisiteError{Op: "preview", Need: "an uploaded creative"}
	}
	quad, ok := s.store.ActiveQuad()
	if !ok {
		return &MissingPrerequisiteError{Op: "preview", Need: "an active frame with 4 points"}
	}
	key, _ := s.activeKey()
	app := s.store.ActiveAppearance()
	return s.bridge.Request(ctx, key, remote.RenderRequest{
		Photo:      s.photo.RGBA,
		Creative:   s.creative.RGBA,
		Points:     quad,
		Appearance: *app,
		TimeOfDay:  timeOfDay,
	}, done)
}

// CachedPreview returns the rendered preview for the active frame, if any;
// switching the active frame swaps which image this returns without
// re-requesting.
func (s *Session) CachedPreview() (image.Image, bool) {
	key, ok := s.activeKey()
	if !ok {
		return nil, false
	}
	return s.bridge.Cached(key)
}

// SaveOptions identify where a template save lands.
type SaveOptions struct {
	LocationKeys []string
	VenueType    string
	TimeOfDay    string
	Side         string
}

// Save persists the photo and committed frames as one request. Local frame
// state is untouched on failure so the operator can retry; success
// invalidates the cached template list.
func (s *Session) Save(ctx context.Context, opts SaveOptions) error {
	if s.photo == nil {
		return &MissingPrerequisiteError{Op: "save", Need: "a loaded photo"}
	}
	if s.store.Len() == 0 {
		return &MissingPrerequisiteError{Op: "save", Need: "at least one committed frame"}
	}
	if len(opts.LocationKeys) == 0 {
		return &MissingPrerequisiteError{Op: "save", Need: "at least one location key"}
	}
	records, err := s.store.Marshal()
	if err != nil {
		return err
	}
	err = s.saver.Save(ctx, remote.SaveRequest{
		LocationKeys: opts.LocationKeys,
		VenueType:    opts.VenueType,
		TimeOfDay:    opts.TimeOfDay,
		Side:         opts.Side,
		Frames:       records,
		Photo:        s.photo.RGBA,
	})
	if err != nil {
		return err
	}
	s.thumbs.Reset()
	return nil
}

// ApplyTemplate loads a stored template's frames into the session, replacing
// the current set and releasing stale previews.
func (s *Session) ApplyTemplate(t remote.Template) {
	s.store.ReplaceAll(t.Frames.Frames())
	s.cache.Clear()
}

// Bridge exposes the preview bridge for the presenter (cached lookups and
// in-flight state).
func (s *Session) Bridge() *preview.Bridge { return s.bridge }

// Close releases every owned resource: pixel buffers, cached previews and
// thumbnails. Outstanding async results are discarded on arrival.
func (s *Session) Close() {
	s.machine.Cancel()
	s.bridge.Invalidate()
	s.thumbs.Reset()
	if s.photo != nil {
		s.photo.Release()
		s.photo = nil
	}
	if s.creative != nil {
		s.creative.Release()
		s.creative = nil
	}
	if s.logger != nil {
		s.logger.Info("session closed", "id", s.ID)
	}
}
