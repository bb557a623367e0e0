package editor

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"sync/atomic"
	"testing"
	"time"

	"github.com/adlift/mockup-studio/config"
	"github.com/adlift/mockup-studio/domain/frame"
	"github.com/adlift/mockup-studio/domain/geometry"
	"github.com/adlift/mockup-studio/domain/gesture"
	"github.com/adlift/mockup-studio/remote"
)

type fakeComp struct {
	calls atomic.Int32
	fail  bool
}

func (f *fakeComp) Render(ctx context.Context, req remote.RenderRequest) (image.Image, error) {
	f.calls.Add(1)
	if f.fail {
		return nil, &remote.RemoteError{Op: "composite", Status: 500}
	}
	return image.NewRGBA(image.Rect(0, 0, 8, 8)), nil
}

type fakeSaver struct {
	saved []remote.SaveRequest
	fail  bool
}

func (f *fakeSaver) Save(ctx context.Context, req remote.SaveRequest) error {
	if f.fail {
		return &remote.RemoteError{Op: "save", Status: 503}
	}
	f.saved = append(f.saved, req)
	return nil
}

type fakeFetch struct{}

func (fakeFetch) FetchPhoto(ctx context.Context, company, filename string) ([]byte, error) {
	return nil, errors.New("not used")
}

// photoBytes renders a gray photo with a green rectangle for detection.
func photoBytes(t *testing.T, w, h int, blob image.Rectangle) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBA{100, 100, 100, 255}
			if (image.Point{x, y}).In(blob) {
				c = color.RGBA{0, 177, 64, 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func newSession(t *testing.T) (*Session, *fakeComp, *fakeSaver) {
	t.Helper()
	cfg := config.DefaultConfig()
	comp := &fakeComp{}
	saver := &fakeSaver{}
	s, err := NewSession(cfg, comp, saver, fakeFetch{}, nil)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return s, comp, saver
}

func loadTestPhoto(t *testing.T, s *Session) {
	t.Helper()
	if err := s.LoadPhoto(photoBytes(t, 400, 300, image.Rect(100, 80, 200, 160))); err != nil {
		t.Fatalf("load photo: %v", err)
	}
}

func commitFrame(t *testing.T, s *Session, x0, y0, x1, y1 float64) int {
	t.Helper()
	s.Store().SetDraft(geometry.RectQuad(geometry.Point{X: x0, Y: y0}, geometry.Point{X: x1, Y: y1}))
	idx, err := s.AddFrame()
	if err != nil {
		t.Fatalf("add frame: %v", err)
	}
	return idx
}

func TestSession_LoadPhotoResetsEverything(t *testing.T) {
	s, _, _ := newSession(t)
	loadTestPhoto(t, s)
	commitFrame(t, s, 10, 10, 50, 50)
	s.View().ZoomAt(3, geometry.Point{X: 200, Y: 150})

	loadTestPhoto(t, s)
	if s.Store().Len() != 0 {
		t.Fatalf("frames must be cleared on photo load")
	}
	v := s.View()
	if v.Zoom != 1 || v.PanX != 0 || v.PanY != 0 {
		t.Fatalf("view must reset: zoom=%v pan=(%v,%v)", v.Zoom, v.PanX, v.PanY)
	}
}

func TestSession_AddFrameMissingPrerequisite(t *testing.T) {
	s, _, _ := newSession(t)
	_, err := s.AddFrame()
	var mpe *MissingPrerequisiteError
	if !errors.As(err, &mpe) {
		t.Fatalf("expected MissingPrerequisiteError, got %v", err)
	}
}

func TestSession_DetectInjectsDraftAndExcludesCommitted(t *testing.T) {
	s, _, _ := newSession(t)
	loadTestPhoto(t, s)

	res, err := s.DetectRegion()
	if err != nil || !res.Found {
		t.Fatalf("detect: found=%v err=%v matched=%d", res.Found, err, res.Matched)
	}
	if !s.Store().DraftReady() {
		t.Fatalf("detection must land in the draft slot")
	}
	if _, err := s.AddFrame(); err != nil {
		t.Fatalf("add detected frame: %v", err)
	}

	// The same region is now excluded; a second pass finds nothing.
	res, err = s.DetectRegion()
	if err != nil {
		t.Fatalf("second detect: %v", err)
	}
	if res.Found {
		t.Fatalf("second detection re-selected an excluded region: %+v", res)
	}
	if s.Store().DraftReady() {
		t.Fatalf("failed detection must leave no draft")
	}
}

func TestSession_DetectWithoutPhoto(t *testing.T) {
	s, _, _ := newSession(t)
	_, err := s.DetectRegion()
	var mpe *MissingPrerequisiteError
	if !errors.As(err, &mpe) {
		t.Fatalf("expected MissingPrerequisiteError, got %v", err)
	}
}

func TestSession_PreviewPrerequisites(t *testing.T) {
	s, comp, _ := newSession(t)
	loadTestPhoto(t, s)

	var mpe *MissingPrerequisiteError
	if err := s.RequestPreview(context.Background(), "day", nil); !errors.As(err, &mpe) {
		t.Fatalf("expected creative prerequisite, got %v", err)
	}
	if err := s.LoadCreative(photoBytes(t, 60, 40, image.Rectangle{})); err != nil {
		t.Fatalf("load creative: %v", err)
	}
	if err := s.RequestPreview(context.Background(), "day", nil); !errors.As(err, &mpe) {
		t.Fatalf("expected active-frame prerequisite, got %v", err)
	}
	if comp.calls.Load() != 0 {
		t.Fatalf("blocked preview must not reach the compositor")
	}
}

func TestSession_PreviewCachedPerFrame(t *testing.T) {
	s, comp, _ := newSession(t)
	loadTestPhoto(t, s)
	if err := s.LoadCreative(photoBytes(t, 60, 40, image.Rectangle{})); err != nil {
		t.Fatalf("load creative: %v", err)
	}
	first := commitFrame(t, s, 10, 10, 80, 60)
	second := commitFrame(t, s, 120, 10, 200, 60)

	request := func() {
		t.Helper()
		done := make(chan struct{})
		if err := s.RequestPreview(context.Background(), "day", func(string, image.Image, error) { close(done) }); err != nil {
			t.Fatalf("request: %v", err)
		}
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatalf("preview did not complete")
		}
	}

	s.Store().SetActive(first)
	request()
	s.Store().SetActive(second)
	request()
	if comp.calls.Load() != 2 {
		t.Fatalf("expected 2 renders, got %d", comp.calls.Load())
	}

	// Switching back swaps to the cached image without re-requesting.
	s.Store().SetActive(first)
	if _, ok := s.CachedPreview(); !ok {
		t.Fatalf("first frame's preview should still be cached")
	}
	request()
	if comp.calls.Load() != 2 {
		t.Fatalf("cache hit must not re-render, calls=%d", comp.calls.Load())
	}

	// Deleting the frame releases its preview; re-request is fresh.
	if !s.RemoveFrame(first) {
		t.Fatalf("remove failed")
	}
	s.Store().SetActive(0) // the remaining frame, shifted down
	if _, ok := s.CachedPreview(); ok {
		t.Fatalf("shifted index must not hit the stale entry")
	}
}

func TestSession_SaveKeepsLocalStateOnFailure(t *testing.T) {
	s, _, saver := newSession(t)
	loadTestPhoto(t, s)

	var mpe *MissingPrerequisiteError
	if err := s.Save(context.Background(), SaveOptions{LocationKeys: []string{"loc"}}); !errors.As(err, &mpe) {
		t.Fatalf("expected frame prerequisite, got %v", err)
	}
	commitFrame(t, s, 10, 10, 80, 60)

	saver.fail = true
	err := s.Save(context.Background(), SaveOptions{LocationKeys: []string{"loc"}})
	var re *remote.RemoteError
	if !errors.As(err, &re) {
		t.Fatalf("expected RemoteError, got %v", err)
	}
	if s.Store().Len() != 1 {
		t.Fatalf("failed save must never roll back local frames")
	}

	saver.fail = false
	if err := s.Save(context.Background(), SaveOptions{LocationKeys: []string{"loc"}, VenueType: "highway"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if len(saver.saved) != 1 || len(saver.saved[0].Frames) != 1 {
		t.Fatalf("save payload: %+v", saver.saved)
	}
}

func TestSession_SaveRequiresLocationKeys(t *testing.T) {
	s, _, saver := newSession(t)
	loadTestPhoto(t, s)
	commitFrame(t, s, 10, 10, 80, 60)

	var mpe *MissingPrerequisiteError
	if err := s.Save(context.Background(), SaveOptions{TimeOfDay: "day"}); !errors.As(err, &mpe) {
		t.Fatalf("expected location-key prerequisite, got %v", err)
	}
	if len(saver.saved) != 0 {
		t.Fatalf("keyless save must be rejected before reaching the store")
	}
}

func TestSession_SampleColorViaStationaryClick(t *testing.T) {
	s, _, _ := newSession(t)
	loadTestPhoto(t, s)

	// The photo letterboxes into the canvas; aim at the green blob's center
	// (image 150,120) through the viewport. A stationary modifier click
	// resolves as a color sample.
	canvas := s.View().ToCanvas(geometry.Point{X: 150, Y: 120})
	m := s.Machine()
	m.PointerDown(gesture.Pointer{Pos: canvas, PanModifier: true})
	m.PointerUp(gesture.Pointer{Pos: canvas, PanModifier: true})
	if s.LastSample() != "#00b140" {
		t.Fatalf("sampled %q", s.LastSample())
	}
	if s.TargetColor() != "#00b140" {
		t.Fatalf("sample must become the next detection target, got %q", s.TargetColor())
	}
}

func TestSession_ApplyTemplate(t *testing.T) {
	s, _, _ := newSession(t)
	loadTestPhoto(t, s)
	store := frame.NewStore()
	store.SetDraft(geometry.RectQuad(geometry.Point{X: 1, Y: 1}, geometry.Point{X: 9, Y: 9}))
	if _, err := store.Add(); err != nil {
		t.Fatalf("add: %v", err)
	}
	s.ApplyTemplate(remote.Template{Frames: store})
	if s.Store().Len() != 1 {
		t.Fatalf("template frames not applied")
	}
}
