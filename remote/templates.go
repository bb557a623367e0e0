package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/adlift/mockup-studio/domain/frame"
)

// SaveRequest persists a photo and its frame definitions for a set of
// locations as a single request.
type SaveRequest struct {
	LocationKeys []string
	VenueType    string
	TimeOfDay    string
	Side         string
	Frames       []frame.Record
	Photo        image.Image
}

// Filter selects templates when listing.
type Filter struct {
	Location  string
	VenueType string
	TimeOfDay string
	Side      string
}

// Template is one stored mockup template. Frames have already passed through
// the frame codec, so both historical point encodings arrive normalized.
type Template struct {
	Photo     string
	Frames    *frame.Store
	TimeOfDay string
	Side      string
}

// TemplateStore is the client for the remote template persistence service.
type TemplateStore struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

// NewTemplateStore returns a client for the given endpoint.
func NewTemplateStore(url string, logger *slog.Logger) *TemplateStore {
	return &TemplateStore{
		url:    url,
		client: &http.Client{Timeout: 30 * time.Second},
		logger: logger,
	}
}

type saveMeta struct {
	LocationKeys []string       `json:"location_keys"`
	VenueType    string         `json:"venue_type"`
	TimeOfDay    string         `json:"time_of_day"`
	Side         string         `json:"side"`
	Frames       []frame.Record `json:"frames"`
}

// Save submits the template. The caller's local frame state is never touched;
// on failure the operator retries without re-drawing.
func (t *TemplateStore) Save(ctx context.Context, req SaveRequest) error {
	if len(req.LocationKeys) == 0 {
		return fmt.Errorf("save: no location keys")
	}
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	metaPart, err := writer.CreateFormField("meta")
	if err != nil {
		return fmt.Errorf("create meta field: %w", err)
	}
	meta := saveMeta{
		LocationKeys: req.LocationKeys,
		VenueType:    req.VenueType,
		TimeOfDay:    req.TimeOfDay,
		Side:         req.Side,
		Frames:       req.Frames,
	}
	if err := json.NewEncoder(metaPart).Encode(meta); err != nil {
		return fmt.Errorf("encode meta: %w", err)
	}
	if err := writeImagePart(writer, "photo", "photo.webp", req.Photo); err != nil {
		return fmt.Errorf("encode photo: %w", err)
	}
	writer.Close()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	httpReq.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return &RemoteError{Op: "save", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return &RemoteError{Op: "save", Status: resp.StatusCode}
	}
	if t.logger != nil {
		t.logger.Info("template saved", "locations", len(req.LocationKeys), "frames", len(req.Frames))
	}
	return nil
}

// listItem tolerates both the frames-list shape and the legacy single
// points/config shape.
type listItem struct {
	Photo     string           `json:"photo"`
	Frames    []frame.Record   `json:"frames"`
	Points    json.RawMessage  `json:"points"`
	Config    frame.Appearance `json:"config"`
	TimeOfDay string           `json:"time_of_day"`
	Side      string           `json:"side"`
}

// List fetches the templates matching the filter.
func (t *TemplateStore) List(ctx context.Context, f Filter) ([]Template, error) {
	q := url.Values{}
	if f.Location != "" {
		q.Set("location", f.Location)
	}
	if f.VenueType != "" {
		q.Set("venue_type", f.VenueType)
	}
	if f.TimeOfDay != "" {
		q.Set("time_of_day", f.TimeOfDay)
	}
	if f.Side != "" {
		q.Set("side", f.Side)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, t.url+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, &RemoteError{Op: "list", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &RemoteError{Op: "list", Status: resp.StatusCode}
	}

	var items []listItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, &RemoteError{Op: "list", Err: fmt.Errorf("decode response: %w", err)}
	}
	out := make([]Template, 0, len(items))
	for i, it := range items {
		recs := it.Frames
		if len(recs) == 0 && len(it.Points) > 0 {
			recs = []frame.Record{{Points: it.Points, Config: it.Config}}
		}
		store, err := frame.Unmarshal(recs)
		if err != nil {
			return nil, fmt.Errorf("template %d: %w", i, err)
		}
		out = append(out, Template{
			Photo:     it.Photo,
			Frames:    store,
			TimeOfDay: it.TimeOfDay,
			Side:      it.Side,
		})
	}
	return out, nil
}

// FetchPhoto retrieves a template photo's raw bytes by company hint and
// filename.
func (t *TemplateStore) FetchPhoto(ctx context.Context, company, filename string) ([]byte, error) {
	q := url.Values{}
	q.Set("company", company)
	q.Set("file", filename)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, t.url+"/photo?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, &RemoteError{Op: "fetch-photo", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &RemoteError{Op: "fetch-photo", Status: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}

// Delete removes a stored template by location and photo identifier.
func (t *TemplateStore) Delete(ctx context.Context, location, photoID string) error {
	q := url.Values{}
	q.Set("location", location)
	q.Set("photo", photoID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, t.url+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return &RemoteError{Op: "delete", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return &RemoteError{Op: "delete", Status: resp.StatusCode}
	}
	return nil
}
