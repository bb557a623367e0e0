package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/adlift/mockup-studio/domain/frame"
	"github.com/adlift/mockup-studio/domain/geometry"
)

// RemoteError reports a failed call to a remote collaborator. Local frame
// state is never rolled back when it occurs; the operator retries.
type RemoteError struct {
	Op     string
	Status int
	Err    error
}

func (e *RemoteError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("remote %s failed with status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("remote %s failed: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// RenderRequest carries everything the compositor needs to perspective-map a
// creative into a frame on the billboard photo.
type RenderRequest struct {
	Photo      image.Image
	Creative   image.Image
	Points     geometry.Quad
	Appearance frame.Appearance
	TimeOfDay  string
}

// Compositor is the client for the remote test-composite service.
type Compositor struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

// NewCompositor returns a client for the given endpoint.
func NewCompositor(url string, logger *slog.Logger) *Compositor {
	return &Compositor{
		url:    url,
		client: &http.Client{Timeout: 30 * time.Second},
		logger: logger,
	}
}

// renderMeta is the JSON part accompanying the image payloads.
type renderMeta struct {
	Points    [4][2]float64    `json:"points"`
	Config    frame.Appearance `json:"config"`
	TimeOfDay string           `json:"time_of_day"`
}

// Render submits the photo, creative and frame definition and returns the
// rendered preview image.
func (c *Compositor) Render(ctx context.Context, req RenderRequest) (image.Image, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if err := writeImagePart(writer, "photo", "photo.webp", req.Photo); err != nil {
		return nil, fmt.Errorf("encode photo: %w", err)
	}
	if err := writeImagePart(writer, "creative", "creative.webp", req.Creative); err != nil {
		return nil, fmt.Errorf("encode creative: %w", err)
	}

	meta := renderMeta{Config: req.Appearance, TimeOfDay: req.TimeOfDay}
	for i, p := range req.Points {
		meta.Points[i] = [2]float64{p.X, p.Y}
	}
	metaPart, err := writer.CreateFormField("meta")
	if err != nil {
		return nil, fmt.Errorf("create meta field: %w", err)
	}
	if err := json.NewEncoder(metaPart).Encode(meta); err != nil {
		return nil, fmt.Errorf("encode meta: %w", err)
	}
	writer.Close()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	httpReq.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, &RemoteError{Op: "composite", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &RemoteError{Op: "composite", Status: resp.StatusCode}
	}

	img, err := imaging.Decode(resp.Body)
	if err != nil {
		return nil, &RemoteError{Op: "composite", Err: fmt.Errorf("decode response: %w", err)}
	}
	if c.logger != nil {
		b := img.Bounds()
		c.logger.Debug("composite rendered", "width", b.Dx(), "height", b.Dy())
	}
	return img, nil
}

// writeImagePart encodes the image as lossless webp into a multipart file
// field.
func writeImagePart(w *multipart.Writer, field, filename string, img image.Image) error {
	if img == nil {
		return fmt.Errorf("nil %s image", field)
	}
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		return err
	}
	return nativewebp.Encode(part, img, nil)
}
