package frame

import (
	"encoding/json"
	"fmt"

	"github.com/adlift/mockup-studio/domain/geometry"
)

// Record is the wire form of a single frame: the 4 corner points plus the
// appearance config. Marshal always emits the canonical pair-array point
// encoding; Unmarshal additionally accepts the legacy flat-8 encoding.
type Record struct {
	Points json.RawMessage `json:"points"`
	Config Appearance      `json:"config"`
}

// MalformedFrameError reports a record whose point list fits neither known
// encoding, naming the offending index.
type MalformedFrameError struct {
	Index  int
	Reason string
}

func (e *MalformedFrameError) Error() string {
	return fmt.Sprintf("frame %d: malformed point data: %s", e.Index, e.Reason)
}

// Marshal serializes the committed frames to wire records in add order.
func (s *Store) Marshal() ([]Record, error) {
	out := make([]Record, 0, len(s.frames))
	for i, f := range s.frames {
		pairs := [4][2]float64{}
		for c, p := range f.Quad {
			pairs[c] = [2]float64{p.X, p.Y}
		}
		raw, err := json.Marshal(pairs)
		if err != nil {
			return nil, fmt.Errorf("marshal frame %d: %w", i, err)
		}
		out = append(out, Record{Points: raw, Config: f.Appearance})
	}
	return out, nil
}

// Unmarshal reconstructs a store from wire records, normalizing both
// historical point encodings (an array of 4 [x,y] pairs, or a flat array of
// 8 numbers) to the canonical pair form. Any other shape fails with a
// *MalformedFrameError naming the record index; on failure the returned
// store is nil and no partial state escapes.
func Unmarshal(records []Record) (*Store, error) {
	s := NewStore()
	for i, rec := range records {
		q, err := decodePoints(rec.Points)
		if err != nil {
			return nil, &MalformedFrameError{Index: i, Reason: err.Error()}
		}
		s.appendFrame(Frame{Quad: q, Appearance: rec.Config})
	}
	return s, nil
}

func decodePoints(raw json.RawMessage) (geometry.Quad, error) {
	var q geometry.Quad
	if len(raw) == 0 {
		return q, fmt.Errorf("missing points")
	}

	// Canonical: 4 [x,y] pairs.
	var pairs [][2]float64
	if err := json.Unmarshal(raw, &pairs); err == nil {
		if len(pairs) != 4 {
			return q, fmt.Errorf("expected 4 point pairs, got %d", len(pairs))
		}
		for i, p := range pairs {
			q[i] = geometry.Point{X: p[0], Y: p[1]}
		}
		return q, nil
	}

	// Legacy: flat [x1,y1,...,x4,y4].
	var flat []float64
	if err := json.Unmarshal(raw, &flat); err == nil {
		if len(flat) != 8 {
			return q, fmt.Errorf("expected 8 flat coordinates, got %d", len(flat))
		}
		for i := 0; i < 4; i++ {
			q[i] = geometry.Point{X: flat[2*i], Y: flat[2*i+1]}
		}
		return q, nil
	}

	return q, fmt.Errorf("points are neither pair-array nor flat-array")
}
