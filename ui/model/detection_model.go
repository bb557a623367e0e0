package model

import (
	"github.com/adlift/mockup-studio/domain/chroma"
)

// DetectionModel holds the most recent chroma detection result for the status
// bar. Zero value means no detection has run yet and is usable. No
// synchronization needed: updates occur on the UI thread tick.
type DetectionModel struct {
	last chroma.Result
	ran  bool
}

func NewDetectionModel() *DetectionModel { return &DetectionModel{} }

// SetResult stores the outcome of a detection run.
func (m *DetectionModel) SetResult(r chroma.Result) {
	if m == nil {
		return
	}
	m.last = r
	m.ran = true
}

// Result returns the last detection outcome and whether any run happened.
func (m *DetectionModel) Result() (chroma.Result, bool) {
	if m == nil {
		return chroma.Result{}, false
	}
	return m.last, m.ran
}
