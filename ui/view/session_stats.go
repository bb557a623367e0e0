package view

import (
	"fmt"
	"time"

	//lint:ignore ST1001 Dot import for concise Tk widget DSL.
	. "modernc.org/tk9.0"
)

// SessionStats updates the editing-time readout in the status row.
type SessionStats interface {
	SetSession(session, total time.Duration)
}

type sessionStats struct {
	sessionLbl *LabelWidget
	totalLbl   *LabelWidget
}

// NewSessionStats creates the editing and total duration labels at
// (row, startCol) and (row, startCol+1).
func NewSessionStats(row, startCol int) SessionStats {
	s := &sessionStats{sessionLbl: Label(Width(14)), totalLbl: Label(Width(14))}
	Grid(s.sessionLbl, Row(row), Column(startCol), Sticky("w"), Padx("0.2m"))
	Grid(s.totalLbl, Row(row), Column(startCol+1), Sticky("w"), Padx("0.2m"))
	s.sessionLbl.Configure(Txt("Editing: 00:00"))
	s.totalLbl.Configure(Txt("Total: 00:00"))
	return s
}

// SetSession updates both duration displays.
func (s *sessionStats) SetSession(session, total time.Duration) {
	if s == nil {
		return
	}
	if s.sessionLbl != nil {
		s.sessionLbl.Configure(Txt("Editing: " + mmss(session)))
	}
	if s.totalLbl != nil {
		s.totalLbl.Configure(Txt("Total: " + mmss(total)))
	}
}

func mmss(d time.Duration) string {
	seconds := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
