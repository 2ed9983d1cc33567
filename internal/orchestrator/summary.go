package orchestrator

import (
	"fmt"
	"time"
)

// RunSummary describes one finished run.
type RunSummary struct {
	RunID      string
	Input      string // spreadsheet actually read
	ReportPath string // text report, written even when loading fails
	JSONPath   string // empty unless the JSON artifact was requested
	Rows       int
	Open       int
	Unmapped   bool // no column could be resolved
	Recorded   bool // stored in the history database
	Duration   time.Duration
}

// String returns a one-line account of the run for verbose output.
func (s *RunSummary) String() string {
	elapsed := s.Duration.Round(time.Millisecond)
	if s.Unmapped {
		return fmt.Sprintf("Read %d rows from %s in %s: no known columns", s.Rows, s.Input, elapsed)
	}
	return fmt.Sprintf("Analyzed %d rows from %s in %s: %d open", s.Rows, s.Input, elapsed, s.Open)
}
