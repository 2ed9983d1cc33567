package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"ticketstats/internal/analysis"
)

// TimestampLayout names report files after the run's start time.
// Colons are avoided so the names are valid on Windows.
const TimestampLayout = "2006-01-02_15-04-05"

// FileName returns the report file name for a run started at start.
func FileName(start time.Time, ext string) string {
	return start.Format(TimestampLayout) + ext
}

// FileExists checks if a file exists at the given path.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// UniquePath returns dir/name, or dir/<base>_N<ext> with the smallest N >= 2
// that does not exist yet. Two runs started within the same second never
// overwrite each other's report.
func UniquePath(dir, name string) string {
	path := filepath.Join(dir, name)
	if !FileExists(path) {
		return path
	}

	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for n := 2; ; n++ {
		candidate := filepath.Join(dir, base+"_"+strconv.Itoa(n)+ext)
		if !FileExists(candidate) {
			return candidate
		}
	}
}

// Document is the JSON form of a report.
type Document struct {
	RunID   string            `json:"run_id"`
	Input   string            `json:"input"`
	Columns map[string]string `json:"columns"`
	*analysis.Results
}

// WriteJSON writes doc to path, indented.
func WriteJSON(doc Document, path string) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write JSON report: %w", err)
	}
	return nil
}
