package watcher

import (
	"ticketstats/internal/scanner"
	"ticketstats/internal/table"
)

// FileFilter decides which created files are worth analysing.
type FileFilter struct {
	patterns []string
}

// NewFileFilter creates a filter ignoring patterns in addition to the
// lock and partial-download patterns every scan ignores.
func NewFileFilter(patterns []string) *FileFilter {
	all := scanner.DefaultIgnorePatterns()
	all = append(all, patterns...)
	return &FileFilter{patterns: all}
}

// ShouldProcess reports whether path is a supported spreadsheet that
// matches no ignore pattern.
func (f *FileFilter) ShouldProcess(path string) bool {
	return table.IsSupported(path) && !scanner.Ignored(path, f.patterns)
}

// Patterns returns a copy of the active ignore patterns.
func (f *FileFilter) Patterns() []string {
	out := make([]string, len(f.patterns))
	copy(out, f.patterns)
	return out
}
