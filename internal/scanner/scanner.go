// Package scanner finds ticket exports in a directory.
package scanner

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"time"

	"ticketstats/internal/table"
)

// ScanErrorType represents the type of scanning error.
type ScanErrorType string

const (
	// DirectoryNotFound indicates the directory does not exist.
	DirectoryNotFound ScanErrorType = "DIRECTORY_NOT_FOUND"
	// PermissionDenied indicates insufficient permissions to read the directory.
	PermissionDenied ScanErrorType = "PERMISSION_DENIED"
	// NoSpreadsheets indicates the directory holds no supported export.
	NoSpreadsheets ScanErrorType = "NO_SPREADSHEETS"
)

// ScanError represents an error that occurred during directory scanning.
type ScanError struct {
	Type ScanErrorType
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	return string(e.Type) + ": " + e.Path
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// DefaultIgnorePatterns returns glob patterns for partial downloads and
// office lock files that must never be read as exports.
func DefaultIgnorePatterns() []string {
	return []string{
		"*.tmp",
		"*.part",
		"*.download",
		"*.crdownload", // Chrome partial downloads
		"*.partial",
		".~*", // LibreOffice lock files
		"~$*", // Excel lock files
	}
}

// Ignored reports whether name matches one of patterns. Only the base
// name is compared.
func Ignored(name string, patterns []string) bool {
	base := filepath.Base(name)
	for _, pattern := range patterns {
		if matched, err := filepath.Match(pattern, base); err == nil && matched {
			return true
		}
	}
	return false
}

// IsSpreadsheet reports whether path looks like a readable export.
func IsSpreadsheet(path string) bool {
	return table.IsSupported(path) && !Ignored(path, DefaultIgnorePatterns())
}

// FileEntry represents a spreadsheet found during scanning.
type FileEntry struct {
	Name     string // Filename only
	FullPath string // Absolute path
	ModTime  time.Time
	Size     int64
}

// Scan lists the spreadsheets directly inside directory, newest first.
// Subdirectories and symlinks are skipped.
func Scan(directory string) ([]FileEntry, error) {
	info, err := os.Stat(directory)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &ScanError{Type: DirectoryNotFound, Path: directory, Err: err}
		}
		if os.IsPermission(err) {
			return nil, &ScanError{Type: PermissionDenied, Path: directory, Err: err}
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, &ScanError{
			Type: DirectoryNotFound,
			Path: directory,
			Err:  errors.New("path is not a directory"),
		}
	}

	entries, err := os.ReadDir(directory)
	if err != nil {
		if os.IsPermission(err) {
			return nil, &ScanError{Type: PermissionDenied, Path: directory, Err: err}
		}
		return nil, err
	}

	var files []FileEntry
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !IsSpreadsheet(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue // removed between ReadDir and Info
		}

		fullPath := filepath.Join(directory, entry.Name())
		if abs, err := filepath.Abs(fullPath); err == nil {
			fullPath = abs
		}
		files = append(files, FileEntry{
			Name:     entry.Name(),
			FullPath: fullPath,
			ModTime:  info.ModTime(),
			Size:     info.Size(),
		})
	}

	sort.SliceStable(files, func(i, j int) bool {
		if !files[i].ModTime.Equal(files[j].ModTime) {
			return files[i].ModTime.After(files[j].ModTime)
		}
		return files[i].Name > files[j].Name
	})
	return files, nil
}

// Latest returns the most recently modified spreadsheet in directory.
// Equal modification times are broken by the lexically greatest name, which
// for timestamped export names is also the newest.
func Latest(directory string) (FileEntry, error) {
	files, err := Scan(directory)
	if err != nil {
		return FileEntry{}, err
	}
	if len(files) == 0 {
		return FileEntry{}, &ScanError{
			Type: NoSpreadsheets,
			Path: directory,
			Err:  errors.New("no .xlsx, .xlsm or .csv files found"),
		}
	}
	return files[0], nil
}
