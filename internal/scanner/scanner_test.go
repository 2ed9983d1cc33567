package scanner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func touch(t *testing.T, dir, name string, mod time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatalf("chtimes %s: %v", name, err)
	}
	return path
}

func TestLatest_PicksNewestSpreadsheet(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2025, 8, 20, 10, 0, 0, 0, time.UTC)

	touch(t, dir, "old.xlsx", base)
	touch(t, dir, "middle.csv", base.Add(time.Hour))
	touch(t, dir, "newest.xlsx", base.Add(2*time.Hour))
	touch(t, dir, "notes.txt", base.Add(3*time.Hour))
	touch(t, dir, "~$newest.xlsx", base.Add(4*time.Hour))
	touch(t, dir, "download.xlsx.part", base.Add(5*time.Hour))
	if err := os.Mkdir(filepath.Join(dir, "archive.xlsx"), 0755); err != nil {
		t.Fatal(err)
	}

	got, err := Latest(dir)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if got.Name != "newest.xlsx" {
		t.Errorf("Latest = %s, want newest.xlsx", got.Name)
	}
	if !filepath.IsAbs(got.FullPath) {
		t.Errorf("expected absolute path, got %s", got.FullPath)
	}
}

func TestLatest_TieBreaksOnName(t *testing.T) {
	dir := t.TempDir()
	mod := time.Date(2025, 8, 25, 0, 8, 0, 0, time.UTC)

	touch(t, dir, "ticket_search_2025-08-24_00-08.xlsx", mod)
	touch(t, dir, "ticket_search_2025-08-25_00-08.xlsx", mod)

	got, err := Latest(dir)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if got.Name != "ticket_search_2025-08-25_00-08.xlsx" {
		t.Errorf("Latest = %s", got.Name)
	}
}

func TestLatest_Errors(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "readme.md", time.Now())

	tests := []struct {
		name string
		path string
		want ScanErrorType
	}{
		{"missing directory", filepath.Join(dir, "nope"), DirectoryNotFound},
		{"file instead of directory", filepath.Join(dir, "readme.md"), DirectoryNotFound},
		{"no spreadsheets", dir, NoSpreadsheets},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Latest(tt.path)
			var scanErr *ScanError
			if !errors.As(err, &scanErr) {
				t.Fatalf("expected ScanError, got %v", err)
			}
			if scanErr.Type != tt.want {
				t.Errorf("type = %s, want %s", scanErr.Type, tt.want)
			}
		})
	}
}

func TestIgnored(t *testing.T) {
	patterns := DefaultIgnorePatterns()
	tests := []struct {
		name string
		want bool
	}{
		{"export.xlsx", false},
		{"/tmp/exports/export.csv", false},
		{"~$export.xlsx", true},
		{".~lock.export.xlsx#", true},
		{"export.xlsx.crdownload", true},
		{"export.tmp", true},
		{"/downloads/export.part", true},
	}

	for _, tt := range tests {
		if got := Ignored(tt.name, patterns); got != tt.want {
			t.Errorf("Ignored(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestScan_NewestFirst(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20

	properties := gopter.NewProperties(parameters)

	properties.Property("scan results are ordered by modification time, newest first", prop.ForAll(
		func(offsets []int) bool {
			dir, err := os.MkdirTemp("", "scanner-prop-*")
			if err != nil {
				return false
			}
			defer os.RemoveAll(dir)

			base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
			for i, off := range offsets {
				path := filepath.Join(dir, fmt.Sprintf("export_%02d.xlsx", i))
				if err := os.WriteFile(path, nil, 0644); err != nil {
					return false
				}
				mod := base.Add(time.Duration(off) * time.Minute)
				if err := os.Chtimes(path, mod, mod); err != nil {
					return false
				}
			}

			files, err := Scan(dir)
			if err != nil || len(files) != len(offsets) {
				return false
			}
			for i := 1; i < len(files); i++ {
				if files[i].ModTime.After(files[i-1].ModTime) {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(6, gen.IntRange(0, 10000)),
	))

	properties.TestingRun(t)
}
