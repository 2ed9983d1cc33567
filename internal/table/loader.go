package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// LoadErrorType represents the type of load error.
type LoadErrorType string

const (
	FileNotFound      LoadErrorType = "FILE_NOT_FOUND"
	UnsupportedFormat LoadErrorType = "UNSUPPORTED_FORMAT"
	ReadFailed        LoadErrorType = "READ_FAILED"
	EmptyTable        LoadErrorType = "EMPTY_TABLE"
)

// LoadError represents an error that occurred while reading an export.
type LoadError struct {
	Type LoadErrorType
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	switch e.Type {
	case FileNotFound:
		return fmt.Sprintf("file not found: %s", e.Path)
	case UnsupportedFormat:
		return fmt.Sprintf("unsupported file format: %s", filepath.Ext(e.Path))
	case EmptyTable:
		return fmt.Sprintf("no header row in %s", e.Path)
	default:
		if e.Err != nil {
			return fmt.Sprintf("failed to read %s: %v", e.Path, e.Err)
		}
		return fmt.Sprintf("failed to read %s", e.Path)
	}
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// SupportedExtensions lists the file extensions Load understands.
func SupportedExtensions() []string {
	return []string{".xlsx", ".xlsm", ".csv"}
}

// IsSupported reports whether path has an extension Load can read.
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range SupportedExtensions() {
		if ext == e {
			return true
		}
	}
	return false
}

// Load reads the export at path. Spreadsheets are read from their first
// sheet; the first row is always the header row.
func Load(path string) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &LoadError{Type: FileNotFound, Path: path, Err: err}
		}
		return nil, &LoadError{Type: ReadFailed, Path: path, Err: err}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return loadWorkbook(path)
	case ".csv":
		return loadCSV(path)
	default:
		return nil, &LoadError{Type: UnsupportedFormat, Path: path}
	}
}

func loadWorkbook(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &LoadError{Type: ReadFailed, Path: path, Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &LoadError{Type: EmptyTable, Path: path}
	}
	sheet := sheets[0]

	// Raw values keep date cells as serials instead of their display format
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &LoadError{Type: ReadFailed, Path: path, Err: err}
	}
	if len(rows) == 0 {
		return nil, &LoadError{Type: EmptyTable, Path: path}
	}

	headers := rows[0]
	cells := make([][]Cell, 0, len(rows)-1)
	for r, raw := range rows[1:] {
		// an interior blank row is kept as an all-null record
		row := make([]Cell, len(headers))
		for c := range row {
			if c >= len(raw) {
				break
			}
			if raw[c] != "" {
				row[c] = Text(raw[c])
				continue
			}
			// Blank raw value: only explicit string cells count as ""
			row[c] = blankCell(f, sheet, c+1, r+2)
		}
		cells = append(cells, row)
	}

	return New(headers, cells), nil
}

// blankCell distinguishes a stored empty string from an untouched cell.
func blankCell(f *excelize.File, sheet string, col, row int) Cell {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return Null()
	}
	cellType, err := f.GetCellType(sheet, name)
	if err != nil {
		return Null()
	}
	switch cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString:
		return Text("")
	default:
		return Null()
	}
}

func loadCSV(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Type: ReadFailed, Path: path, Err: err}
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &LoadError{Type: EmptyTable, Path: path}
		}
		return nil, &LoadError{Type: ReadFailed, Path: path, Err: err}
	}
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\ufeff")
	}

	var cells [][]Cell
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &LoadError{Type: ReadFailed, Path: path, Err: err}
		}
		row := make([]Cell, len(record))
		for i, value := range record {
			if value == "" {
				continue
			}
			row[i] = Text(value)
		}
		cells = append(cells, row)
	}

	return New(headers, cells), nil
}
