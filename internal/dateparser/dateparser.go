// Package dateparser turns free-form export timestamps into time values.
package dateparser

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// DateParseErrorType represents the type of date parsing error.
type DateParseErrorType string

const (
	Empty         DateParseErrorType = "EMPTY"
	InvalidFormat DateParseErrorType = "INVALID_FORMAT"
	InvalidSerial DateParseErrorType = "INVALID_SERIAL"
)

// DateParseError represents an error that occurred during timestamp parsing.
type DateParseError struct {
	Type  DateParseErrorType
	Input string
}

func (e *DateParseError) Error() string {
	switch e.Type {
	case Empty:
		return "empty timestamp"
	case InvalidFormat:
		return fmt.Sprintf("unrecognised timestamp format: %q", e.Input)
	case InvalidSerial:
		return fmt.Sprintf("spreadsheet serial date out of range: %q", e.Input)
	default:
		return fmt.Sprintf("timestamp parse error: %q", e.Input)
	}
}

// layouts are tried in order; the first one that parses wins.
var layouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
	"1/2/06 15:04",
	"1/2/2006 15:04",
	"1/2/06",
	"02.01.2006 15:04:05",
	"02.01.2006 15:04",
	"02.01.2006",
}

// Serial numbers outside this range are not treated as spreadsheet dates.
const (
	minSerial = 1
	maxSerial = 2958465 // 9999-12-31
)

// Parse parses an export timestamp. Layouts without a zone are read as
// local wall-clock time so that calendar days line up with the run clock.
// Bare numbers are read as spreadsheet serial dates.
func Parse(value string) (time.Time, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return time.Time{}, &DateParseError{Type: Empty}
	}

	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}

	serial, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return time.Time{}, &DateParseError{Type: InvalidFormat, Input: value}
	}
	if serial < minSerial || serial > maxSerial {
		return time.Time{}, &DateParseError{Type: InvalidSerial, Input: value}
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, &DateParseError{Type: InvalidSerial, Input: value}
	}
	t = t.Round(time.Second)
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.Local), nil
}

// Coerce is the best-effort form of Parse: any failure yields ok=false.
func Coerce(value string) (t time.Time, ok bool) {
	t, err := Parse(value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Day returns the calendar date of t as YYYY-MM-DD.
func Day(t time.Time) string {
	return t.Format("2006-01-02")
}
