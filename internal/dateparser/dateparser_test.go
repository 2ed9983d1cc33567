package dateparser

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestParse_KnownLayouts(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2025-08-25 10:15:30", time.Date(2025, 8, 25, 10, 15, 30, 0, time.Local)},
		{"2025-08-25T10:15:30", time.Date(2025, 8, 25, 10, 15, 30, 0, time.Local)},
		{"2025-08-25 10:15", time.Date(2025, 8, 25, 10, 15, 0, 0, time.Local)},
		{"2025-08-25", time.Date(2025, 8, 25, 0, 0, 0, 0, time.Local)},
		{"  2025-08-25  ", time.Date(2025, 8, 25, 0, 0, 0, 0, time.Local)},
		{"08/25/2025 10:15", time.Date(2025, 8, 25, 10, 15, 0, 0, time.Local)},
		{"8/25/25 10:15", time.Date(2025, 8, 25, 10, 15, 0, 0, time.Local)},
		{"25.08.2025", time.Date(2025, 8, 25, 0, 0, 0, 0, time.Local)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParse_SpreadsheetSerial(t *testing.T) {
	// 45658 is 2025-01-01 in the 1900 date system
	got, err := Parse("45658.5")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if Day(got) != "2025-01-01" {
		t.Errorf("expected 2025-01-01, got %s", Day(got))
	}
}

func TestParse_SpreadsheetSerialRoundsToSecond(t *testing.T) {
	// a stored fraction a hair under 09:30
	got, err := Parse("45894.39583332")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	want := time.Date(2025, 8, 25, 9, 30, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		input string
		want  DateParseErrorType
	}{
		{"", Empty},
		{"   ", Empty},
		{"not a date", InvalidFormat},
		{"2025-13-45", InvalidFormat},
		{"-5", InvalidSerial},
		{"99999999", InvalidSerial},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Parse(tt.input)
			var parseErr *DateParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected *DateParseError, got %v", err)
			}
			if parseErr.Type != tt.want {
				t.Errorf("expected error type %s, got %s", tt.want, parseErr.Type)
			}
		})
	}
}

func TestCoerce(t *testing.T) {
	if _, ok := Coerce("garbage"); ok {
		t.Error("Coerce should report ok=false for garbage")
	}
	got, ok := Coerce("2025-01-02 03:04:05")
	if !ok {
		t.Fatal("Coerce should accept an ISO timestamp")
	}
	if Day(got) != "2025-01-02" {
		t.Errorf("expected day 2025-01-02, got %s", Day(got))
	}
}

// Formatted ISO timestamps always parse back to the same calendar day.
func TestParse_ISORoundTripDay(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("ISO timestamps keep their calendar day", prop.ForAll(
		func(year, month, day, hour, minute int) bool {
			input := fmt.Sprintf("%04d-%02d-%02d %02d:%02d:00", year, month, day, hour, minute)
			got, err := Parse(input)
			if err != nil {
				t.Logf("Parse(%q) failed: %v", input, err)
				return false
			}
			return Day(got) == input[:10]
		},
		gen.IntRange(1970, 2100),
		gen.IntRange(1, 12),
		gen.IntRange(1, 28),
		gen.IntRange(0, 23),
		gen.IntRange(0, 59),
	))

	properties.TestingRun(t)
}
