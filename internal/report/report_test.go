package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketstats/internal/analysis"
	"ticketstats/internal/columns"
	"ticketstats/internal/table"
	"ticketstats/internal/tickets"
)

var now = time.Date(2025, 1, 2, 12, 0, 0, 0, time.Local)

func fullDataset() *tickets.Dataset {
	headers := []string{"Ticket Number", "Age", "Created", "Closed", "FirstResponse", "State", "Priority"}
	rows := [][]table.Cell{
		{table.Text("1001"), table.Text("2 h"), table.Text("2025-01-01 09:00:00"), table.Text("2025-01-01 10:00:00"), table.Text("2025-01-01 09:30:00"), table.Text("closed successful"), table.Text("3 normal")},
		{table.Text("1002"), table.Text("1 d 2 h"), table.Text("2025-01-01 11:00:00"), table.Null(), table.Null(), table.Text("open"), table.Text("2 high")},
		{table.Text("1003"), table.Text("4 d"), table.Text("2025-01-02 08:00:00"), table.Null(), table.Text(""), table.Text("new"), table.Text("1 very high")},
	}
	tbl := table.New(headers, rows)
	return tickets.Build(tbl, columns.Resolve(tbl.Headers, columns.DefaultAliases()))
}

func render(t *testing.T, ds *tickets.Dataset) string {
	t.Helper()
	var buf bytes.Buffer
	r := New(&buf)
	r.Header()
	r.Overview("tickets.xlsx", ds)
	require.NoError(t, r.Write(analysis.Analyze(ds, now)))
	return buf.String()
}

func TestReporter_SectionOrder(t *testing.T) {
	out := render(t, fullDataset())

	order := []string{
		Title,
		"Total records: 3",
		"Identified columns:",
		"Daily Ticket Statistics:",
		"Current Open Tickets: 2",
		"Ticket States Distribution:",
		"ANALYSIS SUMMARY",
		"FIRST RESPONSE EMPTY ANALYSIS",
		"OPEN TICKETS BY PRIORITY DISTRIBUTION",
		"OPEN TICKETS BY AGE DISTRIBUTION ANALYSIS",
	}
	last := -1
	for _, marker := range order {
		idx := strings.Index(out, marker)
		require.NotEqual(t, -1, idx, "missing %q in report:\n%s", marker, out)
		assert.Greater(t, idx, last, "%q is out of order", marker)
		last = idx
	}
}

func TestReporter_Content(t *testing.T) {
	out := render(t, fullDataset())

	expected := []string{
		"2025-01-01\t2\t1",
		"2025-01-02\t1\t0",
		"New tickets today: 1",
		"Total closed tickets: 1",
		"Current open tickets: 2",
		"Using column: FirstResponse",
		"Total records with empty FirstResponse (excluding Closed/Resolved): 2",
		" - Null values: 1",
		" - Empty strings: 1",
		"Total open tickets: 2",
		"Open tickets <= 24 hours: 0",
		"Open tickets 24-48 hours: 1",
		"Open tickets > 72 hours: 1",
		"Closed tickets today: 0",
	}
	for _, line := range expected {
		assert.Contains(t, out, line)
	}

	// Empty-first-response priorities are ranked, not frequency ordered
	high := strings.Index(out, "Empty FirstResponse by Priority:")
	require.NotEqual(t, -1, high)
	tail := out[high:]
	assert.Less(t, strings.Index(tail, "1 very high: 1"), strings.Index(tail, "2 high: 1"))
}

func TestReporter_DegradesPerSection(t *testing.T) {
	tbl := table.New([]string{"Created", "Priority"}, [][]table.Cell{
		{table.Text("2025-01-02"), table.Text("2 high")},
	})
	ds := tickets.Build(tbl, columns.Resolve(tbl.Headers, columns.DefaultAliases()))

	out := render(t, ds)

	assert.Contains(t, out, "Daily New Tickets:")
	assert.Contains(t, out, "Closed column not found - cannot determine open tickets")
	assert.Contains(t, out, "FirstResponse column not found in data")
	assert.Contains(t, out, "Closed column not found - open tickets by priority not available")
	assert.Contains(t, out, "Age data not available for analysis")
	assert.Contains(t, out, "New tickets today: 1")
	assert.Contains(t, out, "OPEN TICKETS BY AGE DISTRIBUTION ANALYSIS", "later sections still render")
}

func TestReporter_DailyWithoutParsedClosures(t *testing.T) {
	tbl := table.New([]string{"Created", "Closed"}, [][]table.Cell{
		{table.Text("2025-01-01 09:00:00"), table.Null()},
		{table.Text("2025-01-02 09:00:00"), table.Text("pending")},
	})
	ds := tickets.Build(tbl, columns.Resolve(tbl.Headers, columns.DefaultAliases()))

	out := render(t, ds)

	assert.Contains(t, out, "Daily New Tickets:\n2025-01-01: 1\n2025-01-02: 1\n")
	assert.NotContains(t, out, "Daily Ticket Statistics:")

	closedOnly := table.New([]string{"Closed"}, [][]table.Cell{{table.Null()}})
	ds = tickets.Build(closedOnly, columns.Resolve(closedOnly.Headers, columns.DefaultAliases()))
	out = render(t, ds)
	assert.NotContains(t, out, "Daily Closed Tickets:")
	assert.NotContains(t, out, "Daily ticket data not available")
}

func TestReporter_Unmapped(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Unmapped([]string{"Queue", "Owner"})

	assert.Contains(t, buf.String(), "Column mapping needed. Available columns:")
	assert.Contains(t, buf.String(), "0: Queue\n1: Owner\n")
}

type failingWriter struct{ writes int }

func (f *failingWriter) Write(p []byte) (int, error) {
	f.writes++
	return 0, errors.New("disk full")
}

func TestReporter_StickyError(t *testing.T) {
	w := &failingWriter{}
	r := New(w)

	r.Header()
	err := r.Write(analysis.Analyze(fullDataset(), now))

	require.Error(t, err)
	assert.Equal(t, 1, w.writes, "writes after the first failure should be skipped")
	assert.Equal(t, err, r.Err())
}

func TestFileName(t *testing.T) {
	start := time.Date(2025, 8, 25, 7, 8, 9, 0, time.Local)
	assert.Equal(t, "2025-08-25_07-08-09.txt", FileName(start, ".txt"))
}

func TestUniquePath(t *testing.T) {
	dir := t.TempDir()
	name := "2025-08-25_07-08-09.txt"

	first := UniquePath(dir, name)
	assert.Equal(t, filepath.Join(dir, name), first)
	require.NoError(t, os.WriteFile(first, nil, 0644))

	second := UniquePath(dir, name)
	assert.Equal(t, filepath.Join(dir, "2025-08-25_07-08-09_2.txt"), second)
	require.NoError(t, os.WriteFile(second, nil, 0644))

	third := UniquePath(dir, name)
	assert.Equal(t, filepath.Join(dir, "2025-08-25_07-08-09_3.txt"), third)
}

func TestWriteJSON(t *testing.T) {
	ds := fullDataset()
	path := filepath.Join(t.TempDir(), "report.json")

	doc := Document{
		RunID:   "run-1",
		Input:   "tickets.xlsx",
		Columns: ds.Columns.Headers(),
		Results: analysis.Analyze(ds, now),
	}
	require.NoError(t, WriteJSON(doc, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "run-1", decoded["run_id"])

	summary, ok := decoded["summary"].(map[string]interface{})
	require.True(t, ok, "summary should be promoted from the embedded results")
	assert.EqualValues(t, 2, summary["current_open"])
	assert.EqualValues(t, 3, summary["total_records"])
}
