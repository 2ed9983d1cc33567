// Package report renders analysis results as the plain-text ticket report.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"ticketstats/internal/analysis"
	"ticketstats/internal/tickets"
)

// Title is the first line of every report.
const Title = "OTRS TICKET ANALYSIS"

var (
	rule      = strings.Repeat("=", 50)
	shortRule = strings.Repeat("-", 30)
)

// Reporter writes report sections to a sink. The first write error is
// kept and every later write becomes a no-op; Err returns it.
type Reporter struct {
	w   io.Writer
	err error
}

// New creates a Reporter writing to w.
func New(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// Err returns the first error encountered while writing.
func (r *Reporter) Err() error {
	return r.err
}

func (r *Reporter) printf(format string, args ...interface{}) {
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintf(r.w, format, args...)
}

func (r *Reporter) println(line string) {
	r.printf("%s\n", line)
}

func (r *Reporter) section(title string) {
	r.printf("\n%s\n%s\n%s\n", rule, title, rule)
}

// Header writes the report title.
func (r *Reporter) Header() {
	r.println(Title)
	r.println(rule)
}

// LoadFailure records that the input could not be read.
func (r *Reporter) LoadFailure(err error) {
	r.printf("Error reading file: %v\n", err)
}

// Overview writes the input path, record count and resolved columns.
func (r *Reporter) Overview(input string, ds *tickets.Dataset) {
	r.printf("Reading Excel file: %s\n", input)
	r.printf("Total records: %d\n", ds.Len())
	r.printf("\nIdentified columns: %s\n", ds.Columns)
}

// Unmapped lists the raw headers when no field could be resolved.
func (r *Reporter) Unmapped(headers []string) {
	r.println("\nColumn mapping needed. Available columns:")
	for i, h := range headers {
		r.printf("%d: %s\n", i, h)
	}
}

// Write renders every section in report order and returns the first write error.
func (r *Reporter) Write(res *analysis.Results) error {
	r.Daily(res.Daily)
	r.OpenAndStates(res.Summary, res.States)
	r.Summary(res.Summary)
	r.FirstResponse(res.FirstResponse)
	r.OpenPriority(res.OpenPriority)
	r.OpenAge(res.OpenAge, res.Today)
	return r.err
}

// Daily writes the per-day new/closed statistics. The closed series only
// counts once at least one closure parsed.
func (r *Reporter) Daily(d analysis.DailyCounts) {
	closed := d.HasClosed && d.TotalClosed() > 0
	switch {
	case !d.Available:
		r.println("\nDaily ticket data not available")
	case d.HasNew && closed:
		r.println("\nDaily Ticket Statistics:")
		r.println("Date\t\tNew\tClosed")
		r.println(shortRule)
		for _, row := range d.Rows {
			r.printf("%s\t%d\t%d\n", row.Date, row.New, row.Closed)
		}
	case d.HasNew:
		r.println("\nDaily New Tickets:")
		for _, row := range d.Rows {
			r.printf("%s: %d\n", row.Date, row.New)
		}
	case closed:
		r.println("\nDaily Closed Tickets:")
		for _, row := range d.Rows {
			r.printf("%s: %d\n", row.Date, row.Closed)
		}
	}
}

// OpenAndStates writes the open count and the state distribution.
func (r *Reporter) OpenAndStates(s analysis.Summary, states analysis.StateCounts) {
	if !s.ClosedAvailable {
		r.println("Closed column not found - cannot determine open tickets")
		return
	}
	r.printf("\nCurrent Open Tickets: %d\n", s.CurrentOpen)
	if !states.Available {
		return
	}
	r.println("\nTicket States Distribution:")
	r.counts(states.Counts)
}

// Summary writes the headline block.
func (r *Reporter) Summary(s analysis.Summary) {
	r.section("ANALYSIS SUMMARY")
	if s.CreatedAvailable {
		r.printf("New tickets today: %d\n", s.NewToday)
	} else {
		r.println("Created date information not available for today's count")
	}
	if s.ClosedAvailable {
		r.printf("Total closed tickets: %d\n", s.TotalClosed)
		r.printf("Current open tickets: %d\n", s.CurrentOpen)
	} else {
		r.println("Closed date information not available for open/closed counts")
	}
}

// FirstResponse writes the empty-first-response analysis.
func (r *Reporter) FirstResponse(fr analysis.FirstResponseReport) {
	r.section("FIRST RESPONSE EMPTY ANALYSIS")
	if !fr.Available {
		r.println("FirstResponse column not found in data")
		return
	}
	r.printf("Using column: %s\n", fr.Column)

	if fr.StateAvailable {
		r.printf("Total records with empty FirstResponse (excluding Closed/Resolved): %d\n", fr.Total)
		r.printf(" - Before filtering (all empty FirstResponse): %d\n", fr.TotalBefore)
		r.printf(" - Excluded Closed/Resolved tickets: %d\n", fr.Excluded)
	} else {
		r.printf("Total records with empty FirstResponse: %d\n", fr.Total)
		r.println("State column not available - cannot filter out Closed/Resolved tickets")
	}
	r.printf(" - Null values: %d\n", fr.NullValues)
	r.printf(" - Empty strings: %d\n", fr.EmptyStrings)

	r.println("\nDetailed Empty FirstResponse Tickets:")
	if len(fr.Detail.Headers) == 0 {
		r.println("Required columns not available for detailed view")
	} else {
		r.detail(fr.Detail)
	}

	if !fr.PriorityAvailable {
		r.println("Priority column not available for analysis")
		return
	}
	r.println("\nEmpty FirstResponse by Priority:")
	r.counts(fr.ByPriority)
}

// OpenPriority writes the open-ticket priority distribution.
func (r *Reporter) OpenPriority(p analysis.OpenPriority) {
	r.section("OPEN TICKETS BY PRIORITY DISTRIBUTION")
	if !p.Available {
		r.println("Closed column not found - open tickets by priority not available")
		return
	}
	r.printf("Total open tickets: %d\n", p.TotalOpen)
	if !p.PriorityAvailable {
		r.println("Priority column not available for analysis")
		return
	}
	r.println("\nOpen tickets by Priority:")
	r.counts(p.Counts)
}

// OpenAge writes the open-ticket age buckets and the same-day counters.
func (r *Reporter) OpenAge(a analysis.AgeBuckets, today analysis.TodayCounts) {
	r.section("OPEN TICKETS BY AGE DISTRIBUTION ANALYSIS")
	if !a.Available {
		r.println("Age data not available for analysis")
	} else {
		for _, b := range analysis.Buckets() {
			r.printf("Open tickets %s: %d\n", b, a.Count(b))
		}
	}

	if today.CreatedAvailable {
		r.printf("New tickets today: %d\n", today.NewToday)
	} else {
		r.println("Created date information not available for daily count")
	}
	if today.ClosedAvailable {
		r.printf("Closed tickets today: %d\n", today.ClosedToday)
	} else {
		r.println("Closed date information not available for today's count")
	}
}

func (r *Reporter) counts(counts []analysis.Count) {
	for _, c := range counts {
		r.printf("%s: %d\n", c.Label, c.Count)
	}
}

func (r *Reporter) detail(d analysis.Detail) {
	if r.err != nil {
		return
	}
	if len(d.Rows) == 0 {
		r.println("(none)")
		return
	}
	tw := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(d.Headers, "\t"))
	for _, row := range d.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	r.err = tw.Flush()
}
