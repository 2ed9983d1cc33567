package analysis

import (
	"sort"
	"time"

	"ticketstats/internal/columns"
	"ticketstats/internal/dateparser"
	"ticketstats/internal/tickets"
)

// DailyRow holds the new and closed counts for one calendar day.
type DailyRow struct {
	Date   string `json:"date"`
	New    int    `json:"new"`
	Closed int    `json:"closed"`
}

// DailyCounts is the per-day new/closed series.
type DailyCounts struct {
	Available bool       `json:"available"`
	HasNew    bool       `json:"has_new"`
	HasClosed bool       `json:"has_closed"`
	Rows      []DailyRow `json:"rows"`
}

// TotalClosed sums closures over all days.
func (d DailyCounts) TotalClosed() int {
	n := 0
	for _, r := range d.Rows {
		n += r.Closed
	}
	return n
}

// TotalNew sums creations over all days.
func (d DailyCounts) TotalNew() int {
	n := 0
	for _, r := range d.Rows {
		n += r.New
	}
	return n
}

// Daily counts creations and closures per calendar day. Rows cover the
// union of both series in ascending date order; a day seen on one side
// only counts 0 on the other. Unparseable timestamps are skipped.
func Daily(ds *tickets.Dataset) DailyCounts {
	result := DailyCounts{
		HasNew:    ds.Has(columns.Created),
		HasClosed: ds.Has(columns.Closed),
	}
	result.Available = result.HasNew || result.HasClosed
	if !result.Available {
		return result
	}

	byDay := make(map[string]*DailyRow)
	row := func(t *time.Time) *DailyRow {
		day := dateparser.Day(*t)
		r, ok := byDay[day]
		if !ok {
			r = &DailyRow{Date: day}
			byDay[day] = r
		}
		return r
	}

	for _, t := range ds.Tickets {
		if result.HasNew && t.Created != nil {
			row(t.Created).New++
		}
		if result.HasClosed && t.Closed != nil {
			row(t.Closed).Closed++
		}
	}

	result.Rows = make([]DailyRow, 0, len(byDay))
	for _, r := range byDay {
		result.Rows = append(result.Rows, *r)
	}
	sort.Slice(result.Rows, func(i, j int) bool {
		return result.Rows[i].Date < result.Rows[j].Date
	})

	return result
}
