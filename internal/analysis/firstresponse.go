package analysis

import (
	"sort"
	"strings"

	"ticketstats/internal/columns"
	"ticketstats/internal/tickets"
)

// priorityRank orders the known OTRS priorities; anything else ranks last.
var priorityRank = map[string]int{
	"1 very high": 1,
	"2 high":      2,
	"3 normal":    3,
}

const unrankedPriority = 999

// PriorityRank returns the sort rank of a priority label.
func PriorityRank(label string) int {
	if r, ok := priorityRank[label]; ok {
		return r
	}
	return unrankedPriority
}

// SortByPriorityRank orders counts by PriorityRank. The sort is stable, so
// unrecognised labels keep the order they were passed in.
func SortByPriorityRank(counts []Count) []Count {
	out := make([]Count, len(counts))
	copy(out, counts)
	sort.SliceStable(out, func(i, j int) bool {
		return PriorityRank(out[i].Label) < PriorityRank(out[j].Label)
	})
	return out
}

// detailFields is the preferred column set for the detail listing.
var detailFields = []columns.Field{
	columns.TicketNumber,
	columns.Age,
	columns.Created,
	columns.Closed,
	columns.FirstLock,
	columns.FirstResponse,
	columns.State,
	columns.Priority,
}

// Detail is a plain grid of raw cell text.
type Detail struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// FirstResponseReport describes tickets nobody has responded to yet.
type FirstResponseReport struct {
	Available         bool    `json:"available"`
	Column            string  `json:"column,omitempty"`
	StateAvailable    bool    `json:"state_available"`
	TotalBefore       int     `json:"total_before_exclusion"`
	Total             int     `json:"total"`
	Excluded          int     `json:"excluded"`
	NullValues        int     `json:"null_values"`
	EmptyStrings      int     `json:"empty_strings"`
	PriorityAvailable bool    `json:"priority_available"`
	ByPriority        []Count `json:"by_priority"`
	Detail            Detail  `json:"detail"`
}

// isSettled reports whether a state label marks a ticket as closed or resolved.
func isSettled(state string) bool {
	s := strings.ToLower(state)
	return strings.Contains(s, "closed") || strings.Contains(s, "resolved")
}

// FirstResponse finds tickets whose first-response value is null or "",
// drops closed/resolved ones, and breaks the rest down by priority.
func FirstResponse(ds *tickets.Dataset) FirstResponseReport {
	result := FirstResponseReport{
		StateAvailable:    ds.Has(columns.State),
		PriorityAvailable: ds.Has(columns.Priority),
	}
	column, ok := ds.Header(columns.FirstResponse)
	if !ok {
		return result
	}
	result.Available = true
	result.Column = column

	var pending []tickets.Ticket
	for _, t := range ds.Tickets {
		if !t.FirstResponse.IsNull() && !t.FirstResponse.IsEmptyString() {
			continue
		}
		result.TotalBefore++
		// A null state is never treated as settled
		if result.StateAvailable && t.State.Valid && isSettled(t.State.Value) {
			result.Excluded++
			continue
		}
		pending = append(pending, t)
	}
	result.Total = len(pending)

	counts := newTally()
	for _, t := range pending {
		if t.FirstResponse.IsNull() {
			result.NullValues++
		} else {
			result.EmptyStrings++
		}
		counts.add(t.Priority)
	}
	if result.PriorityAvailable {
		result.ByPriority = SortByPriorityRank(counts.encounterOrder())
	}

	result.Detail = buildDetail(ds, pending)
	return result
}

func buildDetail(ds *tickets.Dataset, rows []tickets.Ticket) Detail {
	var detail Detail
	for _, field := range detailFields {
		if header, ok := ds.Header(field); ok {
			detail.Headers = append(detail.Headers, header)
		}
	}
	if len(detail.Headers) == 0 {
		return detail
	}

	detail.Rows = make([][]string, 0, len(rows))
	for _, t := range rows {
		line := make([]string, len(detail.Headers))
		for i, header := range detail.Headers {
			line[i] = ds.Table.Get(t.Row, header).String()
		}
		detail.Rows = append(detail.Rows, line)
	}
	return detail
}
