package analysis

import (
	"time"

	"ticketstats/internal/columns"
	"ticketstats/internal/dateparser"
	"ticketstats/internal/tickets"
)

// TodayCounts are same-day snapshot counters over the whole table.
type TodayCounts struct {
	Date             string `json:"date"`
	CreatedAvailable bool   `json:"created_available"`
	NewToday         int    `json:"new_today"`
	ClosedAvailable  bool   `json:"closed_available"`
	ClosedToday      int    `json:"closed_today"`
}

// Today counts tickets created and closed on now's calendar date,
// regardless of their current state.
func Today(ds *tickets.Dataset, now time.Time) TodayCounts {
	today := dateparser.Day(now)
	result := TodayCounts{
		Date:             today,
		CreatedAvailable: ds.Has(columns.Created),
		ClosedAvailable:  ds.Has(columns.Closed),
	}

	for _, t := range ds.Tickets {
		if t.Created != nil && dateparser.Day(*t.Created) == today {
			result.NewToday++
		}
		if t.Closed != nil && dateparser.Day(*t.Closed) == today {
			result.ClosedToday++
		}
	}

	return result
}
