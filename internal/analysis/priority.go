package analysis

import (
	"ticketstats/internal/classifier"
	"ticketstats/internal/columns"
	"ticketstats/internal/tickets"
)

// OpenPriority is the priority distribution of open tickets.
type OpenPriority struct {
	Available         bool    `json:"available"`
	PriorityAvailable bool    `json:"priority_available"`
	TotalOpen         int     `json:"total_open"`
	Counts            []Count `json:"counts"`
}

// OpenByPriority groups open tickets by their verbatim priority label,
// most frequent first.
func OpenByPriority(ds *tickets.Dataset) OpenPriority {
	result := OpenPriority{
		Available:         classifier.Available(ds),
		PriorityAvailable: ds.Has(columns.Priority),
	}
	if !result.Available {
		return result
	}

	open := classifier.OpenTickets(ds)
	result.TotalOpen = len(open)
	if !result.PriorityAvailable {
		return result
	}

	counts := newTally()
	for _, t := range open {
		counts.add(t.Priority)
	}
	result.Counts = counts.byFrequency()

	return result
}
