package analysis

import (
	"time"

	"ticketstats/internal/classifier"
	"ticketstats/internal/columns"
	"ticketstats/internal/tickets"
)

// StateCounts is the state distribution across all tickets.
type StateCounts struct {
	Available bool    `json:"available"`
	Counts    []Count `json:"counts"`
}

// States groups every ticket by its state label, most frequent first.
func States(ds *tickets.Dataset) StateCounts {
	result := StateCounts{Available: ds.Has(columns.State)}
	if !result.Available {
		return result
	}
	counts := newTally()
	for _, t := range ds.Tickets {
		counts.add(t.State)
	}
	result.Counts = counts.byFrequency()
	return result
}

// Summary is the headline block of the report.
type Summary struct {
	TotalRecords     int  `json:"total_records"`
	CreatedAvailable bool `json:"created_available"`
	NewToday         int  `json:"new_today"`
	ClosedAvailable  bool `json:"closed_available"`
	TotalClosed      int  `json:"total_closed"`
	CurrentOpen      int  `json:"current_open"`
}

// Results bundles every aggregate for one run.
type Results struct {
	GeneratedAt   time.Time           `json:"generated_at"`
	Summary       Summary             `json:"summary"`
	Daily         DailyCounts         `json:"daily"`
	States        StateCounts         `json:"states"`
	FirstResponse FirstResponseReport `json:"first_response"`
	OpenPriority  OpenPriority        `json:"open_by_priority"`
	OpenAge       AgeBuckets          `json:"open_by_age"`
	Today         TodayCounts         `json:"today"`
}

// Analyze runs every aggregator over ds. now fixes the calendar day used by
// the same-day counters.
func Analyze(ds *tickets.Dataset, now time.Time) *Results {
	r := &Results{
		GeneratedAt:   now,
		Daily:         Daily(ds),
		States:        States(ds),
		FirstResponse: FirstResponse(ds),
		OpenPriority:  OpenByPriority(ds),
		OpenAge:       OpenByAge(ds),
		Today:         Today(ds, now),
	}

	r.Summary = Summary{
		TotalRecords:     ds.Len(),
		CreatedAvailable: r.Today.CreatedAvailable,
		NewToday:         r.Today.NewToday,
		ClosedAvailable:  classifier.Available(ds),
	}
	if r.Summary.ClosedAvailable {
		r.Summary.TotalClosed = r.Daily.TotalClosed()
		r.Summary.CurrentOpen = len(classifier.OpenTickets(ds))
	}

	return r
}
