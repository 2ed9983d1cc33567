// Package classifier decides whether a ticket is open or closed.
package classifier

import (
	"ticketstats/internal/columns"
	"ticketstats/internal/tickets"
)

// Status is the open/closed classification of a ticket.
type Status string

const (
	Open   Status = "OPEN"
	Closed Status = "CLOSED"
)

// Classify returns Open when the ticket has no parseable closure timestamp.
// This is the only open/closed predicate; every report section uses it.
func Classify(t tickets.Ticket) Status {
	if t.Closed == nil {
		return Open
	}
	return Closed
}

// IsOpen reports whether Classify returns Open.
func IsOpen(t tickets.Ticket) bool {
	return Classify(t) == Open
}

// Available reports whether the dataset can be classified at all, which
// requires a resolved closed column.
func Available(ds *tickets.Dataset) bool {
	return ds.Has(columns.Closed)
}

// Split partitions the dataset into open and closed tickets, preserving row order.
func Split(ds *tickets.Dataset) (open, closed []tickets.Ticket) {
	for _, t := range ds.Tickets {
		if IsOpen(t) {
			open = append(open, t)
		} else {
			closed = append(closed, t)
		}
	}
	return open, closed
}

// OpenTickets returns the open subset in row order.
func OpenTickets(ds *tickets.Dataset) []tickets.Ticket {
	open, _ := Split(ds)
	return open
}
