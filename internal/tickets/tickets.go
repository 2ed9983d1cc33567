// Package tickets derives typed ticket records from a loaded export.
package tickets

import (
	"time"

	"ticketstats/internal/columns"
	"ticketstats/internal/dateparser"
	"ticketstats/internal/duration"
	"ticketstats/internal/table"
)

// Ticket is one export row with its derived values.
type Ticket struct {
	Row           int        // Index into the source table
	TicketNumber  table.Cell
	Created       *time.Time // nil when absent or unparseable
	Closed        *time.Time // nil when absent or unparseable; nil means open
	State         table.Cell
	Priority      table.Cell
	FirstResponse table.Cell
	Age           table.Cell
	AgeHours      float64 // Derived from Age; 0 when Age is null or malformed
}

// Dataset is the transformed view over a table. Derived values are
// computed once by Build and only read afterwards.
type Dataset struct {
	Table   *table.Table
	Columns columns.Map
	Tickets []Ticket
}

// Build derives a Ticket for every row of tbl using the resolved columns.
func Build(tbl *table.Table, cols columns.Map) *Dataset {
	ds := &Dataset{
		Table:   tbl,
		Columns: cols,
		Tickets: make([]Ticket, tbl.Len()),
	}

	for i := range ds.Tickets {
		t := Ticket{
			Row:           i,
			TicketNumber:  ds.cell(i, columns.TicketNumber),
			Created:       parseTime(ds.cell(i, columns.Created)),
			Closed:        parseTime(ds.cell(i, columns.Closed)),
			State:         ds.cell(i, columns.State),
			Priority:      ds.cell(i, columns.Priority),
			FirstResponse: ds.cell(i, columns.FirstResponse),
			Age:           ds.cell(i, columns.Age),
		}
		if t.Age.Valid {
			t.AgeHours = duration.ParseHours(t.Age.Value)
		}
		ds.Tickets[i] = t
	}

	return ds
}

// Has reports whether field resolved to a column of the export.
func (d *Dataset) Has(field columns.Field) bool {
	return d.Columns.Has(field)
}

// Header returns the export header resolved for field.
func (d *Dataset) Header(field columns.Field) (string, bool) {
	return d.Columns.Lookup(field)
}

// Len returns the number of tickets.
func (d *Dataset) Len() int {
	return len(d.Tickets)
}

func (d *Dataset) cell(row int, field columns.Field) table.Cell {
	header, ok := d.Columns.Lookup(field)
	if !ok {
		return table.Null()
	}
	return d.Table.Get(row, header)
}

func parseTime(c table.Cell) *time.Time {
	if !c.Valid {
		return nil
	}
	t, ok := dateparser.Coerce(c.Value)
	if !ok {
		return nil
	}
	return &t
}
