// Package table loads ticket exports into an in-memory grid of cells.
package table

import "fmt"

// Cell is a single spreadsheet value. A cell that was never filled in is
// null; a cell holding a zero-length string is present but empty.
type Cell struct {
	Value string
	Valid bool
}

// Null returns the null cell.
func Null() Cell {
	return Cell{}
}

// Text returns a present cell holding value.
func Text(value string) Cell {
	return Cell{Value: value, Valid: true}
}

// IsNull reports whether the cell holds no value.
func (c Cell) IsNull() bool {
	return !c.Valid
}

// IsEmptyString reports whether the cell is present but holds "".
func (c Cell) IsEmptyString() bool {
	return c.Valid && c.Value == ""
}

// String renders the cell for detail listings.
func (c Cell) String() string {
	if !c.Valid {
		return "-"
	}
	return c.Value
}

// Table is an ordered header list plus rows of cells. Every row has
// exactly len(Headers) cells.
type Table struct {
	Headers []string
	Rows    [][]Cell
	index   map[string]int
}

// New builds a Table, padding or truncating rows to the header width.
// Empty header names are replaced with "Unnamed: <n>".
func New(headers []string, rows [][]Cell) *Table {
	t := &Table{
		Headers: make([]string, len(headers)),
		Rows:    make([][]Cell, 0, len(rows)),
		index:   make(map[string]int, len(headers)),
	}
	for i, h := range headers {
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		t.Headers[i] = h
		// First occurrence wins for duplicated header names
		if _, exists := t.index[h]; !exists {
			t.index[h] = i
		}
	}
	for _, row := range rows {
		padded := make([]Cell, len(headers))
		copy(padded, row)
		t.Rows = append(t.Rows, padded)
	}
	return t
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Has reports whether a header with the exact given name exists.
func (t *Table) Has(header string) bool {
	_, ok := t.index[header]
	return ok
}

// Get returns the cell at row under header, or a null cell if either is unknown.
func (t *Table) Get(row int, header string) Cell {
	col, ok := t.index[header]
	if !ok || row < 0 || row >= len(t.Rows) {
		return Null()
	}
	return t.Rows[row][col]
}
