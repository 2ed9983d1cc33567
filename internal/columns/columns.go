// Package columns maps logical ticket fields onto the headers of an export.
package columns

import (
	"fmt"
	"strings"
)

// Field is a logical ticket field independent of any export's header naming.
type Field string

const (
	Created       Field = "created"
	Closed        Field = "closed"
	State         Field = "state"
	TicketNumber  Field = "ticket_number"
	FirstResponse Field = "first_response"
	FirstLock     Field = "first_lock"
	Priority      Field = "priority"
	Age           Field = "age"
)

// Alias lists the header substrings accepted for one field.
type Alias struct {
	Field Field
	Names []string
}

// DefaultAliases returns the alias table for common OTRS export variants.
// Order only affects the order fields appear in Map.String.
func DefaultAliases() []Alias {
	return []Alias{
		{Created, []string{"Created", "CreateTime", "Create Time", "Date Created", "created", "creation_date"}},
		{Closed, []string{"Closed", "CloseTime", "Close Time", "Date Closed", "closed", "close_date"}},
		{State, []string{"State", "Status", "Ticket State", "state", "status"}},
		{TicketNumber, []string{"Ticket Number", "TicketNumber", "Number", "ticket_number", "id"}},
		{FirstResponse, []string{"FirstResponse", "First Response", "first_response"}},
		{FirstLock, []string{"FirstLock", "First Lock", "first_lock"}},
		{Priority, []string{"Priority", "priority"}},
		{Age, []string{"Age", "age"}},
	}
}

// Map holds the header chosen for each resolved field.
type Map struct {
	headers map[Field]string
	order   []Field
}

// Resolve picks a header for every field in aliases. For each field the
// headers are scanned in their original order and the first header whose
// lowercase form contains any lowercase alias is taken; header order wins
// over alias order. Header text is kept verbatim.
func Resolve(headers []string, aliases []Alias) Map {
	m := Map{headers: make(map[Field]string)}

	for _, alias := range aliases {
		for _, header := range headers {
			if containsAny(strings.ToLower(header), alias.Names) {
				m.headers[alias.Field] = header
				m.order = append(m.order, alias.Field)
				break
			}
		}
	}

	return m
}

func containsAny(lowerHeader string, names []string) bool {
	for _, name := range names {
		if strings.Contains(lowerHeader, strings.ToLower(name)) {
			return true
		}
	}
	return false
}

// Lookup returns the header resolved for field.
func (m Map) Lookup(field Field) (string, bool) {
	h, ok := m.headers[field]
	return h, ok
}

// Has reports whether field resolved to a header.
func (m Map) Has(field Field) bool {
	_, ok := m.headers[field]
	return ok
}

// Empty reports whether no field resolved. Callers should fall back to
// listing the raw headers instead of analysing the table.
func (m Map) Empty() bool {
	return len(m.headers) == 0
}

// Len returns the number of resolved fields.
func (m Map) Len() int {
	return len(m.headers)
}

// Fields returns the resolved fields in alias-table order.
func (m Map) Fields() []Field {
	out := make([]Field, len(m.order))
	copy(out, m.order)
	return out
}

// Headers returns the resolved headers keyed by field name.
func (m Map) Headers() map[string]string {
	out := make(map[string]string, len(m.headers))
	for f, h := range m.headers {
		out[string(f)] = h
	}
	return out
}

// String renders the map as {field: 'Header', ...}.
func (m Map) String() string {
	parts := make([]string, 0, len(m.order))
	for _, f := range m.order {
		parts = append(parts, fmt.Sprintf("%s: '%s'", f, m.headers[f]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
