// Package analysis computes the report aggregates over a ticket dataset.
// Each aggregate degrades to Available=false when the columns it needs
// were not resolved; none of them fail.
package analysis

import (
	"sort"

	"ticketstats/internal/table"
)

// Count is one label of a frequency distribution.
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// tally accumulates label frequencies, remembering first-encounter order.
type tally struct {
	index  map[string]int
	counts []Count
}

func newTally() *tally {
	return &tally{index: make(map[string]int)}
}

// add counts a cell; null cells are ignored like missing values.
func (t *tally) add(c table.Cell) {
	if !c.Valid {
		return
	}
	if i, ok := t.index[c.Value]; ok {
		t.counts[i].Count++
		return
	}
	t.index[c.Value] = len(t.counts)
	t.counts = append(t.counts, Count{Label: c.Value, Count: 1})
}

// byFrequency returns counts in descending order; ties keep first-encounter order.
func (t *tally) byFrequency() []Count {
	out := t.encounterOrder()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

func (t *tally) encounterOrder() []Count {
	out := make([]Count, len(t.counts))
	copy(out, t.counts)
	return out
}

// Total sums a distribution.
func Total(counts []Count) int {
	n := 0
	for _, c := range counts {
		n += c.Count
	}
	return n
}
