package analysis

import (
	"ticketstats/internal/classifier"
	"ticketstats/internal/columns"
	"ticketstats/internal/tickets"
)

// Bucket is an age range for open tickets.
type Bucket string

const (
	UpTo24Hours Bucket = "<= 24 hours"
	Hours24To48 Bucket = "24-48 hours"
	Hours48To72 Bucket = "48-72 hours"
	Over72Hours Bucket = "> 72 hours"
)

// Buckets lists the age buckets in report order.
func Buckets() []Bucket {
	return []Bucket{UpTo24Hours, Hours24To48, Hours48To72, Over72Hours}
}

// BucketFor places an age in hours. Upper bounds are inclusive except
// for the last, open-ended bucket.
func BucketFor(hours float64) Bucket {
	switch {
	case hours <= 24:
		return UpTo24Hours
	case hours <= 48:
		return Hours24To48
	case hours <= 72:
		return Hours48To72
	default:
		return Over72Hours
	}
}

// AgeBuckets is the age distribution of open tickets with a known age.
type AgeBuckets struct {
	Available bool           `json:"available"`
	Total     int            `json:"total"`
	Counts    map[Bucket]int `json:"counts"`
}

// Count returns the number of tickets in b.
func (a AgeBuckets) Count(b Bucket) int {
	return a.Counts[b]
}

// OpenByAge buckets open tickets whose raw age is present. A present but
// malformed age counts as 0 hours.
func OpenByAge(ds *tickets.Dataset) AgeBuckets {
	result := AgeBuckets{
		Available: classifier.Available(ds) && ds.Has(columns.Age),
		Counts:    make(map[Bucket]int, 4),
	}
	for _, b := range Buckets() {
		result.Counts[b] = 0
	}
	if !result.Available {
		return result
	}

	for _, t := range classifier.OpenTickets(ds) {
		if t.Age.IsNull() {
			continue
		}
		result.Counts[BucketFor(t.AgeHours)]++
		result.Total++
	}

	return result
}
