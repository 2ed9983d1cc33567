// Package duration parses ticket age strings such as "1 d 2 h 30 m".
package duration

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	dayPattern    = regexp.MustCompile(`(\d+)\s*d`)
	hourPattern   = regexp.MustCompile(`(\d+)\s*h`)
	minutePattern = regexp.MustCompile(`(\d+)\s*m`)
)

// ParseHours converts an age string to total hours:
// (days*24) + hours + minutes/60.
//
// Each unit is taken from its first occurrence only, in any order and with
// any spacing. Missing or malformed components count as zero, so the
// result is never negative and the function never fails.
func ParseHours(age string) float64 {
	s := strings.ToLower(age)

	days := firstComponent(dayPattern, s)
	hours := firstComponent(hourPattern, s)
	minutes := firstComponent(minutePattern, s)

	return float64(days*24) + float64(hours) + float64(minutes)/60
}

// firstComponent returns the number in front of the first match, or 0.
func firstComponent(pattern *regexp.Regexp, s string) int64 {
	match := pattern.FindStringSubmatch(s)
	if match == nil {
		return 0
	}
	n, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		// More digits than int64 holds
		return 0
	}
	// Guard days*24 against overflow
	if pattern == dayPattern && n > (1<<63-1)/24 {
		return 0
	}
	return n
}
