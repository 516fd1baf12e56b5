package scraper

import (
	"regexp"
	"strings"
	"time"
)

var datePattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// timeLayouts are the forms the duration column's sort attribute uses,
// most specific first.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseEventTimes splits a combined duration attribute such as
// "2024-06-01 2024-06-20" into its start and end halves and parses each
// into Unix milliseconds. The split point is the start of the second
// embedded YYYY-MM-DD token. An unparsable half yields 0 for that bound
// only; ok is false when the attribute does not contain two date tokens.
func parseEventTimes(attr string) (start, end int64, ok bool) {
	locs := datePattern.FindAllStringIndex(attr, -1)
	if len(locs) < 2 {
		return 0, 0, false
	}
	split := locs[1][0]
	return parseDateMillis(attr[:split]), parseDateMillis(attr[split:]), true
}

// parseDateMillis parses a calendar date or date-time as UTC into Unix
// milliseconds, returning the 0 sentinel when no layout matches.
func parseDateMillis(s string) int64 {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UnixMilli()
		}
	}
	return 0
}
