package dataset

import (
	"fmt"
	"strings"
	"time"
)

const (
	compactDateLayout = "20060102"
	isoDateLayout     = "2006-01-02"
)

// ParseCompactDate parses a YYYYMMDD date as used by the testing feed.
// Values like "20200301" and "20200301.0" are both accepted since some
// exports write the column as a float.
func ParseCompactDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ".0")
	if len(s) != len(compactDateLayout) {
		return time.Time{}, fmt.Errorf("date %q: want YYYYMMDD", s)
	}
	t, err := time.ParseInLocation(compactDateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: %w", s, err)
	}
	return t, nil
}

// ParseISODate parses a YYYY-MM-DD date at 00:00 UTC.
func ParseISODate(s string) (time.Time, error) {
	return time.ParseInLocation(isoDateLayout, strings.TrimSpace(s), time.UTC)
}

// FormatDate renders a date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.UTC().Format(isoDateLayout)
}

// Day truncates t to its calendar day in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
