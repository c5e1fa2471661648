// Package dateparse turns the loose date strings found in forms and uploaded
// sheets into calendar dates. Numeric dates are read day first, so
// "03/04/2024" is the 3rd of April.
package dateparse

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Year-first layouts come before the day-first ones so ISO dates are never
// read as day/month.
var layouts = []string{
	"2006-1-2",
	"2006/1/2",
	"2006.1.2",
	"20060102",
	"2/1/2006",
	"2-1-2006",
	"2.1.2006",
	"2/1/06",
	"2-1-06",
	"2.1.06",
	"2 Jan 2006",
	"2-Jan-2006",
	"2 Jan 06",
	"2-Jan-06",
	"2 January 2006",
	"2-January-2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"January 2, 2006",
	"January 2 2006",
	"Mon, 2 Jan 2006",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2-1-2006 15:04:05",
	"2-1-2006 15:04",
}

// Excel serial day numbers outside this range are not treated as dates.
const (
	minSerial = 1
	maxSerial = 2958465
)

// Parse returns the calendar date encoded in s. The boolean is false when s
// is blank or no known format matches.
func Parse(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, ok := parseSerial(s); ok {
		return t, true
	}
	if t, ok := parseLayouts(s); ok {
		return t, true
	}
	// Spreadsheet exports often carry a time part the layouts do not know.
	if i := strings.IndexAny(s, " T"); i > 0 {
		if t, ok := parseLayouts(s[:i]); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseOr is Parse with a fallback; failures never surface as errors.
func ParseOr(s string, def *time.Time) *time.Time {
	t, ok := Parse(s)
	if !ok {
		return def
	}
	return &t
}

func parseLayouts(s string) (time.Time, bool) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dateOnly(t), true
		}
	}
	return time.Time{}, false
}

func parseSerial(s string) (time.Time, bool) {
	if len(s) == 8 && !strings.ContainsAny(s, ".-") {
		// 20240403 reads better as a compact ISO date than as a serial.
		return time.Time{}, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < minSerial || f > maxSerial {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(f, false)
	if err != nil {
		return time.Time{}, false
	}
	return dateOnly(t), true
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
