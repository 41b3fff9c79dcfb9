// Package period resolves report-period modes into calendar date ranges.
//
// Dates are handled as "YYYY-MM-DD" strings at package boundaries; since the
// format is fixed-width, string order equals chronological order. An empty
// bound means the range is open on that side.
package period

import (
	"strconv"
	"time"
)

// Layout is the calendar date format used throughout the service.
const Layout = "2006-01-02"

// Mode is a book's report-period policy.
type Mode string

const (
	Weekly  Mode = "weekly"
	Monthly Mode = "monthly"
	AllTime Mode = "all_time"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	switch m {
	case Weekly, Monthly, AllTime:
		return true
	}
	return false
}

// Range is an inclusive date range. Empty Start or End is unbounded.
type Range struct {
	Start string `json:"start_date"`
	End   string `json:"end_date"`
}

// Unbounded reports whether neither side of the range is set.
func (r Range) Unbounded() bool {
	return r.Start == "" && r.End == ""
}

// RangeFor returns the window that mode selects around ref.
// Unknown modes behave like Monthly.
func RangeFor(mode Mode, ref time.Time) Range {
	switch mode {
	case AllTime:
		return Range{}
	case Weekly:
		start := WeekStart(ref)
		return Range{Start: FormatDate(start), End: FormatDate(start.AddDate(0, 0, 6))}
	default:
		return MonthRange(ref.Year(), ref.Month())
	}
}

// MonthRange returns the first and last day of the given month.
func MonthRange(year int, month time.Month) Range {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return Range{Start: FormatDate(first), End: FormatDate(last)}
}

// YearRange returns January 1st through December 31st of year.
func YearRange(year int) Range {
	return Range{
		Start: FormatDate(time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)),
		End:   FormatDate(time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)),
	}
}

// WeekStart returns the Monday on or before t, at midnight UTC.
func WeekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// WeeksOfMonth returns every Monday-started week that overlaps the month.
// The first week may start in the previous month and the last may end in the next.
func WeeksOfMonth(year int, month time.Month) []Range {
	month1 := MonthRange(year, month)
	first, _ := ParseDate(month1.Start)
	last, _ := ParseDate(month1.End)

	var weeks []Range
	for start := WeekStart(first); !start.After(last); start = start.AddDate(0, 0, 7) {
		weeks = append(weeks, Range{Start: FormatDate(start), End: FormatDate(start.AddDate(0, 0, 6))})
	}
	return weeks
}

// ClampEnd caps the range's end at limit. Unbounded ranges are returned as is.
func ClampEnd(r Range, limit string) Range {
	if r.Unbounded() {
		return r
	}
	if r.End == "" || r.End > limit {
		r.End = limit
	}
	return r
}

// NormalizeYearMonth parses raw year and month query values, replacing
// anything missing or out of range with the corresponding part of today.
func NormalizeYearMonth(rawYear, rawMonth string, today time.Time) (int, time.Month) {
	year := today.Year()
	if y, err := strconv.Atoi(rawYear); err == nil && y >= 1900 && y <= 9999 {
		year = y
	}

	month := today.Month()
	if m, err := strconv.Atoi(rawMonth); err == nil && m >= 1 && m <= 12 {
		month = time.Month(m)
	}
	return year, month
}

// NormalizeYear is NormalizeYearMonth for callers that only need the year.
func NormalizeYear(rawYear string, today time.Time) int {
	year, _ := NormalizeYearMonth(rawYear, "", today)
	return year
}

// ParseDate parses a strict YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, bool) {
	if len(s) != len(Layout) {
		return time.Time{}, false
	}
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ValidDate reports whether s is a strict YYYY-MM-DD calendar date.
func ValidDate(s string) bool {
	_, ok := ParseDate(s)
	return ok
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(Layout)
}

// DayBefore returns the date preceding s, or "" when s is not a valid date.
func DayBefore(s string) string {
	t, ok := ParseDate(s)
	if !ok {
		return ""
	}
	return FormatDate(t.AddDate(0, 0, -1))
}

// Today returns the current calendar date in loc.
func Today(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	now := time.Now().In(loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
