package analytics

import (
	"time"
)

// dateLayout is the canonical wire form for calendar dates. Using the ISO
// form means lexicographic order on Date equals chronological order, which
// the aggregation code relies on throughout.
const dateLayout = "2006-01-02"

// Date is a calendar date in ISO YYYY-MM-DD form. Entries carry dates the
// way the client recorded them; no timezone conversion happens server-side.
type Date string

// ParseDate validates s and returns it as a Date. The form must be exactly
// YYYY-MM-DD with zero padding; anything else is rejected.
func ParseDate(s string) (Date, error) {
	if len(s) != len(dateLayout) {
		return "", errInvalidDate(s)
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return "", errInvalidDate(s)
	}
	// time.Parse tolerates some non-canonical inputs; round-trip to be strict.
	if t.Format(dateLayout) != s {
		return "", errInvalidDate(s)
	}
	return Date(s), nil
}

// Today returns the current date in the given location.
func Today(loc *time.Location) Date {
	if loc == nil {
		loc = time.UTC
	}
	return Date(time.Now().In(loc).Format(dateLayout))
}

// Valid reports whether d is a well-formed calendar date.
func (d Date) Valid() bool {
	_, err := ParseDate(string(d))
	return err == nil
}

// Weekday returns the day of week, Sunday=0 through Saturday=6.
// Invalid dates report Sunday; callers validate first.
func (d Date) Weekday() time.Weekday {
	t, err := time.Parse(dateLayout, string(d))
	if err != nil {
		return time.Sunday
	}
	return t.Weekday()
}

// AddDays returns the date n days after d (n may be negative).
// An invalid receiver yields the empty Date.
func (d Date) AddDays(n int) Date {
	t, err := time.Parse(dateLayout, string(d))
	if err != nil {
		return ""
	}
	return Date(t.AddDate(0, 0, n).Format(dateLayout))
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	return d < other
}

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool {
	return d > other
}

// IsWeekend reports whether d falls on Saturday or Sunday.
func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func (d Date) String() string {
	return string(d)
}
