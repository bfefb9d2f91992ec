// Package analytics computes mood statistics from journal check-ins: streaks,
// day and week averages, weekday breakdowns, behavioral patterns and keyword
// triggers. Every function is pure (entries in, values out), so callers own
// all storage, clocks and presentation concerns. "No data" is always distinct
// from zero: scalar averages return an ok flag and bucket means are nil when
// nothing was recorded.
package analytics

import (
	"errors"
	"fmt"
)

// Rating bounds. Check-ins outside this range are rejected outright rather
// than clamped; a bad rating is a client bug that must surface.
const (
	MinRating = 1
	MaxRating = 5
)

var (
	// ErrRatingOutOfRange reports a rating outside [MinRating, MaxRating].
	ErrRatingOutOfRange = errors.New("rating out of range")
	// ErrInvalidDate reports a malformed calendar date.
	ErrInvalidDate = errors.New("invalid date")
	// ErrInvalidClockTime reports a malformed HH:MM clock time.
	ErrInvalidClockTime = errors.New("invalid clock time")
)

func errInvalidDate(s string) error {
	return fmt.Errorf("%w: %q (want YYYY-MM-DD)", ErrInvalidDate, s)
}

// Entry is a single mood check-in. Multiple entries may share a date; the
// aggregation functions handle that without collapsing them.
type Entry struct {
	Date   Date
	Time   string // optional HH:MM, 24h clock
	Rating int
	Note   string
}

// NewEntry builds a validated Entry. It fails fast on a bad rating, date or
// clock time instead of producing an entry the aggregations would mistrust.
func NewEntry(date Date, clockTime string, rating int, note string) (Entry, error) {
	e := Entry{Date: date, Time: clockTime, Rating: rating, Note: note}
	if err := e.Validate(); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Validate checks the entry's invariants: rating in [1,5], well-formed date,
// and, when present, a well-formed HH:MM time.
func (e Entry) Validate() error {
	if e.Rating < MinRating || e.Rating > MaxRating {
		return fmt.Errorf("%w: %d (want %d..%d)", ErrRatingOutOfRange, e.Rating, MinRating, MaxRating)
	}
	if !e.Date.Valid() {
		return errInvalidDate(string(e.Date))
	}
	if e.Time != "" {
		if !validClockTime(e.Time) {
			return fmt.Errorf("%w: %q (want HH:MM)", ErrInvalidClockTime, e.Time)
		}
	}
	return nil
}

func validClockTime(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	hour := int(s[0]-'0')*10 + int(s[1]-'0')
	minute := int(s[3]-'0')*10 + int(s[4]-'0')
	return hour <= 23 && minute <= 59
}
