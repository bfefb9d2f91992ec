package v1

import (
	"math"

	"github.com/Bylo24/moodtracker/analytics"
	"github.com/Bylo24/moodtracker/store"
)

// Entry is the wire shape of a check-in. Time is null when the check-in
// carries no clock time.
type Entry struct {
	UID       string  `json:"uid"`
	Date      string  `json:"date"`
	Time      *string `json:"time"`
	Rating    int32   `json:"rating"`
	Note      string  `json:"note"`
	CreatedTs int64   `json:"createdTs"`
	UpdatedTs int64   `json:"updatedTs"`
}

func convertEntryFromStore(entry *store.Entry) *Entry {
	e := &Entry{
		UID:       entry.UID,
		Date:      entry.Date,
		Rating:    entry.Rating,
		Note:      entry.Note,
		CreatedTs: entry.CreatedTs,
		UpdatedTs: entry.UpdatedTs,
	}
	if entry.Time != nil && *entry.Time != "" {
		e.Time = entry.Time
	}
	return e
}

// toAnalyticsEntries converts stored rows into the analytics value type.
// Rows the core rejects are skipped; they can only come from direct database
// edits and must not poison the aggregations.
func toAnalyticsEntries(entries []*store.Entry) []analytics.Entry {
	out := make([]analytics.Entry, 0, len(entries))
	for _, e := range entries {
		clockTime := ""
		if e.Time != nil {
			clockTime = *e.Time
		}
		entry, err := analytics.NewEntry(analytics.Date(e.Date), clockTime, int(e.Rating), e.Note)
		if err != nil {
			continue
		}
		out = append(out, entry)
	}
	return out
}

// round1 rounds half away from zero to one decimal. Averages stay raw inside
// the analytics core; rounding happens only at this presentation edge.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// round1p rounds a nullable average, keeping absent absent.
func round1p(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := round1(*v)
	return &r
}
