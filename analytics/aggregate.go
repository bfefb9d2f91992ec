package analytics

import (
	"time"
)

// Window is an inclusive date range.
type Window struct {
	Start Date
	End   Date
}

// LastNDays returns the n-day window ending at end, inclusive on both sides.
// n below 1 is treated as 1.
func LastNDays(end Date, n int) Window {
	if n < 1 {
		n = 1
	}
	return Window{Start: end.AddDays(-(n - 1)), End: end}
}

// Contains reports whether d falls inside the window.
func (w Window) Contains(d Date) bool {
	return d >= w.Start && d <= w.End
}

// Days returns the window length in days, inclusive.
func (w Window) Days() int {
	start, err := time.Parse(dateLayout, string(w.Start))
	if err != nil {
		return 0
	}
	end, err := time.Parse(dateLayout, string(w.End))
	if err != nil {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// Streak counts consecutive days with at least one entry, walking backwards
// from the most recent entry date. It is anchored at that date rather than
// today: a run that ended a week ago still reports its full length, and the
// caller decides how to present staleness. Duplicate dates collapse, a gap
// of one or more days stops the walk, and no entries means zero.
func Streak(entries []Entry) int {
	if len(entries) == 0 {
		return 0
	}
	days := make(map[Date]struct{}, len(entries))
	var latest Date
	for _, e := range entries {
		days[e.Date] = struct{}{}
		if e.Date > latest {
			latest = e.Date
		}
	}

	streak := 0
	for d := latest; d != ""; d = d.AddDays(-1) {
		if _, ok := days[d]; !ok {
			break
		}
		streak++
	}
	return streak
}

// DayAverage returns the mean rating over entries recorded on date. The
// second return is false when the date has no entries; zero is never used
// to stand in for "no data".
func DayAverage(entries []Entry, date Date) (float64, bool) {
	sum, count := 0, 0
	for _, e := range entries {
		if e.Date == date {
			sum += e.Rating
			count++
		}
	}
	if count == 0 {
		return 0, false
	}
	return float64(sum) / float64(count), true
}

// WeekAverage returns the mean rating over the 7-day window ending at end,
// inclusive. The second return is false when the window holds no entries.
func WeekAverage(entries []Entry, end Date) (float64, bool) {
	return WindowAverage(entries, LastNDays(end, 7))
}

// WindowAverage returns the mean rating over the entries inside w. The
// second return is false when the window holds no entries.
func WindowAverage(entries []Entry, w Window) (float64, bool) {
	sum, count := 0, 0
	for _, e := range entries {
		if w.Contains(e.Date) {
			sum += e.Rating
			count++
		}
	}
	if count == 0 {
		return 0, false
	}
	return float64(sum) / float64(count), true
}

// WeekdayBucket aggregates the entries that fell on one day of the week.
// Mean is nil when the bucket is empty.
type WeekdayBucket struct {
	Weekday time.Weekday
	Count   int
	Sum     int
	Mean    *float64
}

// HasData reports whether any entry landed in the bucket.
func (b WeekdayBucket) HasData() bool {
	return b.Count > 0
}

// WeekdayBuckets groups the entries inside w by day of week. The result is
// always seven buckets indexed Sunday=0 through Saturday=6, matching
// time.Weekday numbering; empty buckets keep a nil mean.
func WeekdayBuckets(entries []Entry, w Window) [7]WeekdayBucket {
	var buckets [7]WeekdayBucket
	for i := range buckets {
		buckets[i].Weekday = time.Weekday(i)
	}
	for _, e := range entries {
		if !w.Contains(e.Date) {
			continue
		}
		idx := int(e.Date.Weekday())
		buckets[idx].Count++
		buckets[idx].Sum += e.Rating
	}
	for i := range buckets {
		if buckets[i].Count > 0 {
			mean := float64(buckets[i].Sum) / float64(buckets[i].Count)
			buckets[i].Mean = &mean
		}
	}
	return buckets
}

// WeekPoint is one step of a weekly trend series.
type WeekPoint struct {
	Window Window
	Count  int
	Mean   *float64
}

// WeeklyTrend returns per-week averages for the `weeks` consecutive 7-day
// windows ending at end, oldest first. Weeks without entries carry a nil
// mean so gaps stay visible in the series.
func WeeklyTrend(entries []Entry, end Date, weeks int) []WeekPoint {
	if weeks < 1 {
		return nil
	}
	points := make([]WeekPoint, 0, weeks)
	for i := weeks - 1; i >= 0; i-- {
		w := LastNDays(end.AddDays(-7*i), 7)
		point := WeekPoint{Window: w}
		sum := 0
		for _, e := range entries {
			if w.Contains(e.Date) {
				sum += e.Rating
				point.Count++
			}
		}
		if point.Count > 0 {
			mean := float64(sum) / float64(point.Count)
			point.Mean = &mean
		}
		points = append(points, point)
	}
	return points
}
