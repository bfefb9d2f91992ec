package analytics

import (
	"fmt"
	"time"
)

// PatternTag classifies a detected pattern.
type PatternTag string

const (
	PatternPeakDay           PatternTag = "PEAK_DAY"
	PatternDipDay            PatternTag = "DIP_DAY"
	PatternWeekendBoost      PatternTag = "WEEKEND_BOOST"
	PatternWeekdayPreference PatternTag = "WEEKDAY_PREFERENCE"
)

// Pattern is a labeled observation about the user's mood rhythm: which kind
// of pattern it is, the weekday or period it concerns, the magnitude behind
// it, and a ready-to-display sentence carrying that magnitude to one decimal.
type Pattern struct {
	Tag         PatternTag
	Subject     string
	Delta       float64
	Description string
}

// Minimum gap between weekend and weekday means before the difference is
// called a pattern rather than noise.
const weekendGapThreshold = 0.5

// DetectPatterns inspects the weekday buckets and the window's entries and
// reports, in deterministic order: the peak day, the dip day, and a
// weekend/weekday preference when the gap is wide enough.
//
// Peak and dip consider only buckets with data; ties resolve to the earliest
// weekday in Sunday-first order, so the result is stable for equal means. A
// single populated bucket is reported as both peak and dip. When every
// bucket is empty nothing is emitted.
func DetectPatterns(buckets [7]WeekdayBucket, entries []Entry, w Window) []Pattern {
	var patterns []Pattern

	peak, dip := -1, -1
	for i, b := range buckets {
		if !b.HasData() {
			continue
		}
		if peak == -1 || *b.Mean > *buckets[peak].Mean {
			peak = i
		}
		if dip == -1 || *b.Mean < *buckets[dip].Mean {
			dip = i
		}
	}

	if peak >= 0 {
		mean := *buckets[peak].Mean
		day := time.Weekday(peak).String()
		patterns = append(patterns, Pattern{
			Tag:         PatternPeakDay,
			Subject:     day,
			Delta:       mean,
			Description: fmt.Sprintf("%s is your best day of the week, averaging %.1f", day, mean),
		})
	}
	if dip >= 0 {
		mean := *buckets[dip].Mean
		day := time.Weekday(dip).String()
		patterns = append(patterns, Pattern{
			Tag:         PatternDipDay,
			Subject:     day,
			Delta:       mean,
			Description: fmt.Sprintf("%s tends to be your toughest day, averaging %.1f", day, mean),
		})
	}

	if p, ok := weekendPattern(entries, w); ok {
		patterns = append(patterns, p)
	}
	return patterns
}

// weekendPattern compares the weekend (Sat+Sun) and weekday (Mon-Fri) means
// over the window's entries. Both groups must be populated and the absolute
// gap must exceed the threshold strictly; a gap of exactly 0.5 reports
// nothing.
func weekendPattern(entries []Entry, w Window) (Pattern, bool) {
	weekendSum, weekendCount := 0, 0
	weekdaySum, weekdayCount := 0, 0
	for _, e := range entries {
		if !w.Contains(e.Date) {
			continue
		}
		if e.Date.IsWeekend() {
			weekendSum += e.Rating
			weekendCount++
		} else {
			weekdaySum += e.Rating
			weekdayCount++
		}
	}
	if weekendCount == 0 || weekdayCount == 0 {
		return Pattern{}, false
	}

	weekendMean := float64(weekendSum) / float64(weekendCount)
	weekdayMean := float64(weekdaySum) / float64(weekdayCount)
	diff := weekendMean - weekdayMean
	gap := diff
	if gap < 0 {
		gap = -gap
	}
	if gap <= weekendGapThreshold {
		return Pattern{}, false
	}

	if diff > 0 {
		return Pattern{
			Tag:         PatternWeekendBoost,
			Subject:     "Weekends",
			Delta:       gap,
			Description: fmt.Sprintf("Your mood averages %.1f points higher on weekends", gap),
		}, true
	}
	return Pattern{
		Tag:         PatternWeekdayPreference,
		Subject:     "Weekdays",
		Delta:       gap,
		Description: fmt.Sprintf("Your mood averages %.1f points higher on weekdays", gap),
	}, true
}
