package digest

import (
	"fmt"
	"math"
	"strings"

	"github.com/Bylo24/moodtracker/analytics"
)

// digestWindowDays is how far back the pattern and trigger sections look.
const digestWindowDays = 30

// Compose renders the digest text in Telegram Markdown. asOf is the user's
// current date; the digest reports on the day before it. Pure so it can be
// tested without a bot.
func Compose(entries []analytics.Entry, asOf analytics.Date, vocab analytics.Vocabulary) string {
	yesterday := asOf.AddDays(-1)

	var b strings.Builder
	fmt.Fprintf(&b, "*Mood digest for %s*\n\n", yesterday)

	if avg, ok := analytics.DayAverage(entries, yesterday); ok {
		rounded := analytics.RoundRating(avg)
		fmt.Fprintf(&b, "Yesterday: %.1f/5 %s %s\n",
			math.Round(avg*10)/10, analytics.RatingLabel(rounded), analytics.RatingEmoji(rounded))
	} else {
		b.WriteString("No check-ins yesterday.\n")
	}

	switch streak := analytics.Streak(entries); {
	case streak > 1:
		fmt.Fprintf(&b, "Streak: %d days\n", streak)
	case streak == 1:
		b.WriteString("Streak: 1 day\n")
	}

	window := analytics.LastNDays(yesterday, digestWindowDays)
	buckets := analytics.WeekdayBuckets(entries, window)
	if patterns := analytics.DetectPatterns(buckets, entries, window); len(patterns) > 0 {
		fmt.Fprintf(&b, "\n%s.\n", patterns[0].Description)
	}

	windowEntries := make([]analytics.Entry, 0, len(entries))
	for _, e := range entries {
		if window.Contains(e.Date) {
			windowEntries = append(windowEntries, e)
		}
	}
	if triggers := analytics.ExtractTriggers(windowEntries, vocab); len(triggers) > 0 {
		top := triggers[0]
		fmt.Fprintf(&b, "Most mentioned: %s (%d times)\n", top.Word, top.Count)
	}

	return strings.TrimRight(b.String(), "\n")
}
