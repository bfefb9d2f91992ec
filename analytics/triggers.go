package analytics

import (
	"sort"
	"strings"
)

const (
	// minTriggerCount is the noise floor: a word mentioned by fewer
	// entries than this never surfaces as a trigger.
	minTriggerCount = 2
	// maxTriggers caps the list handed to the presentation layer.
	maxTriggers = 5
)

// Trigger is a vocabulary word that keeps showing up in the user's notes,
// with how often and the accumulated rating of the entries mentioning it.
// Word is in capitalized display form; Polarity comes from the vocabulary,
// never from the ratings.
type Trigger struct {
	Word      string
	Polarity  Polarity
	Count     int
	RatingSum int
}

// MeanRating returns the average rating across the entries that mention the
// trigger. Zero count yields zero.
func (t Trigger) MeanRating() float64 {
	if t.Count == 0 {
		return 0
	}
	return float64(t.RatingSum) / float64(t.Count)
}

// ExtractTriggers scans entry notes for vocabulary words and returns the
// recurring ones. Matching is case-insensitive substring; a word counts at
// most once per entry no matter how often the note repeats it. Words below
// the noise floor are dropped, the rest sort by count descending with
// vocabulary order breaking ties, and the list caps at five.
func ExtractTriggers(entries []Entry, vocab Vocabulary) []Trigger {
	words := vocab.words()
	if len(words) == 0 {
		return nil
	}

	type tally struct {
		count     int
		ratingSum int
	}
	tallies := make([]tally, len(words))

	for _, e := range entries {
		if e.Note == "" {
			continue
		}
		note := strings.ToLower(e.Note)
		for i, w := range words {
			if strings.Contains(note, w.word) {
				tallies[i].count++
				tallies[i].ratingSum += e.Rating
			}
		}
	}

	triggers := make([]Trigger, 0, len(words))
	for i, w := range words {
		if tallies[i].count < minTriggerCount {
			continue
		}
		triggers = append(triggers, Trigger{
			Word:      capitalize(w.word),
			Polarity:  w.polarity,
			Count:     tallies[i].count,
			RatingSum: tallies[i].ratingSum,
		})
	}

	// Built in vocabulary order, so a stable sort on count alone keeps the
	// declared order as the tie-break.
	sort.SliceStable(triggers, func(i, j int) bool {
		return triggers[i].Count > triggers[j].Count
	})

	if len(triggers) > maxTriggers {
		triggers = triggers[:maxTriggers]
	}
	return triggers
}
