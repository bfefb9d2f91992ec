package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// en builds an entry with a note for trigger tests.
func en(date Date, rating int, note string) Entry {
	return Entry{Date: date, Rating: rating, Note: note}
}

func TestExtractTriggersMatching(t *testing.T) {
	entries := []Entry{
		en("2024-01-01", 2, "So much STRESS at the office"),
		en("2024-01-02", 1, "stressful deadline again"), // substring match on "stress"
		en("2024-01-03", 4, "nice walk, no worries"),
		en("2024-01-04", 3, ""), // empty notes never match
	}
	triggers := ExtractTriggers(entries, DefaultVocabulary())

	require.Len(t, triggers, 1)
	tr := triggers[0]
	assert.Equal(t, "Stress", tr.Word, "display form is capitalized")
	assert.Equal(t, PolarityNegative, tr.Polarity)
	assert.Equal(t, 2, tr.Count)
	assert.Equal(t, 3, tr.RatingSum)
	assert.InDelta(t, 1.5, tr.MeanRating(), 1e-9)
}

func TestExtractTriggersOncePerEntry(t *testing.T) {
	entries := []Entry{
		en("2024-01-01", 2, "stress stress stress everywhere"),
		en("2024-01-02", 3, "more stress"),
	}
	triggers := ExtractTriggers(entries, DefaultVocabulary())

	require.Len(t, triggers, 1)
	assert.Equal(t, 2, triggers[0].Count, "repeats within one note count once")
	assert.Equal(t, 5, triggers[0].RatingSum)
}

func TestExtractTriggersNoiseFloor(t *testing.T) {
	entries := []Entry{
		en("2024-01-01", 4, "long walk in the park"),
		en("2024-01-02", 2, "argument with my brother"),
		en("2024-01-03", 4, "another walk after dinner"),
	}
	triggers := ExtractTriggers(entries, DefaultVocabulary())

	// "walk" appears in two entries, "argument" only in one.
	require.Len(t, triggers, 1)
	assert.Equal(t, "Walk", triggers[0].Word)
	assert.Equal(t, PolarityPositive, triggers[0].Polarity)
}

func TestExtractTriggersSortAndTieBreak(t *testing.T) {
	vocab := Vocabulary{
		Positive: []string{"yoga", "tea"},
		Negative: []string{"noise"},
	}
	entries := []Entry{
		en("2024-01-01", 3, "noise outside, tea helped"),
		en("2024-01-02", 3, "noise again, more tea"),
		en("2024-01-03", 3, "noise all day"),
		en("2024-01-04", 4, "morning yoga"),
		en("2024-01-05", 4, "evening yoga"),
	}
	triggers := ExtractTriggers(entries, vocab)

	require.Len(t, triggers, 3)
	// noise: 3 mentions. yoga and tea tie at 2; vocabulary order puts the
	// positive list first, and yoga is declared before tea.
	assert.Equal(t, "Noise", triggers[0].Word)
	assert.Equal(t, "Yoga", triggers[1].Word)
	assert.Equal(t, "Tea", triggers[2].Word)
}

func TestExtractTriggersCap(t *testing.T) {
	vocab := Vocabulary{
		Positive: []string{"alpha", "beta", "gamma", "delta"},
		Negative: []string{"epsilon", "zeta", "eta"},
	}
	note := "alpha beta gamma delta epsilon zeta eta"
	entries := []Entry{
		en("2024-01-01", 3, note),
		en("2024-01-02", 3, note),
	}
	triggers := ExtractTriggers(entries, vocab)

	require.Len(t, triggers, 5, "list caps at five")
	// All tie at 2; vocabulary order decides who survives the cap.
	words := make([]string, 0, len(triggers))
	for _, tr := range triggers {
		words = append(words, tr.Word)
	}
	assert.Equal(t, []string{"Alpha", "Beta", "Gamma", "Delta", "Epsilon"}, words)
}

func TestTriggerPolarityIsFixed(t *testing.T) {
	// Low ratings around a positive word must not flip its polarity.
	entries := []Entry{
		en("2024-01-01", 1, "exercise felt terrible"),
		en("2024-01-02", 1, "exercise again, exhausted"),
	}
	triggers := ExtractTriggers(entries, DefaultVocabulary())

	require.Len(t, triggers, 1)
	assert.Equal(t, "Exercise", triggers[0].Word)
	assert.Equal(t, PolarityPositive, triggers[0].Polarity)
	assert.Equal(t, 2, triggers[0].RatingSum)
}

func TestExtractTriggersEmptyVocabulary(t *testing.T) {
	entries := []Entry{en("2024-01-01", 3, "stress")}
	assert.Nil(t, ExtractTriggers(entries, Vocabulary{}))
}

func TestVocabularyValidate(t *testing.T) {
	tests := []struct {
		name    string
		vocab   Vocabulary
		wantErr bool
	}{
		{"default is valid", DefaultVocabulary(), false},
		{"empty lists are valid", Vocabulary{}, false},
		{
			"duplicate within a list",
			Vocabulary{Positive: []string{"tea", "Tea"}},
			true,
		},
		{
			"word in both lists",
			Vocabulary{Positive: []string{"rain"}, Negative: []string{"rain"}},
			true,
		},
		{
			"blank word",
			Vocabulary{Negative: []string{"  "}},
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.vocab.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestVocabularyMerge(t *testing.T) {
	merged, err := DefaultVocabulary().Merge([]string{"Yoga", "  yoga ", "gym"}, []string{"rain"})
	require.NoError(t, err)

	// Custom words land after the built-ins, normalized and deduplicated,
	// so built-in tie-break order is preserved.
	assert.Equal(t, "yoga", merged.Positive[len(merged.Positive)-2])
	assert.Equal(t, "gym", merged.Positive[len(merged.Positive)-1])
	assert.Equal(t, "rain", merged.Negative[len(merged.Negative)-1])

	// A word that duplicates a built-in of the same polarity is absorbed.
	merged, err = DefaultVocabulary().Merge([]string{"exercise"}, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultVocabulary(), merged)

	// Flipping a built-in polarity rejects the whole merge.
	_, err = DefaultVocabulary().Merge([]string{"work"}, nil)
	assert.Error(t, err)
}
