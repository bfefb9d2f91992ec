package analytics

import (
	"fmt"
	"strings"
)

// Polarity is a fixed property of a vocabulary word. It never changes based
// on the ratings of the entries that mention the word.
type Polarity string

const (
	PolarityPositive Polarity = "positive"
	PolarityNegative Polarity = "negative"
)

// Vocabulary holds the keyword lists the trigger extractor scans for.
// List order matters: it is the deterministic tie-break when triggers share
// a count, positives first in declared order, then negatives.
type Vocabulary struct {
	Positive []string
	Negative []string
}

// DefaultVocabulary returns the built-in keyword lists.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Positive: []string{
			"exercise", "sleep", "friends", "family", "nature",
			"music", "meditation", "reading", "walk", "sunshine",
		},
		Negative: []string{
			"stress", "work", "tired", "anxiety", "argument",
			"deadline", "sick", "traffic", "lonely", "overwhelmed",
		},
	}
}

// Validate rejects vocabularies with empty words, duplicates, or words
// appearing in both polarity lists.
func (v Vocabulary) Validate() error {
	seen := make(map[string]Polarity, len(v.Positive)+len(v.Negative))
	check := func(words []string, polarity Polarity) error {
		for _, w := range words {
			lw := strings.ToLower(strings.TrimSpace(w))
			if lw == "" {
				return fmt.Errorf("vocabulary contains an empty %s word", polarity)
			}
			if prev, ok := seen[lw]; ok {
				if prev != polarity {
					return fmt.Errorf("word %q appears with both polarities", lw)
				}
				return fmt.Errorf("word %q appears twice", lw)
			}
			seen[lw] = polarity
		}
		return nil
	}
	if err := check(v.Positive, PolarityPositive); err != nil {
		return err
	}
	return check(v.Negative, PolarityNegative)
}

// Merge returns a copy of the vocabulary with extra words folded into each
// list, lowercased and trimmed, dropping duplicates. The merged result must
// still validate; a word whose polarity conflicts with an existing
// assignment rejects the whole merge.
func (v Vocabulary) Merge(positive, negative []string) (Vocabulary, error) {
	merged := Vocabulary{
		Positive: mergeWords(v.Positive, positive),
		Negative: mergeWords(v.Negative, negative),
	}
	if err := merged.Validate(); err != nil {
		return Vocabulary{}, err
	}
	return merged, nil
}

// mergeWords concatenates keyword lists in order, lowercased and trimmed,
// dropping blanks and duplicates.
func mergeWords(lists ...[]string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, list := range lists {
		for _, word := range list {
			word = strings.ToLower(strings.TrimSpace(word))
			if word == "" || seen[word] {
				continue
			}
			seen[word] = true
			out = append(out, word)
		}
	}
	return out
}

// vocabWord is one scannable keyword with its fixed polarity and tie-break
// position.
type vocabWord struct {
	word     string // lowercase match form
	polarity Polarity
	order    int
}

// words flattens the vocabulary into scan order: positives then negatives,
// lowercased. Blank words are skipped rather than matched against everything.
func (v Vocabulary) words() []vocabWord {
	out := make([]vocabWord, 0, len(v.Positive)+len(v.Negative))
	add := func(list []string, polarity Polarity) {
		for _, w := range list {
			lw := strings.ToLower(strings.TrimSpace(w))
			if lw == "" {
				continue
			}
			out = append(out, vocabWord{word: lw, polarity: polarity, order: len(out)})
		}
	}
	add(v.Positive, PolarityPositive)
	add(v.Negative, PolarityNegative)
	return out
}

// capitalize uppercases the first byte of an ASCII word for display.
func capitalize(w string) string {
	if w == "" {
		return w
	}
	return strings.ToUpper(w[:1]) + w[1:]
}
