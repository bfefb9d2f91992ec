package analytics

import "math"

// Display scale for the five ratings. Averages stay fractional internally;
// only the presentation layer rounds them onto this scale.
var ratingLabels = [...]string{"", "Awful", "Bad", "Okay", "Good", "Great"}

var ratingEmojis = [...]string{"", "😢", "😟", "😐", "🙂", "😄"}

// RatingLabel returns the display word for a rating, or "" when the rating
// is outside the scale.
func RatingLabel(rating int) string {
	if rating < MinRating || rating > MaxRating {
		return ""
	}
	return ratingLabels[rating]
}

// RatingEmoji returns the emoji for a rating, or "" when the rating is
// outside the scale.
func RatingEmoji(rating int) string {
	if rating < MinRating || rating > MaxRating {
		return ""
	}
	return ratingEmojis[rating]
}

// RoundRating maps a fractional average onto the integer scale, rounding
// halves away from zero (3.5 becomes 4). This is the only rounding the
// package performs; aggregation results are returned unrounded.
func RoundRating(avg float64) int {
	return int(math.Round(avg))
}
