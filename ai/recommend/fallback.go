package recommend

// staticByRating holds the hand-written suggestions served when no LLM result
// is available. Three per rating, lowest mood first.
var staticByRating = map[int][]Suggestion{
	1: {
		{
			Title:       "Slow breathing",
			Description: "Sit somewhere quiet and take ten slow breaths, counting four in and six out.",
			Category:    "mindfulness",
			Duration:    "3 minutes",
		},
		{
			Title:       "Message someone you trust",
			Description: "Send a short message to a friend or family member. You don't have to explain everything, just say hi.",
			Category:    "social",
			Duration:    "5 minutes",
		},
		{
			Title:       "Step outside",
			Description: "Stand outside or by an open window for a few minutes and notice three things you can see or hear.",
			Category:    "physical",
			Duration:    "5 minutes",
		},
	},
	2: {
		{
			Title:       "Short walk",
			Description: "Walk around the block at an easy pace. Movement tends to take the edge off a rough day.",
			Category:    "physical",
			Duration:    "10 minutes",
		},
		{
			Title:       "Write it down",
			Description: "Put what's weighing on you into a few unfiltered sentences. No one else will read them.",
			Category:    "creative",
			Duration:    "10 minutes",
		},
		{
			Title:       "Put on a comfort song",
			Description: "Play one song you love and do nothing else while it plays.",
			Category:    "rest",
			Duration:    "5 minutes",
		},
	},
	3: {
		{
			Title:       "Stretch break",
			Description: "Stand up and stretch your neck, shoulders, and back. Loosen up whatever the day has stiffened.",
			Category:    "physical",
			Duration:    "5 minutes",
		},
		{
			Title:       "Tidy one small thing",
			Description: "Clear one surface, your desk, the table, a shelf. A small visible win shifts momentum.",
			Category:    "rest",
			Duration:    "10 minutes",
		},
		{
			Title:       "Check in with yourself",
			Description: "Ask yourself what would make today a little better, then do the smallest version of it.",
			Category:    "mindfulness",
			Duration:    "5 minutes",
		},
	},
	4: {
		{
			Title:       "Note what worked",
			Description: "Jot down what contributed to today going well so you can repeat it on purpose.",
			Category:    "mindfulness",
			Duration:    "5 minutes",
		},
		{
			Title:       "Share the good",
			Description: "Tell someone about one good thing from today. Good moods grow when spoken out loud.",
			Category:    "social",
			Duration:    "5 minutes",
		},
		{
			Title:       "Ride the momentum",
			Description: "Pick one small task you've been putting off and knock it out while the energy is there.",
			Category:    "physical",
			Duration:    "15 minutes",
		},
	},
	5: {
		{
			Title:       "Savor it",
			Description: "Pause and take a mental snapshot of right now, where you are, who's around, how it feels.",
			Category:    "mindfulness",
			Duration:    "3 minutes",
		},
		{
			Title:       "Plan something to look forward to",
			Description: "Put one thing on the calendar for next week that excites you, while you're in the mood to commit.",
			Category:    "creative",
			Duration:    "10 minutes",
		},
		{
			Title:       "Thank someone",
			Description: "Send a quick thank-you to someone who's been part of the good days lately.",
			Category:    "social",
			Duration:    "5 minutes",
		},
	},
}

// StaticSuggestions returns the built-in suggestions for a rating. Out of
// range ratings clamp to the nearest valid one so this never returns nil.
func StaticSuggestions(rating int) []Suggestion {
	if rating < 1 {
		rating = 1
	}
	if rating > 5 {
		rating = 5
	}
	suggestions := make([]Suggestion, len(staticByRating[rating]))
	copy(suggestions, staticByRating[rating])
	return suggestions
}
