package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bylo24/moodtracker/store"
)

func TestApplyEmptyFilter(t *testing.T) {
	find := &store.FindEntry{}
	require.NoError(t, Apply("", find))
	require.NoError(t, Apply("   ", find))
	assert.Equal(t, &store.FindEntry{}, find)
}

func TestApplyDateBounds(t *testing.T) {
	tests := []struct {
		name      string
		filter    string
		wantStart string
		wantEnd   string
	}{
		{"gte", `date >= "2026-08-01"`, "2026-08-01", ""},
		{"lte", `date <= "2026-08-31"`, "", "2026-08-31"},
		{"gt adds a day", `date > "2026-08-01"`, "2026-08-02", ""},
		{"lt removes a day", `date < "2026-08-31"`, "", "2026-08-30"},
		{"eq pins both bounds", `date == "2026-08-15"`, "2026-08-15", "2026-08-15"},
		{"range", `date >= "2026-08-01" && date <= "2026-08-31"`, "2026-08-01", "2026-08-31"},
		{"constant on the left", `"2026-08-01" <= date`, "2026-08-01", ""},
		{"repeated bounds tighten", `date >= "2026-08-01" && date >= "2026-08-10"`, "2026-08-10", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			find := &store.FindEntry{}
			require.NoError(t, Apply(tt.filter, find))

			if tt.wantStart == "" {
				assert.Nil(t, find.DateStart)
			} else {
				require.NotNil(t, find.DateStart)
				assert.Equal(t, tt.wantStart, *find.DateStart)
			}
			if tt.wantEnd == "" {
				assert.Nil(t, find.DateEnd)
			} else {
				require.NotNil(t, find.DateEnd)
				assert.Equal(t, tt.wantEnd, *find.DateEnd)
			}
		})
	}
}

func TestApplyRatingBounds(t *testing.T) {
	find := &store.FindEntry{}
	require.NoError(t, Apply("rating >= 4", find))
	require.NotNil(t, find.MinRating)
	assert.Equal(t, int32(4), *find.MinRating)
	assert.Nil(t, find.MaxRating)

	find = &store.FindEntry{}
	require.NoError(t, Apply("rating == 5", find))
	require.NotNil(t, find.MinRating)
	require.NotNil(t, find.MaxRating)
	assert.Equal(t, int32(5), *find.MinRating)
	assert.Equal(t, int32(5), *find.MaxRating)

	find = &store.FindEntry{}
	require.NoError(t, Apply("rating > 2 && rating < 5", find))
	assert.Equal(t, int32(3), *find.MinRating)
	assert.Equal(t, int32(4), *find.MaxRating)
}

func TestApplyNoteContains(t *testing.T) {
	find := &store.FindEntry{}
	require.NoError(t, Apply(`note.contains("gym")`, find))
	require.NotNil(t, find.NoteContains)
	assert.Equal(t, "gym", *find.NoteContains)
}

func TestApplyCombined(t *testing.T) {
	find := &store.FindEntry{}
	err := Apply(`date >= "2026-08-01" && rating >= 4 && note.contains("run")`, find)
	require.NoError(t, err)

	assert.Equal(t, "2026-08-01", *find.DateStart)
	assert.Equal(t, int32(4), *find.MinRating)
	assert.Equal(t, "run", *find.NoteContains)
}

func TestApplyRejectsUnsupported(t *testing.T) {
	tests := []struct {
		name   string
		filter string
	}{
		{"or operator", `rating >= 4 || rating <= 2`},
		{"unknown field", `mood == "happy"`},
		{"bare ident", `rating`},
		{"date type mismatch", `date >= 4`},
		{"rating type mismatch", `rating >= "4"`},
		{"bad date constant", `date >= "2026-8-1"`},
		{"contains on date", `date.contains("2026")`},
		{"empty contains", `note.contains("")`},
		{"double contains", `note.contains("a") && note.contains("b")`},
		{"negation", `!(rating == 3)`},
		{"garbage", `rating >>>= 4`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			find := &store.FindEntry{}
			err := Apply(tt.filter, find)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidFilter)
		})
	}
}
