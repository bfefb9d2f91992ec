package v1

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bylo24/moodtracker/analytics"
	"github.com/Bylo24/moodtracker/store"
)

func TestAnalyticsRequiresPremium(t *testing.T) {
	svc, e := newTestService(t, false)

	rec := doRequest(t, e, http.MethodGet, "/api/v1/analytics", nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	// A billing-synced premium row lifts the gate.
	_, err := svc.Store.UpsertUserSetting(context.Background(), &store.UpsertUserSetting{
		UserID:     1,
		Premium:    true,
		DigestHour: defaultDigestHour,
		Timezone:   "UTC",
	})
	require.NoError(t, err)

	rec = doRequest(t, e, http.MethodGet, "/api/v1/analytics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAnalyticsPayload(t *testing.T) {
	svc, e := newTestService(t, true)

	// Fourteen straight days ending today hit every weekday exactly twice.
	// Mondays are great walks, Tuesdays are deadline crunches.
	end := analytics.Today(time.UTC)
	for i := 0; i < 14; i++ {
		d := end.AddDays(-i)
		rating, note := int32(3), ""
		switch d.Weekday() {
		case time.Monday:
			rating, note = 5, "Long walk outside"
		case time.Tuesday:
			rating, note = 1, "Deadline stress at work"
		}
		seedEntry(t, svc, 1, string(d), "", rating, note)
	}

	rec := doRequest(t, e, http.MethodGet, "/api/v1/analytics?days=14", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp AnalyticsResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, 14, resp.Days)
	assert.Equal(t, string(end), resp.End)

	require.NotNil(t, resp.Average)
	assert.InDelta(t, 3.0, *resp.Average, 0.001)

	require.Len(t, resp.WeekdayBuckets, 7)
	assert.Equal(t, "Sunday", resp.WeekdayBuckets[0].Weekday, "buckets start the week on Sunday")
	for _, b := range resp.WeekdayBuckets {
		assert.Equalf(t, 2, b.Count, "weekday %s", b.Weekday)
		require.NotNil(t, b.Average)
	}

	subjects := map[string]string{}
	for _, p := range resp.Patterns {
		subjects[p.Tag] = p.Subject
		assert.NotEmpty(t, p.Description)
	}
	assert.Equal(t, "Monday", subjects["PEAK_DAY"])
	assert.Equal(t, "Tuesday", subjects["DIP_DAY"])

	triggers := map[string]TriggerView{}
	for _, tr := range resp.Triggers {
		triggers[tr.Word] = tr
	}
	walk, ok := triggers["Walk"]
	require.Truef(t, ok, "triggers: %+v", resp.Triggers)
	assert.Equal(t, "positive", walk.Polarity)
	assert.Equal(t, 2, walk.Count)
	assert.Equal(t, 10, walk.RatingSum)
	assert.Equal(t, 5.0, walk.AverageRating)

	stress, ok := triggers["Stress"]
	require.True(t, ok)
	assert.Equal(t, "negative", stress.Polarity)
	assert.Equal(t, 1.0, stress.AverageRating)

	require.Len(t, resp.WeeklyTrend, 2)
	assert.Less(t, resp.WeeklyTrend[0].Start, resp.WeeklyTrend[1].Start, "trend is oldest first")
	for _, p := range resp.WeeklyTrend {
		assert.Equal(t, 7, p.Count)
		require.NotNil(t, p.Average)
	}
}

func TestAnalyticsRejectsBadDays(t *testing.T) {
	_, e := newTestService(t, true)

	rec := doRequest(t, e, http.MethodGet, "/api/v1/analytics?days=soon", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClampDays(t *testing.T) {
	cases := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{raw: "", want: 30},
		{raw: "30", want: 30},
		{raw: "7", want: 7},
		{raw: "3", want: 7},
		{raw: "-5", want: 7},
		{raw: "365", want: 365},
		{raw: "9999", want: 365},
		{raw: "soon", wantErr: true},
		{raw: "7.5", wantErr: true},
	}
	for _, tc := range cases {
		got, err := clampDays(tc.raw)
		if tc.wantErr {
			assert.Errorf(t, err, "raw %q", tc.raw)
			continue
		}
		require.NoErrorf(t, err, "raw %q", tc.raw)
		assert.Equalf(t, tc.want, got, "raw %q", tc.raw)
	}
}

func TestNormalizeWords(t *testing.T) {
	got := normalizeWords([]string{"Walk", "  gym ", "", "walk", "Yoga"})
	assert.Equal(t, []string{"walk", "gym", "yoga"}, got)
}

func TestVocabularyFor(t *testing.T) {
	svc, _ := newTestService(t, false)

	vocab := svc.vocabularyFor(nil)
	assert.Equal(t, analytics.DefaultVocabulary(), vocab)

	// Custom words merge in after the built-ins, so built-in tie-break
	// order is preserved.
	vocab = svc.vocabularyFor(&store.UserSetting{UserID: 1, Vocabulary: `{"positive":["yoga"]}`})
	assert.Contains(t, vocab.Positive, "yoga")
	assert.Contains(t, vocab.Positive, "walk")
	assert.Equal(t, "yoga", vocab.Positive[len(vocab.Positive)-1])

	// A vocabulary that flips a built-in polarity falls back wholesale.
	vocab = svc.vocabularyFor(&store.UserSetting{UserID: 1, Vocabulary: `{"positive":["work"]}`})
	assert.Equal(t, analytics.DefaultVocabulary(), vocab)

	// So does one that no longer parses.
	vocab = svc.vocabularyFor(&store.UserSetting{UserID: 1, Vocabulary: `{not json`})
	assert.Equal(t, analytics.DefaultVocabulary(), vocab)
}
