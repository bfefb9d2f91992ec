package v1

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Bylo24/moodtracker/analytics"
	"github.com/Bylo24/moodtracker/store"
)

const (
	defaultAnalyticsDays = 30
	minAnalyticsDays     = 7
	maxAnalyticsDays     = 365
)

// WeekdayBucketView is one weekday's aggregate, Sunday first. Average is
// null for weekdays without check-ins.
type WeekdayBucketView struct {
	Weekday string   `json:"weekday"`
	Count   int      `json:"count"`
	Average *float64 `json:"average"`
}

// PatternView is a detected mood rhythm with its display sentence.
type PatternView struct {
	Tag         string  `json:"tag"`
	Subject     string  `json:"subject"`
	Delta       float64 `json:"delta"`
	Description string  `json:"description"`
}

// TriggerView is one extracted note keyword with its rating stats.
type TriggerView struct {
	Word          string  `json:"word"`
	Polarity      string  `json:"polarity"`
	Count         int     `json:"count"`
	RatingSum     int     `json:"ratingSum"`
	AverageRating float64 `json:"averageRating"`
}

// WeekPointView is one week of the trend, oldest first. Average is null for
// weeks without check-ins.
type WeekPointView struct {
	Start   string   `json:"start"`
	End     string   `json:"end"`
	Count   int      `json:"count"`
	Average *float64 `json:"average"`
}

// AnalyticsResponse is the advanced analytics payload over the requested
// window.
type AnalyticsResponse struct {
	Start          string              `json:"start"`
	End            string              `json:"end"`
	Days           int                 `json:"days"`
	Average        *float64            `json:"average"`
	WeekdayBuckets []WeekdayBucketView `json:"weekdayBuckets"`
	Patterns       []PatternView       `json:"patterns"`
	Triggers       []TriggerView       `json:"triggers"`
	WeeklyTrend    []WeekPointView     `json:"weeklyTrend"`
}

func (s *APIV1Service) GetAnalytics(c echo.Context) error {
	ctx := c.Request().Context()
	user := currentUser(c)

	setting, err := s.Store.GetUserSetting(ctx, &store.FindUserSetting{UserID: &user.ID})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load settings").SetInternal(err)
	}
	if !user.Premium && (setting == nil || !setting.Premium) {
		return echo.NewHTTPError(http.StatusForbidden, "advanced analytics requires a premium subscription")
	}

	days, err := clampDays(c.QueryParam("days"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	end := analytics.Today(locationFor(setting))
	window := analytics.LastNDays(end, days)

	normal := store.Normal
	rows, err := s.Store.ListEntries(ctx, &store.FindEntry{
		CreatorID: &user.ID,
		RowStatus: &normal,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load entries").SetInternal(err)
	}
	entries := toAnalyticsEntries(rows)

	// Trigger matching sees what the user wrote, not the markdown syntax
	// around it.
	windowEntries := make([]analytics.Entry, 0, len(entries))
	for _, e := range entries {
		if window.Contains(e.Date) {
			e.Note = s.Markdown.PlainText(e.Note)
			windowEntries = append(windowEntries, e)
		}
	}

	buckets := analytics.WeekdayBuckets(entries, window)
	patterns := analytics.DetectPatterns(buckets, entries, window)
	triggers := analytics.ExtractTriggers(windowEntries, s.vocabularyFor(setting))
	trend := analytics.WeeklyTrend(entries, end, (days+6)/7)

	resp := &AnalyticsResponse{
		Start:          string(window.Start),
		End:            string(window.End),
		Days:           days,
		WeekdayBuckets: make([]WeekdayBucketView, 0, len(buckets)),
		Patterns:       make([]PatternView, 0, len(patterns)),
		Triggers:       make([]TriggerView, 0, len(triggers)),
		WeeklyTrend:    make([]WeekPointView, 0, len(trend)),
	}
	if avg, ok := analytics.WindowAverage(entries, window); ok {
		v := round1(avg)
		resp.Average = &v
	}
	for _, b := range buckets {
		resp.WeekdayBuckets = append(resp.WeekdayBuckets, WeekdayBucketView{
			Weekday: b.Weekday.String(),
			Count:   b.Count,
			Average: round1p(b.Mean),
		})
	}
	for _, p := range patterns {
		resp.Patterns = append(resp.Patterns, PatternView{
			Tag:         string(p.Tag),
			Subject:     p.Subject,
			Delta:       round1(p.Delta),
			Description: p.Description,
		})
	}
	for _, t := range triggers {
		resp.Triggers = append(resp.Triggers, TriggerView{
			Word:          t.Word,
			Polarity:      string(t.Polarity),
			Count:         t.Count,
			RatingSum:     t.RatingSum,
			AverageRating: round1(t.MeanRating()),
		})
	}
	for _, p := range trend {
		resp.WeeklyTrend = append(resp.WeeklyTrend, WeekPointView{
			Start:   string(p.Window.Start),
			End:     string(p.Window.End),
			Count:   p.Count,
			Average: round1p(p.Mean),
		})
	}

	return c.JSON(http.StatusOK, resp)
}

// clampDays parses the days query parameter: empty means the default,
// non-numeric input is an error, and the value is clamped into the supported
// range.
func clampDays(raw string) (int, error) {
	if raw == "" {
		return defaultAnalyticsDays, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("days must be an integer, got %q", raw)
	}
	if n < minAnalyticsDays {
		n = minAnalyticsDays
	}
	if n > maxAnalyticsDays {
		n = maxAnalyticsDays
	}
	return n, nil
}

// customVocabulary is the JSON shape of a user's extra trigger keywords,
// both in user settings storage and on the wire.
type customVocabulary struct {
	Positive []string `json:"positive"`
	Negative []string `json:"negative"`
}

// vocabularyFor returns the trigger vocabulary for the user: the built-in
// lists with the custom words from settings merged in. A custom vocabulary
// that no longer validates falls back to the built-in one with a warning
// instead of failing the request.
func (s *APIV1Service) vocabularyFor(setting *store.UserSetting) analytics.Vocabulary {
	vocab := analytics.DefaultVocabulary()
	if setting == nil || setting.Vocabulary == "" {
		return vocab
	}

	var custom customVocabulary
	if err := json.Unmarshal([]byte(setting.Vocabulary), &custom); err != nil {
		slog.Warn("ignoring malformed custom vocabulary", "userID", setting.UserID, "error", err)
		return vocab
	}
	merged, err := vocab.Merge(custom.Positive, custom.Negative)
	if err != nil {
		slog.Warn("ignoring conflicting custom vocabulary", "userID", setting.UserID, "error", err)
		return vocab
	}
	return merged
}
