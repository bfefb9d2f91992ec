package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Bylo24/moodtracker/analytics"
	"github.com/Bylo24/moodtracker/store"
)

const recentEntryLimit = 5

// TodayCard summarizes the requested day. Average carries one decimal;
// Rounded, Label and Emoji come from rounding half away from zero to the
// nearest rating step.
type TodayCard struct {
	Average float64 `json:"average"`
	Rounded int     `json:"rounded"`
	Label   string  `json:"label"`
	Emoji   string  `json:"emoji"`
	Count   int     `json:"count"`
}

// DashboardResponse is the home screen payload. Aggregates without data are
// JSON nulls, never zeroes: a day with no check-ins has no average.
type DashboardResponse struct {
	Date          string     `json:"date"`
	Today         *TodayCard `json:"today"`
	Streak        int        `json:"streak"`
	WeekAverage   *float64   `json:"weekAverage"`
	RecentEntries []*Entry   `json:"recentEntries"`
}

func (s *APIV1Service) GetDashboard(c echo.Context) error {
	ctx := c.Request().Context()
	user := currentUser(c)

	setting, err := s.Store.GetUserSetting(ctx, &store.FindUserSetting{UserID: &user.ID})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load settings").SetInternal(err)
	}

	date := analytics.Today(locationFor(setting))
	if raw := c.QueryParam("date"); raw != "" {
		parsed, err := analytics.ParseDate(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		date = parsed
	}

	normal := store.Normal
	rows, err := s.Store.ListEntries(ctx, &store.FindEntry{
		CreatorID: &user.ID,
		RowStatus: &normal,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load entries").SetInternal(err)
	}
	entries := toAnalyticsEntries(rows)

	resp := &DashboardResponse{
		Date:   string(date),
		Streak: analytics.Streak(entries),
	}

	if avg, ok := analytics.DayAverage(entries, date); ok {
		rounded := analytics.RoundRating(avg)
		count := 0
		for _, e := range entries {
			if e.Date == date {
				count++
			}
		}
		resp.Today = &TodayCard{
			Average: round1(avg),
			Rounded: rounded,
			Label:   analytics.RatingLabel(rounded),
			Emoji:   analytics.RatingEmoji(rounded),
			Count:   count,
		}
	}
	if avg, ok := analytics.WeekAverage(entries, date); ok {
		v := round1(avg)
		resp.WeekAverage = &v
	}

	// Rows come back newest first, so the recent list is a prefix.
	recent := rows
	if len(recent) > recentEntryLimit {
		recent = recent[:recentEntryLimit]
	}
	resp.RecentEntries = make([]*Entry, 0, len(recent))
	for _, row := range recent {
		resp.RecentEntries = append(resp.RecentEntries, convertEntryFromStore(row))
	}

	return c.JSON(http.StatusOK, resp)
}
