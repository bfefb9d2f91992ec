package v1

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/feeds"
	"github.com/labstack/echo/v4"

	"github.com/Bylo24/moodtracker/analytics"
	"github.com/Bylo24/moodtracker/store"
)

const feedEntryLimit = 20

// ExportFeed renders the caller's latest check-ins as an Atom feed, for
// pulling the journal into a reader or another tool.
func (s *APIV1Service) ExportFeed(c echo.Context) error {
	ctx := c.Request().Context()
	user := currentUser(c)

	normal := store.Normal
	limit := feedEntryLimit
	rows, err := s.Store.ListEntries(ctx, &store.FindEntry{
		CreatorID: &user.ID,
		RowStatus: &normal,
		Limit:     &limit,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load entries").SetInternal(err)
	}

	instanceURL := s.Profile.InstanceURL
	feed := &feeds.Feed{
		Title:   "Mood journal",
		Link:    &feeds.Link{Href: instanceURL},
		Updated: time.Now(),
	}
	feed.Items = make([]*feeds.Item, 0, len(rows))
	for _, row := range rows {
		label := analytics.RatingLabel(int(row.Rating))
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          row.UID,
			Title:       fmt.Sprintf("%s: %s (%d/5)", row.Date, label, row.Rating),
			Link:        &feeds.Link{Href: fmt.Sprintf("%s/entries/%s", instanceURL, row.UID)},
			Description: row.Note,
			Created:     time.Unix(row.CreatedTs, 0),
			Updated:     time.Unix(row.UpdatedTs, 0),
		})
	}

	atom, err := feed.ToAtom()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to render feed").SetInternal(err)
	}
	return c.Blob(http.StatusOK, "application/atom+xml; charset=utf-8", []byte(atom))
}
