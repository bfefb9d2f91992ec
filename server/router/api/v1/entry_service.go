package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Bylo24/moodtracker/analytics"
	"github.com/Bylo24/moodtracker/plugin/filter"
	"github.com/Bylo24/moodtracker/store"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// CreateEntryRequest is the body of POST /api/v1/entries. Time is optional;
// several check-ins on the same date are allowed.
type CreateEntryRequest struct {
	Date   string `json:"date"`
	Time   string `json:"time"`
	Rating int    `json:"rating"`
	Note   string `json:"note"`
}

// UpdateEntryRequest is the PATCH body. Nil fields keep their stored value;
// an explicit empty time clears the clock time.
type UpdateEntryRequest struct {
	Date   *string `json:"date"`
	Time   *string `json:"time"`
	Rating *int32  `json:"rating"`
	Note   *string `json:"note"`
}

// ListEntriesResponse wraps GET /api/v1/entries results.
type ListEntriesResponse struct {
	Entries []*Entry `json:"entries"`
}

func (s *APIV1Service) CreateEntry(c echo.Context) error {
	user := currentUser(c)

	req := &CreateEntryRequest{}
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body").SetInternal(err)
	}

	date, err := analytics.ParseDate(req.Date)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if _, err := analytics.NewEntry(date, req.Time, req.Rating, req.Note); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	create := &store.Entry{
		CreatorID: user.ID,
		Date:      string(date),
		Rating:    int32(req.Rating),
		Note:      req.Note,
	}
	if req.Time != "" {
		create.Time = &req.Time
	}

	entry, err := s.Store.CreateEntry(c.Request().Context(), create)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create entry").SetInternal(err)
	}
	s.Metrics.RecordEntryCreated()

	return c.JSON(http.StatusCreated, convertEntryFromStore(entry))
}

func (s *APIV1Service) ListEntries(c echo.Context) error {
	user := currentUser(c)

	normal := store.Normal
	find := &store.FindEntry{
		CreatorID: &user.ID,
		RowStatus: &normal,
	}

	if from := c.QueryParam("from"); from != "" {
		date, err := analytics.ParseDate(from)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		v := string(date)
		find.DateStart = &v
	}
	if to := c.QueryParam("to"); to != "" {
		date, err := analytics.ParseDate(to)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		v := string(date)
		find.DateEnd = &v
	}
	if expr := c.QueryParam("filter"); expr != "" {
		if err := filter.Apply(expr, find); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}

	limit := defaultPageSize
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = min(n, maxPageSize)
	}
	find.Limit = &limit

	if raw := c.QueryParam("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "offset must be a non-negative integer")
		}
		find.Offset = &n
	}
	if c.QueryParam("order") == "asc" {
		find.OrderByDateAsc = true
	}

	list, err := s.Store.ListEntries(c.Request().Context(), find)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list entries").SetInternal(err)
	}

	resp := &ListEntriesResponse{Entries: make([]*Entry, 0, len(list))}
	for _, entry := range list {
		resp.Entries = append(resp.Entries, convertEntryFromStore(entry))
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *APIV1Service) GetEntry(c echo.Context) error {
	entry, err := s.findEntryByUID(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, convertEntryFromStore(entry))
}

func (s *APIV1Service) UpdateEntry(c echo.Context) error {
	entry, err := s.findEntryByUID(c)
	if err != nil {
		return err
	}

	req := &UpdateEntryRequest{}
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body").SetInternal(err)
	}

	// Merge the patch over the stored row and validate the result as a
	// whole, so a partial edit can't sneak past the rating or date rules.
	merged := *entry
	if req.Date != nil {
		merged.Date = *req.Date
	}
	if req.Time != nil {
		merged.Time = req.Time
	}
	if req.Rating != nil {
		merged.Rating = *req.Rating
	}
	if req.Note != nil {
		merged.Note = *req.Note
	}
	clockTime := ""
	if merged.Time != nil {
		clockTime = *merged.Time
	}
	if _, err := analytics.NewEntry(analytics.Date(merged.Date), clockTime, int(merged.Rating), merged.Note); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	update := &store.UpdateEntry{
		ID:     entry.ID,
		Date:   req.Date,
		Time:   req.Time,
		Rating: req.Rating,
		Note:   req.Note,
	}
	updated, err := s.Store.UpdateEntry(c.Request().Context(), update)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update entry").SetInternal(err)
	}
	return c.JSON(http.StatusOK, convertEntryFromStore(updated))
}

func (s *APIV1Service) DeleteEntry(c echo.Context) error {
	entry, err := s.findEntryByUID(c)
	if err != nil {
		return err
	}
	if err := s.Store.DeleteEntry(c.Request().Context(), &store.DeleteEntry{ID: entry.ID}); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete entry").SetInternal(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// findEntryByUID resolves :uid to the caller's entry. The returned error is
// already an echo.HTTPError and can be returned from the handler as-is.
func (s *APIV1Service) findEntryByUID(c echo.Context) (*store.Entry, error) {
	user := currentUser(c)
	uid := c.Param("uid")

	entry, err := s.Store.GetEntry(c.Request().Context(), &store.FindEntry{
		UID:       &uid,
		CreatorID: &user.ID,
	})
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "failed to find entry").SetInternal(err)
	}
	if entry == nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "entry not found")
	}
	return entry, nil
}
