package v1

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboard(t *testing.T) {
	svc, e := newTestService(t, false)
	seedEntry(t, svc, 1, "2024-01-06", "09:00", 4, "")
	seedEntry(t, svc, 1, "2024-01-06", "21:00", 5, "")
	seedEntry(t, svc, 1, "2024-01-05", "", 3, "")
	seedEntry(t, svc, 1, "2024-01-04", "", 2, "")

	rec := doRequest(t, e, http.MethodGet, "/api/v1/dashboard?date=2024-01-06", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp DashboardResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "2024-01-06", resp.Date)

	require.NotNil(t, resp.Today)
	assert.Equal(t, 4.5, resp.Today.Average)
	assert.Equal(t, 5, resp.Today.Rounded, "halves round away from zero")
	assert.Equal(t, "Great", resp.Today.Label)
	assert.Equal(t, "😄", resp.Today.Emoji)
	assert.Equal(t, 2, resp.Today.Count)

	assert.Equal(t, 3, resp.Streak)
	require.NotNil(t, resp.WeekAverage)
	assert.Equal(t, 3.5, *resp.WeekAverage)

	require.Len(t, resp.RecentEntries, 4)
	assert.Equal(t, "2024-01-06", resp.RecentEntries[0].Date)
}

func TestDashboardWithoutData(t *testing.T) {
	svc, e := newTestService(t, false)
	seedEntry(t, svc, 1, "2024-01-04", "", 2, "")

	rec := doRequest(t, e, http.MethodGet, "/api/v1/dashboard?date=2024-02-01", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp DashboardResponse
	decodeJSON(t, rec, &resp)
	assert.Nil(t, resp.Today, "a day without check-ins has no card")
	assert.Nil(t, resp.WeekAverage)
	assert.Equal(t, 1, resp.Streak, "streak anchors at the most recent entry, not the requested date")
	assert.Len(t, resp.RecentEntries, 1)
}

func TestDashboardRejectsBadDate(t *testing.T) {
	_, e := newTestService(t, false)

	rec := doRequest(t, e, http.MethodGet, "/api/v1/dashboard?date=nonsense", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboardRecentEntriesCapped(t *testing.T) {
	svc, e := newTestService(t, false)
	for _, date := range []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05", "2024-01-06", "2024-01-07"} {
		seedEntry(t, svc, 1, date, "", 3, "")
	}

	rec := doRequest(t, e, http.MethodGet, "/api/v1/dashboard?date=2024-01-07", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp DashboardResponse
	decodeJSON(t, rec, &resp)
	assert.Len(t, resp.RecentEntries, recentEntryLimit)
	assert.Equal(t, 7, resp.Streak)
}
