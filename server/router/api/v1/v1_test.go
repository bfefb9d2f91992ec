package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Bylo24/moodtracker/internal/metrics"
	"github.com/Bylo24/moodtracker/internal/profile"
	"github.com/Bylo24/moodtracker/server/auth"
	"github.com/Bylo24/moodtracker/store"
	"github.com/Bylo24/moodtracker/store/db/sqlite"
)

// newTestService spins up the API on a migrated throwaway sqlite store in
// single-user mode (empty secret, caller resolves to user 1).
func newTestService(t *testing.T, premiumOpen bool) (*APIV1Service, *echo.Echo) {
	t.Helper()
	return newTestServiceWithSecret(t, "", premiumOpen)
}

func newTestServiceWithSecret(t *testing.T, secret string, premiumOpen bool) (*APIV1Service, *echo.Echo) {
	t.Helper()

	p := &profile.Profile{
		Mode:        "dev",
		Driver:      "sqlite",
		DSN:         filepath.Join(t.TempDir(), "moodtracker_test.db"),
		InstanceURL: "http://localhost:8081",
		PremiumOpen: premiumOpen,
	}
	driver, err := sqlite.NewDB(p)
	require.NoError(t, err)
	st := store.New(driver, p)
	require.NoError(t, st.Migrate(context.Background()))

	svc := NewAPIV1Service(secret, p, st, metrics.New())
	e := echo.New()
	svc.RegisterRoutes(e)

	t.Cleanup(func() {
		svc.Close()
		_ = st.Close()
	})
	return svc, e
}

// doRequest runs one request through the full routing and middleware chain.
func doRequest(t *testing.T, e *echo.Echo, method, target string, body any) *httptest.ResponseRecorder {
	return doAuthedRequest(t, e, method, target, "", body)
}

func doAuthedRequest(t *testing.T, e *echo.Echo, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), "body: %s", rec.Body.String())
}

// seedEntry writes a check-in directly through the store layer.
func seedEntry(t *testing.T, svc *APIV1Service, creatorID int32, date, clockTime string, rating int32, note string) *store.Entry {
	t.Helper()

	entry := &store.Entry{CreatorID: creatorID, Date: date, Rating: rating, Note: note}
	if clockTime != "" {
		entry.Time = &clockTime
	}
	created, err := svc.Store.CreateEntry(context.Background(), entry)
	require.NoError(t, err)
	return created
}

func int32Ptr(v int32) *int32 { return &v }

func TestAuthRequiredWithSecret(t *testing.T) {
	_, e := newTestServiceWithSecret(t, "test-secret", false)

	rec := doRequest(t, e, http.MethodGet, "/api/v1/entries", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doAuthedRequest(t, e, http.MethodGet, "/api/v1/entries", "not-a-token", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthScopesEntriesToTokenUser(t *testing.T) {
	svc, e := newTestServiceWithSecret(t, "test-secret", false)

	seedEntry(t, svc, 7, "2024-01-05", "", 4, "")
	seedEntry(t, svc, 8, "2024-01-05", "", 2, "")

	minter := auth.New("test-secret", false)
	token, err := minter.IssueToken(7, auth.TierFree, time.Hour)
	require.NoError(t, err)

	rec := doAuthedRequest(t, e, http.MethodGet, "/api/v1/entries", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ListEntriesResponse
	decodeJSON(t, rec, &resp)
	require.Len(t, resp.Entries, 1)
	require.Equal(t, int32(4), resp.Entries[0].Rating)
}

func TestPremiumTierLiftsAnalyticsGate(t *testing.T) {
	_, e := newTestServiceWithSecret(t, "test-secret", false)
	minter := auth.New("test-secret", false)

	free, err := minter.IssueToken(7, auth.TierFree, time.Hour)
	require.NoError(t, err)
	rec := doAuthedRequest(t, e, http.MethodGet, "/api/v1/analytics", free, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	premium, err := minter.IssueToken(7, auth.TierPremium, time.Hour)
	require.NoError(t, err)
	rec = doAuthedRequest(t, e, http.MethodGet, "/api/v1/analytics", premium, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}
