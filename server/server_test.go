package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Bylo24/moodtracker/internal/profile"
	"github.com/Bylo24/moodtracker/store"
	"github.com/Bylo24/moodtracker/store/db/sqlite"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	ctx := context.Background()
	p := &profile.Profile{
		Mode:      "dev",
		Driver:    "sqlite",
		DSN:       t.TempDir() + "/moodtracker_test.db",
		JWTSecret: "server-test-secret",
	}

	driver, err := sqlite.NewDB(p)
	require.NoError(t, err)

	st := store.New(driver, p)
	require.NoError(t, st.Migrate(ctx))

	s, err := NewServer(ctx, p, st)
	require.NoError(t, err)
	t.Cleanup(func() {
		s.apiV1.Close()
		_ = st.Close()
	})
	return s
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.echoServer.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)

	// Generate one request so the counters have something to report.
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	s.echoServer.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.echoServer.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "moodtracker_http_requests_total")
}

func TestUnknownRouteReturns404(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	s.echoServer.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPIRoutesRequireAuth(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/entries", nil)
	rec := httptest.NewRecorder()
	s.echoServer.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
