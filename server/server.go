// Package server assembles the HTTP surface: the echo instance and its
// middleware chain, the v1 API routes, the health and metrics endpoints, and
// the daily digest plugin lifecycle.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Bylo24/moodtracker/internal/metrics"
	"github.com/Bylo24/moodtracker/internal/profile"
	"github.com/Bylo24/moodtracker/plugin/digest"
	apiv1 "github.com/Bylo24/moodtracker/server/router/api/v1"
	"github.com/Bylo24/moodtracker/store"
)

type Server struct {
	Secret  string
	Profile *profile.Profile
	Store   *store.Store

	echoServer *echo.Echo
	metrics    *metrics.Metrics
	apiV1      *apiv1.APIV1Service
	digest     *digest.Scheduler
}

func NewServer(ctx context.Context, profile *profile.Profile, store *store.Store) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	m := metrics.New()
	s := &Server{
		Secret:  profile.JWTSecret,
		Profile: profile,
		Store:   store,

		echoServer: e,
		metrics:    m,
	}

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOriginFunc: func(_ string) (bool, error) {
			return true, nil
		},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"*"},
		AllowCredentials: true,
	}))
	e.Use(s.requestLogger())
	e.Use(s.metricsMiddleware())

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(m.Handler()))

	s.apiV1 = apiv1.NewAPIV1Service(profile.JWTSecret, profile, store, m)
	s.apiV1.RegisterRoutes(e)

	if profile.IsDigestEnabled() {
		scheduler, err := digest.NewScheduler(profile, store, m)
		if err != nil {
			slog.Warn("daily digest disabled", "error", err)
		} else {
			s.digest = scheduler
		}
	} else {
		slog.Info("daily digest disabled, no telegram bot token configured")
	}

	return s, nil
}

// Start brings the server up and returns. Listener errors after startup are
// logged; synchronous failures (an unusable unix socket) are returned.
func (s *Server) Start(ctx context.Context) error {
	if s.digest != nil {
		s.digest.Start()
	}

	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	if s.Profile.UNIXSock != "" {
		// Remove the stale socket left behind by an unclean shutdown.
		if err := os.Remove(s.Profile.UNIXSock); err != nil && !os.IsNotExist(err) {
			return err
		}
		listener, err := net.Listen("unix", s.Profile.UNIXSock)
		if err != nil {
			return err
		}
		s.echoServer.Listener = listener
		// echo ignores the address once a listener is set.
		address = ""
	}

	go func() {
		if err := s.echoServer.Start(address); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start echo server", "error", err)
		}
	}()

	return nil
}

func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if s.digest != nil {
		s.digest.Stop()
	}

	// Shutdown echo server
	if err := s.echoServer.Shutdown(ctx); err != nil {
		fmt.Printf("failed to shutdown server, error: %+v\n", err)
	}

	s.apiV1.Close()

	// Close database connection
	if err := s.Store.Close(); err != nil {
		fmt.Printf("failed to close database, error: %+v\n", err)
	}

	slog.Info("moodtracker stopped properly")
}

// requestLogger logs each request after the inner middleware has resolved
// the final status.
func (s *Server) requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			slog.Info("http request",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"latency_ms", time.Since(start).Milliseconds(),
				"ip", c.RealIP(),
			)
			return err
		}
	}
}

// metricsMiddleware resolves handler errors, then records the request under
// the route pattern so label cardinality stays bounded.
func (s *Server) metricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			s.metrics.RecordHTTPRequest(c.Request().Method, c.Path(), c.Response().Status, time.Since(start))
			return nil
		}
	}
}
