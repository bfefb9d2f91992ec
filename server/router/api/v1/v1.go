// Package v1 implements the JSON REST surface of the mood tracker: check-in
// CRUD, the dashboard and analytics views, AI recommendations, and the Atom
// export. Handlers are spread over the *_service.go files; this file owns
// service construction, route registration and authentication.
package v1

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Bylo24/moodtracker/ai/llm"
	"github.com/Bylo24/moodtracker/ai/recommend"
	"github.com/Bylo24/moodtracker/internal/metrics"
	"github.com/Bylo24/moodtracker/internal/profile"
	"github.com/Bylo24/moodtracker/plugin/markdown"
	"github.com/Bylo24/moodtracker/server/auth"
	"github.com/Bylo24/moodtracker/store"
)

// userContextKey is where the auth middleware parks the resolved caller.
const userContextKey = "moodtracker/user"

// APIV1Service wires the REST handlers to storage, analytics presentation,
// the recommendation engine and the markdown stripper.
type APIV1Service struct {
	Secret  string
	Profile *profile.Profile
	Store   *store.Store
	Metrics *metrics.Metrics

	Markdown    markdown.Service
	Recommender *recommend.Service

	authenticator *auth.Authenticator
}

// NewAPIV1Service builds the API service. The LLM client is optional: when
// no API key is configured, or the client fails to build, recommendations
// degrade to the static fallback instead of taking the API down.
func NewAPIV1Service(secret string, profile *profile.Profile, store *store.Store, m *metrics.Metrics) *APIV1Service {
	s := &APIV1Service{
		Secret:        secret,
		Profile:       profile,
		Store:         store,
		Metrics:       m,
		Markdown:      markdown.NewService(),
		authenticator: auth.New(secret, profile.PremiumOpen),
	}

	var chat recommend.ChatService
	if profile.IsAIEnabled() {
		llmService, err := llm.NewService(&llm.Config{
			Provider: profile.AIProvider,
			Model:    profile.AIModel,
			APIKey:   profile.AIAPIKey,
			BaseURL:  profile.AIBaseURL,
			Timeout:  profile.AITimeout,
		})
		if err != nil {
			slog.Warn("LLM client unavailable, recommendations fall back to static suggestions", "error", err)
		} else {
			chat = llmService
			// Warm up the connection asynchronously so the first
			// recommendation doesn't pay the handshake cost.
			go func() {
				warmupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				llmService.Warmup(warmupCtx)
			}()
		}
	}
	s.Recommender = recommend.NewService(chat, recommend.DefaultConfig())

	return s
}

// Close releases background resources owned by the service.
func (s *APIV1Service) Close() {
	s.Recommender.Close()
}

// RegisterRoutes mounts the authenticated /api/v1 group on e.
func (s *APIV1Service) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1", s.authMiddleware)

	g.POST("/entries", s.CreateEntry)
	g.GET("/entries", s.ListEntries)
	g.GET("/entries/:uid", s.GetEntry)
	g.PATCH("/entries/:uid", s.UpdateEntry)
	g.DELETE("/entries/:uid", s.DeleteEntry)

	g.GET("/dashboard", s.GetDashboard)
	g.GET("/analytics", s.GetAnalytics)
	g.POST("/recommendations", s.CreateRecommendation)
	g.GET("/export/feed", s.ExportFeed)

	g.GET("/settings", s.GetUserSetting)
	g.PATCH("/settings", s.UpdateUserSetting)
}

func (s *APIV1Service) authMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := s.authenticator.Authenticate(c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing token").SetInternal(err)
		}
		c.Set(userContextKey, user)
		return next(c)
	}
}

// currentUser returns the caller resolved by authMiddleware. Handlers behind
// the middleware can rely on it being set.
func currentUser(c echo.Context) *auth.User {
	user, _ := c.Get(userContextKey).(*auth.User)
	return user
}
