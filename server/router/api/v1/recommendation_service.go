package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Bylo24/moodtracker/ai/recommend"
)

// CreateRecommendationRequest asks for activity suggestions matching a mood.
// Details are free-form context lines (recent triggers, current activity).
type CreateRecommendationRequest struct {
	Rating  int      `json:"rating"`
	Details []string `json:"details"`
}

// CreateRecommendationResponse carries the suggestions plus where they came
// from: llm, cache, stale_cache or static.
type CreateRecommendationResponse struct {
	Suggestions []recommend.Suggestion `json:"suggestions"`
	Source      string                 `json:"source"`
}

func (s *APIV1Service) CreateRecommendation(c echo.Context) error {
	req := &CreateRecommendationRequest{}
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body").SetInternal(err)
	}

	suggestions, source, err := s.Recommender.Recommend(c.Request().Context(), &recommend.Request{
		Rating:  req.Rating,
		Details: req.Details,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	s.Metrics.RecordRecommendation(source)

	return c.JSON(http.StatusOK, &CreateRecommendationResponse{
		Suggestions: suggestions,
		Source:      source,
	})
}
