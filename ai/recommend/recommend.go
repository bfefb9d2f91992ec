// Package recommend turns a mood rating and its context into a short list of
// self-care suggestions. The LLM path is budgeted and fully optional: when it
// is unavailable, rate-limited, or returns garbage, the service degrades to a
// previously cached result and finally to a static rating-keyed table, so the
// endpoint never fails outright.
package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/Bylo24/moodtracker/ai/llm"
	"github.com/Bylo24/moodtracker/analytics"
	"github.com/Bylo24/moodtracker/store/cache"
)

// Suggestion is a single recommended activity.
type Suggestion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Duration    string `json:"duration"`
}

// Request describes the mood context to recommend against.
type Request struct {
	// Rating is the mood rating the suggestions should respond to (1-5).
	Rating int
	// Details are optional free-form context words, typically the trigger
	// words extracted from recent notes.
	Details []string
}

// Sources reported alongside a result.
const (
	SourceLLM    = "llm"
	SourceCache  = "cache"
	SourceStale  = "stale_cache"
	SourceStatic = "static"
)

// ChatService is the LLM surface the recommender needs.
type ChatService interface {
	Chat(ctx context.Context, messages []llm.Message) (string, *llm.CallStats, error)
}

// Config tunes the recommendation service.
type Config struct {
	// MaxConcurrency limits in-flight LLM calls.
	MaxConcurrency int64
	// RatePerMinute caps LLM calls per minute across all users.
	RatePerMinute int
	// FreshFor is how long a cached result is served without consulting the
	// LLM again. Zero or negative disables reuse, every request hits the LLM.
	FreshFor time.Duration
	// CacheTTL is how long a result stays usable as a stale fallback.
	CacheTTL time.Duration
	// Timeout bounds a single LLM call.
	Timeout time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxConcurrency: 3,
		RatePerMinute:  30,
		FreshFor:       time.Hour,
		CacheTTL:       24 * time.Hour,
		Timeout:        20 * time.Second,
	}
}

// Service produces suggestions with caching and graceful degradation.
type Service struct {
	llm     ChatService
	config  *Config
	cache   *cache.Cache
	sem     *semaphore.Weighted
	limiter *rate.Limiter
}

// NewService creates a recommendation service. A nil chat service is valid
// and pins the service to its fallback paths.
func NewService(chat ChatService, config *Config) *Service {
	if config == nil {
		config = DefaultConfig()
	}
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = 3
	}
	if config.RatePerMinute <= 0 {
		config.RatePerMinute = 30
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = 24 * time.Hour
	}
	if config.Timeout <= 0 {
		config.Timeout = 20 * time.Second
	}

	return &Service{
		llm:    chat,
		config: config,
		cache: cache.New(cache.Config{
			DefaultTTL:      config.CacheTTL,
			CleanupInterval: 10 * time.Minute,
			MaxItems:        512,
		}),
		sem:     semaphore.NewWeighted(config.MaxConcurrency),
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(config.RatePerMinute)), 1),
	}
}

// Close releases the service's background resources.
func (s *Service) Close() {
	s.cache.Close()
}

type cachedResult struct {
	suggestions []Suggestion
	fetchedAt   time.Time
}

var (
	errNoLLM       = errors.New("llm not configured")
	errRateLimited = errors.New("llm call budget exhausted")
	errBusy        = errors.New("too many concurrent llm calls")
)

// Recommend returns three suggestions and the source they came from.
func (s *Service) Recommend(ctx context.Context, req *Request) ([]Suggestion, string, error) {
	if req == nil {
		return nil, "", errors.New("request is required")
	}
	if req.Rating < analytics.MinRating || req.Rating > analytics.MaxRating {
		return nil, "", fmt.Errorf("rating %d out of range", req.Rating)
	}

	requestID := uuid.NewString()
	key := cacheKey(req)

	if entry, ok := s.cache.Get(key); ok {
		cached := entry.(cachedResult)
		if time.Since(cached.fetchedAt) < s.config.FreshFor {
			slog.Debug("recommend: serving cached result",
				"request_id", requestID,
				"rating", req.Rating,
			)
			return cached.suggestions, SourceCache, nil
		}
	}

	suggestions, err := s.fromLLM(ctx, requestID, req)
	if err == nil {
		s.cache.SetWithTTL(key, cachedResult{suggestions: suggestions, fetchedAt: time.Now()}, s.config.CacheTTL)
		return suggestions, SourceLLM, nil
	}

	slog.Warn("recommend: llm path unavailable, degrading",
		"request_id", requestID,
		"rating", req.Rating,
		"error", err,
	)

	if entry, ok := s.cache.Get(key); ok {
		cached := entry.(cachedResult)
		return cached.suggestions, SourceStale, nil
	}

	return StaticSuggestions(req.Rating), SourceStatic, nil
}

func (s *Service) fromLLM(ctx context.Context, requestID string, req *Request) ([]Suggestion, error) {
	if s.llm == nil {
		return nil, errNoLLM
	}
	if !s.limiter.Allow() {
		return nil, errRateLimited
	}
	if !s.sem.TryAcquire(1) {
		return nil, errBusy
	}
	defer s.sem.Release(1)

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	messages := []llm.Message{
		llm.SystemPrompt(recommendSystemPrompt),
		llm.UserMessage(buildPrompt(req)),
	}

	content, stats, err := s.llm.Chat(ctx, messages)
	if err != nil {
		return nil, err
	}

	suggestions, err := parseSuggestions(content)
	if err != nil {
		return nil, err
	}

	if stats != nil {
		slog.Debug("recommend: llm result",
			"request_id", requestID,
			"rating", req.Rating,
			"total_tokens", stats.TotalTokens,
			"duration_ms", stats.TotalDurationMs,
		)
	}
	return suggestions, nil
}

// cacheKey normalizes a request so equivalent contexts share one cache slot.
func cacheKey(req *Request) string {
	details := make([]string, 0, len(req.Details))
	for _, d := range req.Details {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			details = append(details, d)
		}
	}
	sort.Strings(details)
	return fmt.Sprintf("%d|%s", req.Rating, strings.Join(details, ","))
}

func buildPrompt(req *Request) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "The user rated their mood %d out of 5 (%s).\n",
		req.Rating, analytics.RatingLabel(req.Rating))
	if len(req.Details) > 0 {
		fmt.Fprintf(&sb, "Recurring themes in their recent journal notes: %s.\n",
			strings.Join(req.Details, ", "))
	}
	sb.WriteString(`Suggest exactly 3 small, concrete activities for right now. Respond with JSON only:
{"suggestions": [{"title": "...", "description": "...", "category": "...", "duration": "..."}]}`)
	return sb.String()
}

// parseSuggestions decodes the model output, tolerating a markdown code fence
// around the JSON. Anything without three usable suggestions is an error so
// the caller can fall back.
func parseSuggestions(content string) ([]Suggestion, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var result struct {
		Suggestions []Suggestion `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, fmt.Errorf("decode suggestions: %w", err)
	}

	suggestions := make([]Suggestion, 0, 3)
	for _, sug := range result.Suggestions {
		sug.Title = strings.TrimSpace(sug.Title)
		sug.Description = strings.TrimSpace(sug.Description)
		if sug.Title == "" || sug.Description == "" {
			continue
		}
		if sug.Category == "" {
			sug.Category = "general"
		}
		if sug.Duration == "" {
			sug.Duration = "5 minutes"
		}
		suggestions = append(suggestions, sug)
		if len(suggestions) == 3 {
			break
		}
	}
	if len(suggestions) < 3 {
		return nil, fmt.Errorf("expected 3 suggestions, got %d", len(suggestions))
	}
	return suggestions, nil
}

const recommendSystemPrompt = `You are a gentle wellbeing assistant inside a mood journaling app.
You suggest small, realistic self-care activities matched to how the user feels right now.

Rules:
1. Suggest exactly 3 activities.
2. Each activity must be doable within 30 minutes with no special equipment.
3. Be concrete ("take a 10 minute walk around the block"), never clinical.
4. Never diagnose, never mention therapy or medication.
5. The category must be one of: physical, mindfulness, social, creative, rest.
6. Respond with JSON only, no prose around it.`
