package v1

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Bylo24/moodtracker/analytics"
	"github.com/Bylo24/moodtracker/server/auth"
	"github.com/Bylo24/moodtracker/store"
)

const defaultDigestHour = 8

// UserSetting is the wire shape of the caller's settings. Premium is the
// effective flag (token tier, open instance or billing-synced row) and is
// read-only here; the billing backend owns the stored value.
type UserSetting struct {
	Premium      bool              `json:"premium"`
	DigestChatID *string           `json:"digestChatId"`
	DigestHour   int32             `json:"digestHour"`
	Timezone     string            `json:"timezone"`
	Vocabulary   *customVocabulary `json:"vocabulary"`
}

// UpdateUserSettingRequest is the PATCH body. Nil fields keep their value;
// an empty digestChatId turns the digest off, and an empty vocabulary resets
// to the built-in keyword lists.
type UpdateUserSettingRequest struct {
	DigestChatID *string           `json:"digestChatId"`
	DigestHour   *int32            `json:"digestHour"`
	Timezone     *string           `json:"timezone"`
	Vocabulary   *customVocabulary `json:"vocabulary"`
}

func (s *APIV1Service) GetUserSetting(c echo.Context) error {
	ctx := c.Request().Context()
	user := currentUser(c)

	setting, err := s.Store.GetUserSetting(ctx, &store.FindUserSetting{UserID: &user.ID})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load settings").SetInternal(err)
	}
	return c.JSON(http.StatusOK, convertUserSettingFromStore(setting, user))
}

func (s *APIV1Service) UpdateUserSetting(c echo.Context) error {
	ctx := c.Request().Context()
	user := currentUser(c)

	req := &UpdateUserSettingRequest{}
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body").SetInternal(err)
	}

	current, err := s.Store.GetUserSetting(ctx, &store.FindUserSetting{UserID: &user.ID})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load settings").SetInternal(err)
	}

	upsert := &store.UpsertUserSetting{
		UserID:     user.ID,
		DigestHour: defaultDigestHour,
		Timezone:   "UTC",
	}
	if current != nil {
		upsert.Premium = current.Premium
		upsert.DigestChatID = current.DigestChatID
		upsert.DigestHour = current.DigestHour
		upsert.Timezone = current.Timezone
		upsert.Vocabulary = current.Vocabulary
	}

	if req.DigestChatID != nil {
		if *req.DigestChatID == "" {
			upsert.DigestChatID = nil
		} else {
			upsert.DigestChatID = req.DigestChatID
		}
	}
	if req.DigestHour != nil {
		if *req.DigestHour < 0 || *req.DigestHour > 23 {
			return echo.NewHTTPError(http.StatusBadRequest, "digestHour must be between 0 and 23")
		}
		upsert.DigestHour = *req.DigestHour
	}
	if req.Timezone != nil {
		if _, err := time.LoadLocation(*req.Timezone); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown timezone").SetInternal(err)
		}
		upsert.Timezone = *req.Timezone
	}
	if req.Vocabulary != nil {
		encoded, err := encodeVocabulary(req.Vocabulary)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		upsert.Vocabulary = encoded
	}

	setting, err := s.Store.UpsertUserSetting(ctx, upsert)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to save settings").SetInternal(err)
	}
	return c.JSON(http.StatusOK, convertUserSettingFromStore(setting, user))
}

func convertUserSettingFromStore(setting *store.UserSetting, user *auth.User) *UserSetting {
	out := &UserSetting{
		Premium:    user.Premium,
		DigestHour: defaultDigestHour,
		Timezone:   "UTC",
	}
	if setting == nil {
		return out
	}
	out.Premium = user.Premium || setting.Premium
	out.DigestChatID = setting.DigestChatID
	out.DigestHour = setting.DigestHour
	out.Timezone = setting.Timezone
	if setting.Vocabulary != "" {
		var custom customVocabulary
		if err := json.Unmarshal([]byte(setting.Vocabulary), &custom); err == nil {
			out.Vocabulary = &custom
		}
	}
	return out
}

// encodeVocabulary normalizes and validates custom trigger keywords for
// storage. Words that conflict with the built-in polarity assignments are
// rejected so the extractor never sees an ambiguous vocabulary.
func encodeVocabulary(custom *customVocabulary) (string, error) {
	positive := normalizeWords(custom.Positive)
	negative := normalizeWords(custom.Negative)
	if len(positive) == 0 && len(negative) == 0 {
		return "", nil
	}

	if _, err := analytics.DefaultVocabulary().Merge(positive, negative); err != nil {
		return "", err
	}

	encoded, err := json.Marshal(&customVocabulary{Positive: positive, Negative: negative})
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

// normalizeWords lowercases and trims keywords, dropping blanks and
// duplicates.
func normalizeWords(words []string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, word := range words {
		word = strings.ToLower(strings.TrimSpace(word))
		if word == "" || seen[word] {
			continue
		}
		seen[word] = true
		out = append(out, word)
	}
	return out
}

// locationFor resolves the user's timezone setting, falling back to UTC.
func locationFor(setting *store.UserSetting) *time.Location {
	if setting == nil || setting.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(setting.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
