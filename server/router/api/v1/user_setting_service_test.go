package v1

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bylo24/moodtracker/store"
)

func TestUserSettingDefaults(t *testing.T) {
	_, e := newTestService(t, true)

	rec := doRequest(t, e, http.MethodGet, "/api/v1/settings", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp UserSetting
	decodeJSON(t, rec, &resp)
	assert.True(t, resp.Premium, "open instances report premium")
	assert.Nil(t, resp.DigestChatID)
	assert.Equal(t, int32(defaultDigestHour), resp.DigestHour)
	assert.Equal(t, "UTC", resp.Timezone)
	assert.Nil(t, resp.Vocabulary)
}

func TestUpdateUserSetting(t *testing.T) {
	_, e := newTestService(t, false)

	rec := doRequest(t, e, http.MethodPatch, "/api/v1/settings", map[string]any{
		"digestChatId": "1234567",
		"digestHour":   7,
		"timezone":     "Europe/Berlin",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp UserSetting
	decodeJSON(t, rec, &resp)
	require.NotNil(t, resp.DigestChatID)
	assert.Equal(t, "1234567", *resp.DigestChatID)
	assert.Equal(t, int32(7), resp.DigestHour)
	assert.Equal(t, "Europe/Berlin", resp.Timezone)

	// A partial patch keeps the rest.
	rec = doRequest(t, e, http.MethodPatch, "/api/v1/settings", map[string]any{"digestHour": 21})
	require.Equal(t, http.StatusOK, rec.Code)
	var patched UserSetting
	decodeJSON(t, rec, &patched)
	assert.Equal(t, int32(21), patched.DigestHour)
	assert.Equal(t, "Europe/Berlin", patched.Timezone)
	require.NotNil(t, patched.DigestChatID)

	// An empty chat ID switches the digest off.
	rec = doRequest(t, e, http.MethodPatch, "/api/v1/settings", map[string]any{"digestChatId": ""})
	require.Equal(t, http.StatusOK, rec.Code)
	var disabled UserSetting
	decodeJSON(t, rec, &disabled)
	assert.Nil(t, disabled.DigestChatID)
}

func TestUpdateUserSettingRejectsBadInput(t *testing.T) {
	_, e := newTestService(t, false)

	rec := doRequest(t, e, http.MethodPatch, "/api/v1/settings", map[string]any{"digestHour": 24})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, e, http.MethodPatch, "/api/v1/settings", map[string]any{"digestHour": -1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, e, http.MethodPatch, "/api/v1/settings", map[string]any{"timezone": "Mars/Olympus"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// "work" is a built-in negative word; flipping its polarity is rejected.
	rec = doRequest(t, e, http.MethodPatch, "/api/v1/settings", map[string]any{
		"vocabulary": map[string]any{"positive": []string{"work"}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateUserSettingVocabulary(t *testing.T) {
	svc, e := newTestService(t, true)

	rec := doRequest(t, e, http.MethodPatch, "/api/v1/settings", map[string]any{
		"vocabulary": map[string]any{
			"positive": []string{"Yoga"},
			"negative": []string{"meetings"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp UserSetting
	decodeJSON(t, rec, &resp)
	require.NotNil(t, resp.Vocabulary)
	assert.Equal(t, []string{"yoga"}, resp.Vocabulary.Positive)
	assert.Equal(t, []string{"meetings"}, resp.Vocabulary.Negative)

	// The stored words reach trigger extraction.
	setting, err := svc.Store.GetUserSetting(context.Background(), &store.FindUserSetting{UserID: int32Ptr(1)})
	require.NoError(t, err)
	require.NotNil(t, setting)
	vocab := svc.vocabularyFor(setting)
	assert.Contains(t, vocab.Positive, "yoga")
	assert.Contains(t, vocab.Negative, "meetings")

	// An empty vocabulary resets to the built-in lists.
	rec = doRequest(t, e, http.MethodPatch, "/api/v1/settings", map[string]any{
		"vocabulary": map[string]any{},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var reset UserSetting
	decodeJSON(t, rec, &reset)
	assert.Nil(t, reset.Vocabulary)
}
