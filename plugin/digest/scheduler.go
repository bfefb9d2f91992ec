// Package digest sends opted-in users a short daily mood summary over
// Telegram. The instance carries one bot token; chat ID, delivery hour and
// timezone are per-user settings.
package digest

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"

	"github.com/Bylo24/moodtracker/analytics"
	"github.com/Bylo24/moodtracker/internal/metrics"
	"github.com/Bylo24/moodtracker/internal/profile"
	"github.com/Bylo24/moodtracker/store"
)

// Sender is the part of the Telegram client the scheduler uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Scheduler ticks once an hour and delivers digests to the users whose local
// clock just entered their chosen hour. Matching on each tick instead of
// registering per-user cron entries means settings changes take effect
// without a reschedule.
type Scheduler struct {
	profile *profile.Profile
	store   *store.Store
	metrics *metrics.Metrics
	bot     Sender

	cron    *cron.Cron
	mu      sync.Mutex
	started bool
}

// NewScheduler builds the digest scheduler. It fails when no bot token is
// configured or the Telegram API rejects it.
func NewScheduler(profile *profile.Profile, store *store.Store, m *metrics.Metrics) (*Scheduler, error) {
	if !profile.IsDigestEnabled() {
		return nil, errors.New("telegram bot token is not configured")
	}
	bot, err := tgbotapi.NewBotAPI(profile.TelegramBotToken)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create telegram bot")
	}

	loc, err := time.LoadLocation(profile.DigestTimezone)
	if err != nil {
		loc = time.UTC
	}

	s := &Scheduler{
		profile: profile,
		store:   store,
		metrics: m,
		bot:     bot,
		cron:    cron.New(cron.WithLocation(loc)),
	}
	if _, err := s.cron.AddFunc("0 * * * *", s.run); err != nil {
		return nil, errors.Wrap(err, "failed to schedule digest job")
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		s.cron.Start()
		s.started = true
		slog.Info("daily digest scheduler started", "timezone", s.profile.DigestTimezone)
	}
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		s.cron.Stop()
		s.started = false
	}
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	enabled := true
	subscribers, err := s.store.ListUserSettings(ctx, &store.FindUserSetting{DigestEnabled: &enabled})
	if err != nil {
		slog.Error("digest: failed to list subscribers", "error", err)
		s.metrics.RecordDigestRun(false)
		return
	}

	now := time.Now()
	for _, setting := range subscribers {
		if !dueNow(setting, now) {
			continue
		}
		if err := s.sendDigest(ctx, setting); err != nil {
			slog.Warn("digest: delivery failed", "userID", setting.UserID, "error", err)
			s.metrics.RecordDigestRun(false)
			continue
		}
		slog.Debug("digest: delivered", "userID", setting.UserID)
		s.metrics.RecordDigestRun(true)
	}
}

// dueNow reports whether the user's local clock is inside their digest hour.
func dueNow(setting *store.UserSetting, now time.Time) bool {
	return int32(now.In(userLocation(setting)).Hour()) == setting.DigestHour
}

func userLocation(setting *store.UserSetting) *time.Location {
	loc, err := time.LoadLocation(setting.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (s *Scheduler) sendDigest(ctx context.Context, setting *store.UserSetting) error {
	chatID, err := strconv.ParseInt(*setting.DigestChatID, 10, 64)
	if err != nil {
		return errors.Wrapf(err, "bad chat id %q", *setting.DigestChatID)
	}

	normal := store.Normal
	rows, err := s.store.ListEntries(ctx, &store.FindEntry{
		CreatorID: &setting.UserID,
		RowStatus: &normal,
	})
	if err != nil {
		return errors.Wrap(err, "failed to load entries")
	}

	entries := make([]analytics.Entry, 0, len(rows))
	for _, row := range rows {
		clockTime := ""
		if row.Time != nil {
			clockTime = *row.Time
		}
		entry, err := analytics.NewEntry(analytics.Date(row.Date), clockTime, int(row.Rating), row.Note)
		if err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	text := Compose(entries, analytics.Today(userLocation(setting)), vocabularyFor(setting))
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	if _, err := s.bot.Send(msg); err != nil {
		return errors.Wrap(err, "failed to send telegram message")
	}
	return nil
}

// customVocabulary mirrors the JSON layout the settings API stores.
type customVocabulary struct {
	Positive []string `json:"positive"`
	Negative []string `json:"negative"`
}

// vocabularyFor resolves the user's trigger vocabulary, the same lists the
// analytics endpoint scans with. Malformed or conflicting custom lists fall
// back to the built-in vocabulary.
func vocabularyFor(setting *store.UserSetting) analytics.Vocabulary {
	vocab := analytics.DefaultVocabulary()
	if setting.Vocabulary == "" {
		return vocab
	}
	var custom customVocabulary
	if err := json.Unmarshal([]byte(setting.Vocabulary), &custom); err != nil {
		slog.Warn("digest: ignoring malformed custom vocabulary", "userID", setting.UserID, "error", err)
		return vocab
	}
	merged, err := vocab.Merge(custom.Positive, custom.Negative)
	if err != nil {
		slog.Warn("digest: ignoring conflicting custom vocabulary", "userID", setting.UserID, "error", err)
		return vocab
	}
	return merged
}
