package store

import (
	"context"
	"time"

	"github.com/lithammer/shortuuid/v4"

	"github.com/Bylo24/moodtracker/internal/profile"
	"github.com/Bylo24/moodtracker/store/cache"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver

	// Cache settings
	cacheConfig cache.Config

	// Caches
	userSettingCache *cache.Cache // cache for user settings
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	// Default cache settings
	cacheConfig := cache.Config{
		DefaultTTL:      10 * time.Minute,
		CleanupInterval: 5 * time.Minute,
		MaxItems:        1000,
		OnEviction:      nil,
	}

	store := &Store{
		driver:           driver,
		profile:          profile,
		cacheConfig:      cacheConfig,
		userSettingCache: cache.New(cacheConfig),
	}

	return store
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	// Stop all cache cleanup goroutines
	s.userSettingCache.Close()

	return s.driver.Close()
}

// CreateEntry persists a new check-in. A missing UID is generated and the
// timestamps are stamped here so both drivers behave identically.
func (s *Store) CreateEntry(ctx context.Context, create *Entry) (*Entry, error) {
	if create.UID == "" {
		create.UID = shortuuid.New()
	}
	if create.RowStatus == "" {
		create.RowStatus = Normal
	}
	now := time.Now().Unix()
	if create.CreatedTs == 0 {
		create.CreatedTs = now
	}
	if create.UpdatedTs == 0 {
		create.UpdatedTs = now
	}
	return s.driver.CreateEntry(ctx, create)
}

func (s *Store) ListEntries(ctx context.Context, find *FindEntry) ([]*Entry, error) {
	return s.driver.ListEntries(ctx, find)
}

// GetEntry returns the first entry matching find, or nil when none does.
func (s *Store) GetEntry(ctx context.Context, find *FindEntry) (*Entry, error) {
	limit := 1
	find.Limit = &limit
	list, err := s.driver.ListEntries(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) UpdateEntry(ctx context.Context, update *UpdateEntry) (*Entry, error) {
	if update.UpdatedTs == nil {
		now := time.Now().Unix()
		update.UpdatedTs = &now
	}
	return s.driver.UpdateEntry(ctx, update)
}

func (s *Store) DeleteEntry(ctx context.Context, delete *DeleteEntry) error {
	return s.driver.DeleteEntry(ctx, delete)
}

// GetUserSetting returns the user's settings, serving repeat lookups from
// cache. A user without a stored row yields nil, not an error.
func (s *Store) GetUserSetting(ctx context.Context, find *FindUserSetting) (*UserSetting, error) {
	if find.UserID != nil && find.DigestEnabled == nil {
		if cached, ok := s.userSettingCache.Get(*find.UserID); ok {
			if setting, ok := cached.(*UserSetting); ok {
				return setting, nil
			}
		}
	}

	setting, err := s.driver.GetUserSetting(ctx, find)
	if err != nil {
		return nil, err
	}
	if setting != nil && find.UserID != nil && find.DigestEnabled == nil {
		s.userSettingCache.Set(setting.UserID, setting)
	}
	return setting, nil
}

func (s *Store) ListUserSettings(ctx context.Context, find *FindUserSetting) ([]*UserSetting, error) {
	return s.driver.ListUserSettings(ctx, find)
}

func (s *Store) UpsertUserSetting(ctx context.Context, upsert *UpsertUserSetting) (*UserSetting, error) {
	setting, err := s.driver.UpsertUserSetting(ctx, upsert)
	if err != nil {
		return nil, err
	}
	s.userSettingCache.Remove(upsert.UserID)
	return setting, nil
}
