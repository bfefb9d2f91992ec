package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)

	// Entry model.
	CreateEntry(ctx context.Context, create *Entry) (*Entry, error)
	ListEntries(ctx context.Context, find *FindEntry) ([]*Entry, error)
	UpdateEntry(ctx context.Context, update *UpdateEntry) (*Entry, error)
	DeleteEntry(ctx context.Context, delete *DeleteEntry) error

	// User settings.
	GetUserSetting(ctx context.Context, find *FindUserSetting) (*UserSetting, error)
	ListUserSettings(ctx context.Context, find *FindUserSetting) ([]*UserSetting, error)
	UpsertUserSetting(ctx context.Context, upsert *UpsertUserSetting) (*UserSetting, error)
}
