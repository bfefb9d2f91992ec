package store

// UserSetting carries the per-user knobs the service reads at request time.
// Premium is synced by the billing backend; this service never mutates it on
// its own. Vocabulary holds an optional JSON-encoded custom trigger
// vocabulary, empty meaning the built-in one.
type UserSetting struct {
	UserID       int32
	Premium      bool
	DigestChatID *string
	DigestHour   int32
	Timezone     string
	Vocabulary   string
	CreatedTs    int64
	UpdatedTs    int64
}

// DigestEnabled reports whether the user opted into the daily digest.
func (s *UserSetting) DigestEnabled() bool {
	return s.DigestChatID != nil && *s.DigestChatID != ""
}

// FindUserSetting specifies the conditions for finding user settings.
type FindUserSetting struct {
	UserID *int32
	// DigestEnabled filters on the presence of a digest chat ID.
	DigestEnabled *bool
}

// UpsertUserSetting replaces the stored row for the user.
type UpsertUserSetting struct {
	UserID       int32
	Premium      bool
	DigestChatID *string
	DigestHour   int32
	Timezone     string
	Vocabulary   string
}
