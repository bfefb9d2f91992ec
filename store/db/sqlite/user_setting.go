package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/Bylo24/moodtracker/store"
)

func (d *DB) UpsertUserSetting(ctx context.Context, upsert *store.UpsertUserSetting) (*store.UserSetting, error) {
	now := time.Now().Unix()
	stmt := `
		INSERT INTO user_setting (user_id, premium, digest_chat_id, digest_hour, timezone, vocabulary, created_ts, updated_ts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			premium = excluded.premium,
			digest_chat_id = excluded.digest_chat_id,
			digest_hour = excluded.digest_hour,
			timezone = excluded.timezone,
			vocabulary = excluded.vocabulary,
			updated_ts = excluded.updated_ts
		RETURNING user_id, premium, digest_chat_id, digest_hour, timezone, vocabulary, created_ts, updated_ts
	`
	setting, err := scanUserSetting(d.db.QueryRowContext(ctx, stmt,
		upsert.UserID,
		boolToInt(upsert.Premium),
		upsert.DigestChatID,
		upsert.DigestHour,
		upsert.Timezone,
		upsert.Vocabulary,
		now,
		now,
	))
	if err != nil {
		return nil, errors.Wrap(err, "failed to upsert user setting")
	}
	return setting, nil
}

func (d *DB) GetUserSetting(ctx context.Context, find *store.FindUserSetting) (*store.UserSetting, error) {
	list, err := d.ListUserSettings(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (d *DB) ListUserSettings(ctx context.Context, find *store.FindUserSetting) ([]*store.UserSetting, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.UserID != nil {
		where, args = append(where, "user_id = ?"), append(args, *find.UserID)
	}
	if find.DigestEnabled != nil {
		if *find.DigestEnabled {
			where = append(where, "digest_chat_id IS NOT NULL AND digest_chat_id != ''")
		} else {
			where = append(where, "(digest_chat_id IS NULL OR digest_chat_id = '')")
		}
	}

	query := fmt.Sprintf(`
		SELECT user_id, premium, digest_chat_id, digest_hour, timezone, vocabulary, created_ts, updated_ts
		FROM user_setting
		WHERE %s
		ORDER BY user_id`, strings.Join(where, " AND "))

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list user settings")
	}
	defer rows.Close()

	list := make([]*store.UserSetting, 0)
	for rows.Next() {
		setting, err := scanUserSetting(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan user setting")
		}
		list = append(list, setting)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate user settings")
	}
	return list, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUserSetting(row rowScanner) (*store.UserSetting, error) {
	var setting store.UserSetting
	var premium int
	var chatID sql.NullString
	if err := row.Scan(
		&setting.UserID,
		&premium,
		&chatID,
		&setting.DigestHour,
		&setting.Timezone,
		&setting.Vocabulary,
		&setting.CreatedTs,
		&setting.UpdatedTs,
	); err != nil {
		return nil, err
	}
	setting.Premium = premium != 0
	if chatID.Valid {
		setting.DigestChatID = &chatID.String
	}
	return &setting, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
