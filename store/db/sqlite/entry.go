package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/Bylo24/moodtracker/store"
)

func (d *DB) CreateEntry(ctx context.Context, create *store.Entry) (*store.Entry, error) {
	stmt := `
		INSERT INTO entry (uid, creator_id, created_ts, updated_ts, row_status, entry_date, entry_time, rating, note)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`
	if err := d.db.QueryRowContext(ctx, stmt,
		create.UID,
		create.CreatorID,
		create.CreatedTs,
		create.UpdatedTs,
		create.RowStatus,
		create.Date,
		create.Time,
		create.Rating,
		create.Note,
	).Scan(&create.ID); err != nil {
		return nil, errors.Wrap(err, "failed to create entry")
	}
	return create, nil
}

func (d *DB) ListEntries(ctx context.Context, find *store.FindEntry) ([]*store.Entry, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "id = ?"), append(args, *find.ID)
	}
	if find.UID != nil {
		where, args = append(where, "uid = ?"), append(args, *find.UID)
	}
	if find.CreatorID != nil {
		where, args = append(where, "creator_id = ?"), append(args, *find.CreatorID)
	}
	if find.RowStatus != nil {
		where, args = append(where, "row_status = ?"), append(args, string(*find.RowStatus))
	}
	if find.DateStart != nil {
		where, args = append(where, "entry_date >= ?"), append(args, *find.DateStart)
	}
	if find.DateEnd != nil {
		where, args = append(where, "entry_date <= ?"), append(args, *find.DateEnd)
	}
	if find.MinRating != nil {
		where, args = append(where, "rating >= ?"), append(args, *find.MinRating)
	}
	if find.MaxRating != nil {
		where, args = append(where, "rating <= ?"), append(args, *find.MaxRating)
	}
	if find.HasNote != nil {
		if *find.HasNote {
			where = append(where, "note != ''")
		} else {
			where = append(where, "note = ''")
		}
	}
	if find.NoteContains != nil {
		where, args = append(where, "note LIKE ? ESCAPE '\\'"), append(args, "%"+escapeLike(*find.NoteContains)+"%")
	}

	order := "entry_date DESC, entry_time DESC, id DESC"
	if find.OrderByDateAsc {
		order = "entry_date ASC, entry_time ASC, id ASC"
	}

	query := fmt.Sprintf(`
		SELECT id, uid, creator_id, created_ts, updated_ts, row_status, entry_date, entry_time, rating, note
		FROM entry
		WHERE %s
		ORDER BY %s`, strings.Join(where, " AND "), order)
	if find.Limit != nil {
		query += fmt.Sprintf(" LIMIT %d", *find.Limit)
		if find.Offset != nil {
			query += fmt.Sprintf(" OFFSET %d", *find.Offset)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list entries")
	}
	defer rows.Close()

	list := make([]*store.Entry, 0)
	for rows.Next() {
		var entry store.Entry
		var entryTime sql.NullString
		if err := rows.Scan(
			&entry.ID,
			&entry.UID,
			&entry.CreatorID,
			&entry.CreatedTs,
			&entry.UpdatedTs,
			&entry.RowStatus,
			&entry.Date,
			&entryTime,
			&entry.Rating,
			&entry.Note,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan entry")
		}
		if entryTime.Valid {
			entry.Time = &entryTime.String
		}
		list = append(list, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate entries")
	}
	return list, nil
}

func (d *DB) UpdateEntry(ctx context.Context, update *store.UpdateEntry) (*store.Entry, error) {
	set, args := []string{}, []any{}

	if update.UpdatedTs != nil {
		set, args = append(set, "updated_ts = ?"), append(args, *update.UpdatedTs)
	}
	if update.RowStatus != nil {
		set, args = append(set, "row_status = ?"), append(args, string(*update.RowStatus))
	}
	if update.Date != nil {
		set, args = append(set, "entry_date = ?"), append(args, *update.Date)
	}
	if update.Time != nil {
		set, args = append(set, "entry_time = ?"), append(args, *update.Time)
	}
	if update.Rating != nil {
		set, args = append(set, "rating = ?"), append(args, *update.Rating)
	}
	if update.Note != nil {
		set, args = append(set, "note = ?"), append(args, *update.Note)
	}
	if len(set) == 0 {
		return nil, errors.New("no fields to update")
	}
	args = append(args, update.ID)

	stmt := fmt.Sprintf(`
		UPDATE entry SET %s WHERE id = ?
		RETURNING id, uid, creator_id, created_ts, updated_ts, row_status, entry_date, entry_time, rating, note`,
		strings.Join(set, ", "))

	var entry store.Entry
	var entryTime sql.NullString
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
		&entry.ID,
		&entry.UID,
		&entry.CreatorID,
		&entry.CreatedTs,
		&entry.UpdatedTs,
		&entry.RowStatus,
		&entry.Date,
		&entryTime,
		&entry.Rating,
		&entry.Note,
	); err != nil {
		return nil, errors.Wrap(err, "failed to update entry")
	}
	if entryTime.Valid {
		entry.Time = &entryTime.String
	}
	return &entry, nil
}

func (d *DB) DeleteEntry(ctx context.Context, delete *store.DeleteEntry) error {
	if _, err := d.db.ExecContext(ctx, "DELETE FROM entry WHERE id = ?", delete.ID); err != nil {
		return errors.Wrap(err, "failed to delete entry")
	}
	return nil
}

// escapeLike escapes LIKE wildcards so user text matches literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
