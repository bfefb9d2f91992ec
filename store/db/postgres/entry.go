package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/Bylo24/moodtracker/store"
)

func (d *DB) CreateEntry(ctx context.Context, create *store.Entry) (*store.Entry, error) {
	query := `
		INSERT INTO entry (uid, creator_id, created_ts, updated_ts, row_status, entry_date, entry_time, rating, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	if err := d.db.QueryRowContext(ctx, query,
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
	argIndex := 0
	next := func() int {
		argIndex++
		return argIndex
	}

	if find.ID != nil {
		where, args = append(where, fmt.Sprintf("id = $%d", next())), append(args, *find.ID)
	}
	if find.UID != nil {
		where, args = append(where, fmt.Sprintf("uid = $%d", next())), append(args, *find.UID)
	}
	if find.CreatorID != nil {
		where, args = append(where, fmt.Sprintf("creator_id = $%d", next())), append(args, *find.CreatorID)
	}
	if find.RowStatus != nil {
		where, args = append(where, fmt.Sprintf("row_status = $%d", next())), append(args, string(*find.RowStatus))
	}
	if find.DateStart != nil {
		where, args = append(where, fmt.Sprintf("entry_date >= $%d", next())), append(args, *find.DateStart)
	}
	if find.DateEnd != nil {
		where, args = append(where, fmt.Sprintf("entry_date <= $%d", next())), append(args, *find.DateEnd)
	}
	if find.MinRating != nil {
		where, args = append(where, fmt.Sprintf("rating >= $%d", next())), append(args, *find.MinRating)
	}
	if find.MaxRating != nil {
		where, args = append(where, fmt.Sprintf("rating <= $%d", next())), append(args, *find.MaxRating)
	}
	if find.HasNote != nil {
		if *find.HasNote {
			where = append(where, "note != ''")
		} else {
			where = append(where, "note = ''")
		}
	}
	if find.NoteContains != nil {
		where, args = append(where, fmt.Sprintf("note ILIKE $%d", next())), append(args, "%"+escapeLike(*find.NoteContains)+"%")
	}

	order := "entry_date DESC, entry_time DESC NULLS LAST, id DESC"
	if find.OrderByDateAsc {
		order = "entry_date ASC, entry_time ASC NULLS FIRST, id ASC"
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
	argIndex := 0
	next := func() int {
		argIndex++
		return argIndex
	}

	if update.UpdatedTs != nil {
		set, args = append(set, fmt.Sprintf("updated_ts = $%d", next())), append(args, *update.UpdatedTs)
	}
	if update.RowStatus != nil {
		set, args = append(set, fmt.Sprintf("row_status = $%d", next())), append(args, string(*update.RowStatus))
	}
	if update.Date != nil {
		set, args = append(set, fmt.Sprintf("entry_date = $%d", next())), append(args, *update.Date)
	}
	if update.Time != nil {
		set, args = append(set, fmt.Sprintf("entry_time = $%d", next())), append(args, *update.Time)
	}
	if update.Rating != nil {
		set, args = append(set, fmt.Sprintf("rating = $%d", next())), append(args, *update.Rating)
	}
	if update.Note != nil {
		set, args = append(set, fmt.Sprintf("note = $%d", next())), append(args, *update.Note)
	}
	if len(set) == 0 {
		return nil, errors.New("no fields to update")
	}
	args = append(args, update.ID)

	query := fmt.Sprintf(`
		UPDATE entry SET %s WHERE id = $%d
		RETURNING id, uid, creator_id, created_ts, updated_ts, row_status, entry_date, entry_time, rating, note`,
		strings.Join(set, ", "), next())

	var entry store.Entry
	var entryTime sql.NullString
	if err := d.db.QueryRowContext(ctx, query, args...).Scan(
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
	if _, err := d.db.ExecContext(ctx, "DELETE FROM entry WHERE id = $1", delete.ID); err != nil {
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
