package store

// RowStatus is the lifecycle state of a stored row.
type RowStatus string

const (
	// Normal is the default state.
	Normal RowStatus = "NORMAL"
	// Archived rows are hidden from listings but kept for history.
	Archived RowStatus = "ARCHIVED"
)

// Entry is one mood check-in row. Date and Time are stored exactly as the
// client recorded them (YYYY-MM-DD and optional HH:MM); the analytics layer
// owns their interpretation.
type Entry struct {
	ID        int32
	UID       string
	CreatorID int32
	CreatedTs int64
	UpdatedTs int64
	RowStatus RowStatus
	Date      string
	Time      *string
	Rating    int32
	Note      string
}

// FindEntry specifies the conditions for finding entries. Nil fields are
// not filtered on. Date bounds are inclusive.
type FindEntry struct {
	ID           *int32
	UID          *string
	CreatorID    *int32
	RowStatus    *RowStatus
	DateStart    *string
	DateEnd      *string
	MinRating    *int32
	MaxRating    *int32
	HasNote      *bool
	NoteContains *string

	Limit  *int
	Offset *int

	// OrderByDateAsc flips the default date-descending ordering.
	OrderByDateAsc bool
}

// UpdateEntry specifies an in-place edit. Nil fields keep their value.
type UpdateEntry struct {
	ID        int32
	UpdatedTs *int64
	RowStatus *RowStatus
	Date      *string
	Time      *string
	Rating    *int32
	Note      *string
}

// DeleteEntry specifies the entry to delete.
type DeleteEntry struct {
	ID int32
}
