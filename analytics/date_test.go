package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"canonical", "2024-01-05", false},
		{"leap day", "2024-02-29", false},
		{"non leap february", "2023-02-29", true},
		{"missing padding", "2024-1-5", true},
		{"wrong order", "05-01-2024", true},
		{"slashes", "2024/01/05", true},
		{"empty", "", true},
		{"month out of range", "2024-13-01", true},
		{"day out of range", "2024-04-31", true},
		{"trailing garbage", "2024-01-05x", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDate(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidDate)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, d.String())
			assert.True(t, d.Valid())
		})
	}
}

func TestDateOrderingIsLexicographic(t *testing.T) {
	// The ISO form makes string comparison chronological; everything in the
	// package leans on this.
	assert.True(t, Date("2024-01-09").Before("2024-01-10"))
	assert.True(t, Date("2024-02-01").After("2024-01-31"))
	assert.True(t, Date("2023-12-31").Before("2024-01-01"))
}

func TestDateAddDays(t *testing.T) {
	tests := []struct {
		name string
		date Date
		n    int
		want Date
	}{
		{"forward", "2024-01-05", 3, "2024-01-08"},
		{"backward", "2024-01-05", -5, "2023-12-31"},
		{"month boundary", "2024-01-31", 1, "2024-02-01"},
		{"leap february", "2024-02-28", 1, "2024-02-29"},
		{"zero", "2024-01-05", 0, "2024-01-05"},
		{"invalid receiver", "bogus", 1, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.date.AddDays(tt.n))
		})
	}
}

func TestDateWeekday(t *testing.T) {
	// 2024-01-01 was a Monday.
	assert.Equal(t, time.Monday, Date("2024-01-01").Weekday())
	assert.Equal(t, time.Saturday, Date("2024-01-06").Weekday())
	assert.Equal(t, time.Sunday, Date("2024-01-07").Weekday())

	assert.False(t, Date("2024-01-05").IsWeekend())
	assert.True(t, Date("2024-01-06").IsWeekend())
	assert.True(t, Date("2024-01-07").IsWeekend())
}

func TestToday(t *testing.T) {
	d := Today(time.UTC)
	require.True(t, d.Valid())
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), d.String())

	// nil location defaults to UTC rather than panicking.
	assert.True(t, Today(nil).Valid())
}
