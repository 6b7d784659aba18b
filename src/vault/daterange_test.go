package vault

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateRangeRelative(t *testing.T) {
	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)

	r, err := ParseDateRange(json.RawMessage(`"2d"`), now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(-48*time.Hour), r.Start)
	assert.Equal(t, now, r.End)

	r, err = ParseDateRange(json.RawMessage(`"90m"`), now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(-90*time.Minute), r.Start)

	r, err = ParseDateRange(json.RawMessage(`"1w"`), now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(-7*24*time.Hour), r.Start)

	_, err = ParseDateRange(json.RawMessage(`"2y"`), now)
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = ParseDateRange(json.RawMessage(`"soon"`), now)
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestParseDateRangeBareDates(t *testing.T) {
	now := time.Now()

	r, err := ParseDateRange(json.RawMessage(`{"start":"2025-01-01","end":"2025-01-01"}`), now)
	require.NoError(t, err)

	// A bare date spans exactly that local calendar day.
	assert.Equal(t, int64(86_399_999), r.End.Sub(r.Start).Milliseconds())
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local), r.Start)
}

func TestParseDateRangeEpochAndISO(t *testing.T) {
	now := time.Now()

	r, err := ParseDateRange(json.RawMessage(`{"start":1000,"end":2000}`), now)
	require.NoError(t, err)
	assert.Equal(t, time.UnixMilli(1000), r.Start)
	assert.Equal(t, time.UnixMilli(2000), r.End)

	r, err = ParseDateRange(json.RawMessage(`{"start":"2025-03-01T10:00:00Z","end":"2025-03-02T10:00:00Z"}`), now)
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, r.End.Sub(r.Start))
}

func TestParseDateRangeStartAfterEnd(t *testing.T) {
	_, err := ParseDateRange(json.RawMessage(`{"start":100,"end":50}`), time.Now())
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestFilterNotes(t *testing.T) {
	v, fs := newTestVault(t)
	writeNote(t, fs, "old.md")
	writeNote(t, fs, "new.md")
	writeNote(t, fs, "ignored.txt")

	now := time.Now()
	require.NoError(t, fs.Chtimes("old.md", now, now.Add(-72*time.Hour)))
	require.NoError(t, fs.Chtimes("new.md", now, now.Add(-time.Hour)))

	r, err := ParseDateRange(json.RawMessage(`"2d"`), now)
	require.NoError(t, err)

	notes, err := v.FilterNotes(FieldModified, r, 10, false)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "new.md", notes[0].Path)

	// Wider window, descending, limited.
	wide, err := ParseDateRange(json.RawMessage(`"1w"`), now)
	require.NoError(t, err)
	notes, err = v.FilterNotes(FieldModified, wide, 1, true)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "new.md", notes[0].Path)

	notes, err = v.FilterNotes(FieldModified, wide, 10, false)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "old.md", notes[0].Path)
	assert.Equal(t, "new.md", notes[1].Path)
}
