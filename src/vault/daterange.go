package vault

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDateRange reports a date range that cannot be parsed or whose
// start falls after its end.
var ErrInvalidDateRange = errors.New("invalid date range")

// DateRange is a closed time window.
type DateRange struct {
	Start time.Time
	End   time.Time
}

var relativeRe = regexp.MustCompile(`^(\d+)([smhdw])$`)

// ParseDateRange accepts either a relative shorthand string ("<int><unit>",
// units s/m/h/d/w, window ending at now) or an object {start, end} where
// each bound may be epoch milliseconds, an ISO datetime, or a bare
// YYYY-MM-DD interpreted as local-day bounds.
func ParseDateRange(raw json.RawMessage, now time.Time) (DateRange, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return DateRange{}, fmt.Errorf("%w: empty", ErrInvalidDateRange)
	}

	var shorthand string
	if err := json.Unmarshal(raw, &shorthand); err == nil {
		return parseRelative(shorthand, now)
	}

	var bounds struct {
		Start json.RawMessage `json:"start"`
		End   json.RawMessage `json:"end"`
	}
	if err := json.Unmarshal(raw, &bounds); err != nil {
		return DateRange{}, fmt.Errorf("%w: %v", ErrInvalidDateRange, err)
	}
	start, err := parseBound(bounds.Start, false)
	if err != nil {
		return DateRange{}, err
	}
	end, err := parseBound(bounds.End, true)
	if err != nil {
		return DateRange{}, err
	}
	if start.After(end) {
		return DateRange{}, fmt.Errorf("%w: start after end", ErrInvalidDateRange)
	}
	return DateRange{Start: start, End: end}, nil
}

func parseRelative(s string, now time.Time) (DateRange, error) {
	m := relativeRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return DateRange{}, fmt.Errorf("%w: %q", ErrInvalidDateRange, s)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: %q", ErrInvalidDateRange, s)
	}
	var unit time.Duration
	switch m[2] {
	case "s":
		unit = time.Second
	case "m":
		unit = time.Minute
	case "h":
		unit = time.Hour
	case "d":
		unit = 24 * time.Hour
	case "w":
		unit = 7 * 24 * time.Hour
	}
	return DateRange{Start: now.Add(-time.Duration(n) * unit), End: now}, nil
}

var bareDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// parseBound parses one explicit bound. A bare date expands to the local
// day's first or last millisecond depending on which side it bounds.
func parseBound(raw json.RawMessage, isEnd bool) (time.Time, error) {
	if len(raw) == 0 {
		return time.Time{}, fmt.Errorf("%w: missing bound", ErrInvalidDateRange)
	}

	var millis int64
	if err := json.Unmarshal(raw, &millis); err == nil {
		return time.UnixMilli(millis), nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}, fmt.Errorf("%w: bound %s", ErrInvalidDateRange, string(raw))
	}
	s = strings.TrimSpace(s)
	if bareDateRe.MatchString(s) {
		day, err := time.ParseInLocation("2006-01-02", s, time.Local)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateRange, s)
		}
		if isEnd {
			return day.Add(24*time.Hour - time.Millisecond), nil
		}
		return day, nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateRange, s)
}

// TimeField selects which file timestamp a note filter compares against.
type TimeField string

const (
	FieldCreated  TimeField = "created"
	FieldModified TimeField = "modified"
)

// FilteredNote is one note matched by FilterNotes.
type FilteredNote struct {
	Path string
	At   time.Time
}

// FilterNotes returns notes whose selected timestamp falls inside the range,
// sorted ascending or descending and truncated to limit. Most filesystems
// expose no creation time, so FieldCreated falls back to the modification
// time there.
func (v *Vault) FilterNotes(field TimeField, r DateRange, limit int, descending bool) ([]FilteredNote, error) {
	entries, err := v.Walk()
	if err != nil {
		return nil, err
	}
	var matched []FilteredNote
	for _, e := range entries {
		if e.IsDir || !strings.HasSuffix(e.Path, ".md") {
			continue
		}
		info, err := v.fs.Stat(e.Path)
		if err != nil {
			continue
		}
		// ModTime is the only portable timestamp afero exposes; created
		// falls back to it on filesystems without a birth time.
		at := info.ModTime()
		if at.Before(r.Start) || at.After(r.End) {
			continue
		}
		matched = append(matched, FilteredNote{Path: e.Path, At: at})
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if descending {
			return matched[i].At.After(matched[j].At)
		}
		return matched[i].At.Before(matched[j].At)
	})
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}
