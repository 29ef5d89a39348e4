package join

import (
	"strings"
	"time"
)

// DefaultDateLayouts are tried in order when a date cell is a string.
func DefaultDateLayouts() []string {
	return []string{
		time.DateOnly,
		time.RFC3339Nano,
		time.RFC3339,
		time.DateTime,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05Z07:00",
		"2006/01/02",
		"01/02/2006",
		"02 Jan 2006",
		"Jan 2, 2006",
	}
}

// NormalizeDate turns a cell into a calendar date at UTC midnight. Any
// time of day and zone offset are discarded: the wall-clock date as
// written in the source is kept.
func NormalizeDate(v any, layouts []string) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		if x.IsZero() {
			return time.Time{}, false
		}
		return truncate(x), true
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range layouts {
			if t, err := time.Parse(layout, s); err == nil {
				return truncate(t), true
			}
		}
	}
	return time.Time{}, false
}

func truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
