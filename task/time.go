package task

import (
	"fmt"
	"strings"
	"time"
)

const (
	humanLayout = "Jan 2 2006, 3:04pm"
	isoLayout   = time.RFC3339Nano
)

// zonedLayouts carry their own offset.
var zonedLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
}

// localLayouts are interpreted in the display location.
var localLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses a zoned date-time. Offsets in the input win; inputs
// without one are read in loc. A trailing region such as "[Asia/Singapore]"
// is ignored so older save files still load.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: missing date-time", ErrInvalidTask)
	}
	if loc == nil {
		loc = time.Local
	}

	if i := strings.IndexByte(s, '['); i > 0 && strings.HasSuffix(s, "]") {
		s = s[:i]
	}

	for _, layout := range zonedLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	for _, layout := range localLayouts {
		if ts, err := time.ParseInLocation(layout, s, loc); err == nil {
			return ts, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: cannot understand date-time %q (use YYYY-MM-DD HH:MM or 2006-01-02T15:04:05+08:00)", ErrInvalidTask, s)
}

// FormatHuman renders a timestamp for display, e.g. "Mar 1 2024, 9:00am".
func FormatHuman(t time.Time) string {
	return t.Format(humanLayout)
}

// FormatISO renders a timestamp as ISO-8601 with offset. Fractional
// seconds are written only when present.
func FormatISO(t time.Time) string {
	return t.Format(isoLayout)
}
