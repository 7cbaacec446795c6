package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // IANA names must resolve on hosts without zoneinfo
)

const maxOffset = 18 * time.Hour

// ParseTimezone resolves a display timezone. It accepts "Local", "UTC",
// IANA names such as "Asia/Singapore", and fixed offsets written as
// "GMT+08:00", "UTC-5", "+0530" or "+08:00".
func ParseTimezone(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)

	switch strings.ToUpper(name) {
	case "", "LOCAL":
		return time.Local, nil
	case "UTC", "GMT", "Z":
		return time.UTC, nil
	}

	offset := name
	for _, prefix := range []string{"GMT", "UTC"} {
		if len(offset) > len(prefix) && strings.EqualFold(offset[:len(prefix)], prefix) {
			offset = offset[len(prefix):]
			break
		}
	}
	if strings.HasPrefix(offset, "+") || strings.HasPrefix(offset, "-") {
		return parseOffset(offset)
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q", name)
	}
	return loc, nil
}

// parseOffset turns "+08:00", "+0800", "+08" or "+8" into a fixed zone.
func parseOffset(s string) (*time.Location, error) {
	sign := 1
	if s[0] == '-' {
		sign = -1
	}
	body := s[1:]

	var hh, mm string
	switch {
	case strings.Contains(body, ":"):
		hh, mm, _ = strings.Cut(body, ":")
	case len(body) == 4:
		hh, mm = body[:2], body[2:]
	default:
		hh, mm = body, "0"
	}

	hours, err := strconv.Atoi(hh)
	if err != nil || hh == "" || len(hh) > 2 {
		return nil, fmt.Errorf("invalid timezone offset %q", s)
	}
	minutes, err := strconv.Atoi(mm)
	if err != nil || minutes < 0 || minutes > 59 {
		return nil, fmt.Errorf("invalid timezone offset %q", s)
	}

	d := time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute
	if d > maxOffset {
		return nil, fmt.Errorf("timezone offset %q out of range", s)
	}

	name := fmt.Sprintf("GMT%c%02d:%02d", s[0], hours, minutes)
	return time.FixedZone(name, sign*int(d/time.Second)), nil
}
