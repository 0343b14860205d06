package domain

import (
	"strconv"
	"strings"
	"time"
)

// WorkdayHours is the number of estimate hours derived per calendar day.
const WorkdayHours = 8

const dayDuration = 24 * time.Hour

// ParseDate parses upstream date strings. It accepts RFC3339 timestamps,
// plain YYYY-MM-DD dates and the legacy DD/MM/YYYY form; anything else
// yields nil. Time-of-day is discarded, all dates are midnight UTC.
func ParseDate(value string) *time.Time {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil
	}

	if strings.Contains(v, "/") {
		parts := strings.Split(v, "/")
		if len(parts) != 3 {
			return nil
		}
		d, errD := strconv.Atoi(parts[0])
		m, errM := strconv.Atoi(parts[1])
		y, errY := strconv.Atoi(parts[2])
		if errD != nil || errM != nil || errY != nil {
			return nil
		}
		t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
		if t.Day() != d || int(t.Month()) != m {
			return nil
		}
		return &t
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			day := StartOfDay(t)
			return &day
		}
	}
	return nil
}

// StartOfDay truncates a time to midnight UTC.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// AddDays returns the date shifted by the given number of calendar days.
func AddDays(t time.Time, days int) time.Time {
	return t.AddDate(0, 0, days)
}

// DiffDaysInclusive returns the inclusive day count between two dates:
// same day counts as 1.
func DiffDaysInclusive(start, end time.Time) int {
	return int(StartOfDay(end).Sub(StartOfDay(start))/dayDuration) + 1
}

// DurationDays returns the inclusive calendar duration between start and
// end. It distinguishes "unknown" from "zero-length": when either bound is
// missing the result is nil, when both are present but end precedes start
// the result is 0 (dirty source data, tolerated), and a same-day range is 1.
func DurationDays(start, end *time.Time) *int {
	if start == nil || end == nil {
		return nil
	}
	days := DiffDaysInclusive(*start, *end)
	if days < 1 {
		days = 0
	}
	return &days
}
