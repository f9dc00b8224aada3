package utils

import (
	"fmt"
	"time"
)

// ParseClock parses a wall-clock string like "09:30" into minutes since
// midnight.
func ParseClock(value string) (int, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q: %w", value, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// MinutesOfDay returns t's wall-clock position as minutes since midnight.
func MinutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

func FormatTimeISO(t time.Time) string {
	return t.Format(time.RFC3339)
}

func ParseTimeISO(value string) (time.Time, error) {
	return time.Parse(time.RFC3339, value)
}

// LoadLocation resolves a timezone name, falling back to UTC on failure.
func LoadLocation(timezone string) *time.Location {
	if timezone == "" {
		timezone = DefaultTimeZone
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
