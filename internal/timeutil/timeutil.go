package timeutil

import (
	"errors"
	"time"
)

var timestampFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-07:00",
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
}

// ParseTimestamp parses the timestamp shapes providers actually send.
func ParseTimestamp(s string) (time.Time, error) {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("unrecognized timestamp: " + s)
}

// IsDaytime reports whether t falls in the socially convenient departure
// window (08:00-19:59 local).
func IsDaytime(t time.Time) bool {
	h := t.Hour()
	return h >= 8 && h < 20
}

// DepartureWindow buckets a departure time for filter facets.
func DepartureWindow(t time.Time) string {
	switch h := t.Hour(); {
	case h < 6:
		return "night"
	case h < 12:
		return "morning"
	case h < 18:
		return "afternoon"
	default:
		return "evening"
	}
}

// NightsBetween returns the nights between two ISO dates, 0 on bad input.
func NightsBetween(start, end string) int {
	s, err := time.Parse("2006-01-02", start)
	if err != nil {
		return 0
	}
	e, err := time.Parse("2006-01-02", end)
	if err != nil {
		return 0
	}
	n := int(e.Sub(s).Hours() / 24)
	if n < 0 {
		return 0
	}
	return n
}
