package timeutil

import (
	"testing"
	"time"
)

func TestParseTimestampFormats(t *testing.T) {
	inputs := []string{
		"2026-06-01T10:30:00Z",
		"2026-06-01T10:30:00+05:30",
		"2026-06-01T10:30:00",
		"2026-06-01 10:30:00",
		"2026-06-01T10:30",
	}
	for _, in := range inputs {
		ts, err := ParseTimestamp(in)
		if err != nil {
			t.Fatalf("%q should parse: %v", in, err)
		}
		if ts.Hour() != 10 || ts.Minute() != 30 {
			t.Fatalf("%q parsed to wrong time: %v", in, ts)
		}
	}

	if _, err := ParseTimestamp("June 1st 2026"); err == nil {
		t.Fatal("free-form date must be rejected")
	}
}

func TestIsDaytime(t *testing.T) {
	at := func(h int) time.Time {
		return time.Date(2026, 6, 1, h, 0, 0, 0, time.UTC)
	}
	if IsDaytime(at(7)) {
		t.Fatal("07:00 is before the window")
	}
	if !IsDaytime(at(8)) || !IsDaytime(at(19)) {
		t.Fatal("window boundaries are inclusive at 08 and 19")
	}
	if IsDaytime(at(20)) {
		t.Fatal("20:00 is past the window")
	}
}

func TestDepartureWindow(t *testing.T) {
	cases := map[int]string{
		2:  "night",
		6:  "morning",
		11: "morning",
		12: "afternoon",
		17: "afternoon",
		18: "evening",
		23: "evening",
	}
	for hour, want := range cases {
		ts := time.Date(2026, 6, 1, hour, 0, 0, 0, time.UTC)
		if got := DepartureWindow(ts); got != want {
			t.Fatalf("hour %d: want %q, got %q", hour, want, got)
		}
	}
}

func TestNightsBetween(t *testing.T) {
	if got := NightsBetween("2026-06-01", "2026-06-07"); got != 6 {
		t.Fatalf("want 6 nights, got %d", got)
	}
	if got := NightsBetween("2026-06-01", "2026-06-01"); got != 0 {
		t.Fatalf("same-day trip has 0 nights, got %d", got)
	}
	if got := NightsBetween("2026-06-07", "2026-06-01"); got != 0 {
		t.Fatalf("inverted range clamps to 0, got %d", got)
	}
	if got := NightsBetween("garbage", "2026-06-01"); got != 0 {
		t.Fatalf("bad input clamps to 0, got %d", got)
	}
}
