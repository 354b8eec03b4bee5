package service

import (
	"testing"
	"time"
)

func TestWeekStart(t *testing.T) {
	cases := []struct {
		day  string
		want string
	}{
		{"2026-08-31", "2026-08-31"}, // a Monday is its own week start
		{"2026-08-26", "2026-08-24"}, // Wednesday
		{"2026-08-30", "2026-08-24"}, // Sunday belongs to the preceding Monday
		{"2026-09-01", "2026-08-31"}, // Tuesday crossing a month boundary
	}
	for _, tc := range cases {
		now, err := parseDay(tc.day)
		if err != nil {
			t.Fatalf("parseDay(%q): %v", tc.day, err)
		}
		if got := weekStart(now); got != tc.want {
			t.Errorf("weekStart(%s) = %s, want %s", tc.day, got, tc.want)
		}
	}
}

func TestMonthStart(t *testing.T) {
	now := time.Date(2026, 8, 31, 23, 59, 0, 0, time.UTC)
	if got := monthStart(now); got != "2026-08-01" {
		t.Errorf("monthStart() = %s, want 2026-08-01", got)
	}
}
