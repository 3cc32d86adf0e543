package timeutil

import (
	"testing"
	"time"
)

func TestToMinutes(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"00:00", 0},
		{"07:00", 420},
		{"12:30", 750},
		{"23:30", 1410},
		{"24:00", 1440},
	}
	for _, tc := range cases {
		if got := ToMinutes(tc.in); got != tc.want {
			t.Errorf("ToMinutes(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestAddMinutesRoundTrip(t *testing.T) {
	for h := 0; h < 24; h++ {
		for m := 0; m < 60; m += 30 {
			start := minutesToClock(h*60 + m)
			for d := 0; d < 1440; d += 97 {
				got := ToMinutes(AddMinutes(start, d))
				want := (ToMinutes(start) + d) % 1440
				if got != want {
					t.Fatalf("ToMinutes(AddMinutes(%q, %d)) = %d, want %d", start, d, got, want)
				}
			}
		}
	}
}

func minutesToClock(total int) string {
	return AddMinutes("00:00", total)
}

func TestAddMinutesWrapsPastMidnight(t *testing.T) {
	if got := AddMinutes("23:00", 180); got != "02:00" {
		t.Errorf("AddMinutes(23:00, 180) = %q, want 02:00", got)
	}
	if got := AddMinutes("24:00", 30); got != "00:30" {
		t.Errorf("AddMinutes(24:00, 30) = %q, want 00:30", got)
	}
}

func TestFormatRange(t *testing.T) {
	cases := []struct {
		start string
		mins  int
		want  string
	}{
		{"07:00", 60, "7:00 AM - 8:00 AM"},
		{"23:30", 60, "11:30 PM - 12:00 AM"},
		{"11:30", 60, "11:30 AM - 12:00 PM"},
		{"13:00", 90, "1:00 PM - 2:30 PM"},
	}
	for _, tc := range cases {
		if got := FormatRange(tc.start, tc.mins); got != tc.want {
			t.Errorf("FormatRange(%q, %d) = %q, want %q", tc.start, tc.mins, got, tc.want)
		}
	}
}

func TestNextDaysFrom(t *testing.T) {
	// 2026-02-27 is a Friday.
	start := time.Date(2026, 2, 27, 15, 4, 5, 0, time.Local)
	days := NextDaysFrom(start, 3)
	if len(days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(days))
	}
	want := []Day{
		{Label: "Vie 27", Date: "2026-02-27"},
		{Label: "Sáb 28", Date: "2026-02-28"},
		{Label: "Dom 1", Date: "2026-03-01"},
	}
	for i, w := range want {
		if days[i] != w {
			t.Errorf("day %d = %+v, want %+v", i, days[i], w)
		}
	}
}

func TestToday(t *testing.T) {
	got := Today()
	if _, err := time.ParseInLocation("2006-01-02", got, time.Local); err != nil {
		t.Fatalf("Today() = %q, not a valid date: %v", got, err)
	}
}

func TestFormatDate(t *testing.T) {
	// 2026-09-02 is a Wednesday.
	if got := FormatDate("2026-09-02"); got != "mié, 2 sep" {
		t.Errorf("FormatDate = %q, want %q", got, "mié, 2 sep")
	}
	if got := FormatDateShort("2026-01-15"); got != "15 ene" {
		t.Errorf("FormatDateShort = %q, want %q", got, "15 ene")
	}
}
