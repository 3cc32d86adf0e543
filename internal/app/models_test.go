package app

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestStartHoursGrid(t *testing.T) {
	if len(StartHours) != 35 {
		t.Fatalf("expected 35 start hours from 07:00 to 24:00, got %d", len(StartHours))
	}
	if StartHours[0] != "07:00" {
		t.Errorf("first start hour = %q, want 07:00", StartHours[0])
	}
	if StartHours[len(StartHours)-1] != "24:00" {
		t.Errorf("last start hour = %q, want 24:00", StartHours[len(StartHours)-1])
	}
}

func validForm() ReservationForm {
	return ReservationForm{
		Date:            "2026-03-01",
		CourtID:         "1",
		StartTime:       "10:00",
		DurationMinutes: 60,
		ClientName:      "Ana",
	}
}

func TestReservationFormValidate(t *testing.T) {
	f := validForm()
	if err := f.Validate(); err != nil {
		t.Fatalf("valid form rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*ReservationForm)
	}{
		{"bad date", func(f *ReservationForm) { f.Date = "01-03-2026" }},
		{"unknown court", func(f *ReservationForm) { f.CourtID = "3" }},
		{"off-grid start", func(f *ReservationForm) { f.StartTime = "07:15" }},
		{"before opening", func(f *ReservationForm) { f.StartTime = "06:30" }},
		{"bad duration", func(f *ReservationForm) { f.DurationMinutes = 45 }},
		{"blank client name", func(f *ReservationForm) { f.ClientName = "   " }},
	}
	for _, tc := range cases {
		f := validForm()
		tc.mutate(&f)
		if err := f.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestReservationCreatedAtOmittedWhenZero(t *testing.T) {
	b, err := json.Marshal(Reservation{ID: "r1"})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if strings.Contains(string(b), "created_at") {
		t.Fatalf("zero created_at must be omitted, got %s", b)
	}

	b, err = json.Marshal(Reservation{ID: "r1", CreatedAt: time.Now()})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !strings.Contains(string(b), "created_at") {
		t.Fatalf("set created_at must be present, got %s", b)
	}
}

func TestReservationFormValidateMidnightStart(t *testing.T) {
	f := validForm()
	f.StartTime = "24:00"
	// 24:00 is on the grid; the booking wraps past midnight but keeps its date.
	if err := f.Validate(); err != nil {
		t.Fatalf("24:00 start rejected: %v", err)
	}
}
