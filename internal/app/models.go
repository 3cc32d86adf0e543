package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/AxelPMont/reservas-canchas/internal/availability"
)

// Reservation is one booked interval on one court and one date. Never
// mutated in place: created on confirm, deleted on cancel.
type Reservation struct {
	ID              string    `json:"id"`
	Date            string    `json:"date"`
	CourtID         string    `json:"court_id"`
	StartTime       string    `json:"start_time"`
	DurationMinutes int       `json:"duration_minutes"`
	ClientName      string    `json:"client_name"`
	UserID          string    `json:"user_id"`
	CreatedAt       time.Time `json:"created_at,omitzero"`
}

// ReservationForm is the client-supplied part of a reservation.
type ReservationForm struct {
	Date            string `json:"date" binding:"required"`
	CourtID         string `json:"court_id" binding:"required"`
	StartTime       string `json:"start_time" binding:"required"`
	DurationMinutes int    `json:"duration_minutes" binding:"required"`
	ClientName      string `json:"client_name" binding:"required"`
}

// CourtIDs is the fixed set of bookable courts.
var CourtIDs = []string{"1", "2"}

// DurationOptions are the allowed booking lengths in minutes.
var DurationOptions = []int{30, 60, 90, 120, 150, 180, 210, 240}

// StartHours is the half-hour start grid from 07:00 to 24:00, where 24:00 is
// midnight at the end of the bookable day.
var StartHours = buildStartHours()

func buildStartHours() []string {
	var out []string
	for m := 7 * 60; m <= 24*60; m += 30 {
		out = append(out, fmt.Sprintf("%02d:%02d", m/60, m%60))
	}
	return out
}

func ValidCourtID(id string) bool {
	for _, c := range CourtIDs {
		if c == id {
			return true
		}
	}
	return false
}

func ValidDuration(minutes int) bool {
	for _, d := range DurationOptions {
		if d == minutes {
			return true
		}
	}
	return false
}

func ValidStartHour(t string) bool {
	for _, s := range StartHours {
		if s == t {
			return true
		}
	}
	return false
}

func ValidDate(date string) bool {
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}

// Validate checks the form before any I/O. The returned message is surfaced
// verbatim as inline form text.
func (f *ReservationForm) Validate() error {
	if !ValidDate(f.Date) {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", f.Date)
	}
	if !ValidCourtID(f.CourtID) {
		return fmt.Errorf("unknown court %q", f.CourtID)
	}
	if !ValidStartHour(f.StartTime) {
		return fmt.Errorf("start time %q not on the booking grid", f.StartTime)
	}
	if !ValidDuration(f.DurationMinutes) {
		return fmt.Errorf("duration %d not allowed", f.DurationMinutes)
	}
	if strings.TrimSpace(f.ClientName) == "" {
		return fmt.Errorf("client name required")
	}
	return nil
}

func occupancySlots(list []Reservation) []availability.Slot {
	out := make([]availability.Slot, 0, len(list))
	for _, r := range list {
		out = append(out, availability.Slot{
			StartTime:       r.StartTime,
			DurationMinutes: r.DurationMinutes,
			ClientName:      r.ClientName,
		})
	}
	return out
}
