// Package availability decides whether a candidate slot collides with the
// reservations already booked for the same date and court.
package availability

import "github.com/AxelPMont/reservas-canchas/internal/timeutil"

// Slot is an existing reservation reduced to what the overlap test needs.
type Slot struct {
	StartTime       string
	DurationMinutes int
	ClientName      string
}

// Occupancy reports whether a candidate slot is taken and, if so, by whom.
type Occupancy struct {
	Occupied   bool   `json:"occupied"`
	ClientName string `json:"client_name,omitempty"`
}

// Check tests the candidate [start, start+duration) against each existing
// slot and returns the first one it overlaps. Intervals are half-open, so a
// slot ending exactly when another starts is free. End times wrap modulo
// 1440 the same way the reservations themselves do, so a booking running
// past midnight compares exactly as it was stored.
func Check(start string, durationMinutes int, existing []Slot) Occupancy {
	s := timeutil.ToMinutes(start)
	e := timeutil.ToMinutes(timeutil.AddMinutes(start, durationMinutes))
	for _, r := range existing {
		rs := timeutil.ToMinutes(r.StartTime)
		re := timeutil.ToMinutes(timeutil.AddMinutes(r.StartTime, r.DurationMinutes))
		if s < re && e > rs {
			return Occupancy{Occupied: true, ClientName: r.ClientName}
		}
	}
	return Occupancy{}
}
