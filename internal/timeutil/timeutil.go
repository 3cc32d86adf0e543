// Package timeutil holds the pure time-of-day and calendar-date helpers the
// reservation flow is built on. Times of day are "HH:MM" strings on a
// half-hour grid ("24:00" marks midnight at the end of the bookable day),
// dates are local-calendar "YYYY-MM-DD" strings. Malformed input is a caller
// bug, not a handled error.
package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	dayNames   = [7]string{"dom", "lun", "mar", "mié", "jue", "vie", "sáb"}
	dayLabels  = [7]string{"Dom", "Lun", "Mar", "Mié", "Jue", "Vie", "Sáb"}
	monthNames = [12]string{"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sep", "oct", "nov", "dic"}
)

// ToMinutes converts "HH:MM" to minutes since midnight. No wraparound:
// "24:00" yields 1440.
func ToMinutes(t string) int {
	hh, mm, _ := strings.Cut(t, ":")
	h, _ := strconv.Atoi(hh)
	m, _ := strconv.Atoi(mm)
	return h*60 + m
}

// AddMinutes adds minutes to an "HH:MM" time of day, wrapping modulo 1440.
// A booking that runs past midnight keeps its calendar date; only the
// time-of-day wraps.
func AddMinutes(t string, minutes int) string {
	total := (ToMinutes(t) + minutes) % 1440
	if total < 0 {
		total += 1440
	}
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// FormatRange renders a slot as "7:00 AM - 8:00 AM" on a 12-hour clock.
func FormatRange(start string, durationMinutes int) string {
	end := AddMinutes(start, durationMinutes)
	return clock12(start) + " - " + clock12(end)
}

func clock12(t string) string {
	total := ToMinutes(t)
	h, m := total/60, total%60
	switch {
	case h == 0:
		return "12:00 AM"
	case h == 12:
		return "12:00 PM"
	case h < 12:
		return fmt.Sprintf("%d:%02d AM", h, m)
	default:
		return fmt.Sprintf("%d:%02d PM", h-12, m)
	}
}

// Day pairs a short picker label ("Mié 3") with its "YYYY-MM-DD" date.
type Day struct {
	Label string `json:"label"`
	Date  string `json:"date"`
}

// Today returns the current local date as "YYYY-MM-DD". Local, never a
// UTC-shifted read, so the date does not drift around midnight.
func Today() string {
	return isoDate(time.Now())
}

// NextDays returns count consecutive local dates starting today.
func NextDays(count int) []Day {
	return NextDaysFrom(time.Now(), count)
}

// NextDaysFrom is NextDays anchored to an explicit start instant.
func NextDaysFrom(start time.Time, count int) []Day {
	out := make([]Day, 0, count)
	for i := 0; i < count; i++ {
		d := start.AddDate(0, 0, i)
		out = append(out, Day{
			Label: fmt.Sprintf("%s %d", dayLabels[int(d.Weekday())], d.Day()),
			Date:  isoDate(d),
		})
	}
	return out
}

// FormatDate renders "YYYY-MM-DD" as "mié, 3 sep" using the local calendar.
func FormatDate(date string) string {
	d := parseLocalDate(date)
	return fmt.Sprintf("%s, %d %s", dayNames[int(d.Weekday())], d.Day(), monthNames[int(d.Month())-1])
}

// FormatDateShort renders "YYYY-MM-DD" as "3 sep".
func FormatDateShort(date string) string {
	d := parseLocalDate(date)
	return fmt.Sprintf("%d %s", d.Day(), monthNames[int(d.Month())-1])
}

func parseLocalDate(date string) time.Time {
	var y, m, d int
	fmt.Sscanf(date, "%d-%d-%d", &y, &m, &d)
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.Local)
}

func isoDate(t time.Time) string {
	return t.Format("2006-01-02")
}
