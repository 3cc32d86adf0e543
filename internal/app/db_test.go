package app

import (
	"testing"
	"time"
)

func TestReservationLockKey(t *testing.T) {
	key := reservationLockKey("2026-03-01", "1")
	if key != reservationLockKey("2026-03-01", "1") {
		t.Fatal("lock key must be deterministic")
	}
	if key == reservationLockKey("2026-03-01", "2") {
		t.Fatal("different courts must not share a lock key")
	}
	if key == reservationLockKey("2026-03-02", "1") {
		t.Fatal("different dates must not share a lock key")
	}
}

func TestNextBackoff(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want time.Duration
	}{
		{time.Second, 2 * time.Second},
		{8 * time.Second, 16 * time.Second},
		{20 * time.Second, 30 * time.Second},
		{30 * time.Second, 30 * time.Second},
	}
	for _, tc := range cases {
		if got := nextBackoff(tc.in); got != tc.want {
			t.Errorf("nextBackoff(%s) = %s, want %s", tc.in, got, tc.want)
		}
	}
}
