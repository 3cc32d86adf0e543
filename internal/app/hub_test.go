package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitSnapshot(t *testing.T, ch <-chan []Reservation) []Reservation {
	t.Helper()
	select {
	case snap, ok := <-ch:
		if !ok {
			t.Fatal("channel closed while waiting for snapshot")
		}
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
	return nil
}

func TestHubDeliversInitialSnapshot(t *testing.T) {
	hub := NewHub(func(ctx context.Context, key SubKey) ([]Reservation, error) {
		if key.Date != "2026-03-01" || key.CourtID != "1" {
			t.Errorf("unexpected key %+v", key)
		}
		return []Reservation{{ID: "r1", ClientName: "Ana"}}, nil
	}, testLogger())

	ch, cancel := hub.SubscribeDateCourt("2026-03-01", "1")
	defer cancel()

	snap := waitSnapshot(t, ch)
	if len(snap) != 1 || snap[0].ID != "r1" {
		t.Fatalf("unexpected initial snapshot: %+v", snap)
	}
}

func TestHubBroadcastsOnKick(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	hub := NewHub(func(ctx context.Context, key SubKey) ([]Reservation, error) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		return []Reservation{{ID: fmt.Sprintf("r%d", n), UserID: key.UserID}}, nil
	}, testLogger())

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go hub.Run(ctx)

	ch, cancel := hub.SubscribeUser("u1")
	defer cancel()

	first := waitSnapshot(t, ch)
	if first[0].UserID != "u1" {
		t.Fatalf("snapshot for wrong key: %+v", first)
	}

	hub.Kick()
	second := waitSnapshot(t, ch)
	if second[0].ID == first[0].ID {
		t.Fatalf("expected a fresh snapshot after kick, got %+v twice", second)
	}
}

func TestHubCancelClosesChannel(t *testing.T) {
	hub := NewHub(func(ctx context.Context, key SubKey) ([]Reservation, error) {
		return nil, nil
	}, testLogger())

	ch, cancel := hub.SubscribeUser("u1")
	waitSnapshot(t, ch)

	cancel()
	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("expected closed channel after cancel")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after cancel")
	}

	// Second cancel is a no-op, not a panic.
	cancel()
}

func TestHubFetchErrorSkipsDelivery(t *testing.T) {
	var mu sync.Mutex
	fail := true
	hub := NewHub(func(ctx context.Context, key SubKey) ([]Reservation, error) {
		mu.Lock()
		defer mu.Unlock()
		if fail {
			return nil, errors.New("db down")
		}
		return []Reservation{{ID: "r1"}}, nil
	}, testLogger())

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go hub.Run(ctx)

	ch, cancel := hub.SubscribeUser("u1")
	defer cancel()

	// Initial fetch fails: nothing is delivered but the subscription lives.
	select {
	case snap := <-ch:
		t.Fatalf("expected no delivery on fetch error, got %+v", snap)
	case <-time.After(100 * time.Millisecond):
	}

	mu.Lock()
	fail = false
	mu.Unlock()
	hub.Kick()

	snap := waitSnapshot(t, ch)
	if len(snap) != 1 || snap[0].ID != "r1" {
		t.Fatalf("expected snapshot after recovery, got %+v", snap)
	}
}
