package app

import (
	"context"
	"log/slog"
	"sync"
)

// SubKey identifies one live query: either a user's reservations or one
// date+court pair.
type SubKey struct {
	UserID  string
	Date    string
	CourtID string
}

type snapshotFunc func(ctx context.Context, key SubKey) ([]Reservation, error)

type subscriber struct {
	key SubKey
	ch  chan []Reservation
}

// Hub fans reservation snapshots out to subscribers. Every subscriber gets
// the current snapshot on subscribe and a fresh one after each change; slow
// consumers only ever see the latest snapshot, intermediate ones are
// replaced. The fetch function is injected so the hub itself never touches
// the database.
type Hub struct {
	fetch snapshotFunc
	log   *slog.Logger
	wake  chan struct{}

	mu   sync.Mutex
	subs map[*subscriber]struct{}
}

func NewHub(fetch snapshotFunc, log *slog.Logger) *Hub {
	return &Hub{
		fetch: fetch,
		log:   log,
		wake:  make(chan struct{}, 1),
		subs:  make(map[*subscriber]struct{}),
	}
}

// SubscribeUser streams snapshots of one user's reservations. Cancel must be
// called exactly once when the consumer is done; it closes the channel.
func (h *Hub) SubscribeUser(userID string) (<-chan []Reservation, func()) {
	return h.subscribe(SubKey{UserID: userID})
}

// SubscribeDateCourt streams snapshots of one date+court pair.
func (h *Hub) SubscribeDateCourt(date, courtID string) (<-chan []Reservation, func()) {
	return h.subscribe(SubKey{Date: date, CourtID: courtID})
}

func (h *Hub) subscribe(key SubKey) (<-chan []Reservation, func()) {
	s := &subscriber{key: key, ch: make(chan []Reservation, 1)}
	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()

	go h.push(context.Background(), s)

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, s)
			close(s.ch)
			h.mu.Unlock()
		})
	}
	return s.ch, cancel
}

// Kick schedules a broadcast. Coalesces: any number of kicks between two
// broadcasts results in one broadcast.
func (h *Hub) Kick() {
	select {
	case h.wake <- struct{}{}:
	default:
	}
}

// Run broadcasts fresh snapshots on every kick until the context ends.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-h.wake:
		}

		h.mu.Lock()
		subs := make([]*subscriber, 0, len(h.subs))
		for s := range h.subs {
			subs = append(subs, s)
		}
		h.mu.Unlock()

		for _, s := range subs {
			h.push(ctx, s)
		}
	}
}

// push queries and delivers one snapshot. A failed query logs and skips the
// delivery; the subscription stays alive for the next change.
func (h *Hub) push(ctx context.Context, s *subscriber) {
	snap, err := h.fetch(ctx, s.key)
	if err != nil {
		h.log.Error("snapshot query failed", "err", err,
			"user_id", s.key.UserID, "date", s.key.Date, "court_id", s.key.CourtID)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[s]; !ok {
		return
	}
	// Drop the undelivered previous snapshot, if any. All sends happen under
	// the lock, so the buffered channel always has room after the drain.
	select {
	case <-s.ch:
	default:
	}
	s.ch <- snap
}
