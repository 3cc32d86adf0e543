package app

import (
	"context"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
)

// App wires the HTTP handlers to their dependencies.
type App struct {
	DB  *pgxpool.Pool
	Cfg Config
	Hub *Hub
	Pub *Publisher
	Log *slog.Logger
}

func New(pool *pgxpool.Pool, cfg Config, log *slog.Logger) *App {
	a := &App{DB: pool, Cfg: cfg, Log: log}
	a.Hub = NewHub(a.snapshot, log)
	return a
}

// NewLogger builds the service-wide JSON logger.
func NewLogger(service string) *slog.Logger {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return slog.New(h).With("service", service)
}

// snapshot resolves a subscription key to its current reservation list.
func (a *App) snapshot(ctx context.Context, key SubKey) ([]Reservation, error) {
	if key.UserID != "" {
		return a.ListReservationsByUser(ctx, key.UserID)
	}
	return a.ListReservationsByDateCourt(ctx, key.Date, key.CourtID)
}
