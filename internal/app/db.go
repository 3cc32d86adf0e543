package app

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/AxelPMont/reservas-canchas/internal/availability"
)

// Channel every write notifies on; the hub listens here so other instances
// see each other's writes.
const reservationsChannel = "reservations"

var ErrReservationNotFound = errors.New("reservation not found")

// SlotOccupiedError reports a create that lost to an existing reservation.
type SlotOccupiedError struct {
	ClientName string
}

func (e *SlotOccupiedError) Error() string {
	return fmt.Sprintf("slot already reserved for %s", e.ClientName)
}

// InsertReservation creates a reservation, re-checking overlap inside the
// transaction. Writers for the same (date, court) are serialized by an
// advisory transaction lock, so two concurrent clients cannot both book the
// same slot.
func (a *App) InsertReservation(ctx context.Context, userID string, f *ReservationForm) (Reservation, error) {
	tx, err := a.DB.Begin(ctx)
	if err != nil {
		return Reservation{}, err
	}
	defer tx.Rollback(ctx)

	// Row locks alone cannot close the race: two first bookings on an empty
	// (date, court) each see no rows and both pass the overlap check. The
	// advisory lock makes the second writer wait until the first commits, so
	// its overlap query sees the winner's row.
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`,
		reservationLockKey(f.Date, f.CourtID)); err != nil {
		return Reservation{}, err
	}

	rows, err := tx.Query(ctx,
		`SELECT start_time, duration_minutes, client_name FROM reservations
		 WHERE date=$1 AND court_id=$2`, f.Date, f.CourtID)
	if err != nil {
		return Reservation{}, err
	}
	var existing []availability.Slot
	for rows.Next() {
		var s availability.Slot
		if err := rows.Scan(&s.StartTime, &s.DurationMinutes, &s.ClientName); err != nil {
			rows.Close()
			return Reservation{}, err
		}
		existing = append(existing, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Reservation{}, err
	}

	if occ := availability.Check(f.StartTime, f.DurationMinutes, existing); occ.Occupied {
		return Reservation{}, &SlotOccupiedError{ClientName: occ.ClientName}
	}

	res := Reservation{
		ID:              uuid.NewString(),
		Date:            f.Date,
		CourtID:         f.CourtID,
		StartTime:       f.StartTime,
		DurationMinutes: f.DurationMinutes,
		ClientName:      f.ClientName,
		UserID:          userID,
	}
	q := `INSERT INTO reservations
	      (id, date, court_id, start_time, duration_minutes, client_name, user_id, created_at)
	      VALUES ($1,$2,$3,$4,$5,$6,$7, now()) RETURNING created_at`
	if err := tx.QueryRow(ctx, q, res.ID, res.Date, res.CourtID, res.StartTime,
		res.DurationMinutes, res.ClientName, res.UserID).Scan(&res.CreatedAt); err != nil {
		return Reservation{}, err
	}

	if err := a.notifyTx(ctx, tx, res.Date, res.CourtID); err != nil {
		return Reservation{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Reservation{}, err
	}
	return res, nil
}

// DeleteReservation cancels a reservation. Not-found is an error; callers
// that want delete-if-present semantics must tolerate it themselves.
func (a *App) DeleteReservation(ctx context.Context, id string) (Reservation, error) {
	tx, err := a.DB.Begin(ctx)
	if err != nil {
		return Reservation{}, err
	}
	defer tx.Rollback(ctx)

	var res Reservation
	q := `DELETE FROM reservations WHERE id=$1
	      RETURNING id, date, court_id, start_time, duration_minutes, client_name, user_id, created_at`
	err = tx.QueryRow(ctx, q, id).Scan(&res.ID, &res.Date, &res.CourtID, &res.StartTime,
		&res.DurationMinutes, &res.ClientName, &res.UserID, &res.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Reservation{}, ErrReservationNotFound
	}
	if err != nil {
		return Reservation{}, err
	}

	if err := a.notifyTx(ctx, tx, res.Date, res.CourtID); err != nil {
		return Reservation{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Reservation{}, err
	}
	return res, nil
}

// ListReservationsByUser is the "my reservations" view, ordered by date then
// start time.
func (a *App) ListReservationsByUser(ctx context.Context, userID string) ([]Reservation, error) {
	q := `SELECT id, date, court_id, start_time, duration_minutes, client_name, user_id, created_at
	      FROM reservations WHERE user_id=$1 ORDER BY date, start_time`
	rows, err := a.DB.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReservations(rows)
}

func (a *App) ListReservationsByDateCourt(ctx context.Context, date, courtID string) ([]Reservation, error) {
	q := `SELECT id, date, court_id, start_time, duration_minutes, client_name, user_id, created_at
	      FROM reservations WHERE date=$1 AND court_id=$2 ORDER BY start_time`
	rows, err := a.DB.Query(ctx, q, date, courtID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReservations(rows)
}

func scanReservations(rows pgx.Rows) ([]Reservation, error) {
	var out []Reservation
	for rows.Next() {
		var r Reservation
		if err := rows.Scan(&r.ID, &r.Date, &r.CourtID, &r.StartTime,
			&r.DurationMinutes, &r.ClientName, &r.UserID, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// reservationLockKey maps a (date, court) pair onto the bigint keyspace of
// pg_advisory_xact_lock.
func reservationLockKey(date, courtID string) int64 {
	h := fnv.New64a()
	h.Write([]byte(date))
	h.Write([]byte{'/'})
	h.Write([]byte(courtID))
	return int64(h.Sum64())
}

func (a *App) notifyTx(ctx context.Context, tx pgx.Tx, date, courtID string) error {
	_, err := tx.Exec(ctx, `SELECT pg_notify($1, $2)`, reservationsChannel, date+"/"+courtID)
	return err
}

// ListenNotifications keeps a dedicated connection on LISTEN and kicks the
// hub on every notification. A dropped connection is re-established with
// capped backoff, so one transient blip does not kill cross-instance
// propagation for the process lifetime. Returns when the context ends.
func (a *App) ListenNotifications(ctx context.Context) error {
	backoff := time.Second
	for {
		listened, err := a.listenOnce(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if listened {
			backoff = time.Second
		}
		a.Log.Error("reservation listener lost connection", "err", err, "retry_in", backoff)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff = nextBackoff(backoff)
	}
}

// listenOnce reports whether LISTEN was established before the error, so the
// caller can reset its backoff.
func (a *App) listenOnce(ctx context.Context) (bool, error) {
	conn, err := a.DB.Acquire(ctx)
	if err != nil {
		return false, err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+reservationsChannel); err != nil {
		return false, err
	}
	// Changes may have landed while the listener was down.
	a.Hub.Kick()
	for {
		if _, err := conn.Conn().WaitForNotification(ctx); err != nil {
			return true, err
		}
		a.Hub.Kick()
	}
}

func nextBackoff(d time.Duration) time.Duration {
	d *= 2
	if d > 30*time.Second {
		d = 30 * time.Second
	}
	return d
}
