package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/event-ticketing/internal/model"
)

// EventRepo provides persistence for events and owns the capacity
// ledger. The tickets_sold column changes only through TryReserve and
// Release; both execute a single conditional UPDATE so the check and
// the increment are one indivisible operation from the point of view
// of every other connection. No in-process lock is ever held, which
// keeps a slow caller from stalling unrelated events.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo returns a new EventRepo bound to the given database.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions
// spanning multiple repositories.
func (r *EventRepo) DB() *sql.DB { return r.db }

// Create inserts a new event. The caller supplies the generated ID and
// timestamps; tickets_sold starts at zero.
func (r *EventRepo) Create(ctx context.Context, e *model.Event) error {
	const q = `INSERT INTO events (id, title, description, start_time, end_time, organizer_id, venue_id, capacity, tickets_sold, created_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, ?)`
	_, err := r.db.ExecContext(ctx, q,
		e.ID, e.Title, e.Description, e.StartTime.UTC(), e.EndTime.UTC(),
		e.OrganizerID, e.VenueID, e.Capacity, e.CreatedAt.UTC(),
	)
	return err
}

// GetByID returns a single event or ErrEventNotFound.
func (r *EventRepo) GetByID(ctx context.Context, id string) (*model.Event, error) {
	const q = `SELECT id, title, description, start_time, end_time, organizer_id, venue_id, capacity, tickets_sold, created_at
	           FROM events WHERE id = ?`
	var e model.Event
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&e.ID, &e.Title, &e.Description, &e.StartTime, &e.EndTime,
		&e.OrganizerID, &e.VenueID, &e.Capacity, &e.TicketsSold, &e.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// List returns all events ordered by start time ascending.
func (r *EventRepo) List(ctx context.Context) ([]model.Event, error) {
	const q = `SELECT id, title, description, start_time, end_time, organizer_id, venue_id, capacity, tickets_sold, created_at
	           FROM events ORDER BY start_time ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]model.Event, 0)
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(
			&e.ID, &e.Title, &e.Description, &e.StartTime, &e.EndTime,
			&e.OrganizerID, &e.VenueID, &e.Capacity, &e.TicketsSold, &e.CreatedAt,
		); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// TryReserve takes one seat if and only if the event still has
// capacity at the instant the statement executes. The capacity check
// and the increment are a single UPDATE, so two concurrent callers can
// never both take the last seat: the database serialises the row
// update and the losing statement matches zero rows.
//
// It returns (true, nil) when a seat was reserved, (false, nil) when
// the event is sold out, and an error only for storage failures. The
// caller must pair every granted reservation with either a persisted
// registration or a Release.
func (r *EventRepo) TryReserve(ctx context.Context, eventID string) (bool, error) {
	const q = `UPDATE events SET tickets_sold = tickets_sold + 1
	           WHERE id = ? AND tickets_sold < capacity`
	res, err := r.db.ExecContext(ctx, q, eventID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Release returns one seat to the pool. The decrement is floored at
// zero so that a double release caused by a retried cancellation can
// never drive the counter negative.
func (r *EventRepo) Release(ctx context.Context, eventID string) error {
	const q = `UPDATE events SET tickets_sold = tickets_sold - 1
	           WHERE id = ? AND tickets_sold > 0`
	_, err := r.db.ExecContext(ctx, q, eventID)
	return err
}

// IsSoldOut reports whether the event currently has no free seats.
// The answer is advisory and may be stale by the time the caller acts
// on it; reservation decisions must go through TryReserve.
func (r *EventRepo) IsSoldOut(ctx context.Context, eventID string) (bool, error) {
	const q = `SELECT tickets_sold >= capacity FROM events WHERE id = ?`
	var soldOut bool
	err := r.db.QueryRowContext(ctx, q, eventID).Scan(&soldOut)
	if err == sql.ErrNoRows {
		return false, ErrEventNotFound
	}
	if err != nil {
		return false, err
	}
	return soldOut, nil
}
