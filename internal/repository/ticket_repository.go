package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/event-ticketing/internal/model"
)

// TicketRepo provides persistence for tickets. Issuing binds a new
// ticket to its registration inside one transaction, and check-in is a
// single conditional UPDATE so the test and the set cannot be torn
// apart by a concurrent scan of the same QR code.
type TicketRepo struct {
	db   *sql.DB
	regs *RegistrationRepo
}

// NewTicketRepo returns a new TicketRepo bound to the given database.
// The registration repo is needed because issuing a ticket and binding
// it to its registration commit together.
func NewTicketRepo(db *sql.DB, regs *RegistrationRepo) *TicketRepo {
	return &TicketRepo{db: db, regs: regs}
}

const ticketColumns = `id, event_id, attendee_id, ticket_type, price_cents, qr_token, status, is_checked_in, checked_in_at, created_at`

func scanTicket(row interface{ Scan(...any) error }) (*model.Ticket, error) {
	var t model.Ticket
	var checkedInAt sql.NullTime
	err := row.Scan(
		&t.ID, &t.EventID, &t.AttendeeID, &t.TicketType, &t.PriceCents,
		&t.QRToken, &t.Status, &t.IsCheckedIn, &checkedInAt, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if checkedInAt.Valid {
		at := checkedInAt.Time
		t.CheckedInAt = &at
	}
	return &t, nil
}

// Issue creates the ticket and binds it to the registration as one
// atomic pair: either the tickets row exists and registrations.
// ticket_id points at it, or neither happened. When another issuance
// already bound a ticket, the insert is rolled back and
// ErrAlreadyIssued is returned so the caller can fetch the existing
// ticket instead of minting a second one.
func (r *TicketRepo) Issue(ctx context.Context, registrationID string, t *model.Ticket) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const q = `INSERT INTO tickets (id, event_id, attendee_id, ticket_type, price_cents, qr_token, status, is_checked_in, created_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?)`
	if _, err := tx.ExecContext(ctx, q,
		t.ID, t.EventID, t.AttendeeID, t.TicketType, t.PriceCents,
		t.QRToken, t.Status, t.CreatedAt.UTC(),
	); err != nil {
		return err
	}

	bound, err := r.regs.BindTicketTx(ctx, tx, registrationID, t.ID)
	if err != nil {
		return err
	}
	if !bound {
		// A concurrent or earlier issuance won; roll back our ticket.
		return ErrAlreadyIssued
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByID returns a single ticket or ErrTicketNotFound.
func (r *TicketRepo) GetByID(ctx context.Context, id string) (*model.Ticket, error) {
	const q = `SELECT ` + ticketColumns + ` FROM tickets WHERE id = ?`
	t, err := scanTicket(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, ErrTicketNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetByQRToken resolves a presented QR token to its ticket, or returns
// ErrTicketNotFound for an unknown token.
func (r *TicketRepo) GetByQRToken(ctx context.Context, qrToken string) (*model.Ticket, error) {
	const q = `SELECT ` + ticketColumns + ` FROM tickets WHERE qr_token = ?`
	t, err := scanTicket(r.db.QueryRowContext(ctx, q, qrToken))
	if err == sql.ErrNoRows {
		return nil, ErrTicketNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListByAttendee returns all tickets held by an attendee, newest
// first.
func (r *TicketRepo) ListByAttendee(ctx context.Context, attendeeID string) ([]model.Ticket, error) {
	const q = `SELECT ` + ticketColumns + ` FROM tickets WHERE attendee_id = ? ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, attendeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tickets := make([]model.Ticket, 0)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, *t)
	}
	return tickets, rows.Err()
}

// CheckIn flips the is_checked_in latch for the ticket with the given
// QR token. The status check, the latch test and the set are one
// UPDATE, so N concurrent scans of the same code produce exactly one
// matched row; every other statement matches zero rows and the loser
// is told apart below. checked_in_at is only written by the winning
// statement and never altered again.
func (r *TicketRepo) CheckIn(ctx context.Context, qrToken string, at time.Time) (*model.Ticket, error) {
	const q = `UPDATE tickets SET is_checked_in = 1, checked_in_at = ?
	           WHERE qr_token = ? AND status = 'active' AND is_checked_in = 0`
	res, err := r.db.ExecContext(ctx, q, at.UTC(), qrToken)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 1 {
		return r.GetByQRToken(ctx, qrToken)
	}

	// Zero rows matched: unknown token, inactive ticket, or a lost
	// race. Look the ticket up to report which.
	t, err := r.GetByQRToken(ctx, qrToken)
	if err != nil {
		return nil, err // ErrTicketNotFound → invalid code
	}
	if t.Status != model.TicketActive {
		return nil, ErrTicketNotActive
	}
	return nil, ErrAlreadyCheckedIn
}

// SetStatus moves an active, not-checked-in ticket to the given
// terminal status (cancelled or refunded). It reports whether the
// transition happened; false means the ticket was already checked in
// or already left active, and the caller looks it up to say why.
func (r *TicketRepo) SetStatus(ctx context.Context, ticketID string, status model.TicketStatus) (bool, error) {
	const q = `UPDATE tickets SET status = ?
	           WHERE id = ? AND status = 'active' AND is_checked_in = 0`
	res, err := r.db.ExecContext(ctx, q, status, ticketID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
