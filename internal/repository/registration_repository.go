package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/event-ticketing/internal/model"
)

// RegistrationRepo provides persistence for registrations. Status
// transitions are expressed as conditional UPDATEs that name the
// expected source state, so a transition that lost a race matches zero
// rows instead of clobbering the winner. All timestamps are stored in
// UTC.
type RegistrationRepo struct {
	db *sql.DB
}

// NewRegistrationRepo returns a new RegistrationRepo bound to the
// given database.
func NewRegistrationRepo(db *sql.DB) *RegistrationRepo { return &RegistrationRepo{db: db} }

const registrationColumns = `id, event_id, attendee_id, ticket_type, status, ticket_id, charge_ref, registered_at, expires_at`

func scanRegistration(row interface{ Scan(...any) error }) (*model.Registration, error) {
	var reg model.Registration
	var ticketID, chargeRef sql.NullString
	err := row.Scan(
		&reg.ID, &reg.EventID, &reg.AttendeeID, &reg.TicketType,
		&reg.Status, &ticketID, &chargeRef, &reg.RegisteredAt, &reg.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}
	if ticketID.Valid {
		id := ticketID.String
		reg.TicketID = &id
	}
	if chargeRef.Valid {
		ref := chargeRef.String
		reg.ChargeRef = &ref
	}
	return &reg, nil
}

// CreateActive inserts a pending registration unless the attendee
// already holds an active one for the same event. The duplicate check
// and the insert are one statement, so two concurrent registrations
// for the same (event, attendee) pair cannot both slip past the check:
// the second insert matches zero rows and ErrAlreadyRegistered is
// returned. The caller has already reserved a seat and must release it
// when this fails.
func (r *RegistrationRepo) CreateActive(ctx context.Context, reg *model.Registration) error {
	const q = `INSERT INTO registrations (id, event_id, attendee_id, ticket_type, status, registered_at, expires_at)
	           SELECT ?, ?, ?, ?, ?, ?, ?
	           FROM DUAL
	           WHERE NOT EXISTS (
	               SELECT 1 FROM registrations
	               WHERE event_id = ? AND attendee_id = ? AND status IN ('pending', 'confirmed')
	           )`
	res, err := r.db.ExecContext(ctx, q,
		reg.ID, reg.EventID, reg.AttendeeID, reg.TicketType, reg.Status,
		reg.RegisteredAt.UTC(), reg.ExpiresAt.UTC(),
		reg.EventID, reg.AttendeeID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAlreadyRegistered
	}
	return nil
}

// GetByID returns a single registration or ErrRegistrationNotFound.
func (r *RegistrationRepo) GetByID(ctx context.Context, id string) (*model.Registration, error) {
	const q = `SELECT ` + registrationColumns + ` FROM registrations WHERE id = ?`
	reg, err := scanRegistration(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, ErrRegistrationNotFound
	}
	if err != nil {
		return nil, err
	}
	return reg, nil
}

// FindActive returns the attendee's active registration for the event,
// or ErrRegistrationNotFound when none exists. Used as a cheap
// pre-check before reserving a seat; CreateActive still closes the
// race.
func (r *RegistrationRepo) FindActive(ctx context.Context, eventID, attendeeID string) (*model.Registration, error) {
	const q = `SELECT ` + registrationColumns + ` FROM registrations
	           WHERE event_id = ? AND attendee_id = ? AND status IN ('pending', 'confirmed')`
	reg, err := scanRegistration(r.db.QueryRowContext(ctx, q, eventID, attendeeID))
	if err == sql.ErrNoRows {
		return nil, ErrRegistrationNotFound
	}
	if err != nil {
		return nil, err
	}
	return reg, nil
}

// MarkConfirmed moves the registration from pending to confirmed. It
// reports whether the transition happened; false means the row was not
// pending any more (already confirmed by a retry, or cancelled).
func (r *RegistrationRepo) MarkConfirmed(ctx context.Context, id string) (bool, error) {
	const q = `UPDATE registrations SET status = 'confirmed' WHERE id = ? AND status = 'pending'`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// MarkCancelled moves the registration to cancelled from the given
// source state. It reports whether the transition happened. The caller
// releases the seat only on true, which keeps a double cancellation
// from releasing the same seat twice.
func (r *RegistrationRepo) MarkCancelled(ctx context.Context, id string, from model.RegistrationStatus) (bool, error) {
	const q = `UPDATE registrations SET status = 'cancelled' WHERE id = ? AND status = ?`
	res, err := r.db.ExecContext(ctx, q, id, from)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// ClaimCharge stakes the exclusive right to charge for the pending
// registration. The claim is a conditional write on charge_ref, so of
// any number of concurrent confirmation attempts exactly one reaches
// the payment gateway; the rest match zero rows and resolve against
// the claimant's outcome. A claim orphaned by a crash mid-charge is
// never stolen; the registration sits pending until the reaper cancels
// it at its expiry.
func (r *RegistrationRepo) ClaimCharge(ctx context.Context, id, ref string) (bool, error) {
	const q = `UPDATE registrations SET charge_ref = ?
	           WHERE id = ? AND status = 'pending' AND charge_ref IS NULL`
	res, err := r.db.ExecContext(ctx, q, ref, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// ReleaseCharge gives a claim back after a charge attempt whose
// outcome is unknown, so a later confirmation can try again. Only the
// holder's own ref matches; a stale release is a no-op.
func (r *RegistrationRepo) ReleaseCharge(ctx context.Context, id, ref string) error {
	const q = `UPDATE registrations SET charge_ref = NULL WHERE id = ? AND charge_ref = ?`
	_, err := r.db.ExecContext(ctx, q, id, ref)
	return err
}

// BindTicketTx sets ticket_id on the registration inside an existing
// transaction, but only if no ticket has been bound yet. The
// null→value transition happens at most once; a second bind attempt
// matches zero rows and the caller must roll back its ticket insert.
func (r *RegistrationRepo) BindTicketTx(ctx context.Context, tx *sql.Tx, registrationID, ticketID string) (bool, error) {
	const q = `UPDATE registrations SET ticket_id = ? WHERE id = ? AND ticket_id IS NULL`
	res, err := tx.ExecContext(ctx, q, ticketID, registrationID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// ListByEvent returns all registrations for an event ordered by
// registration time ascending. Cancelled rows are retained as an audit
// trail and included.
func (r *RegistrationRepo) ListByEvent(ctx context.Context, eventID string) ([]model.Registration, error) {
	const q = `SELECT ` + registrationColumns + ` FROM registrations
	           WHERE event_id = ? ORDER BY registered_at ASC`
	return r.list(ctx, q, eventID)
}

// ListByAttendee returns all registrations made by an attendee, newest
// first.
func (r *RegistrationRepo) ListByAttendee(ctx context.Context, attendeeID string) ([]model.Registration, error) {
	const q = `SELECT ` + registrationColumns + ` FROM registrations
	           WHERE attendee_id = ? ORDER BY registered_at DESC`
	return r.list(ctx, q, attendeeID)
}

// ExpiredPending returns registrations that are still pending past
// their expiry, up to limit rows. The reaper cancels each one through
// the normal transition path so the seat release is never skipped.
func (r *RegistrationRepo) ExpiredPending(ctx context.Context, now time.Time, limit int) ([]model.Registration, error) {
	const q = `SELECT ` + registrationColumns + ` FROM registrations
	           WHERE status = 'pending' AND expires_at <= ? ORDER BY expires_at ASC LIMIT ?`
	return r.list(ctx, q, now.UTC(), limit)
}

func (r *RegistrationRepo) list(ctx context.Context, query string, args ...any) ([]model.Registration, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	regs := make([]model.Registration, 0)
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		regs = append(regs, *reg)
	}
	return regs, rows.Err()
}
