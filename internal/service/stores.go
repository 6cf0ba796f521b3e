// Package service implements the ticket lifecycle engine: seat
// reservation, registration state transitions, payment-gated ticket
// issuance and idempotent check-in. Services orchestrate repositories
// and the payment gateway; every multi-step flow has an idempotent
// resumption point keyed by a stable entity ID, so a retried request
// never double-charges, double-issues or double-admits.
package service

import (
	"context"
	"time"

	"github.com/iliyamo/event-ticketing/internal/model"
)

// EventStore is the capacity ledger as seen by the engine. TryReserve
// and Release are the only way tickets_sold changes; IsSoldOut is an
// advisory read.
type EventStore interface {
	GetByID(ctx context.Context, id string) (*model.Event, error)
	TryReserve(ctx context.Context, eventID string) (bool, error)
	Release(ctx context.Context, eventID string) error
	IsSoldOut(ctx context.Context, eventID string) (bool, error)
}

// RegistrationStore persists registrations. Transition methods report
// whether the conditional update matched, so races surface as a false
// return instead of lost writes.
type RegistrationStore interface {
	CreateActive(ctx context.Context, reg *model.Registration) error
	GetByID(ctx context.Context, id string) (*model.Registration, error)
	FindActive(ctx context.Context, eventID, attendeeID string) (*model.Registration, error)
	MarkConfirmed(ctx context.Context, id string) (bool, error)
	MarkCancelled(ctx context.Context, id string, from model.RegistrationStatus) (bool, error)
	ClaimCharge(ctx context.Context, id, ref string) (bool, error)
	ReleaseCharge(ctx context.Context, id, ref string) error
	ListByEvent(ctx context.Context, eventID string) ([]model.Registration, error)
	ListByAttendee(ctx context.Context, attendeeID string) ([]model.Registration, error)
	ExpiredPending(ctx context.Context, now time.Time, limit int) ([]model.Registration, error)
}

// TicketStore persists tickets. Issue must create the ticket and bind
// it to the registration atomically; CheckIn must be a single
// test-and-set on the is_checked_in latch.
type TicketStore interface {
	Issue(ctx context.Context, registrationID string, t *model.Ticket) error
	GetByID(ctx context.Context, id string) (*model.Ticket, error)
	GetByQRToken(ctx context.Context, qrToken string) (*model.Ticket, error)
	ListByAttendee(ctx context.Context, attendeeID string) ([]model.Ticket, error)
	CheckIn(ctx context.Context, qrToken string, at time.Time) (*model.Ticket, error)
	SetStatus(ctx context.Context, ticketID string, status model.TicketStatus) (bool, error)
}
