package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/event-ticketing/internal/model"
	"github.com/iliyamo/event-ticketing/internal/monitoring"
	"github.com/iliyamo/event-ticketing/internal/repository"
)

// TicketService is the ticket issuer. It mints at most one ticket per
// confirmed registration, no matter how often confirmation is retried,
// and handles post-issuance cancellation and refunds.
type TicketService struct {
	regs    RegistrationStore
	tickets TicketStore
	now     func() time.Time
}

// NewTicketService constructs a TicketService with its dependencies.
func NewTicketService(regs RegistrationStore, tickets TicketStore) *TicketService {
	return &TicketService{regs: regs, tickets: tickets, now: time.Now}
}

// newQRToken generates the opaque token encoded into the ticket's QR
// symbol: 32 random bytes, hex encoded. The token carries no ticket or
// attendee identifiers, so holding one ticket gives no way to forge or
// enumerate others; the unique index on tickets.qr_token enforces
// global uniqueness.
func newQRToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// Issue mints a ticket for a confirmed registration. It is idempotent
// with respect to the registration's ticket binding: when a ticket is
// already bound the existing one is returned rather than a second one
// minted, which makes confirmation safe to retry after a partial
// failure. Ticket creation and the registration bind commit together
// in the store. The returned bool reports whether this call minted the
// ticket, so notifications fire on first issuance only.
func (s *TicketService) Issue(ctx context.Context, reg *model.Registration) (*model.Ticket, bool, error) {
	if reg.TicketID != nil {
		t, err := s.tickets.GetByID(ctx, *reg.TicketID)
		return t, false, err
	}

	token, err := newQRToken()
	if err != nil {
		return nil, false, err
	}
	ticket := &model.Ticket{
		ID:         uuid.New().String(),
		EventID:    reg.EventID,
		AttendeeID: reg.AttendeeID,
		TicketType: reg.TicketType,
		PriceCents: reg.TicketType.PriceCents(),
		QRToken:    token,
		Status:     model.TicketActive,
		CreatedAt:  s.now().UTC(),
	}

	err = s.tickets.Issue(ctx, reg.ID, ticket)
	if errors.Is(err, repository.ErrAlreadyIssued) {
		// Lost the issuance race; the bound ticket is the real one.
		fresh, ferr := s.regs.GetByID(ctx, reg.ID)
		if ferr != nil {
			return nil, false, ferr
		}
		if fresh.TicketID == nil {
			return nil, false, err
		}
		t, err := s.tickets.GetByID(ctx, *fresh.TicketID)
		return t, false, err
	}
	if err != nil {
		return nil, false, err
	}
	monitoring.TicketIssued()
	return ticket, true, nil
}

// Cancel voids an active, not-yet-used ticket.
func (s *TicketService) Cancel(ctx context.Context, ticketID string) (*model.Ticket, error) {
	return s.retire(ctx, ticketID, model.TicketCancelled)
}

// Refund refunds an active, not-yet-used ticket. A checked-in ticket
// cannot be refunded: the holder already consumed the benefit.
func (s *TicketService) Refund(ctx context.Context, ticketID string) (*model.Ticket, error) {
	return s.retire(ctx, ticketID, model.TicketRefunded)
}

func (s *TicketService) retire(ctx context.Context, ticketID string, status model.TicketStatus) (*model.Ticket, error) {
	ok, err := s.tickets.SetStatus(ctx, ticketID, status)
	if err != nil {
		return nil, err
	}
	if !ok {
		// The conditional update matched nothing; look up why.
		t, err := s.tickets.GetByID(ctx, ticketID)
		if err != nil {
			return nil, err
		}
		if t.IsCheckedIn {
			return nil, repository.ErrAlreadyCheckedIn
		}
		return nil, repository.ErrTicketNotActive
	}
	return s.tickets.GetByID(ctx, ticketID)
}

// Get returns a ticket by ID.
func (s *TicketService) Get(ctx context.Context, ticketID string) (*model.Ticket, error) {
	return s.tickets.GetByID(ctx, ticketID)
}

// ListByAttendee returns every ticket held by an attendee.
func (s *TicketService) ListByAttendee(ctx context.Context, attendeeID string) ([]model.Ticket, error) {
	return s.tickets.ListByAttendee(ctx, attendeeID)
}

// ValidateQRToken resolves a QR token to its ticket without mutating
// anything. Venue tooling uses it to preview a ticket before the
// actual check-in.
func (s *TicketService) ValidateQRToken(ctx context.Context, qrToken string) (*model.Ticket, error) {
	return s.tickets.GetByQRToken(ctx, qrToken)
}
