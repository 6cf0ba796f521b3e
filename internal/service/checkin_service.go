package service

import (
	"context"
	"errors"
	"time"

	"github.com/iliyamo/event-ticketing/internal/model"
	"github.com/iliyamo/event-ticketing/internal/monitoring"
	"github.com/iliyamo/event-ticketing/internal/repository"
)

// CheckInService admits ticket holders at the venue. It is the
// component most exposed to legitimate duplicate calls: double-taps at
// a scanner and network retries arrive as near-simultaneous requests
// for the same QR token, and exactly one of them may succeed.
type CheckInService struct {
	tickets TicketStore
	now     func() time.Time
}

// NewCheckInService constructs a CheckInService.
func NewCheckInService(tickets TicketStore) *CheckInService {
	return &CheckInService{tickets: tickets, now: time.Now}
}

// CheckIn resolves the presented QR token and flips the ticket's
// check-in latch. The store performs the test-and-set as one atomic
// operation, so no client-side de-duplication is needed. Failures are
// ordinary values for the scanning operator:
//
//	ErrTicketNotFound    – unknown token (invalid code)
//	ErrTicketNotActive   – cancelled or refunded ticket
//	ErrAlreadyCheckedIn  – the latch was already set
func (s *CheckInService) CheckIn(ctx context.Context, qrToken string) (*model.Ticket, error) {
	ticket, err := s.tickets.CheckIn(ctx, qrToken, s.now().UTC())
	switch {
	case err == nil:
		monitoring.CheckIn("success")
		return ticket, nil
	case errors.Is(err, repository.ErrTicketNotFound):
		monitoring.CheckIn("invalid_code")
	case errors.Is(err, repository.ErrTicketNotActive):
		monitoring.CheckIn("not_active")
	case errors.Is(err, repository.ErrAlreadyCheckedIn):
		monitoring.CheckIn("duplicate")
	default:
		monitoring.CheckIn("error")
	}
	return nil, err
}
