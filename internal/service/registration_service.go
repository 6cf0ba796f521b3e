package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/event-ticketing/internal/model"
	"github.com/iliyamo/event-ticketing/internal/monitoring"
	"github.com/iliyamo/event-ticketing/internal/payment"
	"github.com/iliyamo/event-ticketing/internal/repository"
)

// ErrPaymentFailed is returned when the gateway definitively declined
// the charge. The registration has been cancelled and its seat
// released by the time callers see this error.
var ErrPaymentFailed = errors.New("payment failed")

// ErrUnknownTicketType is returned when the requested tier is not one
// of the configured ticket types.
var ErrUnknownTicketType = errors.New("unknown ticket type")

// ErrEventStarted is returned when registration is attempted after the
// event's start time.
var ErrEventStarted = errors.New("event has already started")

// ErrConfirmInProgress is returned when another confirmation attempt
// holds the charge claim for the registration. The caller retries once
// the in-flight attempt resolves.
var ErrConfirmInProgress = errors.New("confirmation already in progress")

// RegistrationService drives the registration state machine:
// pending→confirmed on successful payment, pending/confirmed→cancelled
// on decline or cancellation. Seat capacity flows exclusively through
// the event store's TryReserve/Release pair, and no in-process lock is
// held across the payment gateway call.
type RegistrationService struct {
	events  EventStore
	regs    RegistrationStore
	issuer  *TicketService
	gateway payment.Gateway
	holdTTL time.Duration
	now     func() time.Time
}

// NewRegistrationService constructs a RegistrationService. holdTTL is
// how long a pending registration keeps its seat before the reaper may
// cancel it.
func NewRegistrationService(events EventStore, regs RegistrationStore, issuer *TicketService, gateway payment.Gateway, holdTTL time.Duration) *RegistrationService {
	if holdTTL <= 0 {
		holdTTL = 15 * time.Minute
	}
	return &RegistrationService{
		events:  events,
		regs:    regs,
		issuer:  issuer,
		gateway: gateway,
		holdTTL: holdTTL,
		now:     time.Now,
	}
}

// Register reserves a seat and records the attendee's intent as a
// pending registration. The sequence is: duplicate pre-check, atomic
// seat reservation, conditional insert. Any failure after the seat was
// granted releases it before returning, so capacity can never leak.
func (s *RegistrationService) Register(ctx context.Context, eventID, attendeeID string, ticketType model.TicketType) (*model.Registration, error) {
	if !ticketType.Valid() {
		return nil, ErrUnknownTicketType
	}
	now := s.now().UTC()

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.StartTime.IsZero() && !event.StartTime.After(now) {
		return nil, ErrEventStarted
	}

	// Cheap pre-check; the conditional insert below still closes the
	// duplicate race.
	if _, err := s.regs.FindActive(ctx, eventID, attendeeID); err == nil {
		monitoring.Registration("duplicate")
		return nil, repository.ErrAlreadyRegistered
	} else if !errors.Is(err, repository.ErrRegistrationNotFound) {
		return nil, err
	}

	granted, err := s.events.TryReserve(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !granted {
		monitoring.Registration("sold_out")
		return nil, repository.ErrSoldOut
	}

	reg := &model.Registration{
		ID:           uuid.New().String(),
		EventID:      eventID,
		AttendeeID:   attendeeID,
		TicketType:   ticketType,
		Status:       model.RegistrationPending,
		RegisteredAt: now,
		ExpiresAt:    now.Add(s.holdTTL),
	}
	if err := s.regs.CreateActive(ctx, reg); err != nil {
		// The seat was granted but no registration row exists; give
		// it back before surfacing the error.
		if relErr := s.events.Release(ctx, eventID); relErr != nil {
			log.Printf("registration: release after failed insert for event %s: %v", eventID, relErr)
		}
		if errors.Is(err, repository.ErrAlreadyRegistered) {
			monitoring.Registration("duplicate")
		}
		return nil, err
	}
	monitoring.Registration("granted")
	return reg, nil
}

// Confirm charges the attendee and, on success, confirms the
// registration and issues its ticket. Before touching the gateway the
// attempt must claim the registration's charge_ref, so of any number
// of concurrent confirmations exactly one charges; the rest resolve
// against its outcome or get ErrConfirmInProgress while it is still in
// flight. Confirm is idempotent: calling it again on an already
// confirmed registration does not charge again and returns the same
// ticket. If issuance fails after payment succeeded the registration
// stays confirmed without a ticket and the seat is kept; a later
// Confirm retries issuance only.
//
// The returned bool reports whether the ticket was minted by this
// call, so callers notify the attendee once, not on every retry.
func (s *RegistrationService) Confirm(ctx context.Context, registrationID string) (*model.Registration, *model.Ticket, bool, error) {
	reg, err := s.regs.GetByID(ctx, registrationID)
	if err != nil {
		return nil, nil, false, err
	}

	switch reg.Status {
	case model.RegistrationCancelled:
		return nil, nil, false, repository.ErrRegistrationClosed
	case model.RegistrationConfirmed:
		// Retry path: payment already captured, resume at issuance.
		return s.finishConfirmed(ctx, reg)
	}

	// Stake the exclusive right to charge before suspending into the
	// gateway call. No lock is held; losers return immediately.
	claimRef := uuid.New().String()
	claimed, err := s.regs.ClaimCharge(ctx, reg.ID, claimRef)
	if err != nil {
		return nil, nil, false, err
	}
	if !claimed {
		fresh, err := s.regs.GetByID(ctx, reg.ID)
		if err != nil {
			return nil, nil, false, err
		}
		switch fresh.Status {
		case model.RegistrationConfirmed:
			return s.finishConfirmed(ctx, fresh)
		case model.RegistrationCancelled:
			return nil, nil, false, repository.ErrRegistrationClosed
		}
		monitoring.Confirmation("in_progress")
		return fresh, nil, false, ErrConfirmInProgress
	}

	result, err := s.gateway.Charge(ctx, payment.ChargeRequest{
		AmountCents:    reg.TicketType.PriceCents(),
		Currency:       "USD",
		AttendeeID:     reg.AttendeeID,
		EventID:        reg.EventID,
		RegistrationID: reg.ID,
		Description:    fmt.Sprintf("%s ticket", reg.TicketType),
	})
	if err != nil {
		// Outcome unknown (timeout, transport failure): give the claim
		// back so a retry can resolve it. The registration stays
		// pending and keeps its seat until then or until the reaper
		// expires it; the gateway reconciles duplicates by the
		// registration ID it received.
		if relErr := s.regs.ReleaseCharge(ctx, reg.ID, claimRef); relErr != nil {
			log.Printf("registration: release charge claim for %s: %v", reg.ID, relErr)
		}
		monitoring.Confirmation("error")
		return reg, nil, false, fmt.Errorf("charge attendee: %w", err)
	}
	if !result.Completed() {
		if ok, err := s.regs.MarkCancelled(ctx, reg.ID, model.RegistrationPending); err != nil {
			return reg, nil, false, err
		} else if ok {
			if relErr := s.events.Release(ctx, reg.EventID); relErr != nil {
				log.Printf("registration: release after declined payment for event %s: %v", reg.EventID, relErr)
			}
			monitoring.SeatReleased("payment_failed")
		}
		monitoring.Confirmation("payment_failed")
		if result.Reason != "" {
			return nil, nil, false, fmt.Errorf("%w: %s", ErrPaymentFailed, result.Reason)
		}
		return nil, nil, false, ErrPaymentFailed
	}

	ok, err := s.regs.MarkConfirmed(ctx, reg.ID)
	if err != nil {
		return reg, nil, false, err
	}
	if !ok {
		// Only a cancellation (explicit, or the reaper at expiry) can
		// contend here; the claim excludes other confirmations.
		fresh, err := s.regs.GetByID(ctx, reg.ID)
		if err != nil {
			return nil, nil, false, err
		}
		if fresh.Status != model.RegistrationConfirmed {
			// Cancelled under us after a successful charge; the
			// payment reference is logged for manual reconciliation.
			log.Printf("registration %s cancelled during confirmation, payment ref %s needs review", reg.ID, result.ReferenceID)
			return nil, nil, false, repository.ErrRegistrationClosed
		}
		reg = fresh
	}
	reg.Status = model.RegistrationConfirmed
	monitoring.Confirmation("confirmed")

	// Payment captured: the attendee is entitled to a seat even if
	// issuance fails here. Never release on this path.
	ticket, minted, err := s.issuer.Issue(ctx, reg)
	if err != nil {
		return reg, nil, false, fmt.Errorf("issue ticket: %w", err)
	}
	reg.TicketID = &ticket.ID
	return reg, ticket, minted, nil
}

// finishConfirmed resumes a confirmed registration at issuance without
// touching the gateway.
func (s *RegistrationService) finishConfirmed(ctx context.Context, reg *model.Registration) (*model.Registration, *model.Ticket, bool, error) {
	ticket, minted, err := s.issuer.Issue(ctx, reg)
	if err != nil {
		return reg, nil, false, err
	}
	reg.TicketID = &ticket.ID
	return reg, ticket, minted, nil
}

// Cancel cancels a pending or confirmed registration and returns its
// seat to the ledger. When a ticket was already issued it is cancelled
// first; a checked-in ticket blocks cancellation because the seat was
// consumed. Cancelling an already cancelled registration is a no-op.
//
// The status can move under us: a concurrent confirmation turns
// pending into confirmed between the read and the conditional update.
// A missed transition is retried from the fresh state instead of being
// reported as success, and because statuses only ever move forward
// (pending→confirmed→cancelled) the loop terminates within two
// retries.
func (s *RegistrationService) Cancel(ctx context.Context, registrationID string) (*model.Registration, error) {
	for attempt := 0; attempt < 3; attempt++ {
		reg, err := s.regs.GetByID(ctx, registrationID)
		if err != nil {
			return nil, err
		}
		if reg.Status == model.RegistrationCancelled {
			return reg, nil
		}

		if reg.TicketID != nil {
			if _, err := s.issuer.Cancel(ctx, *reg.TicketID); err != nil {
				if errors.Is(err, repository.ErrAlreadyCheckedIn) {
					return nil, err
				}
				// A ticket that already left active does not block
				// cancelling the registration.
				if !errors.Is(err, repository.ErrTicketNotActive) {
					return nil, err
				}
			}
		}

		ok, err := s.regs.MarkCancelled(ctx, reg.ID, reg.Status)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue // lost a status race; retry from the fresh state
		}
		if relErr := s.events.Release(ctx, reg.EventID); relErr != nil {
			log.Printf("registration: release after cancellation for event %s: %v", reg.EventID, relErr)
		}
		monitoring.SeatReleased("cancelled")
		return s.regs.GetByID(ctx, registrationID)
	}
	return nil, fmt.Errorf("cancel registration %s: state kept changing", registrationID)
}

// Get returns a registration by ID.
func (s *RegistrationService) Get(ctx context.Context, registrationID string) (*model.Registration, error) {
	return s.regs.GetByID(ctx, registrationID)
}

// ListByEvent returns every registration for an event, including
// cancelled ones kept as audit trail.
func (s *RegistrationService) ListByEvent(ctx context.Context, eventID string) ([]model.Registration, error) {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.regs.ListByEvent(ctx, eventID)
}

// ListByAttendee returns every registration made by an attendee.
func (s *RegistrationService) ListByAttendee(ctx context.Context, attendeeID string) ([]model.Registration, error) {
	return s.regs.ListByAttendee(ctx, attendeeID)
}
