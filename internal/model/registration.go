package model

import "time"

// RegistrationStatus is the closed set of states a registration can be
// in.  Transitions are pending→confirmed, pending→cancelled and
// confirmed→cancelled; nothing ever leaves cancelled.
type RegistrationStatus string

const (
	RegistrationPending   RegistrationStatus = "pending"
	RegistrationConfirmed RegistrationStatus = "confirmed"
	RegistrationCancelled RegistrationStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s RegistrationStatus) Valid() bool {
	switch s {
	case RegistrationPending, RegistrationConfirmed, RegistrationCancelled:
		return true
	}
	return false
}

// Active reports whether the registration still occupies a seat
// reservation.  Pending and confirmed registrations are active; a
// cancelled one has returned its seat to the ledger.
func (s RegistrationStatus) Active() bool {
	return s == RegistrationPending || s == RegistrationConfirmed
}

// CanTransitionTo reports whether moving from s to target is a legal
// state-machine transition.
func (s RegistrationStatus) CanTransitionTo(target RegistrationStatus) bool {
	switch s {
	case RegistrationPending:
		return target == RegistrationConfirmed || target == RegistrationCancelled
	case RegistrationConfirmed:
		return target == RegistrationCancelled
	}
	return false
}

// Registration records an attendee's intent to attend an event.  At
// most one active registration may exist per (event, attendee) pair.
// TicketID is set exactly once, when the registration is confirmed and
// a ticket is issued; it is never cleared afterwards.
//
// Fields:
//  ID           – primary key (UUID string).
//  EventID      – event being registered for.
//  AttendeeID   – attendee who registered.
//  TicketType   – pricing tier requested.
//  Status       – pending, confirmed or cancelled.
//  TicketID     – issued ticket, nil until confirmation completes.
//  ChargeRef    – claim token of the charge attempt that owns this
//                 registration; nil until a confirmation claims it.
//  RegisteredAt – when the registration was created.
//  ExpiresAt    – when an unconfirmed pending registration is reaped.
type Registration struct {
	ID           string             `json:"id"`                  // registrations.id
	EventID      string             `json:"event_id"`            // registrations.event_id
	AttendeeID   string             `json:"attendee_id"`         // registrations.attendee_id
	TicketType   TicketType         `json:"ticket_type"`         // registrations.ticket_type
	Status       RegistrationStatus `json:"status"`              // registrations.status
	TicketID     *string            `json:"ticket_id,omitempty"` // registrations.ticket_id (nullable)
	ChargeRef    *string            `json:"-"`                   // registrations.charge_ref (nullable)
	RegisteredAt time.Time          `json:"registered_at"`       // registrations.registered_at
	ExpiresAt    time.Time          `json:"expires_at"`          // registrations.expires_at
}
