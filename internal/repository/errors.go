// Package repository defines sentinel errors that are reused across
// multiple repositories. These values let higher layers such as
// services and handlers distinguish between failure scenarios with
// errors.Is instead of string matching. Capacity and check-in race
// losses are expected outcomes of concurrent requests, so they are
// ordinary error values here, never panics.
package repository

import "errors"

// ErrEventNotFound is returned when no event exists with the given ID.
var ErrEventNotFound = errors.New("event not found")

// ErrRegistrationNotFound is returned when no registration exists with
// the given ID.
var ErrRegistrationNotFound = errors.New("registration not found")

// ErrTicketNotFound is returned when no ticket matches the given ID or
// QR token. At check-in this surfaces as an invalid code.
var ErrTicketNotFound = errors.New("ticket not found")

// ErrSoldOut is returned by TryReserve when every seat of the event is
// already reserved or sold. Retrying only helps if capacity frees up.
var ErrSoldOut = errors.New("event is sold out")

// ErrAlreadyRegistered is returned when the attendee already holds an
// active (pending or confirmed) registration for the event. The
// existing registration must be cancelled before re-registering.
var ErrAlreadyRegistered = errors.New("attendee already registered for this event")

// ErrAlreadyIssued is returned when a ticket has already been bound to
// the registration. Callers treat this as the idempotent success path
// and fetch the existing ticket.
var ErrAlreadyIssued = errors.New("ticket already issued for this registration")

// ErrTicketNotActive is returned when an operation requires an active
// ticket but the ticket is cancelled or refunded.
var ErrTicketNotActive = errors.New("ticket is not active")

// ErrAlreadyCheckedIn is returned when the ticket has already been used
// for entry. Exactly one of N concurrent check-in attempts succeeds;
// the rest receive this error.
var ErrAlreadyCheckedIn = errors.New("ticket already checked in")

// ErrRegistrationClosed is returned when a confirm or cancel targets a
// registration that has already reached cancelled. Nothing leaves the
// cancelled state.
var ErrRegistrationClosed = errors.New("registration is cancelled")
