package model

import "time"

// TicketStatus is the closed set of states a ticket can be in.  A
// ticket leaves active exactly once, to cancelled or refunded, and
// never comes back.
type TicketStatus string

const (
	TicketActive    TicketStatus = "active"
	TicketCancelled TicketStatus = "cancelled"
	TicketRefunded  TicketStatus = "refunded"
)

// Valid reports whether s is one of the known statuses.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketActive, TicketCancelled, TicketRefunded:
		return true
	}
	return false
}

// Ticket is proof of a paid seat, bound 1:1 to a confirmed
// registration.  The QR token is an opaque random string; it carries
// no identifying information and resolves to the ticket only through a
// server-side lookup.  IsCheckedIn is a one-way latch: it flips
// false→true at most once and only while the ticket is active.
//
// Fields:
//  ID          – primary key (UUID string).
//  EventID     – event the ticket admits to.
//  AttendeeID  – holder of the ticket.
//  TicketType  – pricing tier.
//  PriceCents  – price paid, in cents.
//  QRToken     – opaque random token presented at the venue.
//  Status      – active, cancelled or refunded.
//  IsCheckedIn – whether the ticket has been used for entry.
//  CheckedInAt – when entry happened, nil until check-in.
//  CreatedAt   – when the ticket was issued.
type Ticket struct {
	ID          string       `json:"id"`                      // tickets.id
	EventID     string       `json:"event_id"`                // tickets.event_id
	AttendeeID  string       `json:"attendee_id"`             // tickets.attendee_id
	TicketType  TicketType   `json:"ticket_type"`             // tickets.ticket_type
	PriceCents  int64        `json:"price_cents"`             // tickets.price_cents
	QRToken     string       `json:"qr_token"`                // tickets.qr_token (unique)
	Status      TicketStatus `json:"status"`                  // tickets.status
	IsCheckedIn bool         `json:"is_checked_in"`           // tickets.is_checked_in
	CheckedInAt *time.Time   `json:"checked_in_at,omitempty"` // tickets.checked_in_at (nullable)
	CreatedAt   time.Time    `json:"created_at"`              // tickets.created_at
}

// Admits reports whether the ticket would currently be accepted at the
// door: it must be active and not yet checked in.
func (t *Ticket) Admits() bool {
	return t.Status == TicketActive && !t.IsCheckedIn
}

// CanBeRefunded reports whether a refund is still permitted.  A
// checked-in ticket has already delivered its benefit and cannot be
// refunded or cancelled.
func (t *Ticket) CanBeRefunded() bool {
	return t.Status == TicketActive && !t.IsCheckedIn
}
