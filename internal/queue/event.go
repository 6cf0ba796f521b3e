// Package queue defines message payloads exchanged over the message
// broker and the background consumer that turns them into attendee
// notifications. Publishing is fire-and-forget: a broker outage must
// never roll back a ticket or a check-in.
package queue

// TicketIssuedEvent is published when a ticket has been minted for a
// confirmed registration. It carries enough for downstream consumers
// to notify the attendee without querying the primary database. The QR
// token is deliberately not included; it only travels to the attendee
// over the direct API response.
type TicketIssuedEvent struct {
	TicketID       string `json:"ticket_id"`
	RegistrationID string `json:"registration_id"`
	EventID        string `json:"event_id"`
	AttendeeID     string `json:"attendee_id"`
	TicketType     string `json:"ticket_type"`
	PriceCents     int64  `json:"price_cents"`
	IssuedAt       string `json:"issued_at"`
}

// TicketCheckedInEvent is published when a ticket holder is admitted
// at the venue.
type TicketCheckedInEvent struct {
	TicketID    string `json:"ticket_id"`
	EventID     string `json:"event_id"`
	AttendeeID  string `json:"attendee_id"`
	CheckedInAt string `json:"checked_in_at"`
}
