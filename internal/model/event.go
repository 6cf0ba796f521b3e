package model

import "time"

// Event is a bookable event with a fixed seat capacity.  The
// tickets_sold counter is the capacity ledger: it only ever changes
// through EventRepo.TryReserve and EventRepo.Release, which keep the
// invariant 0 <= tickets_sold <= capacity under concurrent requests.
//
// Fields:
//  ID          – primary key (UUID string).
//  Title       – event title shown to attendees.
//  Description – free-form description.
//  StartTime   – when the event starts (UTC).
//  EndTime     – when the event ends (UTC).
//  OrganizerID – user who created the event.
//  VenueID     – venue where the event takes place.
//  Capacity    – maximum number of tickets that may be sold.
//  TicketsSold – seats currently reserved or sold.
//  CreatedAt   – creation timestamp.
type Event struct {
	ID          string    `json:"id"`           // events.id
	Title       string    `json:"title"`        // events.title
	Description string    `json:"description"`  // events.description
	StartTime   time.Time `json:"start_time"`   // events.start_time
	EndTime     time.Time `json:"end_time"`     // events.end_time
	OrganizerID string    `json:"organizer_id"` // events.organizer_id
	VenueID     string    `json:"venue_id"`     // events.venue_id
	Capacity    int       `json:"capacity"`     // events.capacity
	TicketsSold int       `json:"tickets_sold"` // events.tickets_sold
	CreatedAt   time.Time `json:"created_at"`   // events.created_at
}

// Remaining returns the number of seats still available.
func (e *Event) Remaining() int {
	return e.Capacity - e.TicketsSold
}

// IsSoldOut reports whether every seat has been reserved or sold.  The
// value is advisory: by the time a caller acts on it another request
// may have taken the last seat.  Reservations must go through the
// ledger's atomic TryReserve, never through this check.
func (e *Event) IsSoldOut() bool {
	return e.TicketsSold >= e.Capacity
}

// CanRegister reports whether the event still accepts registrations:
// seats remain and the event has not started yet.
func (e *Event) CanRegister(now time.Time) bool {
	return !e.IsSoldOut() && e.StartTime.After(now)
}
