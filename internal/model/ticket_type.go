package model

// TicketType is the pricing tier of a ticket.  Tickets are fungible
// within a type; there is no seat assignment.
type TicketType string

const (
	TicketGeneral        TicketType = "general"
	TicketVIP            TicketType = "vip"
	TicketAllAccess      TicketType = "allAccess"
	TicketCore           TicketType = "core"
	TicketExhibitor      TicketType = "exhibitor"
	TicketSpeaker        TicketType = "speaker"
	TicketVendor         TicketType = "vendor"
	TicketEventOrganizer TicketType = "eventOrganizer"
	TicketAdministrator  TicketType = "administrator"
)

// ticketPrices maps each tier to its price in cents.
var ticketPrices = map[TicketType]int64{
	TicketGeneral:        5000,
	TicketVIP:            10000,
	TicketAllAccess:      5000,
	TicketCore:           1500,
	TicketExhibitor:      2500,
	TicketSpeaker:        3000,
	TicketVendor:         2000,
	TicketEventOrganizer: 7500,
	TicketAdministrator:  10000,
}

// Valid reports whether t is a known ticket type.
func (t TicketType) Valid() bool {
	_, ok := ticketPrices[t]
	return ok
}

// PriceCents returns the price for the tier in cents.  Unknown types
// price at zero; callers must validate the type first.
func (t TicketType) PriceCents() int64 {
	return ticketPrices[t]
}
