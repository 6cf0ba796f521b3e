package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticketing/internal/service"
)

// TicketHandler exposes ticket reads, cancellation and refunds.
type TicketHandler struct {
	Tickets *service.TicketService
}

// NewTicketHandler constructs a TicketHandler.
func NewTicketHandler(tickets *service.TicketService) *TicketHandler {
	return &TicketHandler{Tickets: tickets}
}

// Get handles GET /v1/tickets/:id.
func (h *TicketHandler) Get(c echo.Context) error {
	ticket, err := h.Tickets.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return c.JSON(statusFor(err), echo.Map{"error": clientMessage(err)})
	}
	return c.JSON(http.StatusOK, ticket)
}

// ListByAttendee handles GET /v1/attendees/:id/tickets.
func (h *TicketHandler) ListByAttendee(c echo.Context) error {
	tickets, err := h.Tickets.ListByAttendee(c.Request().Context(), c.Param("id"))
	if err != nil {
		return c.JSON(statusFor(err), echo.Map{"error": clientMessage(err)})
	}
	return c.JSON(http.StatusOK, tickets)
}

// Cancel handles POST /v1/tickets/:id/cancel. Only an active,
// not-yet-used ticket can be cancelled.
func (h *TicketHandler) Cancel(c echo.Context) error {
	ticket, err := h.Tickets.Cancel(c.Request().Context(), c.Param("id"))
	if err != nil {
		return c.JSON(statusFor(err), echo.Map{"error": clientMessage(err)})
	}
	return c.JSON(http.StatusOK, ticket)
}

// Refund handles POST /v1/tickets/:id/refund. A checked-in ticket
// cannot be refunded.
func (h *TicketHandler) Refund(c echo.Context) error {
	ticket, err := h.Tickets.Refund(c.Request().Context(), c.Param("id"))
	if err != nil {
		return c.JSON(statusFor(err), echo.Map{"error": clientMessage(err)})
	}
	return c.JSON(http.StatusOK, ticket)
}

// Validate handles GET /v1/tickets/validate?token=... . It resolves a
// QR token to its ticket without checking anyone in; venue staff use
// it to preview a ticket.
func (h *TicketHandler) Validate(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token is required"})
	}
	ticket, err := h.Tickets.ValidateQRToken(c.Request().Context(), token)
	if err != nil {
		return c.JSON(statusFor(err), echo.Map{"error": clientMessage(err)})
	}
	return c.JSON(http.StatusOK, echo.Map{"valid": ticket.Admits(), "ticket": ticket})
}
