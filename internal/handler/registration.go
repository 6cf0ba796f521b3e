package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticketing/internal/model"
	"github.com/iliyamo/event-ticketing/internal/queue"
	"github.com/iliyamo/event-ticketing/internal/service"
)

// RegistrationHandler exposes the registration lifecycle: register,
// confirm (payment + ticket issuance) and cancel.
type RegistrationHandler struct {
	Registrations *service.RegistrationService
}

// NewRegistrationHandler constructs a RegistrationHandler.
func NewRegistrationHandler(registrations *service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{Registrations: registrations}
}

// Register handles POST /v1/events/:id/register. On success the
// attendee holds a pending registration and one reserved seat; the
// hold expires unless confirmed in time.
func (h *RegistrationHandler) Register(c echo.Context) error {
	var body struct {
		AttendeeID string `json:"attendee_id"`
		TicketType string `json:"ticket_type"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.AttendeeID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "attendee_id is required"})
	}
	reg, err := h.Registrations.Register(c.Request().Context(), c.Param("id"), body.AttendeeID, model.TicketType(body.TicketType))
	if err != nil {
		return c.JSON(statusFor(err), echo.Map{"error": clientMessage(err)})
	}
	return c.JSON(http.StatusCreated, reg)
}

// Confirm handles POST /v1/registrations/:id/confirm. It charges the
// attendee and issues the ticket. Retrying a confirmed registration
// returns the same ticket without charging again.
func (h *RegistrationHandler) Confirm(c echo.Context) error {
	reg, ticket, issued, err := h.Registrations.Confirm(c.Request().Context(), c.Param("id"))
	if err != nil {
		return c.JSON(statusFor(err), echo.Map{"error": clientMessage(err)})
	}

	// Fire-and-forget notification; a broker outage never undoes the
	// confirmation. Only a freshly minted ticket notifies, so a retried
	// confirmation does not re-notify the attendee.
	if issued && ticket != nil {
		ev := queue.TicketIssuedEvent{
			TicketID:       ticket.ID,
			RegistrationID: reg.ID,
			EventID:        ticket.EventID,
			AttendeeID:     ticket.AttendeeID,
			TicketType:     string(ticket.TicketType),
			PriceCents:     ticket.PriceCents,
			IssuedAt:       ticket.CreatedAt.Format(time.RFC3339),
		}
		ticketID := ticket.ID
		go func() {
			// Detached from the request context so a client disconnect
			// does not abort the publish.
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := queue.PublishTicketIssued(ctx, ev); err != nil {
				log.Printf("registration: publish ticket.issued for %s: %v", ticketID, err)
			}
		}()
	}

	return c.JSON(http.StatusOK, echo.Map{
		"registration": reg,
		"ticket":       ticket,
	})
}

// Cancel handles POST /v1/registrations/:id/cancel. The seat returns
// to the pool and any issued ticket is voided; cancelling twice is a
// no-op.
func (h *RegistrationHandler) Cancel(c echo.Context) error {
	reg, err := h.Registrations.Cancel(c.Request().Context(), c.Param("id"))
	if err != nil {
		return c.JSON(statusFor(err), echo.Map{"error": clientMessage(err)})
	}
	return c.JSON(http.StatusOK, reg)
}

// Get handles GET /v1/registrations/:id.
func (h *RegistrationHandler) Get(c echo.Context) error {
	reg, err := h.Registrations.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return c.JSON(statusFor(err), echo.Map{"error": clientMessage(err)})
	}
	return c.JSON(http.StatusOK, reg)
}

// ListByAttendee handles GET /v1/attendees/:id/registrations.
func (h *RegistrationHandler) ListByAttendee(c echo.Context) error {
	regs, err := h.Registrations.ListByAttendee(c.Request().Context(), c.Param("id"))
	if err != nil {
		return c.JSON(statusFor(err), echo.Map{"error": clientMessage(err)})
	}
	return c.JSON(http.StatusOK, regs)
}
