package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticketing/internal/queue"
	"github.com/iliyamo/event-ticketing/internal/service"
)

// CheckInHandler exposes the gate-scanner endpoint.
type CheckInHandler struct {
	CheckIns *service.CheckInService
}

// NewCheckInHandler constructs a CheckInHandler.
func NewCheckInHandler(checkIns *service.CheckInService) *CheckInHandler {
	return &CheckInHandler{CheckIns: checkIns}
}

// CheckIn handles POST /v1/checkin. Scanners post the QR token read
// off the attendee's ticket; duplicate scans of the same token come
// back as 409, not 500, so the gate software can show "already used"
// instead of an error screen.
func (h *CheckInHandler) CheckIn(c echo.Context) error {
	var body struct {
		QRToken string `json:"qr_token"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.QRToken == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "qr_token is required"})
	}

	ticket, err := h.CheckIns.CheckIn(c.Request().Context(), body.QRToken)
	if err != nil {
		return c.JSON(statusFor(err), echo.Map{"error": clientMessage(err)})
	}

	ev := queue.TicketCheckedInEvent{
		TicketID:   ticket.ID,
		EventID:    ticket.EventID,
		AttendeeID: ticket.AttendeeID,
	}
	if ticket.CheckedInAt != nil {
		ev.CheckedInAt = ticket.CheckedInAt.Format(time.RFC3339)
	}
	ticketID := ticket.ID
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := queue.PublishTicketCheckedIn(ctx, ev); err != nil {
			log.Printf("checkin: publish ticket.checked_in for %s: %v", ticketID, err)
		}
	}()

	return c.JSON(http.StatusOK, echo.Map{
		"checked_in": true,
		"ticket":     ticket,
	})
}
