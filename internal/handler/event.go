package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticketing/internal/service"
)

// EventHandler exposes event CRUD and availability reads.
type EventHandler struct {
	Events        *service.EventService
	Registrations *service.RegistrationService
}

// NewEventHandler constructs an EventHandler.
func NewEventHandler(events *service.EventService, registrations *service.RegistrationService) *EventHandler {
	return &EventHandler{Events: events, Registrations: registrations}
}

// CreateEvent handles POST /v1/events.
func (h *EventHandler) CreateEvent(c echo.Context) error {
	var req service.CreateEventRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	event, err := h.Events.Create(c.Request().Context(), req)
	if err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return c.JSON(statusFor(err), echo.Map{"error": clientMessage(err)})
	}
	return c.JSON(http.StatusCreated, event)
}

// ListEvents handles GET /v1/events.
func (h *EventHandler) ListEvents(c echo.Context) error {
	events, err := h.Events.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, events)
}

// GetEvent handles GET /v1/events/:id.
func (h *EventHandler) GetEvent(c echo.Context) error {
	event, err := h.Events.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return c.JSON(statusFor(err), echo.Map{"error": clientMessage(err)})
	}
	return c.JSON(http.StatusOK, event)
}

// GetAvailability handles GET /v1/events/:id/availability. The answer
// is a point-in-time snapshot; a seat reported free can be gone by the
// time a registration is attempted.
func (h *EventHandler) GetAvailability(c echo.Context) error {
	soldOut, err := h.Events.IsSoldOut(c.Request().Context(), c.Param("id"))
	if err != nil {
		return c.JSON(statusFor(err), echo.Map{"error": clientMessage(err)})
	}
	return c.JSON(http.StatusOK, echo.Map{"sold_out": soldOut})
}

// ListRegistrations handles GET /v1/events/:id/registrations.
func (h *EventHandler) ListRegistrations(c echo.Context) error {
	regs, err := h.Registrations.ListByEvent(c.Request().Context(), c.Param("id"))
	if err != nil {
		return c.JSON(statusFor(err), echo.Map{"error": clientMessage(err)})
	}
	return c.JSON(http.StatusOK, regs)
}
