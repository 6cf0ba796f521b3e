// Package router wires HTTP routes to their handlers and attaches the
// Redis-backed middlewares.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/event-ticketing/internal/config"
	"github.com/iliyamo/event-ticketing/internal/handler"
	"github.com/iliyamo/event-ticketing/internal/middleware"
)

// Handlers groups everything RegisterRoutes needs. Fields may be nil in
// tests that exercise a subset of the API.
type Handlers struct {
	Events        *handler.EventHandler
	Registrations *handler.RegistrationHandler
	Tickets       *handler.TicketHandler
	CheckIns      *handler.CheckInHandler
	Health        echo.HandlerFunc
}

// RegisterRoutes registers the full API surface on the provided Echo
// instance. Read-only event endpoints sit behind the response cache;
// the registration and check-in endpoints sit behind the rate limiter
// because those are the ones retry storms hammer during an on-sale.
func RegisterRoutes(e *echo.Echo, h Handlers, rdb *redis.Client) {
	if h.Health != nil {
		e.GET("/healthz", h.Health)
	}
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	v1 := e.Group("/v1")

	if h.Events != nil {
		v1.POST("/events", h.Events.CreateEvent)
		v1.GET("/events", h.Events.ListEvents, cache)
		v1.GET("/events/:id", h.Events.GetEvent, cache)
		v1.GET("/events/:id/availability", h.Events.GetAvailability, cache)
		v1.GET("/events/:id/registrations", h.Events.ListRegistrations)
	}

	if h.Registrations != nil {
		v1.POST("/events/:id/register", h.Registrations.Register, limit)
		v1.POST("/registrations/:id/confirm", h.Registrations.Confirm)
		v1.POST("/registrations/:id/cancel", h.Registrations.Cancel)
		v1.GET("/registrations/:id", h.Registrations.Get)
		v1.GET("/attendees/:id/registrations", h.Registrations.ListByAttendee)
	}

	if h.Tickets != nil {
		v1.GET("/tickets/validate", h.Tickets.Validate)
		v1.GET("/tickets/:id", h.Tickets.Get)
		v1.POST("/tickets/:id/cancel", h.Tickets.Cancel)
		v1.POST("/tickets/:id/refund", h.Tickets.Refund)
		v1.GET("/attendees/:id/tickets", h.Tickets.ListByAttendee)
	}

	if h.CheckIns != nil {
		v1.POST("/checkin", h.CheckIns.CheckIn, limit)
	}
}
