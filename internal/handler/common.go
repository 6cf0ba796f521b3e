// Package handler contains the HTTP handlers for the ticketing API.
// Handlers bind and validate request payloads, delegate to the service
// layer, and translate domain errors into HTTP statuses. Race losses
// such as a sold-out event or a duplicate scan come back as plain
// denial responses, never as server errors.
package handler

import (
	"errors"
	"net/http"

	"github.com/iliyamo/event-ticketing/internal/repository"
	"github.com/iliyamo/event-ticketing/internal/service"
)

// statusFor maps domain errors onto HTTP status codes. Unknown errors
// map to 500 and the handler hides the detail from the client.
func statusFor(err error) int {
	switch {
	case errors.Is(err, repository.ErrEventNotFound),
		errors.Is(err, repository.ErrRegistrationNotFound),
		errors.Is(err, repository.ErrTicketNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrSoldOut),
		errors.Is(err, repository.ErrAlreadyRegistered),
		errors.Is(err, repository.ErrAlreadyIssued),
		errors.Is(err, repository.ErrAlreadyCheckedIn),
		errors.Is(err, repository.ErrTicketNotActive),
		errors.Is(err, repository.ErrRegistrationClosed),
		errors.Is(err, service.ErrConfirmInProgress):
		return http.StatusConflict
	case errors.Is(err, service.ErrPaymentFailed):
		return http.StatusPaymentRequired
	case errors.Is(err, service.ErrUnknownTicketType),
		errors.Is(err, service.ErrEventStarted):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// clientMessage returns the error text safe to show the caller.
func clientMessage(err error) string {
	if statusFor(err) == http.StatusInternalServerError {
		return "internal error"
	}
	return err.Error()
}
