// Package payment adapts the external payment gateway the engine
// delegates fund capture to. The engine never stores card data or
// retries charges on its own; it sends one charge request per
// confirmation attempt and acts on the returned status. Anything other
// than completed is failure.
package payment

import (
	"context"

	"github.com/iliyamo/event-ticketing/internal/model"
)

// ChargeRequest describes a single charge attempt. RegistrationID is
// forwarded as gateway metadata so a crashed confirmation can be
// reconciled against the gateway's records.
type ChargeRequest struct {
	AmountCents    int64  `json:"amount_cents"`
	Currency       string `json:"currency"`
	AttendeeID     string `json:"attendee_id"`
	EventID        string `json:"event_id"`
	RegistrationID string `json:"registration_id"`
	Description    string `json:"description,omitempty"`
}

// Gateway is the interface every payment provider adapter implements.
// Charge blocks until the gateway answers or ctx expires; callers must
// not hold locks across the call. A non-nil error means the outcome is
// unknown (timeout, transport failure) and the registration stays
// pending; a PaymentResult with a non-completed status is a definitive
// decline.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (model.PaymentResult, error)
}
